package output

// Translator renders user-facing strings in the configured locale.
// Keys are dotted ("errors.event_full"); data fills template placeholders and may be nil.
// An unknown key renders as the key itself.
type Translator interface {
	T(key string, data map[string]any) string
	Locale() string
}
