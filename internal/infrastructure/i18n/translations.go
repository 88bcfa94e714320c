package i18n

import (
	"embed"
	"errors"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"futbal/internal/domain"
	"futbal/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.Translator port.
var _ output.Translator = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer, bound to one locale
// with English as the fallback.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	tag       language.Tag
	log       *zap.Logger
}

// NewTranslator builds a Translator for locale (e.g. "fr"). An unparsable locale
// falls back to English.
func NewTranslator(locale string, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	tag, err := language.Parse(locale)
	if err != nil {
		logger.Warn("i18n: unknown locale, using English", zap.String("locale", locale), zap.Error(err))
		tag = language.English
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.fr.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Error("i18n: failed to load message file", zap.String("file", file), zap.Error(err))
		}
	}

	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		tag:       tag,
		log:       logger,
	}
}

func (t *Translator) Locale() string { return t.tag.String() }

// T renders the message identified by key. A "Count" entry in data selects the
// plural form. Unknown keys render as the key itself.
func (t *Translator) T(key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	cfg := &i18n.LocalizeConfig{MessageID: key, TemplateData: data}
	if n, ok := data["Count"]; ok {
		cfg.PluralCount = n
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		t.log.Debug("i18n: localize failed", zap.String("key", key), zap.String("locale", t.Locale()), zap.Error(err))
		return key
	}
	return msg
}

// ErrorMessage resolves err to a user-facing message. Server rejections are shown
// verbatim; validation errors name the field; other domain errors are looked up as
// "errors.<code>"; anything else is "errors.generic".
func ErrorMessage(t output.Translator, err error) string {
	if err == nil {
		return ""
	}
	var rejected *domain.ServerRejected
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return t.T("errors.validation", map[string]any{"Field": invalid.Field, "Reason": invalid.Reason})
	}
	if code := domain.Code(err); code != "" {
		return t.T("errors."+code, nil)
	}
	return t.T("errors.generic", nil)
}
