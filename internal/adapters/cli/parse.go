package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/pkg/datetime"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// tokenize splits a command line on whitespace. Single or double quotes group
// words, and a backslash escapes the next character.
func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		quote   rune
		inToken bool
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped, inToken = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inToken = r, true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// fieldAliases maps the short names accepted on the command line to field names.
var fieldAliases = map[string]string{
	"title":            "title",
	"desc":             "description",
	"description":      "description",
	"type":             "event_type",
	"event_type":       "event_type",
	"where":            "location",
	"location":         "location",
	"lat":              "latitude",
	"latitude":         "latitude",
	"lng":              "longitude",
	"lon":              "longitude",
	"longitude":        "longitude",
	"start":            "start_date",
	"start_date":       "start_date",
	"end":              "end_date",
	"end_date":         "end_date",
	"max":              "max_participants",
	"max_participants": "max_participants",
}

// assignments parses key=value arguments. Later keys override earlier ones.
func assignments(args []string, aliases map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, domain.Invalid(arg, "expected field=value")
		}
		name, known := aliases[strings.ToLower(strings.TrimSpace(key))]
		if !known {
			return nil, domain.Invalid(key, "unknown field")
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return uint(n), nil
}

// typeChoices joins the event type names with sep, followed by "all" when withAll.
func typeChoices(sep string, withAll bool) string {
	names := make([]string, 0, len(entities.EventTypes)+1)
	for _, t := range entities.EventTypes {
		names = append(names, string(t))
	}
	if withAll {
		names = append(names, string(entities.EventTypeAll))
	}
	return strings.Join(names, sep)
}

func parseEventType(s string) (entities.EventType, error) {
	t := entities.EventType(strings.ToLower(s))
	if t != "" && !t.Valid() {
		return "", domain.Invalid("event_type", "must be one of "+typeChoices(", ", false))
	}
	return t, nil
}

// parseMax reads a capacity. "", "none" and "unlimited" mean no limit. Other
// numbers, zero included, are left to the draft validation.
func parseMax(s string) (*int, error) {
	switch strings.ToLower(s) {
	case "", "none", "unlimited":
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, domain.Invalid("max_participants", "must be a positive integer")
	}
	return &n, nil
}

func parseCoordinates(fields map[string]string) (*entities.Coordinates, bool, error) {
	latStr, hasLat := fields["latitude"]
	lngStr, hasLng := fields["longitude"]
	if !hasLat && !hasLng {
		return nil, false, nil
	}
	if latStr == "" && lngStr == "" {
		return nil, true, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, true, domain.Invalid("latitude", "must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, true, domain.Invalid("longitude", "must be a number")
	}
	return &entities.Coordinates{Latitude: lat, Longitude: lng}, true, nil
}

func parseWhen(field, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := datetime.ParseUserDateTime(value, loc)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

// parseDraft builds a creation draft. Required fields are checked later by the
// owner console so the error names fields in form order.
func parseDraft(args []string, loc *time.Location) (entities.EventDraft, error) {
	fields, err := assignments(args, fieldAliases)
	if err != nil {
		return entities.EventDraft{}, err
	}
	var d entities.EventDraft
	d.Title = fields["title"]
	d.Description = fields["description"]
	d.Location = fields["location"]
	if d.Type, err = parseEventType(fields["event_type"]); err != nil {
		return d, err
	}
	if d.StartsAt, err = parseWhen("start_date", fields["start_date"], loc); err != nil {
		return d, err
	}
	if d.EndsAt, err = parseWhen("end_date", fields["end_date"], loc); err != nil {
		return d, err
	}
	if d.MaxParticipants, err = parseMax(fields["max_participants"]); err != nil {
		return d, err
	}
	if d.Coordinates, _, err = parseCoordinates(fields); err != nil {
		return d, err
	}
	return d, nil
}

// parsePatch builds a partial update. "max=" clears the capacity.
func parsePatch(args []string, loc *time.Location) (entities.EventPatch, error) {
	var p entities.EventPatch
	fields, err := assignments(args, fieldAliases)
	if err != nil {
		return p, err
	}
	if v, ok := fields["title"]; ok {
		p.Title = &v
	}
	if v, ok := fields["description"]; ok {
		p.Description = &v
	}
	if v, ok := fields["location"]; ok {
		p.Location = &v
	}
	if v, ok := fields["event_type"]; ok {
		t, err := parseEventType(v)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}
	for _, f := range []struct {
		name string
		dst  **time.Time
	}{{"start_date", &p.StartsAt}, {"end_date", &p.EndsAt}} {
		v, ok := fields[f.name]
		if !ok {
			continue
		}
		t, err := parseWhen(f.name, v, loc)
		if err != nil {
			return p, err
		}
		*f.dst = &t
	}
	if v, ok := fields["max_participants"]; ok {
		n, err := parseMax(v)
		if err != nil {
			return p, err
		}
		p.MaxParticipants = n
		p.ClearMaxParticipants = n == nil
	}
	coords, present, err := parseCoordinates(fields)
	if err != nil {
		return p, err
	}
	if present {
		p.Coordinates = coords
	}
	return p, nil
}

var profileAliases = map[string]string{
	"first":      "first_name",
	"first_name": "first_name",
	"last":       "last_name",
	"last_name":  "last_name",
	"email":      "email",
	"location":   "location",
	"city":       "location",
}

func parseProfilePatch(args []string) (entities.ProfilePatch, error) {
	var p entities.ProfilePatch
	fields, err := assignments(args, profileAliases)
	if err != nil {
		return p, err
	}
	for name, dst := range map[string]**string{
		"first_name": &p.FirstName,
		"last_name":  &p.LastName,
		"email":      &p.Email,
		"location":   &p.Location,
	} {
		if v, ok := fields[name]; ok {
			*dst = &v
		}
	}
	return p, nil
}
