package domain

import (
	"net/mail"
	"strings"

	"futbal/internal/domain/entities"
)

// ValidateDraft checks the fields of an event draft in form order and returns a
// ValidationError naming the first invalid one.
// An empty Type is normalized to "match" before the check.
func ValidateDraft(d *entities.EventDraft) error {
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	if err := requireText("description", d.Description); err != nil {
		return err
	}
	if err := requireText("location", d.Location); err != nil {
		return err
	}
	if d.StartsAt.IsZero() {
		return Invalid("start_date", "required")
	}
	if d.EndsAt.IsZero() {
		return Invalid("end_date", "required")
	}
	if d.EndsAt.Before(d.StartsAt) {
		return Invalid("end_date", "must not be before start_date")
	}
	return checkTail(d, d.MaxParticipants, d.Coordinates)
}

// ValidatePatch checks an update. merged is p applied over the stored event; only
// the fields p sets are checked, the others are kept as the backend sent them.
// An event stored without an end date may stay without one.
func ValidatePatch(p entities.EventPatch, merged *entities.EventDraft) error {
	for _, f := range []struct {
		name  string
		value *string
	}{{"title", p.Title}, {"description", p.Description}, {"location", p.Location}} {
		if f.value == nil {
			continue
		}
		if err := requireText(f.name, *f.value); err != nil {
			return err
		}
	}
	if p.StartsAt != nil && p.StartsAt.IsZero() {
		return Invalid("start_date", "required")
	}
	if p.EndsAt != nil && p.EndsAt.IsZero() {
		return Invalid("end_date", "required")
	}
	if (p.StartsAt != nil || p.EndsAt != nil) && !merged.EndsAt.IsZero() && merged.EndsAt.Before(merged.StartsAt) {
		return Invalid("end_date", "must not be before start_date")
	}
	var limit *int
	if !p.ClearMaxParticipants {
		limit = p.MaxParticipants
	}
	return checkTail(merged, limit, p.Coordinates)
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Invalid(field, "required")
	}
	return nil
}

// checkTail validates the type of d, then limit and c when set.
func checkTail(d *entities.EventDraft, limit *int, c *entities.Coordinates) error {
	if d.Type == "" {
		d.Type = entities.EventTypeMatch
	}
	if !d.Type.Valid() {
		return Invalid("event_type", "must be one of match, tournament, training, other")
	}
	if limit != nil && *limit <= 0 {
		return Invalid("max_participants", "must be a positive integer")
	}
	if c != nil {
		if c.Latitude < -90 || c.Latitude > 90 {
			return Invalid("latitude", "must be between -90 and 90")
		}
		if c.Longitude < -180 || c.Longitude > 180 {
			return Invalid("longitude", "must be between -180 and 180")
		}
	}
	return nil
}

// ValidateProfilePatch rejects patches that would remove a required profile field.
func ValidateProfilePatch(p entities.ProfilePatch) error {
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			return Invalid("email", "required")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return Invalid("email", "malformed address")
		}
	}
	return nil
}

// ValidateSignup checks the signup form before it is sent.
func ValidateSignup(f entities.SignupFields) error {
	if strings.TrimSpace(f.Username) == "" {
		return Invalid("username", "required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return Invalid("email", "required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return Invalid("email", "malformed address")
	}
	if f.Password == "" {
		return Invalid("password", "required")
	}
	if f.PasswordConfirm != "" && f.PasswordConfirm != f.Password {
		return Invalid("password_confirm", "does not match password")
	}
	return nil
}

// ValidateCredentials checks that both login fields are present.
func ValidateCredentials(c entities.Credentials) error {
	if strings.TrimSpace(c.Username) == "" {
		return Invalid("username", "required")
	}
	if c.Password == "" {
		return Invalid("password", "required")
	}
	return nil
}
