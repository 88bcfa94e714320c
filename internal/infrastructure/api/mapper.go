package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"futbal/internal/domain/entities"
	"futbal/pkg/datetime"
)

// flexFloat decodes a JSON number, a numeric string (Django DecimalField) or null.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = flexFloat{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = flexFloat{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid decimal %q", s)
		}
		*f = flexFloat{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat{Value: v, Valid: true}
	return nil
}

type userDTO struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Location  *string `json:"location"`
}

type eventDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	EventType       string    `json:"event_type"`
	Location        *string   `json:"location"`
	Latitude        flexFloat `json:"latitude"`
	Longitude       flexFloat `json:"longitude"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	Date            *string   `json:"date"`
	Time            *string   `json:"time"`
	MaxParticipants *int      `json:"max_participants"`
	CreatedBy       *userDTO  `json:"created_by"`
	Participants    []userDTO `json:"participants"`
}

// eventWriteDTO is the body of POST and PATCH /events. Both start_date/end_date and
// date/time are sent so older backends that only know the split fields keep working.
type eventWriteDTO struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	EventType       string   `json:"event_type"`
	Location        string   `json:"location"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date,omitempty"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	MaxParticipants *int     `json:"max_participants"`
}

type profileWriteDTO struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Location  *string `json:"location,omitempty"`
}

type credentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupDTO struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Location        string `json:"location,omitempty"`
}

type googleDTO struct {
	AccessToken string `json:"access_token"`
}

// authResponse covers both {token, user} envelopes and DRF's {key}.
type authResponse struct {
	Token string   `json:"token"`
	Key   string   `json:"key"`
	User  *userDTO `json:"user"`
}

func userToDomain(u userDTO) (entities.User, error) {
	if u.ID == 0 {
		return entities.User{}, fmt.Errorf("user without id")
	}
	user := entities.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if u.Location != nil {
		user.Location = *u.Location
	}
	return user, nil
}

func eventToDomain(e eventDTO, loc *time.Location) (entities.Event, error) {
	if e.ID == 0 {
		return entities.Event{}, fmt.Errorf("event without id")
	}
	if strings.TrimSpace(e.Title) == "" {
		return entities.Event{}, fmt.Errorf("event %d: missing title", e.ID)
	}
	typ := entities.EventType(e.EventType)
	if !typ.Valid() {
		return entities.Event{}, fmt.Errorf("event %d: unknown event_type %q", e.ID, e.EventType)
	}
	if e.CreatedBy == nil {
		return entities.Event{}, fmt.Errorf("event %d: missing created_by", e.ID)
	}
	creator, err := userToDomain(*e.CreatedBy)
	if err != nil {
		return entities.Event{}, fmt.Errorf("event %d: created_by: %w", e.ID, err)
	}

	startsAt, endsAt, err := eventTimes(e, loc)
	if err != nil {
		return entities.Event{}, fmt.Errorf("event %d: %w", e.ID, err)
	}

	event := entities.Event{
		ID:        e.ID,
		Title:     e.Title,
		Type:      typ,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedBy: creator,
	}
	if e.Description != nil {
		event.Description = *e.Description
	}
	if e.Location != nil {
		event.Location = *e.Location
	}
	if e.Latitude.Valid && e.Longitude.Valid {
		event.Coordinates = &entities.Coordinates{Latitude: e.Latitude.Value, Longitude: e.Longitude.Value}
	}
	// 0 is stored by some backends for "no limit".
	if e.MaxParticipants != nil && *e.MaxParticipants > 0 {
		n := *e.MaxParticipants
		event.MaxParticipants = &n
	}

	seen := make(map[uint]struct{}, len(e.Participants))
	event.Participants = make([]entities.User, 0, len(e.Participants))
	for _, p := range e.Participants {
		u, err := userToDomain(p)
		if err != nil {
			return entities.Event{}, fmt.Errorf("event %d: participant: %w", e.ID, err)
		}
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		event.Participants = append(event.Participants, u)
	}
	return event, nil
}

func eventTimes(e eventDTO, loc *time.Location) (start, end time.Time, err error) {
	switch {
	case e.StartDate != nil && *e.StartDate != "":
		start, err = datetime.ParseAPITime(*e.StartDate, loc)
	case e.Date != nil && *e.Date != "":
		clock := ""
		if e.Time != nil {
			clock = *e.Time
		}
		start, err = datetime.CombineDateTime(*e.Date, clock, loc)
	default:
		err = fmt.Errorf("missing start date")
	}
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	if e.EndDate != nil && *e.EndDate != "" {
		end, err = datetime.ParseAPITime(*e.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
		}
	}
	return start, end, nil
}

func eventsToDomain(dtos []eventDTO, loc *time.Location) ([]entities.Event, error) {
	events := make([]entities.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func draftToWire(d entities.EventDraft, loc *time.Location) eventWriteDTO {
	start := d.StartsAt.In(loc)
	w := eventWriteDTO{
		Title:       d.Title,
		Description: d.Description,
		EventType:   string(d.Type),
		Location:    d.Location,
		StartDate:   start.Format(time.RFC3339),
		Date:        start.Format("2006-01-02"),
		Time:        start.Format("15:04"),
	}
	if !d.EndsAt.IsZero() {
		w.EndDate = d.EndsAt.In(loc).Format(time.RFC3339)
	}
	if d.Coordinates != nil {
		lat, lng := d.Coordinates.Latitude, d.Coordinates.Longitude
		w.Latitude, w.Longitude = &lat, &lng
	}
	if d.MaxParticipants != nil {
		n := *d.MaxParticipants
		w.MaxParticipants = &n
	}
	return w
}

func profileToWire(p entities.ProfilePatch) profileWriteDTO {
	return profileWriteDTO{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Location:  p.Location,
	}
}
