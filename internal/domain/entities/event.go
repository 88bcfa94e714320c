package entities

import (
	"fmt"
	"slices"
	"time"
)

// EventType is the category of an event.
type EventType string

const (
	EventTypeMatch      EventType = "match"
	EventTypeTournament EventType = "tournament"
	EventTypeTraining   EventType = "training"
	EventTypeOther      EventType = "other"

	// EventTypeAll is only meaningful as a filter value.
	EventTypeAll EventType = "all"
)

// EventTypes lists the concrete event types in display order.
var EventTypes = []EventType{EventTypeMatch, EventTypeTournament, EventTypeTraining, EventTypeOther}

// Valid reports whether t is one of the concrete event types.
func (t EventType) Valid() bool {
	return slices.Contains(EventTypes, t)
}

// Coordinates is an optional latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Event struct {
	ID              uint
	Title           string
	Description     string
	Type            EventType
	Location        string
	Coordinates     *Coordinates
	StartsAt        time.Time
	EndsAt          time.Time // zero when the backend only sends a date+time
	MaxParticipants *int      // nil = unlimited
	CreatedBy       User
	Participants    []User
}

// HasParticipant reports whether userID is in the participant set.
func (e *Event) HasParticipant(userID uint) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (e *Event) ParticipantCount() int { return len(e.Participants) }

// IsFull reports whether a capacity is set and reached.
func (e *Event) IsFull() bool {
	return e.MaxParticipants != nil && len(e.Participants) >= *e.MaxParticipants
}

// SpotsLeft returns the remaining capacity, or -1 when unlimited.
func (e *Event) SpotsLeft() int {
	if e.MaxParticipants == nil {
		return -1
	}
	left := *e.MaxParticipants - len(e.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// MapURL links to the coordinates on Google Maps, or "" without coordinates.
func (e *Event) MapURL() string {
	if e.Coordinates == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", e.Coordinates.Latitude, e.Coordinates.Longitude)
}

// Draft returns the editable fields of e.
func (e *Event) Draft() EventDraft {
	d := EventDraft{
		Title:       e.Title,
		Description: e.Description,
		Type:        e.Type,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
	}
	if e.Coordinates != nil {
		c := *e.Coordinates
		d.Coordinates = &c
	}
	if e.MaxParticipants != nil {
		n := *e.MaxParticipants
		d.MaxParticipants = &n
	}
	return d
}

// EventDraft holds the fields of an event being created or edited.
type EventDraft struct {
	Title           string
	Description     string
	Type            EventType
	Location        string
	Coordinates     *Coordinates
	StartsAt        time.Time
	EndsAt          time.Time
	MaxParticipants *int
}

// EventPatch holds the fields to change on an existing event; nil means "keep".
// ClearMaxParticipants removes the capacity.
type EventPatch struct {
	Title                *string
	Description          *string
	Type                 *EventType
	Location             *string
	Coordinates          *Coordinates
	StartsAt             *time.Time
	EndsAt               *time.Time
	MaxParticipants      *int
	ClearMaxParticipants bool
}

// Apply merges the patch over d.
func (p EventPatch) Apply(d EventDraft) EventDraft {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		d.Coordinates = &c
	}
	if p.StartsAt != nil {
		d.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		d.EndsAt = *p.EndsAt
	}
	if p.ClearMaxParticipants {
		d.MaxParticipants = nil
	} else if p.MaxParticipants != nil {
		n := *p.MaxParticipants
		d.MaxParticipants = &n
	}
	return d
}
