package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/pkg/datetime"
)

func (h *Handler) spots(e entities.Event) string {
	if e.MaxParticipants == nil {
		return h.tr.T("shell.spots.unlimited", map[string]any{"Count": e.ParticipantCount()})
	}
	s := h.tr.T("shell.spots.limited", map[string]any{"Going": e.ParticipantCount(), "Max": *e.MaxParticipants})
	if left := e.SpotsLeft(); left > 0 {
		s += " · " + h.tr.T("shell.spots.left", map[string]any{"Count": left})
	}
	return s
}

// action names what the current user can do with e: join, leave, nothing because
// the event is full, or log in first.
func (h *Handler) action(e entities.Event) string {
	if me, ok := h.session.Current(); ok && h.participation.IsParticipating(e, me.ID) {
		return h.tr.T("shell.action.leave", map[string]any{"ID": e.ID})
	}
	switch err := h.participation.CanJoin(e); {
	case err == nil:
		return h.tr.T("shell.action.join", map[string]any{"ID": e.ID})
	case errors.Is(err, domain.ErrEventFull):
		return h.tr.T("shell.action.full", nil)
	default:
		return h.tr.T("shell.action.login", nil)
	}
}

// writeEventLine prints one row of a listing. A leading "*" marks events the
// current user joined.
func (h *Handler) writeEventLine(w io.Writer, e entities.Event) {
	mark := " "
	if me, ok := h.session.Current(); ok && h.participation.IsParticipating(e, me.ID) {
		mark = "*"
	}
	fmt.Fprintf(w, "%s #%-4d %-28s %-10s %s  %s  (%s)  %s\n",
		mark, e.ID, e.Title, "["+string(e.Type)+"]",
		datetime.FormatEventDateTime(e.StartsAt, h.loc), e.Location, h.spots(e), h.action(e))
}

func (h *Handler) writeEvents(w io.Writer, events []entities.Event, emptyKey string) {
	if len(events) == 0 {
		fmt.Fprintln(w, h.tr.T(emptyKey, nil))
		return
	}
	for _, e := range events {
		h.writeEventLine(w, e)
	}
	fmt.Fprintln(w, h.tr.T("shell.events.count", map[string]any{"Count": len(events)}))
}

func (h *Handler) writeEventDetail(w io.Writer, e entities.Event) {
	fmt.Fprintf(w, "#%d %s [%s]\n", e.ID, e.Title, e.Type)
	if e.Description != "" {
		fmt.Fprintf(w, "  %s\n", e.Description)
	}
	when := datetime.FormatEventDateTime(e.StartsAt, h.loc)
	if !e.EndsAt.IsZero() {
		when += " → " + datetime.FormatEventDateTime(e.EndsAt, h.loc)
	}
	fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.when", nil), when)
	fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.where", nil), e.Location)
	if u := e.MapURL(); u != "" {
		fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.map", nil), u)
	}
	fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.organiser", nil), e.CreatedBy.DisplayName())
	fmt.Fprintf(w, "  %s: %s  %s\n", h.tr.T("shell.detail.spots", nil), h.spots(e), h.action(e))
	if len(e.Participants) > 0 {
		names := make([]string, 0, len(e.Participants))
		for _, p := range e.Participants {
			names = append(names, fmt.Sprintf("%s (#%d)", p.DisplayName(), p.ID))
		}
		fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.participants", nil), strings.Join(names, ", "))
	}
}

func (h *Handler) writeUser(w io.Writer, u entities.User) {
	fmt.Fprintf(w, "#%d %s (%s)\n", u.ID, u.DisplayName(), u.Username)
	fmt.Fprintf(w, "  email: %s\n", u.Email)
	if u.Location != "" {
		fmt.Fprintf(w, "  %s: %s\n", h.tr.T("shell.detail.where", nil), u.Location)
	}
}
