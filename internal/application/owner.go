package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/input"
	"futbal/internal/ports/output"
)

// EventOwnerConsole manages the current user's own events.
// Ownership is not checked here: the backend rejects edits by non-owners, and the
// MyEvents/JoinedEvents views are display filters only.
type EventOwnerConsole struct {
	api       output.EventAPI
	session   *SessionStore
	directory *EventDirectory
	bus       *Bus
	log       *zap.Logger

	CreateForm Form
	UpdateForm Form
}

func NewEventOwnerConsole(
	api output.EventAPI,
	session *SessionStore,
	directory *EventDirectory,
	bus *Bus,
	logger *zap.Logger,
) *EventOwnerConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventOwnerConsole{
		api:       api,
		session:   session,
		directory: directory,
		bus:       bus,
		log:       logger,
	}
}

// Create validates the draft locally and creates the event. Validation failures never
// reach the backend.
func (c *EventOwnerConsole) Create(ctx context.Context, draft entities.EventDraft) (*entities.Event, error) {
	if err := domain.ValidateDraft(&draft); err != nil {
		return nil, err
	}
	if !c.session.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	var created *entities.Event
	err := c.CreateForm.Submit(ctx, func(ctx context.Context) error {
		e, err := c.api.CreateEvent(ctx, draft)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	change := Change{Topic: TopicEvents, Kind: ChangeCreated, Event: created}
	if created != nil {
		change.EventID = created.ID
	}
	c.publish(ctx, change)
	return created, nil
}

// Update merges patch over the event currently held by the directory and sends the
// merged fields. Only the fields patch sets are validated.
func (c *EventOwnerConsole) Update(ctx context.Context, eventID uint, patch entities.EventPatch) (*entities.Event, error) {
	current, ok := c.directory.Get(eventID)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	draft := patch.Apply(current.Draft())
	if err := domain.ValidatePatch(patch, &draft); err != nil {
		return nil, err
	}
	var updated *entities.Event
	err := c.UpdateForm.Submit(ctx, func(ctx context.Context) error {
		e, err := c.api.UpdateEvent(ctx, eventID, draft)
		if err != nil {
			return fmt.Errorf("update event %d: %w", eventID, err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.publish(ctx, Change{Topic: TopicEvents, Kind: ChangeUpdated, EventID: eventID, Event: updated})
	return updated, nil
}

// Delete asks confirm before deleting. A nil confirm counts as a refusal.
func (c *EventOwnerConsole) Delete(ctx context.Context, eventID uint, confirm input.ConfirmFunc) error {
	event, ok := c.directory.Get(eventID)
	if !ok {
		event = entities.Event{ID: eventID}
	}
	if confirm == nil || !confirm(event) {
		return domain.ErrDeleteNotConfirmed
	}
	if err := c.api.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event %d: %w", eventID, err)
	}
	c.publish(ctx, Change{Topic: TopicEvents, Kind: ChangeDeleted, EventID: eventID})
	return nil
}

// RemoveParticipant drops userID from the event. A backend refusal is returned as a
// domain.ServerRejected carrying the backend's message.
func (c *EventOwnerConsole) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	if err := c.api.RemoveParticipant(ctx, eventID, userID); err != nil {
		return fmt.Errorf("remove participant %d from event %d: %w", userID, eventID, err)
	}
	c.publish(ctx, Change{Topic: TopicEvents, Kind: ChangeParticipantRemoved, EventID: eventID})
	return nil
}

// MyEvents lists the snapshot's events created by the current user.
func (c *EventOwnerConsole) MyEvents() []entities.Event {
	me, ok := c.session.Current()
	if !ok {
		return nil
	}
	var out []entities.Event
	for _, e := range c.directory.Snapshot() {
		if e.CreatedBy.ID == me.ID {
			out = append(out, e)
		}
	}
	return out
}

// JoinedEvents lists the events the current user joined but did not create.
func (c *EventOwnerConsole) JoinedEvents() []entities.Event {
	me, ok := c.session.Current()
	if !ok {
		return nil
	}
	var out []entities.Event
	for _, e := range c.directory.Snapshot() {
		if e.CreatedBy.ID != me.ID && e.HasParticipant(me.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Seed creates drafts in order inside one batch so dependents refresh once.
// It stops at the first failure and reports how many events were created.
func (c *EventOwnerConsole) Seed(ctx context.Context, drafts []entities.EventDraft) (int, error) {
	created := 0
	err := c.bus.Batch(ctx, func(ctx context.Context) error {
		for i := range drafts {
			if _, err := c.Create(ctx, drafts[i]); err != nil {
				return fmt.Errorf("seed %q: %w", drafts[i].Title, err)
			}
			created++
		}
		return nil
	})
	return created, err
}

func (c *EventOwnerConsole) publish(ctx context.Context, ch Change) {
	if err := c.bus.Publish(ctx, ch); err != nil {
		c.log.Warn("owner: refresh after mutation failed",
			zap.String("kind", string(ch.Kind)), zap.Uint("event_id", ch.EventID), zap.Error(err))
	}
}
