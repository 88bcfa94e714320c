package application

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	"go.uber.org/zap"

	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

// Filter selects events by case-insensitive text and by type.
// The zero value and {"", "all"} match everything.
type Filter struct {
	Search string
	Type   entities.EventType
}

// Match reports whether e passes the filter: Search is a substring of the title,
// description or location, and Type is "all" (or empty) or equals the event type.
func (f Filter) Match(e *entities.Event) bool {
	if f.Type != "" && f.Type != entities.EventTypeAll && e.Type != f.Type {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Location), needle)
}

// FilterEvents returns the events matching f, preserving order.
func FilterEvents(events []entities.Event, f Filter) []entities.Event {
	out := make([]entities.Event, 0, len(events))
	for i := range events {
		if f.Match(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// EventDirectory holds the last applied snapshot of the backend's events.
// Snapshots are replaced wholesale, never patched.
type EventDirectory struct {
	api output.EventAPI
	log *zap.Logger

	mu       sync.RWMutex
	snapshot []entities.Event
	loaded   bool
	filter   Filter
	started  uint64 // ticket of the most recently started refresh
}

func NewEventDirectory(api output.EventAPI, logger *zap.Logger) *EventDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDirectory{api: api, log: logger}
}

// Attach subscribes the directory to event and session changes.
func (d *EventDirectory) Attach(bus *Bus) {
	refresh := func(ctx context.Context, c Change) error {
		_, err := d.Refresh(ctx)
		return err
	}
	bus.Subscribe(TopicEvents, refresh)
	bus.Subscribe(TopicSession, refresh)
}

// Refresh fetches all events and replaces the snapshot. Only the most recently started
// refresh may apply its result; a refresh overtaken by a newer one returns the snapshot
// currently held. On failure the snapshot is left unchanged.
func (d *EventDirectory) Refresh(ctx context.Context) ([]entities.Event, error) {
	d.mu.Lock()
	d.started++
	ticket := d.started
	d.mu.Unlock()

	events, err := d.api.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh events: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if ticket != d.started {
		d.log.Debug("directory: discarding stale refresh",
			zap.Uint64("ticket", ticket), zap.Uint64("latest", d.started))
		return clone(d.snapshot), nil
	}
	d.snapshot = events
	d.loaded = true
	d.log.Debug("directory: snapshot applied", zap.Uint64("ticket", ticket), zap.Int("events", len(events)))
	return clone(events), nil
}

// SetFilter stores the filter. searchText is matched as given, spaces included.
func (d *EventDirectory) SetFilter(searchText string, eventType entities.EventType) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = Filter{Search: searchText, Type: eventType}
}

func (d *EventDirectory) Filter() Filter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filter
}

// List yields the filtered snapshot in server order. The snapshot is captured when
// iteration starts; a later refresh does not affect a running iteration.
func (d *EventDirectory) List() iter.Seq[entities.Event] {
	return func(yield func(entities.Event) bool) {
		d.mu.RLock()
		events, f := d.snapshot, d.filter
		d.mu.RUnlock()
		for i := range events {
			if !f.Match(&events[i]) {
				continue
			}
			if !yield(events[i]) {
				return
			}
		}
	}
}

// Snapshot returns the unfiltered events.
func (d *EventDirectory) Snapshot() []entities.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.snapshot)
}

func (d *EventDirectory) Get(id uint) (entities.Event, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.snapshot {
		if e.ID == id {
			return e, true
		}
	}
	return entities.Event{}, false
}

// Loaded reports whether any refresh has been applied yet.
func (d *EventDirectory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

func clone(events []entities.Event) []entities.Event {
	if events == nil {
		return nil
	}
	out := make([]entities.Event, len(events))
	copy(out, events)
	return out
}
