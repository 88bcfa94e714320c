package application

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"futbal/internal/domain/entities"
)

// Topic names a family of server-side state that dependents cache.
type Topic string

const (
	TopicEvents  Topic = "events"
	TopicSession Topic = "session"
	TopicProfile Topic = "profile"
)

// ChangeKind describes what happened to the topic's state.
type ChangeKind string

const (
	ChangeCreated            ChangeKind = "created"
	ChangeUpdated            ChangeKind = "updated"
	ChangeDeleted            ChangeKind = "deleted"
	ChangeJoined             ChangeKind = "joined"
	ChangeLeft               ChangeKind = "left"
	ChangeParticipantRemoved ChangeKind = "participant_removed"
	ChangeLoggedIn           ChangeKind = "logged_in"
	ChangeLoggedOut          ChangeKind = "logged_out"
	ChangeReplaced           ChangeKind = "replaced"
)

// Change is a notification published after a successful mutation.
type Change struct {
	Topic   Topic
	Kind    ChangeKind
	EventID uint
	Event   *entities.Event // set for ChangeCreated and ChangeUpdated when the backend returned it
}

// Handler reacts to a change. Errors are collected by Publish.
type Handler func(ctx context.Context, c Change) error

// Bus dispatches changes to subscribers synchronously, in subscription order.
// Inside Batch, changes are buffered and each topic's subscribers run once at the end
// with the last change of that topic; SubscribeEach handlers still see every change.
type Bus struct {
	log      *zap.Logger
	mu       sync.Mutex
	subs     map[Topic][]Handler
	each     map[Topic][]Handler
	batching int
	pending  []Change
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		log:  logger,
		subs: make(map[Topic][]Handler),
		each: make(map[Topic][]Handler),
	}
}

// Subscribe registers h for topic; coalesced inside batches.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// SubscribeEach registers h for every change of topic, never coalesced.
func (b *Bus) SubscribeEach(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.each[topic] = append(b.each[topic], h)
}

// Publish notifies subscribers of c, or buffers it when a batch is open.
func (b *Bus) Publish(ctx context.Context, c Change) error {
	b.mu.Lock()
	if b.batching > 0 {
		b.pending = append(b.pending, c)
		b.mu.Unlock()
		return nil
	}
	subs := append([]Handler(nil), b.subs[c.Topic]...)
	each := append([]Handler(nil), b.each[c.Topic]...)
	b.mu.Unlock()

	return run(ctx, c, append(each, subs...))
}

// Batch runs fn with publications deferred, then flushes one notification per topic.
// The flush happens even when fn fails so earlier successful mutations are not lost.
// Subscriber failures during the flush are logged; only fn's error is returned.
func (b *Bus) Batch(ctx context.Context, fn func(ctx context.Context) error) error {
	b.mu.Lock()
	b.batching++
	b.mu.Unlock()

	fnErr := fn(ctx)

	b.mu.Lock()
	b.batching--
	if b.batching > 0 {
		b.mu.Unlock()
		return fnErr
	}
	pending := b.pending
	b.pending = nil
	var eachCalls []func() error
	last := make(map[Topic]Change)
	var order []Topic
	for _, c := range pending {
		c := c
		for _, h := range b.each[c.Topic] {
			h := h
			eachCalls = append(eachCalls, func() error { return h(ctx, c) })
		}
		if _, seen := last[c.Topic]; !seen {
			order = append(order, c.Topic)
		}
		last[c.Topic] = c
	}
	subs := make(map[Topic][]Handler, len(order))
	for _, t := range order {
		subs[t] = append([]Handler(nil), b.subs[t]...)
	}
	b.mu.Unlock()

	for _, call := range eachCalls {
		if err := call(); err != nil {
			b.log.Warn("bus: subscriber failed", zap.Error(err))
		}
	}
	for _, t := range order {
		if err := run(ctx, last[t], subs[t]); err != nil {
			b.log.Warn("bus: subscriber failed", zap.String("topic", string(t)), zap.Error(err))
		}
	}
	return fnErr
}

func run(ctx context.Context, c Change, handlers []Handler) error {
	var errs []error
	for _, h := range handlers {
		if err := h(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
