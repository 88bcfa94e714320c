package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

// ParticipationController gates join/leave on the session and on the latest known
// snapshot. The capacity check is optimistic: concurrent joins from other clients can
// still push an event past its limit on the server.
type ParticipationController struct {
	api       output.EventAPI
	session   *SessionStore
	directory *EventDirectory
	bus       *Bus
	log       *zap.Logger
}

func NewParticipationController(
	api output.EventAPI,
	session *SessionStore,
	directory *EventDirectory,
	bus *Bus,
	logger *zap.Logger,
) *ParticipationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipationController{
		api:       api,
		session:   session,
		directory: directory,
		bus:       bus,
		log:       logger,
	}
}

// CanJoin applies the join gating to event without side effects.
func (p *ParticipationController) CanJoin(event entities.Event) error {
	if !p.session.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if event.IsFull() {
		return domain.ErrEventFull
	}
	return nil
}

func (p *ParticipationController) Join(ctx context.Context, eventID uint) error {
	if !p.session.Authenticated() {
		return domain.ErrUnauthenticated
	}
	event, ok := p.directory.Get(eventID)
	if !ok {
		return domain.ErrEventNotFound
	}
	if err := p.CanJoin(event); err != nil {
		return err
	}
	if err := p.api.Participate(ctx, eventID); err != nil {
		return fmt.Errorf("join event %d: %w", eventID, err)
	}
	p.publish(ctx, Change{Topic: TopicEvents, Kind: ChangeJoined, EventID: eventID})
	return nil
}

// Leave does not check membership locally; the backend decides.
func (p *ParticipationController) Leave(ctx context.Context, eventID uint) error {
	if !p.session.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := p.api.Leave(ctx, eventID); err != nil {
		return fmt.Errorf("leave event %d: %w", eventID, err)
	}
	p.publish(ctx, Change{Topic: TopicEvents, Kind: ChangeLeft, EventID: eventID})
	return nil
}

func (p *ParticipationController) IsParticipating(event entities.Event, userID uint) bool {
	return event.HasParticipant(userID)
}

func (p *ParticipationController) publish(ctx context.Context, c Change) {
	if err := p.bus.Publish(ctx, c); err != nil {
		p.log.Warn("participation: refresh after mutation failed",
			zap.String("kind", string(c.Kind)), zap.Uint("event_id", c.EventID), zap.Error(err))
	}
}
