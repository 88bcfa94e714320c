package application

import (
	"context"

	"go.uber.org/zap"

	"futbal/internal/ports/output"
)

// AttachAnnouncer forwards every created event to announcer. A failed announcement is
// logged and never fails the creation that triggered it.
func (a *App) AttachAnnouncer(announcer output.EventAnnouncer, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.Bus.SubscribeEach(TopicEvents, func(ctx context.Context, c Change) error {
		if c.Kind != ChangeCreated || c.Event == nil {
			return nil
		}
		if err := announcer.AnnounceEvent(ctx, *c.Event); err != nil {
			logger.Warn("announce event failed", zap.Uint("event_id", c.EventID), zap.Error(err))
		}
		return nil
	})
}
