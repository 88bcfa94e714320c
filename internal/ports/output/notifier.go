package output

import (
	"context"

	"futbal/internal/domain/entities"
)

// EventAnnouncer publishes a newly created event to an external channel.
type EventAnnouncer interface {
	AnnounceEvent(ctx context.Context, event entities.Event) error
}
