package input

import (
	"context"

	"futbal/internal/domain/entities"
)

type ParticipationUseCase interface {
	Join(ctx context.Context, eventID uint) error
	Leave(ctx context.Context, eventID uint) error
	CanJoin(event entities.Event) error
	IsParticipating(event entities.Event, userID uint) bool
}
