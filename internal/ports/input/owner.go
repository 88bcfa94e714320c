package input

import (
	"context"

	"futbal/internal/domain/entities"
)

// ConfirmFunc is asked before a destructive action; returning false cancels it.
type ConfirmFunc func(event entities.Event) bool

type OwnerUseCase interface {
	Create(ctx context.Context, draft entities.EventDraft) (*entities.Event, error)
	Update(ctx context.Context, eventID uint, patch entities.EventPatch) (*entities.Event, error)
	Delete(ctx context.Context, eventID uint, confirm ConfirmFunc) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) error
	MyEvents() []entities.Event
	JoinedEvents() []entities.Event
	Seed(ctx context.Context, drafts []entities.EventDraft) (int, error)
}
