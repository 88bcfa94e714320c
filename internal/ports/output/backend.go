package output

import (
	"context"

	"futbal/internal/domain/entities"
)

// EventAPI is the backend's event collection.
type EventAPI interface {
	ListEvents(ctx context.Context) ([]entities.Event, error)
	CreateEvent(ctx context.Context, draft entities.EventDraft) (*entities.Event, error)
	UpdateEvent(ctx context.Context, id uint, draft entities.EventDraft) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	Participate(ctx context.Context, id uint) error
	Leave(ctx context.Context, id uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) error
}

// AuthAPI is the auth provider. CurrentUser returns (nil, nil) when no session exists.
type AuthAPI interface {
	CurrentUser(ctx context.Context) (*entities.User, error)
	Login(ctx context.Context, creds entities.Credentials) (*entities.User, error)
	Signup(ctx context.Context, fields entities.SignupFields) (*entities.User, error)
	LoginWithGoogle(ctx context.Context, accessToken string) (*entities.User, error)
	Logout(ctx context.Context) error
}

// ProfileAPI updates the authenticated user's own record.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, patch entities.ProfilePatch) (*entities.User, error)
}
