package input

import (
	"context"

	"futbal/internal/domain/entities"
)

type SessionUseCase interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, creds entities.Credentials) (entities.User, error)
	Signup(ctx context.Context, fields entities.SignupFields) (entities.User, error)
	LoginWithGoogle(ctx context.Context, accessToken string) (entities.User, error)
	Logout(ctx context.Context) error
	Current() (entities.User, bool)
}

type ProfileUseCase interface {
	Load(ctx context.Context) (entities.User, error)
	Update(ctx context.Context, patch entities.ProfilePatch) (entities.User, error)
}
