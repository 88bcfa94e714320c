package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
)

func TestInitialize_FailureMeansAnonymous(t *testing.T) {
	app, backend := newTestApp(alice)
	backend.currentUserFunc = func(context.Context) (*entities.User, error) {
		return nil, &domain.NetworkError{Op: "current user", Err: errors.New("timeout")}
	}
	app.Session.Initialize(context.Background())
	assert.False(t, app.Session.Authenticated())
	assert.Equal(t, 0, backend.count("list"), "no transition, no refresh")
}

func TestInitialize_ResolvesIdentity(t *testing.T) {
	app, backend := newTestApp(alice)
	backend.currentUserFunc = func(context.Context) (*entities.User, error) {
		u := alice
		return &u, nil
	}
	app.Session.Initialize(context.Background())
	me, ok := app.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, 1, backend.count("list"), "anonymous→authenticated refreshes the directory")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(alice)

	_, err := app.Session.Login(ctx, entities.Credentials{Username: "alice"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, 0, backend.count("login"))

	_, err = app.Session.Login(ctx, entities.Credentials{Username: "mallory", Password: "x"})
	var rejected *domain.ServerRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Invalid credentials", rejected.Message)
	assert.False(t, app.Session.Authenticated())

	u, err := app.Session.Login(ctx, entities.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.True(t, app.Session.Authenticated())
	assert.Equal(t, 1, backend.count("list"))
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(alice)

	_, err := app.Session.Signup(ctx, entities.SignupFields{Username: "dan", Email: "nope", Password: "pw"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	u, err := app.Session.Signup(ctx, entities.SignupFields{Username: "dan", Email: "dan@example.com", Password: "pw"})
	require.NoError(t, err)
	me, ok := app.Session.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, me.ID)
}

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(alice)

	_, err := app.Session.LoginWithGoogle(ctx, "")
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
	assert.Equal(t, 0, backend.count("google"))

	u, err := app.Session.LoginWithGoogle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
}

func TestLogout_ClearsSessionEvenWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(alice)
	require.NoError(t, loginAs(ctx, app, alice))

	backend.logoutFunc = func(context.Context) error {
		return &domain.NetworkError{Op: "logout"}
	}
	err := app.Session.Logout(ctx)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.False(t, app.Session.Authenticated())
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(alice)

	assert.ErrorIs(t, app.Session.Replace(ctx, alice), domain.ErrUnauthenticated)
	require.NoError(t, loginAs(ctx, app, alice))
	assert.ErrorIs(t, app.Session.Replace(ctx, bob), domain.ErrUserMismatch)

	renamed := alice
	renamed.Location = "Lyon"
	require.NoError(t, app.Session.Replace(ctx, renamed))
	me, _ := app.Session.Current()
	assert.Equal(t, "Lyon", me.Location)
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(alice)
	require.NoError(t, loginAs(ctx, app, alice))

	me, _ := app.Session.Current()
	me.Username = "changed"
	again, _ := app.Session.Current()
	assert.Equal(t, "alice", again.Username)
}
