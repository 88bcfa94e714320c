package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futbal/internal/application"
	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/infrastructure/api"
	"futbal/internal/testing/fakeapi"
)

var kickoff = time.Date(2026, 11, 7, 14, 0, 0, 0, time.UTC)

type backendFixture struct {
	fake *fakeapi.Server
	url  string
}

func newBackend(t *testing.T, usernames ...string) *backendFixture {
	t.Helper()
	fake := fakeapi.New()
	for _, name := range usernames {
		fake.AddUser(fakeapi.User{Username: name, Email: name + "@example.com"}, "pw")
	}
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return &backendFixture{fake: fake, url: srv.URL}
}

// client starts one independent client process against the backend.
func (b *backendFixture) client(t *testing.T, mutate ...func(*api.Options)) *application.App {
	t.Helper()
	opts := api.Options{BaseURL: b.url, Location: time.UTC}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := api.New(opts)
	require.NoError(t, err)
	app := application.New(c, nil)
	app.Session.Initialize(context.Background())
	return app
}

func (b *backendFixture) loggedIn(t *testing.T, username string) *application.App {
	t.Helper()
	app := b.client(t)
	_, err := app.Session.Login(context.Background(), entities.Credentials{Username: username, Password: "pw"})
	require.NoError(t, err)
	return app
}

func fiveASide(limit *int) entities.EventDraft {
	return entities.EventDraft{
		Title:           "5-a-side",
		Description:     "Friendly match, bring bibs",
		Location:        "Hackney Marshes",
		StartsAt:        kickoff,
		EndsAt:          kickoff.Add(time.Hour),
		MaxParticipants: limit,
	}
}

func intPtr(n int) *int { return &n }

func TestEndToEnd_FiveASide(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "owner", "alice", "bob", "carol")

	owner := b.loggedIn(t, "owner")
	created, err := owner.Owner.Create(ctx, fiveASide(intPtr(2)))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, entities.EventTypeMatch, created.Type)
	assert.Empty(t, created.Participants, "the creator is not auto-joined")

	for _, name := range []string{"alice", "bob"} {
		app := b.loggedIn(t, name)
		require.NoError(t, app.Participation.Join(ctx, created.ID))
		e, ok := app.Directory.Get(created.ID)
		require.True(t, ok)
		me, _ := app.Session.Current()
		assert.True(t, e.HasParticipant(me.ID))
	}

	carol := b.loggedIn(t, "carol")
	err = carol.Participation.Join(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrEventFull)
	assert.Len(t, b.fake.Participants(created.ID), 2)
	assert.Equal(t, 2, b.fake.Count(http.MethodPost, "/events/1/participate"), "the full event is gated before any request")
}

func TestEndToEnd_StaleSnapshotDefersToServer(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "owner", "alice", "bob")

	owner := b.loggedIn(t, "owner")
	created, err := owner.Owner.Create(ctx, fiveASide(intPtr(1)))
	require.NoError(t, err)

	bob := b.loggedIn(t, "bob")
	alice := b.loggedIn(t, "alice")
	require.NoError(t, alice.Participation.Join(ctx, created.ID))

	// bob's snapshot predates alice's join, so the local gate lets the attempt through.
	err = bob.Participation.Join(ctx, created.ID)
	var rejected *domain.ServerRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Event is full", rejected.Message)
	assert.Len(t, b.fake.Participants(created.ID), 1)
}

func TestEndToEnd_LeaveTwiceIsSafe(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "owner", "alice")
	owner := b.loggedIn(t, "owner")
	created, err := owner.Owner.Create(ctx, fiveASide(nil))
	require.NoError(t, err)

	alice := b.loggedIn(t, "alice")
	require.NoError(t, alice.Participation.Join(ctx, created.ID))
	require.NoError(t, alice.Participation.Leave(ctx, created.ID))
	require.NoError(t, alice.Participation.Leave(ctx, created.ID))
	assert.Empty(t, b.fake.Participants(created.ID))
}

func TestEndToEnd_LogoutKeepsPublicDirectory(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "alice")
	alice := b.loggedIn(t, "alice")
	created, err := alice.Owner.Create(ctx, fiveASide(nil))
	require.NoError(t, err)
	require.NoError(t, alice.Participation.Join(ctx, created.ID))
	require.Len(t, alice.Owner.MyEvents(), 1)

	require.NoError(t, alice.Session.Logout(ctx))
	assert.False(t, alice.Session.Authenticated())
	assert.Empty(t, alice.Owner.MyEvents())
	assert.Empty(t, alice.Owner.JoinedEvents())
	assert.Len(t, alice.Directory.Snapshot(), 1, "the public directory stays populated")

	_, err = alice.Owner.Create(ctx, fiveASide(nil))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEndToEnd_InitializeRestoresTokenSession(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "alice")
	c, err := api.New(api.Options{BaseURL: b.url})
	require.NoError(t, err)
	_, err = c.Login(ctx, entities.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	app := b.client(t, func(o *api.Options) { o.Token = c.Token() })
	me, ok := app.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", me.Username)

	anonymous := b.client(t)
	assert.False(t, anonymous.Session.Authenticated())
}

func TestEndToEnd_GoogleLoginUsesSessionCookie(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	app := b.client(t)

	u, err := app.Session.LoginWithGoogle(ctx, "google-dana")
	require.NoError(t, err)
	assert.Equal(t, "dana", u.Username)

	_, err = app.Owner.Create(ctx, fiveASide(nil))
	require.NoError(t, err)
	require.Len(t, app.Owner.MyEvents(), 1)
}

func TestEndToEnd_SignupRejectionIsVerbatim(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "alice")
	app := b.client(t)

	_, err := app.Session.Signup(ctx, entities.SignupFields{Username: "alice", Email: "a@example.com", Password: "pw"})
	var rejected *domain.ServerRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "username: A user with that username already exists.", rejected.Message)

	u, err := app.Session.Signup(ctx, entities.SignupFields{Username: "erin", Email: "erin@example.com", Password: "pw", PasswordConfirm: "pw"})
	require.NoError(t, err)
	me, ok := app.Session.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, me.ID)
}

func TestEndToEnd_OwnerConsole(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "owner", "alice", "mallory")
	owner := b.loggedIn(t, "owner")
	created, err := owner.Owner.Create(ctx, fiveASide(intPtr(4)))
	require.NoError(t, err)

	alice := b.loggedIn(t, "alice")
	require.NoError(t, alice.Participation.Join(ctx, created.ID))
	assert.Len(t, alice.Owner.JoinedEvents(), 1)

	_, err = owner.Directory.Refresh(ctx)
	require.NoError(t, err)
	title := "7-a-side"
	updated, err := owner.Owner.Update(ctx, created.ID, entities.EventPatch{Title: &title, ClearMaxParticipants: true})
	require.NoError(t, err)
	assert.Equal(t, "7-a-side", updated.Title)
	assert.Nil(t, updated.MaxParticipants)
	assert.Len(t, updated.Participants, 1)

	me, _ := alice.Session.Current()
	require.NoError(t, owner.Owner.RemoveParticipant(ctx, created.ID, me.ID))
	assert.Empty(t, b.fake.Participants(created.ID))

	mallory := b.loggedIn(t, "mallory")
	err = mallory.Owner.Delete(ctx, created.ID, func(entities.Event) bool { return true })
	var rejected *domain.ServerRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusForbidden, rejected.Status)

	err = owner.Owner.Delete(ctx, created.ID, func(entities.Event) bool { return false })
	assert.ErrorIs(t, err, domain.ErrDeleteNotConfirmed)
	require.NoError(t, owner.Owner.Delete(ctx, created.ID, func(e entities.Event) bool { return e.Title == "7-a-side" }))
	assert.Empty(t, owner.Directory.Snapshot())
}

func TestEndToEnd_SeedRefreshesOnce(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "owner")
	owner := b.loggedIn(t, "owner")
	before := b.fake.Count(http.MethodGet, "/events")

	drafts := []entities.EventDraft{fiveASide(nil), fiveASide(intPtr(10)), fiveASide(intPtr(22))}
	n, err := owner.Owner.Seed(ctx, drafts)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, before+1, b.fake.Count(http.MethodGet, "/events"))
	assert.Len(t, owner.Directory.Snapshot(), 3)
}

func TestEndToEnd_ProfileUpdate(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "alice")
	alice := b.loggedIn(t, "alice")

	city := "Bristol"
	u, err := alice.Profile.Update(ctx, entities.ProfilePatch{Location: &city})
	require.NoError(t, err)
	assert.Equal(t, "Bristol", u.Location)
	me, _ := alice.Session.Current()
	assert.Equal(t, "Bristol", me.Location)

	loaded, err := alice.Profile.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bristol", loaded.Location)
}

func TestEndToEnd_PaginatedListAndTrailingSlash(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, "alice")
	b.fake.Paginate = true

	alice := b.client(t, func(o *api.Options) { o.TrailingSlash = true })
	_, err := alice.Session.Login(ctx, entities.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	_, err = alice.Owner.Create(ctx, fiveASide(nil))
	require.NoError(t, err)

	events, err := alice.Directory.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "5-a-side", events[0].Title)

	for _, r := range b.fake.Requests() {
		assert.NotEmpty(t, r.RequestID, "%s %s", r.Method, r.Path)
	}
}

func TestEndToEnd_UpdateEventWithoutEndDate(t *testing.T) {
	const owner = `{"id":1,"username":"owner"}`
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auth/me":
			fmt.Fprint(w, owner)
		case r.Method == http.MethodGet && r.URL.Path == "/events":
			fmt.Fprintf(w, `[{"id":1,"title":"Old","event_type":"match","location":"Pitch 3","date":"2030-06-01","time":"14:00","created_by":%s}]`, owner)
		case r.Method == http.MethodPatch && r.URL.Path == "/events/1":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			fmt.Fprintf(w, `{"id":1,"title":%q,"event_type":"match","location":"Pitch 3","date":"2030-06-01","time":"14:00","created_by":%s}`, patched["title"], owner)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	app := (&backendFixture{url: srv.URL}).client(t, func(o *api.Options) { o.Token = "tok" })
	require.True(t, app.Session.Authenticated())
	_, err := app.Directory.Refresh(ctx)
	require.NoError(t, err)
	stored, ok := app.Directory.Get(1)
	require.True(t, ok)
	require.True(t, stored.EndsAt.IsZero())

	title := "New"
	updated, err := app.Owner.Update(ctx, 1, entities.EventPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	require.NotNil(t, patched, "the update reached the backend")
	assert.Equal(t, "New", patched["title"])
	assert.Equal(t, "2030-06-01", patched["date"])
	assert.Equal(t, "14:00", patched["time"])
	assert.NotContains(t, patched, "end_date")
}
