package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
)

// ============================================================================
// In-memory backend
// ============================================================================

// memBackend behaves like the server of record. It deliberately does not enforce
// capacity so tests can tell whether the client gate did.
// The xxxFunc fields override the default behaviour when set.
type memBackend struct {
	mu      sync.Mutex
	events  []entities.Event
	nextID  uint
	users   map[string]entities.User
	current *entities.User
	calls   map[string]int

	listFunc              func(ctx context.Context) ([]entities.Event, error)
	currentUserFunc       func(ctx context.Context) (*entities.User, error)
	participateFunc       func(ctx context.Context, id uint) error
	removeParticipantFunc func(ctx context.Context, eventID, userID uint) error
	logoutFunc            func(ctx context.Context) error
	updateProfileFunc     func(ctx context.Context, patch entities.ProfilePatch) (*entities.User, error)
}

func newMemBackend(users ...entities.User) *memBackend {
	m := &memBackend{
		nextID: 1,
		users:  make(map[string]entities.User),
		calls:  make(map[string]int),
	}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *memBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *memBackend) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *memBackend) find(id uint) (int, error) {
	for i := range m.events {
		if m.events[i].ID == id {
			return i, nil
		}
	}
	return -1, &domain.ServerRejected{Status: 404, Message: "Event not found"}
}

func (m *memBackend) me() (*entities.User, error) {
	if m.current == nil {
		return nil, domain.ErrUnauthenticated
	}
	return m.current, nil
}

func (m *memBackend) ListEvents(ctx context.Context) ([]entities.Event, error) {
	m.record("list")
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.Event, len(m.events))
	for i, e := range m.events {
		e.Participants = append([]entities.User(nil), e.Participants...)
		out[i] = e
	}
	return out, nil
}

func (m *memBackend) CreateEvent(ctx context.Context, d entities.EventDraft) (*entities.Event, error) {
	m.record("create")
	m.mu.Lock()
	defer m.mu.Unlock()
	me, err := m.me()
	if err != nil {
		return nil, err
	}
	e := entities.Event{
		ID:              m.nextID,
		Title:           d.Title,
		Description:     d.Description,
		Type:            d.Type,
		Location:        d.Location,
		Coordinates:     d.Coordinates,
		StartsAt:        d.StartsAt,
		EndsAt:          d.EndsAt,
		MaxParticipants: d.MaxParticipants,
		CreatedBy:       *me,
	}
	m.nextID++
	m.events = append(m.events, e)
	return &e, nil
}

func (m *memBackend) UpdateEvent(ctx context.Context, id uint, d entities.EventDraft) (*entities.Event, error) {
	m.record("update")
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	e := &m.events[i]
	e.Title, e.Description, e.Type, e.Location = d.Title, d.Description, d.Type, d.Location
	e.Coordinates, e.StartsAt, e.EndsAt, e.MaxParticipants = d.Coordinates, d.StartsAt, d.EndsAt, d.MaxParticipants
	out := *e
	return &out, nil
}

func (m *memBackend) DeleteEvent(ctx context.Context, id uint) error {
	m.record("delete")
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.events = append(m.events[:i], m.events[i+1:]...)
	return nil
}

func (m *memBackend) Participate(ctx context.Context, id uint) error {
	m.record("participate")
	if m.participateFunc != nil {
		return m.participateFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	me, err := m.me()
	if err != nil {
		return err
	}
	i, err := m.find(id)
	if err != nil {
		return err
	}
	if !m.events[i].HasParticipant(me.ID) {
		m.events[i].Participants = append(m.events[i].Participants, *me)
	}
	return nil
}

func (m *memBackend) Leave(ctx context.Context, id uint) error {
	m.record("leave")
	m.mu.Lock()
	defer m.mu.Unlock()
	me, err := m.me()
	if err != nil {
		return err
	}
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.events[i].Participants = without(m.events[i].Participants, me.ID)
	return nil
}

func (m *memBackend) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	m.record("remove_participant")
	if m.removeParticipantFunc != nil {
		return m.removeParticipantFunc(ctx, eventID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(eventID)
	if err != nil {
		return err
	}
	m.events[i].Participants = without(m.events[i].Participants, userID)
	return nil
}

func (m *memBackend) CurrentUser(ctx context.Context) (*entities.User, error) {
	m.record("me")
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	u := *m.current
	return &u, nil
}

func (m *memBackend) Login(ctx context.Context, creds entities.Credentials) (*entities.User, error) {
	m.record("login")
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[creds.Username]
	if !ok {
		return nil, &domain.ServerRejected{Status: 400, Message: "Invalid credentials"}
	}
	m.current = &u
	out := u
	return &out, nil
}

func (m *memBackend) Signup(ctx context.Context, f entities.SignupFields) (*entities.User, error) {
	m.record("signup")
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[f.Username]; exists {
		return nil, &domain.ServerRejected{Status: 400, Message: "A user with that username already exists."}
	}
	u := entities.User{ID: uint(100 + len(m.users)), Username: f.Username, Email: f.Email, FirstName: f.FirstName, LastName: f.LastName}
	m.users[u.Username] = u
	m.current = &u
	out := u
	return &out, nil
}

func (m *memBackend) LoginWithGoogle(ctx context.Context, accessToken string) (*entities.User, error) {
	m.record("google")
	return m.Login(ctx, entities.Credentials{Username: accessToken, Password: "-"})
}

func (m *memBackend) Logout(ctx context.Context) error {
	m.record("logout")
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx)
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

func (m *memBackend) UpdateProfile(ctx context.Context, p entities.ProfilePatch) (*entities.User, error) {
	m.record("update_profile")
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	me, err := m.me()
	if err != nil {
		return nil, err
	}
	u := p.Apply(*me)
	m.current = &u
	m.users[u.Username] = u
	out := u
	return &out, nil
}

func without(users []entities.User, id uint) []entities.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// ============================================================================
// Fixtures
// ============================================================================

var (
	alice = entities.User{ID: 1, Username: "alice", Email: "alice@example.com", FirstName: "Alice"}
	bob   = entities.User{ID: 2, Username: "bob", Email: "bob@example.com"}
	carol = entities.User{ID: 3, Username: "carol", Email: "carol@example.com"}
)

var kickoff = time.Date(2026, 11, 7, 14, 0, 0, 0, time.UTC)

func draft(title string, limit *int) entities.EventDraft {
	return entities.EventDraft{
		Title:           title,
		Description:     fmt.Sprintf("%s description", title),
		Type:            entities.EventTypeMatch,
		Location:        "Riverside Park",
		StartsAt:        kickoff,
		EndsAt:          kickoff.Add(2 * time.Hour),
		MaxParticipants: limit,
	}
}

func intPtr(n int) *int { return &n }

func newTestApp(users ...entities.User) (*App, *memBackend) {
	backend := newMemBackend(users...)
	return New(backend, nil), backend
}

func loginAs(ctx context.Context, app *App, u entities.User) error {
	_, err := app.Session.Login(ctx, entities.Credentials{Username: u.Username, Password: "pw"})
	return err
}
