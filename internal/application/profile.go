package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

// ProfileManager reads and edits the current user's profile. The session store stays
// the owner of the user record; updates go through SessionStore.Replace.
type ProfileManager struct {
	auth    output.AuthAPI
	api     output.ProfileAPI
	session *SessionStore
	log     *zap.Logger

	Form Form

	mu     sync.Mutex
	cached *entities.User
}

func NewProfileManager(auth output.AuthAPI, api output.ProfileAPI, session *SessionStore, logger *zap.Logger) *ProfileManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileManager{auth: auth, api: api, session: session, log: logger}
}

// Attach drops the cached profile whenever the identity changes.
func (m *ProfileManager) Attach(bus *Bus) {
	bus.Subscribe(TopicSession, func(ctx context.Context, c Change) error {
		m.mu.Lock()
		m.cached = nil
		m.mu.Unlock()
		return nil
	})
}

// Load returns the full profile, fetching it once per identity.
func (m *ProfileManager) Load(ctx context.Context) (entities.User, error) {
	me, ok := m.session.Current()
	if !ok {
		return entities.User{}, domain.ErrUnauthenticated
	}
	m.mu.Lock()
	if m.cached != nil && m.cached.ID == me.ID {
		u := *m.cached
		m.mu.Unlock()
		return u, nil
	}
	m.mu.Unlock()

	u, err := m.auth.CurrentUser(ctx)
	if err != nil {
		return entities.User{}, fmt.Errorf("load profile: %w", err)
	}
	if u == nil {
		return entities.User{}, domain.ErrUnauthenticated
	}
	if u.ID != me.ID {
		return entities.User{}, domain.ErrUserMismatch
	}
	m.store(*u)
	return *u, nil
}

// Update sends patch and installs the returned record as the session user. A
// backend answering without a body gets the patch applied locally. An empty patch
// sends nothing.
func (m *ProfileManager) Update(ctx context.Context, patch entities.ProfilePatch) (entities.User, error) {
	if err := domain.ValidateProfilePatch(patch); err != nil {
		return entities.User{}, err
	}
	me, ok := m.session.Current()
	if !ok {
		return entities.User{}, domain.ErrUnauthenticated
	}
	if patch.IsEmpty() {
		return me, nil
	}
	var updated entities.User
	err := m.Form.Submit(ctx, func(ctx context.Context) error {
		u, err := m.api.UpdateProfile(ctx, patch)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if u == nil {
			applied := patch.Apply(me)
			u = &applied
		}
		if err := m.session.Replace(ctx, *u); err != nil {
			return err
		}
		updated = *u
		return nil
	})
	if err != nil {
		return entities.User{}, err
	}
	m.store(updated)
	return updated, nil
}

func (m *ProfileManager) store(u entities.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = &u
}
