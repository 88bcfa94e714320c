package application

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

// SessionStore owns the current user. Other components read it; only the store writes it.
type SessionStore struct {
	auth output.AuthAPI
	bus  *Bus
	log  *zap.Logger

	mu   sync.RWMutex
	user *entities.User
}

func NewSessionStore(auth output.AuthAPI, bus *Bus, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{auth: auth, bus: bus, log: logger}
}

// Initialize resolves the current identity. Any failure leaves the session anonymous.
func (s *SessionStore) Initialize(ctx context.Context) {
	u, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.log.Info("session: no current identity", zap.Error(err))
		u = nil
	}
	if u == nil {
		s.set(ctx, nil, ChangeLoggedOut)
		return
	}
	s.set(ctx, u, ChangeLoggedIn)
}

func (s *SessionStore) Login(ctx context.Context, creds entities.Credentials) (entities.User, error) {
	if err := domain.ValidateCredentials(creds); err != nil {
		return entities.User{}, err
	}
	u, err := s.auth.Login(ctx, creds)
	if err != nil {
		return entities.User{}, err
	}
	s.set(ctx, u, ChangeLoggedIn)
	return *u, nil
}

func (s *SessionStore) Signup(ctx context.Context, fields entities.SignupFields) (entities.User, error) {
	if err := domain.ValidateSignup(fields); err != nil {
		return entities.User{}, err
	}
	u, err := s.auth.Signup(ctx, fields)
	if err != nil {
		return entities.User{}, err
	}
	s.set(ctx, u, ChangeLoggedIn)
	return *u, nil
}

func (s *SessionStore) LoginWithGoogle(ctx context.Context, accessToken string) (entities.User, error) {
	if accessToken == "" {
		return entities.User{}, domain.Invalid("access_token", "required")
	}
	u, err := s.auth.LoginWithGoogle(ctx, accessToken)
	if err != nil {
		return entities.User{}, err
	}
	s.set(ctx, u, ChangeLoggedIn)
	return *u, nil
}

// Logout clears the local session whatever the backend answers; the backend's error,
// if any, is returned so it can be shown.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	if err != nil {
		s.log.Warn("session: remote logout failed", zap.Error(err))
	}
	s.set(ctx, nil, ChangeLoggedOut)
	return err
}

// Current returns a copy of the current user.
func (s *SessionStore) Current() (entities.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entities.User{}, false
	}
	return *s.user, true
}

func (s *SessionStore) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Replace swaps in a fresher record of the current user, e.g. after a profile update.
func (s *SessionStore) Replace(ctx context.Context, u entities.User) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return domain.ErrUnauthenticated
	}
	if s.user.ID != u.ID {
		s.mu.Unlock()
		return domain.ErrUserMismatch
	}
	s.user = &u
	s.mu.Unlock()

	s.publish(ctx, Change{Topic: TopicProfile, Kind: ChangeReplaced})
	return nil
}

// set installs u and publishes a session change when identity changed.
func (s *SessionStore) set(ctx context.Context, u *entities.User, kind ChangeKind) {
	s.mu.Lock()
	var prevID, nextID uint
	if s.user != nil {
		prevID = s.user.ID
	}
	if u != nil {
		cp := *u
		u = &cp
		nextID = u.ID
	}
	s.user = u
	s.mu.Unlock()

	if prevID == nextID {
		if u != nil {
			s.publish(ctx, Change{Topic: TopicProfile, Kind: ChangeReplaced})
		}
		return
	}
	s.log.Info("session: identity changed", zap.Uint("from", prevID), zap.Uint("to", nextID))
	s.publish(ctx, Change{Topic: TopicSession, Kind: kind})
}

func (s *SessionStore) publish(ctx context.Context, c Change) {
	if err := s.bus.Publish(ctx, c); err != nil {
		s.log.Warn("session: dependents failed to refresh", zap.String("topic", string(c.Topic)), zap.Error(err))
	}
}
