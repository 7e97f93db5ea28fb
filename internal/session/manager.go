package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agrisense/internal/auth"
)

// Manager ties session state in a Store to the signed token the browser holds.
type Manager struct {
	store Store
	jwt   *auth.JWTService
	now   func() time.Time
}

// NewManager creates a session manager.
func NewManager(store Store, jwt *auth.JWTService) *Manager {
	return &Manager{store: store, jwt: jwt, now: time.Now}
}

// TTL returns the lifetime of stored sessions and issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.jwt.TTL()
}

// Start assigns s a fresh id, stores it, and returns the token naming it.
func (m *Manager) Start(ctx context.Context, s *Session) (string, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = m.now().UTC()
	if err := m.store.Put(ctx, s, m.TTL()); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	token, err := m.jwt.GenerateSessionToken(s.ID, s.Email)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Load returns the session named by claims. A missing session yields an
// anonymous one, which is what a logged-out or restarted user sees.
func (m *Manager) Load(ctx context.Context, claims *auth.Claims) (*Session, error) {
	if claims == nil || claims.SessionID() == "" {
		return Anonymous(), nil
	}
	s, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		return Anonymous(), err
	}
	if s == nil {
		return Anonymous(), nil
	}
	return s, nil
}

// Save writes back a session that was mutated during the request.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s.ID == "" {
		return errors.New("session has not been started")
	}
	return m.store.Put(ctx, s, m.TTL())
}

// Destroy drops the stored state and resets s to the anonymous state.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	var err error
	if s.ID != "" {
		err = m.store.Delete(ctx, s.ID)
	}
	*s = Session{}
	return err
}
