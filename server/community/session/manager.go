package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"community_server/server/common/auth"
)

// ErrNoSession covers missing, malformed, expired and revoked tokens. Callers
// cannot tell them apart.
var ErrNoSession = errors.New("no session")

type Manager struct {
	store  Store
	signer *auth.Service
	ttl    time.Duration
}

func NewManager(store Store, signer *auth.Service) *Manager {
	return &Manager{store: store, signer: signer, ttl: signer.TTL()}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login starts a new session for userID and returns the token the client
// must echo back.
func (m *Manager) Login(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.Put(ctx, sessionID, userID, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	token, err := m.signer.SignSession(sessionID)
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (m *Manager) CurrentUserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	sessionID, err := m.signer.ParseSession(token)
	if err != nil {
		return "", ErrNoSession
	}
	userID, ok, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return "", ErrNoSession
	}
	return userID, nil
}

// Logout revokes the session behind token. Unknown tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sessionID, err := m.signer.ParseSession(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}
