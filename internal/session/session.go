// Package session keeps the signed-in identity. It replaces a process-wide
// auth context with an explicit object handed to whoever needs it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gofinances/internal/core"
	"gofinances/internal/kv"
)

var ErrNoIdentity = errors.New("identity provider returned no user id")

type Manager struct {
	store kv.Store
	mu    sync.RWMutex
	user  core.User
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store}
}

// Load restores the persisted identity. Absent or malformed data leaves the
// session signed out; only a failing read is reported.
func (m *Manager) Load(ctx context.Context) error {
	raw, ok, err := m.store.Get(ctx, kv.UserKey)
	if err != nil {
		return fmt.Errorf("read user: %w", err)
	}

	var u core.User
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			slog.WarnContext(ctx, "Ignoring malformed user data", "component", "session", "error", err)
			u = core.User{}
		}
	}

	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
	return nil
}

// SignIn persists user and makes it current.
func (m *Manager) SignIn(ctx context.Context, user core.User) error {
	if user.IsZero() {
		return ErrNoIdentity
	}
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(ctx, kv.UserKey, string(b)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	slog.InfoContext(ctx, "User signed in", "component", "session", "user_id", user.ID)
	return nil
}

// SignOut clears the current user and removes the persisted identity. The
// in-memory identity is cleared even if the removal fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.user = core.User{}
	m.mu.Unlock()

	if err := m.store.Remove(ctx, kv.UserKey); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

func (m *Manager) Current() (core.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, !m.user.IsZero()
}
