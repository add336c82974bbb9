package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/user"
)

var ErrNotFound = errors.New("session not found")

type (
	// Session holds at most one authenticated user. It is deleted on logout.
	Session struct {
		ID        string    `json:"id"`
		UserID    int       `json:"user_id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      user.Role `json:"role"`
		CreatedAt time.Time `json:"created_at"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	// Store persists sessions by ID. Get returns ErrNotFound for unknown or expired sessions.
	Store interface {
		Save(ctx context.Context, sess Session) error
		Get(ctx context.Context, id string) (Session, error)
		Delete(ctx context.Context, id string) error
		Ping(ctx context.Context) error
	}

	Manager struct {
		store Store
		ttl   time.Duration
	}
)

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) TTL(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// User returns the session user, without the password hash.
func (s Session) User() user.User {
	return user.User{ID: s.UserID, Name: s.Name, Email: s.Email, Role: s.Role}
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create opens a new session for usr.
func (m *Manager) Create(ctx context.Context, usr user.User) (Session, error) {
	now := core.Now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, ErrNotFound
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(core.Now()) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Destroy deletes the session; deleting an unknown session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
