package inmemstore

import (
	"context"
	"sync"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
)

// Store keeps sessions in a map; used in tests and when no redis address is configured.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

var _ session.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: make(map[string]session.Session)}
}

func (s *Store) Save(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) Get(_ context.Context, id string) (session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if sess.Expired(core.Now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return session.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
