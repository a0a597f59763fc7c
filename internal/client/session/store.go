package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
)

// Store is the single source of session state for the client. Construct it
// with NewStore and inject it wherever auth state is needed.
type Store struct {
	mu        sync.RWMutex
	token     string
	user      *models.User
	persister Persister
	log       logging.Logger
}

// NewStore returns an empty store backed by p. A nil persister keeps the
// session in memory only.
func NewStore(p Persister, log logging.Logger) *Store {
	if p == nil {
		p = NewMemoryPersister()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Store{persister: p, log: log.With("component", "session")}
}

// Restore replaces the in-memory state with the persisted copy.
func (s *Store) Restore(ctx context.Context) error {
	saved, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = saved.Token
	s.user = saved.User.Clone()
	s.log.Debug(ctx, "session restored", "authenticated", s.user != nil)
	return nil
}

// SetUser replaces the profile and marks the session authenticated.
func (s *Store) SetUser(ctx context.Context, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.Clone()
	s.persistLocked(ctx)
}

// SetToken replaces the bearer token only.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.persistLocked(ctx)
}

// SignIn stores token and user in one step after a successful login.
func (s *Store) SignIn(ctx context.Context, token string, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = u.Clone()
	s.persistLocked(ctx)
}

// Clear signs out: token and user are dropped together and the persisted
// copy is purged.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if err := s.persister.Purge(ctx); err != nil {
		s.log.Error(ctx, "session purge failed", "error", err)
	}
}

// Token returns the bearer token, or "" when none is held.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in profile, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	return Session{Token: s.token, User: s.user.Clone(), IsAuthenticated: s.user != nil}
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.log.Error(ctx, "session persist failed", "error", err)
	}
}
