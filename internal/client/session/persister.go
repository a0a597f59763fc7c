package session

import (
	"context"
	"sync"
)

// Persister keeps a durable copy of the session.
//
// Load returns the zero Session when nothing was saved. Purge erases the
// copy wholesale and must succeed when there is nothing to erase.
type Persister interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Purge(ctx context.Context) error
}

// MemoryPersister keeps the last saved session in memory. It counts calls,
// which tests use to check the store's side effects.
type MemoryPersister struct {
	mu     sync.Mutex
	rec    record
	Saves  int
	Purges int
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load(context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return record{Token: m.rec.Token, User: m.rec.User.Clone()}.session(), nil
}

func (m *MemoryPersister) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = s.record()
	m.Saves++
	return nil
}

func (m *MemoryPersister) Purge(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = record{}
	m.Purges++
	return nil
}
