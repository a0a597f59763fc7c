package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/stretchr/testify/require"
)

func testUser(id string) models.User {
	return models.User{ID: id, FullName: "User " + id, Email: id + "@example.com"}
}

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore(nil, nil)

	snap := s.Snapshot()
	require.Empty(t, snap.Token)
	require.Nil(t, snap.User)
	require.False(t, snap.IsAuthenticated)
}

func TestStore_SetUserAuthenticates(t *testing.T) {
	p := NewMemoryPersister()
	s := NewStore(p, nil)
	ctx := context.Background()

	u := testUser("u1")
	s.SetUser(ctx, u)

	require.True(t, s.IsAuthenticated())
	require.Equal(t, &u, s.User())
	require.Empty(t, s.Token(), "SetUser must not touch the token")
	require.Equal(t, 1, p.Saves)
}

func TestStore_SetTokenLeavesAuthenticationAlone(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	s.SetToken(ctx, "t1")
	require.Equal(t, "t1", s.Token())
	require.False(t, s.IsAuthenticated())

	s.SetUser(ctx, testUser("u1"))
	s.SetToken(ctx, "t2")
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "t2", s.Token())
}

func TestStore_ClearDropsEverythingAndPurges(t *testing.T) {
	p := NewMemoryPersister()
	s := NewStore(p, nil)
	ctx := context.Background()

	s.SignIn(ctx, "t", testUser("u1"))
	s.Clear(ctx)

	snap := s.Snapshot()
	require.Empty(t, snap.Token)
	require.Nil(t, snap.User)
	require.False(t, snap.IsAuthenticated)
	require.Equal(t, 1, p.Purges)

	restored, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Session{}, restored)
}

func TestStore_UserIsACopy(t *testing.T) {
	s := NewStore(nil, nil)
	s.SetUser(context.Background(), testUser("u1"))

	u := s.User()
	u.FullName = "mutated"
	require.Equal(t, "User u1", s.User().FullName)
}

func TestStore_RestoreRehydrates(t *testing.T) {
	p := NewMemoryPersister()
	ctx := context.Background()

	first := NewStore(p, nil)
	first.SignIn(ctx, "tok", testUser("u9"))

	second := NewStore(p, nil)
	require.False(t, second.IsAuthenticated())
	require.NoError(t, second.Restore(ctx))
	require.True(t, second.IsAuthenticated())
	require.Equal(t, "tok", second.Token())
	require.Equal(t, "u9", second.User().ID)
}

type failingPersister struct{}

func (failingPersister) Load(context.Context) (Session, error) { return Session{}, errors.New("load") }
func (failingPersister) Save(context.Context, Session) error   { return errors.New("save") }
func (failingPersister) Purge(context.Context) error           { return errors.New("purge") }

func TestStore_PersisterErrorsDoNotLeakIntoState(t *testing.T) {
	s := NewStore(failingPersister{}, nil)
	ctx := context.Background()

	require.Error(t, s.Restore(ctx))

	s.SignIn(ctx, "t", testUser("u1"))
	require.True(t, s.IsAuthenticated())

	s.Clear(ctx)
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.Token())
}

func TestStore_InvariantHoldsUnderRandomOperations(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			s.SetUser(ctx, testUser("u"))
		case 1:
			s.SetToken(ctx, "t")
		case 2:
			s.SignIn(ctx, "t", testUser("v"))
		case 3:
			s.Clear(ctx)
		}

		snap := s.Snapshot()
		require.Equal(t, snap.User != nil, snap.IsAuthenticated, "step %d", i)
	}
}
