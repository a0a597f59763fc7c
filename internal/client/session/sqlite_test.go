package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/castkeeper/internal/client/repositories/metadata"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLitePersister_RoundTrip(t *testing.T) {
	db := setupDB(t)
	p := NewSQLitePersister(db)
	ctx := context.Background()

	img := "https://cdn.example/u1.png"
	u := testUser("u1")
	u.ProfileImage = &img

	require.NoError(t, p.Save(ctx, Session{Token: "tok", User: &u, IsAuthenticated: true}))

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok", got.Token)
	require.True(t, got.IsAuthenticated)
	require.Equal(t, &u, got.User)
}

func TestSQLitePersister_EmptyLoad(t *testing.T) {
	p := NewSQLitePersister(setupDB(t))

	got, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Session{}, got)
}

func TestSQLitePersister_SaveWithoutUserRemovesRow(t *testing.T) {
	db := setupDB(t)
	p := NewSQLitePersister(db)
	ctx := context.Background()

	u := testUser("u1")
	require.NoError(t, p.Save(ctx, Session{Token: "tok", User: &u, IsAuthenticated: true}))
	require.NoError(t, p.Save(ctx, Session{Token: "tok2"}))

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok2", got.Token)
	require.Nil(t, got.User)
	require.False(t, got.IsAuthenticated)
}

func TestSQLitePersister_PurgeKeepsUnrelatedMetadata(t *testing.T) {
	db := setupDB(t)
	p := NewSQLitePersister(db)
	ctx := context.Background()

	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Put(ctx, map[string][]byte{"ui.theme": []byte("dark")}))

	u := testUser("u1")
	require.NoError(t, p.Save(ctx, Session{Token: "tok", User: &u}))
	require.NoError(t, p.Purge(ctx))

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Session{}, got)

	theme, ok, err := repo.Get(ctx, "ui.theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("dark"), theme)

	for _, k := range []string{keyToken, keyUser} {
		_, ok, err := repo.Get(ctx, k)
		require.NoError(t, err)
		require.False(t, ok, k)
	}
}

func TestSQLitePersister_BackingStore(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s := NewStore(NewSQLitePersister(db), nil)
	s.SignIn(ctx, "tok", testUser("u1"))

	reloaded := NewStore(NewSQLitePersister(db), nil)
	require.NoError(t, reloaded.Restore(ctx))
	require.True(t, reloaded.IsAuthenticated())
	require.Equal(t, "tok", reloaded.Token())

	reloaded.Clear(ctx)

	again := NewStore(NewSQLitePersister(db), nil)
	require.NoError(t, again.Restore(ctx))
	require.False(t, again.IsAuthenticated())
}
