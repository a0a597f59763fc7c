package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
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

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, map[string][]byte{"token": []byte("t1"), "user": []byte(`{"_id":"1"}`)}))

	v, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("t1"), v)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, v)
}

func TestPut_Upserts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, map[string][]byte{"token": []byte("old")}))
	require.NoError(t, r.Put(ctx, map[string][]byte{"token": []byte("new")}))

	v, _, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, map[string][]byte{"a": {0xAA}, "b": {0xBB}, "c": {0xCC}}))
	require.NoError(t, r.Delete(ctx, "a", "c", "missing"))

	for _, k := range []string{"a", "c"} {
		_, ok, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
	v, ok, err := r.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{0xBB}, v)
}
