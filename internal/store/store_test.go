package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": openTestSQLite(t),
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := s.Get(context.Background(), PlantsKey)
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestStore_SetGetOverwriteRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, PlantsKey, []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, HarvestsKey, []byte(`[]`)))

			v, err := s.Get(ctx, PlantsKey)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1]`), v)

			require.NoError(t, s.Set(ctx, PlantsKey, []byte(`[1,2]`)))
			v, err = s.Get(ctx, PlantsKey)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1,2]`), v)

			require.NoError(t, s.Remove(ctx, PlantsKey))
			v, err = s.Get(ctx, PlantsKey)
			require.NoError(t, err)
			assert.Nil(t, v)

			// other keys untouched
			v, err = s.Get(ctx, HarvestsKey)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), v)

			require.NoError(t, s.Remove(ctx, "missing"))
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	out[1] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "k", nil), context.Canceled)
	assert.ErrorIs(t, s.Remove(ctx, "k"), context.Canceled)
}

func TestOpenSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, HarvestsKey, []byte(`[{"id":"h1"}]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, HarvestsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"h1"}]`, string(v))
}
