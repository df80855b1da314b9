package checkpoint

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, "dream_homes_source_data.csv")
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	last, err := store.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, last)

	require.NoError(t, store.Save(ctx, 42))

	last, err = store.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, last)

	require.NoError(t, store.Clear(ctx))

	last, err = store.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, last)
}

func TestStoreKeysPerSourceFile(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	a := NewStore(client, "a.csv")
	b := NewStore(client, "b.csv")

	require.NoError(t, a.Save(ctx, 10))

	last, err := b.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, last)
}
