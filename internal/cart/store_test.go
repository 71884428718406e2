package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr, rdb
}

func TestRedisStore_MissingSessionIsEmpty(t *testing.T) {
	s, _, _ := newRedisStore(t)

	ct, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, ct.Empty())
}

func TestRedisStore_UpdateStoresWithTTL(t *testing.T) {
	s, mr, _ := newRedisStore(t)
	ctx := context.Background()

	got, err := s.Update(ctx, "s1", func(c Cart) Cart { return c.Add(kale(2)) })
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[0].Qty)

	assert.True(t, mr.Exists("cart:s1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:s1"))

	back, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, got, back)
}

func TestRedisStore_EmptyCartDeletesKey(t *testing.T) {
	s, mr, _ := newRedisStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "s1", func(c Cart) Cart { return c.Add(kale(1)) })
	require.NoError(t, err)
	_, err = s.Update(ctx, "s1", func(c Cart) Cart { return c.Remove("v1") })
	require.NoError(t, err)
	assert.False(t, mr.Exists("cart:s1"))

	require.NoError(t, s.Clear(ctx, "s1"))
}

func TestRedisStore_CorruptEntryReadsEmpty(t *testing.T) {
	s, mr, _ := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("cart:s1", "{not json"))

	ct, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ct.Empty())

	ct, err = s.Update(ctx, "s1", func(c Cart) Cart { return c.Add(eggs(1)) })
	require.NoError(t, err)
	assert.Len(t, ct.Lines, 1)
}

func TestRedisStore_ClearRemovesCart(t *testing.T) {
	s, mr, _ := newRedisStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "s1", func(c Cart) Cart { return c.Add(kale(1)) })
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "s1"))
	assert.False(t, mr.Exists("cart:s1"))
}

func TestRedisStore_RetriesWhenKeyChanges(t *testing.T) {
	s, _, rdb := newRedisStore(t)
	ctx := context.Background()

	calls := 0
	got, err := s.Update(ctx, "s1", func(c Cart) Cart {
		calls++
		if calls == 1 {
			// a write from another connection after WATCH aborts this attempt
			require.NoError(t, rdb.Set(ctx, "cart:s1", `{"lines":[]}`, 0).Err())
		}
		return c.Add(kale(1))
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, got.Lines[0].Qty)
}

func TestRedisStore_ConflictAfterRetries(t *testing.T) {
	s, _, rdb := newRedisStore(t)
	ctx := context.Background()

	calls := 0
	_, err := s.Update(ctx, "s1", func(c Cart) Cart {
		calls++
		require.NoError(t, rdb.Set(ctx, "cart:s1", `{"lines":[]}`, 0).Err())
		return c.Add(kale(1))
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxUpdateRetries, calls)
}

func TestRedisStore_ConcurrentUpdatesKeepEveryIncrement(t *testing.T) {
	s, _, _ := newRedisStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := s.Update(ctx, "s1", func(c Cart) Cart { return c.Add(kale(1)) })
				if err == nil {
					return
				}
				if !assert.ErrorIs(t, err, ErrConflict) {
					return
				}
			}
		}()
	}
	wg.Wait()

	ct, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ct.Lines, 1)
	assert.Equal(t, n, ct.Lines[0].Qty)
}
