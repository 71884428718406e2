package product

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	items map[string]Product
	calls int
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*Product, error) {
	s.calls++
	p, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) List(_ context.Context, q Query) ([]Product, error) {
	s.calls++
	out := []Product{}
	for _, p := range s.items {
		if q.Category == "" || p.Category == q.Category {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("fruit").Valid())
	assert.False(t, Category("").Valid())
}

// With Redis down the cache must fall through to the backing repository.
func TestCachedRepo_FallsThroughWhenRedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	next := &stubRepo{items: map[string]Product{
		"v1": {ID: "v1", Name: "Kale (Organic)", Category: Vegetables, Unit: "bunch", Price: 25, Stock: 28},
	}}
	repo := NewCachedRepo(next, rdb, time.Minute)

	p, err := repo.GetByID(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), p.Price)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := repo.List(context.Background(), Query{Category: Vegetables})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, next.calls)
}

func TestCachedRepo_ServesRepeatReadsFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	next := &stubRepo{items: map[string]Product{
		"v1": {ID: "v1", Name: "Kale (Organic)", Category: Vegetables, Unit: "bunch", Price: 25, Stock: 28},
		"e1": {ID: "e1", Name: "Free-range Eggs", Category: Eggs, Unit: "dozen", Price: 65, Stock: 22},
	}}
	repo := NewCachedRepo(next, rdb, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := repo.GetByID(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, "Kale (Organic)", p.Name)

		eggs, err := repo.List(ctx, Query{Category: Eggs})
		require.NoError(t, err)
		assert.Len(t, eggs, 1)
	}
	assert.Equal(t, 2, next.calls)
	assert.True(t, mr.Exists("product:v1"))
	assert.True(t, mr.Exists("products:category:eggs"))
	assert.Equal(t, time.Minute, mr.TTL("product:v1"))

	// misses are not cached
	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("product:nope"))
}
