package product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CachedRepo is a read-through Redis cache in front of another Repository.
// Cache failures are logged and never fail a read.
type CachedRepo struct {
	next Repository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedRepo(next Repository, rdb *redis.Client, ttl time.Duration) *CachedRepo {
	return &CachedRepo{next: next, rdb: rdb, ttl: ttl}
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }

func listKey(q Query) string {
	if q.Category == "" {
		return "products:all"
	}
	return fmt.Sprintf("products:category:%s", q.Category)
}

func (c *CachedRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if c.load(ctx, productKey(id), &p) {
		return &p, nil
	}
	out, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, productKey(id), out)
	return out, nil
}

func (c *CachedRepo) List(ctx context.Context, q Query) ([]Product, error) {
	var items []Product
	if c.load(ctx, listKey(q), &items) {
		return items, nil
	}
	out, err := c.next.List(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, listKey(q), out)
	return out, nil
}

func (c *CachedRepo) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache entry corrupt")
		return false
	}
	return true
}

func (c *CachedRepo) store(ctx context.Context, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}
