package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrConflict is returned when a session cart keeps changing underneath an
// update and the retries run out.
var ErrConflict = errors.New("cart changed concurrently")

const maxUpdateRetries = 5

// Store persists one cart per browsing session.
type Store interface {
	Get(ctx context.Context, session string) (Cart, error)
	// Update loads the session cart, applies fn and saves the result as one
	// serialized step for that session.
	Update(ctx context.Context, session string, fn func(Cart) Cart) (Cart, error)
	Clear(ctx context.Context, session string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(session string) string { return fmt.Sprintf("cart:%s", session) }

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func read(ctx context.Context, c getter, k string) (Cart, error) {
	raw, err := c.Get(ctx, k).Bytes()
	if err == redis.Nil {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, errors.Wrap(err, "get cart")
	}
	var out Cart
	if err := json.Unmarshal(raw, &out); err != nil {
		// A corrupt entry is treated as an empty cart rather than wedging the session.
		return Cart{}, nil
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, session string) (Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return read(ctx, s.rdb, key(session))
}

func (s *RedisStore) Update(ctx context.Context, session string, fn func(Cart) Cart) (Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	k := key(session)
	var result Cart
	txf := func(tx *redis.Tx) error {
		cur, err := read(ctx, tx, k)
		if err != nil {
			return err
		}
		next := fn(cur)
		body, err := json.Marshal(next)
		if err != nil {
			return errors.Wrap(err, "encode cart")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next.Empty() {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.Set(ctx, k, body, s.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return Cart{}, err
	}
	return Cart{}, ErrConflict
}

func (s *RedisStore) Clear(ctx context.Context, session string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return errors.Wrap(s.rdb.Del(ctx, key(session)).Err(), "clear cart")
}
