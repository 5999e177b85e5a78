package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

type RedisStore struct {
	client  *redis.Client
	pricing Pricing
	ttl     time.Duration
}

func NewRedisStore(client *redis.Client, pricing Pricing, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		pricing: pricing,
		ttl:     ttl,
	}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Ledger, error) {
	return s.read(ctx, s.client, cacheKey(sessionID))
}

// Update runs fn inside a WATCH transaction so concurrent requests from the
// same session cannot lose each other's changes.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*Ledger) error) (*Ledger, error) {
	key := cacheKey(sessionID)
	var result *Ledger

	txf := func(tx *redis.Tx) error {
		ledger, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(ledger); err != nil {
			return err
		}

		data, err := json.Marshal(ledger.Snapshot())
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if ledger.IsEmpty() && ledger.Promo() == "" {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = ledger
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

// Take uses GETDEL so the read and the removal are a single command.
func (s *RedisStore) Take(ctx context.Context, sessionID string) (*Ledger, error) {
	return s.read(ctx, takeGetter{s.client}, cacheKey(sessionID))
}

type takeGetter struct {
	client *redis.Client
}

func (g takeGetter) Get(ctx context.Context, key string) *redis.StringCmd {
	return g.client.GetDel(ctx, key)
}

func (s *RedisStore) read(ctx context.Context, g getter, key string) (*Ledger, error) {
	data, err := g.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewLedger(s.pricing), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return Restore(s.pricing, snap), nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

var _ Store = (*RedisStore)(nil)
