package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, DefaultPricing(), time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := setupTestRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(DefaultPricing()),
		"redis":  redisStore,
	}
}

func TestStore_LoadUnknownSessionIsEmpty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l, err := store.Load(context.Background(), "nobody")
			require.NoError(t, err)
			assert.True(t, l.IsEmpty())
		})
	}
}

func TestStore_UpdatePersistsBetweenCalls(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(pizza)
				l.AddItem(salad)
				return nil
			})
			require.NoError(t, err)

			l, err := store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(salad)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, 3, l.ItemCount())

			loaded, err := store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "44.60", loaded.ComputeTotals().Total.StringFixed(2))

			other, err := store.Load(ctx, "s2")
			require.NoError(t, err)
			assert.True(t, other.IsEmpty())
		})
	}
}

func TestStore_UpdateErrorLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(pizza)
				return nil
			})
			require.NoError(t, err)

			_, err = store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(pizza)
				return boom
			})
			assert.ErrorIs(t, err, boom)

			loaded, err := store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, 1, loaded.ItemCount())
		})
	}
}

func TestStore_Take(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(pizza)
				l.AddItem(salad)
				return nil
			})
			require.NoError(t, err)

			taken, err := store.Take(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, 2, taken.ItemCount())

			again, err := store.Take(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, again.IsEmpty())

			loaded, err := store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, loaded.IsEmpty())
		})
	}
}

func TestStore_ConcurrentTakeHandsOutCartOnce(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Update(ctx, "s1", func(l *Ledger) error {
				l.AddItem(pizza)
				return nil
			})
			require.NoError(t, err)

			const takers = 8
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				items int
			)
			for i := 0; i < takers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					l, err := store.Take(ctx, "s1")
					assert.NoError(t, err)
					if l == nil {
						return
					}
					mu.Lock()
					items += l.ItemCount()
					mu.Unlock()
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, items)
		})
	}
}

func TestRedisStore_TTLAndEmptyCartRemoval(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", func(l *Ledger) error {
		l.AddItem(pizza)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey("s1")))
	assert.Equal(t, time.Hour, mr.TTL(cacheKey("s1")))

	_, err = store.Update(ctx, "s1", func(l *Ledger) error {
		l.RemoveItem(KeyOf(pizza))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey("s1")))

	_, err = store.Update(ctx, "s2", func(l *Ledger) error {
		l.AddItem(salad)
		return nil
	})
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)
	loaded, err := store.Load(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("s1"), "{not json"))

	_, err := store.Load(context.Background(), "s1")
	assert.Error(t, err)
}
