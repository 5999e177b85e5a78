package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"foodfleet/archive-svc/internal/domain"
)

const dailyTTL = 7 * 24 * time.Hour

// Leaderboard counts units ordered per item, per restaurant, both all-time
// and per day.
type Leaderboard struct {
	rdb *redis.Client
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb}
}

func allTimeKey(restaurantID string) string {
	return fmt.Sprintf("popular:alltime:%s", restaurantID)
}

func dailyKey(day, restaurantID string) string {
	return fmt.Sprintf("popular:daily:%s:%s", day, restaurantID)
}

func (l *Leaderboard) Bump(ctx context.Context, restaurantID, itemID string, qty int, at time.Time) error {
	day := dailyKey(at.UTC().Format(time.DateOnly), restaurantID)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, allTimeKey(restaurantID), float64(qty), itemID)
		pipe.ZIncrBy(ctx, day, float64(qty), itemID)
		pipe.Expire(ctx, day, dailyTTL)
		return nil
	})
	return err
}

// Top returns the n most ordered items. An empty day means all-time,
// otherwise day is a YYYY-MM-DD date.
func (l *Leaderboard) Top(ctx context.Context, restaurantID string, n int, day string) ([]domain.PopularItem, error) {
	key := allTimeKey(restaurantID)
	if day != "" {
		key = dailyKey(day, restaurantID)
	}
	zs, err := l.rdb.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]domain.PopularItem, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		items = append(items, domain.PopularItem{ItemID: member, Count: int64(z.Score)})
	}
	return items, nil
}
