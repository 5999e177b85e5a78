package service

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"foodfleet/archive-svc/internal/domain"
	"foodfleet/archive-svc/internal/storage"
)

type ArchiveStore interface {
	SaveOrder(ctx context.Context, order domain.ArchivedOrder) (bool, error)
	AdvanceStage(ctx context.Context, orderID, stage string, at time.Time) (bool, error)
	ListOrders(ctx context.Context, limit int) ([]domain.ArchivedOrder, error)
	GetOrder(ctx context.Context, orderID string) (domain.ArchivedOrder, error)
}

type PopularityStore interface {
	Bump(ctx context.Context, restaurantID, itemID string, qty int, at time.Time) error
	Top(ctx context.Context, restaurantID string, n int, day string) ([]domain.PopularItem, error)
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

var (
	_ ArchiveStore    = (*storage.PostgresStore)(nil)
	_ PopularityStore = (*storage.Leaderboard)(nil)
	_ MessageReader   = (*kafka.Reader)(nil)
)

type ArchiveServiceInterface interface {
	Orders(ctx context.Context, limit int) ([]domain.ArchivedOrder, error)
	Order(ctx context.Context, orderID string) (domain.ArchivedOrder, error)
	Popular(ctx context.Context, restaurantID string, n int, day string) ([]domain.PopularItem, error)
}

var _ ArchiveServiceInterface = (*ArchiveService)(nil)
