package service

import (
	"context"

	"foodfleet/archive-svc/internal/domain"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	DefaultTopN      = 5
)

type ArchiveService struct {
	store      ArchiveStore
	popularity PopularityStore
}

func NewArchiveService(store ArchiveStore, popularity PopularityStore) *ArchiveService {
	return &ArchiveService{store: store, popularity: popularity}
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (s *ArchiveService) Orders(ctx context.Context, limit int) ([]domain.ArchivedOrder, error) {
	return s.store.ListOrders(ctx, clampLimit(limit, DefaultListLimit, MaxListLimit))
}

func (s *ArchiveService) Order(ctx context.Context, orderID string) (domain.ArchivedOrder, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *ArchiveService) Popular(ctx context.Context, restaurantID string, n int, day string) ([]domain.PopularItem, error) {
	return s.popularity.Top(ctx, restaurantID, clampLimit(n, DefaultTopN, MaxListLimit), day)
}
