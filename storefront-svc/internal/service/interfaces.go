package service

import (
	"context"

	"foodfleet/pkg/events"
	"foodfleet/storefront-svc/internal/catalog"
	"foodfleet/storefront-svc/internal/checkout"
	"foodfleet/storefront-svc/internal/domain"
)

type CatalogReader interface {
	Restaurant(id string) (domain.Restaurant, error)
	Item(restaurantID, itemID string) (domain.MenuItem, error)
	Search(term, cuisine string) []domain.RestaurantSummary
	Cuisines() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// ProgressNotifier pushes tracker updates to live viewers of an order.
type ProgressNotifier interface {
	Notify(orderID string, p domain.Progress)
}

type CartServiceInterface interface {
	View(ctx context.Context, sessionID string) (CartView, error)
	Add(ctx context.Context, sessionID, restaurantID, itemID string) (CartView, error)
	SetQuantity(ctx context.Context, sessionID, restaurantID, itemID string, qty int) (CartView, error)
	Remove(ctx context.Context, sessionID, restaurantID, itemID string) (CartView, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (CartView, error)
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, sessionID string, form checkout.Form) (domain.Order, error)
	Get(id string) (domain.Order, error)
	Progress(id string) (domain.Progress, error)
	QRCode(id string) ([]byte, error)
	QRLink(id string) string
	Discard(id string) error
	Shutdown()
}

var _ CatalogReader = (*catalog.Catalog)(nil)
