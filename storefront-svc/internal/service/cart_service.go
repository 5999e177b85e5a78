package service

import (
	"context"
	"fmt"

	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/domain"
)

// CartView is what the storefront renders for a cart: the lines in the
// order they were added plus the derived totals.
type CartView struct {
	Lines     []cart.Line   `json:"lines"`
	ItemCount int           `json:"item_count"`
	Totals    domain.Totals `json:"totals"`
	Promo     string        `json:"promo,omitempty"`
}

func viewOf(l *cart.Ledger) CartView {
	return CartView{
		Lines:     l.Lines(),
		ItemCount: l.ItemCount(),
		Totals:    l.ComputeTotals(),
		Promo:     l.Promo(),
	}
}

type CartService struct {
	catalog CatalogReader
	store   cart.Store
}

func NewCartService(catalog CatalogReader, store cart.Store) *CartService {
	return &CartService{catalog: catalog, store: store}
}

func (s *CartService) View(ctx context.Context, sessionID string) (CartView, error) {
	l, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("load cart: %w", err)
	}
	return viewOf(l), nil
}

// Add puts one more of the item in the cart. Items from different
// restaurants may share a cart.
func (s *CartService) Add(ctx context.Context, sessionID, restaurantID, itemID string) (CartView, error) {
	item, err := s.catalog.Item(restaurantID, itemID)
	if err != nil {
		return CartView{}, err
	}
	return s.update(ctx, sessionID, func(l *cart.Ledger) error {
		l.AddItem(item)
		return nil
	})
}

// SetQuantity sets the line to qty. A qty <= 0 removes the line and is a
// no-op when it is absent; a positive qty needs an existing line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, restaurantID, itemID string, qty int) (CartView, error) {
	key := cart.LineKey{RestaurantID: restaurantID, ItemID: itemID}
	return s.update(ctx, sessionID, func(l *cart.Ledger) error {
		if qty > 0 && l.Quantity(key) == 0 {
			return cart.ErrLineNotFound
		}
		l.SetQuantity(key, qty)
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID, restaurantID, itemID string) (CartView, error) {
	return s.update(ctx, sessionID, func(l *cart.Ledger) error {
		l.RemoveItem(cart.LineKey{RestaurantID: restaurantID, ItemID: itemID})
		return nil
	})
}

func (s *CartService) ApplyPromo(ctx context.Context, sessionID, code string) (CartView, error) {
	return s.update(ctx, sessionID, func(l *cart.Ledger) error {
		return l.ApplyPromo(code)
	})
}

func (s *CartService) update(ctx context.Context, sessionID string, fn func(*cart.Ledger) error) (CartView, error) {
	l, err := s.store.Update(ctx, sessionID, fn)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(l), nil
}

var _ CartServiceInterface = (*CartService)(nil)
