package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/catalog"
	"foodfleet/storefront-svc/internal/domain"
	"foodfleet/storefront-svc/internal/service"
)

func newCartService() (*service.CartService, cart.Store) {
	store := cart.NewMemoryStore(cart.DefaultPricing())
	return service.NewCartService(catalog.Default(), store), store
}

func TestCartService_AddComputesTotals(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "1", "m1")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", "1", "a2")
	require.NoError(t, err)
	view, err := svc.Add(ctx, "s1", "1", "a2")
	require.NoError(t, err)

	assert.Equal(t, 3, view.ItemCount)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "m1", view.Lines[0].Item.ID)
	assert.Equal(t, "1", view.Lines[0].Item.RestaurantID)
	assert.Equal(t, "36.00", view.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", view.Totals.DeliveryFee.StringFixed(2))
	assert.Equal(t, "3.60", view.Totals.Tax.StringFixed(2))
	assert.Equal(t, "44.60", view.Totals.Total.StringFixed(2))
}

func TestCartService_AddErrors(t *testing.T) {
	tests := []struct {
		name         string
		restaurantID string
		itemID       string
		wantErr      error
	}{
		{name: "unknown restaurant", restaurantID: "99", itemID: "m1", wantErr: catalog.ErrRestaurantNotFound},
		{name: "item from another restaurant", restaurantID: "2", itemID: "m1", wantErr: catalog.ErrItemNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, _ := newCartService()
			_, err := svc.Add(context.Background(), "s1", testCase.restaurantID, testCase.itemID)
			assert.ErrorIs(t, err, testCase.wantErr)

			view, err := svc.View(context.Background(), "s1")
			require.NoError(t, err)
			assert.Zero(t, view.ItemCount)
		})
	}
}

func TestCartService_MixedRestaurantsShareCart(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "1", "m1")
	require.NoError(t, err)
	view, err := svc.Add(ctx, "s1", "2", "sfm1")
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "2", view.Lines[1].Item.RestaurantID)
}

func TestCartService_SetQuantity(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", "1", "m1")
	require.NoError(t, err)

	view, err := svc.SetQuantity(ctx, "s1", "1", "m1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.ItemCount)

	view, err = svc.SetQuantity(ctx, "s1", "1", "m1", 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Totals.DeliveryFee.IsZero())

	view, err = svc.SetQuantity(ctx, "s1", "1", "m1", 0)
	require.NoError(t, err, "zeroing an absent line is a no-op")
	assert.Empty(t, view.Lines)

	_, err = svc.SetQuantity(ctx, "s1", "1", "m1", 2)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
	_, err = svc.SetQuantity(ctx, "s1", "1", "m1", -1)
	assert.NoError(t, err)
}

func TestCartService_SameItemIDInTwoRestaurants(t *testing.T) {
	restaurants := []domain.Restaurant{
		{ID: "A", Name: "Pizza Place", Menu: []domain.MenuCategory{{Name: "main_courses", Items: []domain.MenuItem{
			{ID: "1", Name: "Pizza", Price: decimal.RequireFromString("15.00")},
		}}}},
		{ID: "B", Name: "Sushi Bar", Menu: []domain.MenuCategory{{Name: "main_courses", Items: []domain.MenuItem{
			{ID: "1", Name: "Sushi", Price: decimal.RequireFromString("22.00")},
		}}}},
	}
	svc := service.NewCartService(catalog.New(restaurants, nil), cart.NewMemoryStore(cart.DefaultPricing()))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "A", "1")
	require.NoError(t, err)
	view, err := svc.Add(ctx, "s1", "B", "1")
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Pizza", view.Lines[0].Item.Name)
	assert.Equal(t, "Sushi", view.Lines[1].Item.Name)
	assert.Equal(t, "37.00", view.Totals.Subtotal.StringFixed(2))

	view, err = svc.SetQuantity(ctx, "s1", "B", "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "59.00", view.Totals.Subtotal.StringFixed(2))

	view, err = svc.Remove(ctx, "s1", "A", "1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Sushi", view.Lines[0].Item.Name)
}

func TestCartService_RemoveAndPromo(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()
	_, err := svc.Add(ctx, "s1", "1", "d1")
	require.NoError(t, err)

	_, err = svc.ApplyPromo(ctx, "s1", "NOPE")
	assert.ErrorIs(t, err, cart.ErrInvalidPromo)

	view, err := svc.ApplyPromo(ctx, "s1", "foodfleet10")
	require.NoError(t, err)
	assert.Equal(t, "FOODFLEET10", view.Promo)
	assert.Equal(t, "7.20", view.Totals.Total.StringFixed(2))

	view, err = svc.Remove(ctx, "s1", "1", "d1")
	require.NoError(t, err)
	assert.Zero(t, view.ItemCount)

	view, err = svc.Remove(ctx, "s1", "1", "d1")
	require.NoError(t, err)
	assert.Zero(t, view.ItemCount)
}
