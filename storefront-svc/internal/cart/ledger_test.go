package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfleet/storefront-svc/internal/domain"
)

func menuItem(id, price string) domain.MenuItem {
	return domain.MenuItem{ID: id, RestaurantID: "1", Name: id, Price: decimal.RequireFromString(price)}
}

var (
	pizza = domain.MenuItem{ID: "m1", RestaurantID: "1", Name: "Margherita Pizza", Price: decimal.RequireFromString("15.00")}
	salad = domain.MenuItem{ID: "a2", RestaurantID: "1", Name: "Caprese Salad", Price: decimal.RequireFromString("10.50")}
)

func TestLedger_ComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		build        func(*Ledger)
		wantSubtotal string
		wantFee      string
		wantTax      string
		wantTotal    string
	}{
		{
			name: "pizza and two salads",
			build: func(l *Ledger) {
				l.AddItem(pizza)
				l.AddItem(salad)
				l.AddItem(salad)
			},
			wantSubtotal: "36.00",
			wantFee:      "5.00",
			wantTax:      "3.60",
			wantTotal:    "44.60",
		},
		{
			name:         "empty cart has no delivery fee",
			build:        func(l *Ledger) {},
			wantSubtotal: "0.00",
			wantFee:      "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name: "tax is rounded to cents",
			build: func(l *Ledger) {
				l.AddItem(menuItem("x", "8.99"))
			},
			wantSubtotal: "8.99",
			wantFee:      "5.00",
			wantTax:      "0.90",
			wantTotal:    "14.89",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			l := NewLedger(DefaultPricing())
			testCase.build(l)

			totals := l.ComputeTotals()
			assert.Equal(t, testCase.wantSubtotal, totals.Subtotal.StringFixed(2))
			assert.Equal(t, testCase.wantFee, totals.DeliveryFee.StringFixed(2))
			assert.Equal(t, testCase.wantTax, totals.Tax.StringFixed(2))
			assert.Equal(t, testCase.wantTotal, totals.Total.StringFixed(2))
		})
	}
}

func TestLedger_ComputeTotalsIsPure(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(pizza)
	l.SetQuantity(KeyOf(pizza), 3)

	first := l.ComputeTotals()
	second := l.ComputeTotals()
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.Equal(t, 3, l.ItemCount())
}

func TestLedger_AddItemIncrementsExistingLine(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(pizza)
	l.AddItem(pizza)
	l.AddItem(salad)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "m1", lines[0].Item.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "a2", lines[1].Item.ID)
	assert.Equal(t, 3, l.ItemCount())
}

func TestLedger_SetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		wantLines int
		wantCount int
	}{
		{name: "raise quantity", qty: 5, wantLines: 2, wantCount: 7},
		{name: "zero removes the line", qty: 0, wantLines: 1, wantCount: 2},
		{name: "negative removes the line", qty: -3, wantLines: 1, wantCount: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			l := NewLedger(DefaultPricing())
			l.AddItem(pizza)
			l.AddItem(salad)
			l.AddItem(salad)

			l.SetQuantity(KeyOf(pizza), testCase.qty)

			assert.Len(t, l.Lines(), testCase.wantLines)
			assert.Equal(t, testCase.wantCount, l.ItemCount())
		})
	}
}

func TestLedger_SetQuantityOnMissingLineIsNoop(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.SetQuantity(LineKey{RestaurantID: "1", ItemID: "ghost"}, 4)
	l.SetQuantity(LineKey{RestaurantID: "1", ItemID: "ghost"}, 0)
	assert.True(t, l.IsEmpty())
}

func TestLedger_DecrementFromOneRemovesLine(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(pizza)
	l.AddItem(salad)
	l.AddItem(salad)
	require.Equal(t, 3, l.ItemCount())

	l.SetQuantity(KeyOf(pizza), l.Quantity(KeyOf(pizza))-1)

	assert.Equal(t, 0, l.Quantity(KeyOf(pizza)))
	assert.Equal(t, 2, l.ItemCount())
	assert.Len(t, l.Lines(), 1)
}

func TestLedger_RemoveItemTwiceIsIdempotent(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(pizza)
	l.AddItem(salad)

	l.RemoveItem(KeyOf(pizza))
	once := l.Snapshot()
	l.RemoveItem(KeyOf(pizza))

	assert.Equal(t, once, l.Snapshot())
	assert.Equal(t, 1, l.ItemCount())
}

func TestLedger_CheckCheckout(t *testing.T) {
	l := NewLedger(DefaultPricing())
	assert.ErrorIs(t, l.CheckCheckout(), ErrEmptyCart)

	l.AddItem(pizza)
	assert.NoError(t, l.CheckCheckout())
}

func TestLedger_ApplyPromo(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(pizza)
	before := l.ComputeTotals()

	assert.ErrorIs(t, l.ApplyPromo("SAVEBIG"), ErrInvalidPromo)
	assert.Empty(t, l.Promo())

	require.NoError(t, l.ApplyPromo(" foodfleet10 "))
	assert.Equal(t, "FOODFLEET10", l.Promo())
	assert.True(t, before.Total.Equal(l.ComputeTotals().Total))
}

func TestRestore_DropsInvalidLinesAndMergesDuplicates(t *testing.T) {
	l := Restore(DefaultPricing(), Snapshot{
		Lines: []Line{
			{Item: pizza, Quantity: 1},
			{Item: salad, Quantity: 0},
			{Item: pizza, Quantity: 2},
		},
		Promo: "FOODFLEET10",
	})

	assert.Equal(t, 3, l.Quantity(KeyOf(pizza)))
	assert.Equal(t, 0, l.Quantity(KeyOf(salad)))
	assert.Equal(t, "FOODFLEET10", l.Promo())
}

func TestLedger_SameItemIDAcrossRestaurants(t *testing.T) {
	margherita := domain.MenuItem{ID: "1", RestaurantID: "A", Name: "Pizza", Price: decimal.RequireFromString("15.00")}
	nigiri := domain.MenuItem{ID: "1", RestaurantID: "B", Name: "Sushi", Price: decimal.RequireFromString("22.00")}

	l := NewLedger(DefaultPricing())
	l.AddItem(margherita)
	l.AddItem(nigiri)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Pizza", lines[0].Item.Name)
	assert.Equal(t, "Sushi", lines[1].Item.Name)
	assert.Equal(t, "37.00", l.ComputeTotals().Subtotal.StringFixed(2))

	l.SetQuantity(KeyOf(nigiri), 3)
	assert.Equal(t, 1, l.Quantity(KeyOf(margherita)))
	assert.Equal(t, 3, l.Quantity(KeyOf(nigiri)))

	l.RemoveItem(KeyOf(margherita))
	require.Len(t, l.Lines(), 1)
	assert.Equal(t, "B", l.Lines()[0].Item.RestaurantID)

	restored := Restore(DefaultPricing(), Snapshot{Lines: []Line{{Item: margherita, Quantity: 1}, {Item: nigiri, Quantity: 2}}})
	assert.Equal(t, 3, restored.ItemCount())
	assert.Len(t, restored.Lines(), 2)
}

func TestLedger_OrderLines(t *testing.T) {
	l := NewLedger(DefaultPricing())
	l.AddItem(salad)
	l.AddItem(pizza)
	l.AddItem(salad)

	lines := l.OrderLines()
	require.Len(t, lines, 2)
	assert.Equal(t, domain.OrderLine{ItemID: "a2", RestaurantID: "1", Name: "Caprese Salad", Quantity: 2, UnitPrice: salad.Price}, lines[0])
	assert.Equal(t, "m1", lines[1].ItemID)
}

func TestLedger_RandomMutationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := []domain.MenuItem{pizza, salad, menuItem("d1", "2.00"), menuItem("d2", "4.50")}
	l := NewLedger(DefaultPricing())

	for i := 0; i < 2000; i++ {
		it := items[rng.Intn(len(items))]
		switch rng.Intn(3) {
		case 0:
			l.AddItem(it)
		case 1:
			l.SetQuantity(KeyOf(it), rng.Intn(6)-2)
		case 2:
			l.RemoveItem(KeyOf(it))
		}

		sum := 0
		seen := map[LineKey]bool{}
		for _, line := range l.Lines() {
			require.Greater(t, line.Quantity, 0)
			require.False(t, seen[KeyOf(line.Item)], "duplicate line for %s", line.Item.ID)
			seen[KeyOf(line.Item)] = true
			sum += line.Quantity
		}
		require.Equal(t, sum, l.ItemCount())
	}
}
