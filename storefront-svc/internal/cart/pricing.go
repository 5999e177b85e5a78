package cart

import (
	"github.com/shopspring/decimal"

	"foodfleet/storefront-svc/internal/domain"
)

// Pricing holds the fixed fee and tax rate applied to every cart.
type Pricing struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		DeliveryFee: decimal.RequireFromString("5.00"),
		TaxRate:     decimal.RequireFromString("0.10"),
	}
}

// totals derives subtotal, fee, tax and total from lines. Tax is rounded
// to cents; the fee only applies to a non-empty cart.
func (p Pricing) totals(lines []*Line) domain.Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = p.DeliveryFee
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)

	return domain.Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
