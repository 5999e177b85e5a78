// Package cart implements the cart ledger: at most one line per menu item,
// quantities always >= 1, and totals recomputed from the lines on demand.
// Item ids are only unique within a restaurant, so lines are keyed by both.
package cart

import (
	"errors"
	"strings"

	"foodfleet/storefront-svc/internal/domain"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidPromo = errors.New("invalid promo code")
	ErrLineNotFound = errors.New("item is not in the cart")
)

const promoCode = "FOODFLEET10"

// LineKey identifies a cart line.
type LineKey struct {
	RestaurantID string
	ItemID       string
}

func KeyOf(item domain.MenuItem) LineKey {
	return LineKey{RestaurantID: item.RestaurantID, ItemID: item.ID}
}

type Line struct {
	Item     domain.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
}

// Snapshot is the serialisable state of a ledger.
type Snapshot struct {
	Lines []Line `json:"lines"`
	Promo string `json:"promo,omitempty"`
}

type Ledger struct {
	pricing Pricing
	order   []LineKey
	lines   map[LineKey]*Line
	promo   string
}

func NewLedger(pricing Pricing) *Ledger {
	return &Ledger{
		pricing: pricing,
		lines:   make(map[LineKey]*Line),
	}
}

// Restore rebuilds a ledger from a snapshot. Lines with a non-positive
// quantity are dropped and repeated items are merged.
func Restore(pricing Pricing, s Snapshot) *Ledger {
	l := NewLedger(pricing)
	for _, line := range s.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if existing, ok := l.lines[KeyOf(line.Item)]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		l.insert(line.Item, line.Quantity)
	}
	l.promo = s.Promo
	return l
}

// AddItem inserts the item with quantity 1 or bumps an existing line by one.
func (l *Ledger) AddItem(item domain.MenuItem) {
	if line, ok := l.lines[KeyOf(item)]; ok {
		line.Quantity++
		return
	}
	l.insert(item, 1)
}

// SetQuantity sets the line quantity; n <= 0 removes the line.
func (l *Ledger) SetQuantity(key LineKey, n int) {
	if n <= 0 {
		l.RemoveItem(key)
		return
	}
	if line, ok := l.lines[key]; ok {
		line.Quantity = n
	}
}

func (l *Ledger) RemoveItem(key LineKey) {
	if _, ok := l.lines[key]; !ok {
		return
	}
	delete(l.lines, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Quantity reports the quantity for key, 0 when absent.
func (l *Ledger) Quantity(key LineKey) int {
	if line, ok := l.lines[key]; ok {
		return line.Quantity
	}
	return 0
}

func (l *Ledger) ComputeTotals() domain.Totals {
	return l.pricing.totals(l.ordered())
}

func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

func (l *Ledger) IsEmpty() bool { return len(l.lines) == 0 }

// Lines returns copies of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, 0, len(l.order))
	for _, line := range l.ordered() {
		out = append(out, *line)
	}
	return out
}

func (l *Ledger) Clear() {
	l.order = nil
	l.lines = make(map[LineKey]*Line)
	l.promo = ""
}

// CheckCheckout refuses checkout of an empty cart.
func (l *Ledger) CheckCheckout() error {
	if l.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// ApplyPromo accepts the house promo code. It is recorded on the cart but
// grants no discount yet.
func (l *Ledger) ApplyPromo(code string) error {
	if !strings.EqualFold(strings.TrimSpace(code), promoCode) {
		return ErrInvalidPromo
	}
	l.promo = promoCode
	return nil
}

func (l *Ledger) Promo() string { return l.promo }

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Lines: l.Lines(), Promo: l.promo}
}

// OrderLines converts the ledger into order lines for submission.
func (l *Ledger) OrderLines() []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(l.order))
	for _, line := range l.ordered() {
		out = append(out, domain.OrderLine{
			ItemID:       line.Item.ID,
			RestaurantID: line.Item.RestaurantID,
			Name:         line.Item.Name,
			Quantity:     line.Quantity,
			UnitPrice:    line.Item.Price,
		})
	}
	return out
}

func (l *Ledger) insert(item domain.MenuItem, qty int) {
	key := KeyOf(item)
	l.lines[key] = &Line{Item: item, Quantity: qty}
	l.order = append(l.order, key)
}

func (l *Ledger) ordered() []*Line {
	out := make([]*Line, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.lines[key])
	}
	return out
}
