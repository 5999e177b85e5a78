// Package events holds the order lifecycle messages exchanged over kafka
// between the storefront and the archive.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeOrderPlaced    = "order_placed"
	TypeStageChanged   = "stage_changed"
	TypeOrderDelivered = "order_delivered"
)

type Line struct {
	ItemID       string          `json:"item_id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type Delivery struct {
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
}

// OrderEvent is keyed by OrderID on the topic. Lines, Totals and Delivery
// are only set on order_placed.
type OrderEvent struct {
	Type              string    `json:"type"`
	OrderID           string    `json:"order_id"`
	Stage             string    `json:"stage"`
	Restaurants       []string  `json:"restaurants,omitempty"`
	Lines             []Line    `json:"lines,omitempty"`
	Totals            *Totals   `json:"totals,omitempty"`
	Delivery          *Delivery `json:"delivery,omitempty"`
	EstimatedDelivery time.Time `json:"estimated_delivery,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

func (e OrderEvent) Valid() bool {
	if e.OrderID == "" {
		return false
	}
	switch e.Type {
	case TypeOrderPlaced:
		return e.Totals != nil && len(e.Lines) > 0
	case TypeStageChanged, TypeOrderDelivered:
		return e.Stage != ""
	}
	return false
}
