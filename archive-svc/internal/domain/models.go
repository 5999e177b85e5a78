package domain

import (
	"time"

	"foodfleet/pkg/events"
)

// ArchivedOrder is the durable record of a placed order. Lines is only
// loaded for single-order reads.
type ArchivedOrder struct {
	ID                string          `json:"id"`
	Restaurants       []string        `json:"restaurants"`
	Lines             []events.Line   `json:"lines,omitempty"`
	Totals            events.Totals   `json:"totals"`
	Delivery          events.Delivery `json:"delivery"`
	Stage             string          `json:"stage"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	PlacedAt          time.Time       `json:"placed_at"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type PopularItem struct {
	ItemID string `json:"item_id"`
	Count  int64  `json:"count"`
}

const StageDelivered = "delivered"

var stageRanks = map[string]int{
	"confirmed": 0,
	"preparing": 1,
	"on_way":    2,
	"delivered": 3,
}

// StageRank orders stages so the archive never moves an order backwards.
// Unknown stages rank -1.
func StageRank(stage string) int {
	if r, ok := stageRanks[stage]; ok {
		return r
	}
	return -1
}

func FromPlaced(ev events.OrderEvent) ArchivedOrder {
	o := ArchivedOrder{
		ID:                ev.OrderID,
		Restaurants:       ev.Restaurants,
		Lines:             ev.Lines,
		Stage:             ev.Stage,
		EstimatedDelivery: ev.EstimatedDelivery,
		PlacedAt:          ev.Timestamp,
		UpdatedAt:         ev.Timestamp,
	}
	if o.Stage == "" {
		o.Stage = "confirmed"
	}
	if ev.Totals != nil {
		o.Totals = *ev.Totals
	}
	if ev.Delivery != nil {
		o.Delivery = *ev.Delivery
	}
	return o
}
