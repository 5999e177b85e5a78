package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEvent_Valid(t *testing.T) {
	totals := &Totals{Total: decimal.RequireFromString("44.60")}
	lines := []Line{{ItemID: "m1", Quantity: 1}}

	tests := []struct {
		name  string
		event OrderEvent
		want  bool
	}{
		{name: "placed", event: OrderEvent{Type: TypeOrderPlaced, OrderID: "o1", Totals: totals, Lines: lines}, want: true},
		{name: "placed without lines", event: OrderEvent{Type: TypeOrderPlaced, OrderID: "o1", Totals: totals}},
		{name: "placed without totals", event: OrderEvent{Type: TypeOrderPlaced, OrderID: "o1", Lines: lines}},
		{name: "stage changed", event: OrderEvent{Type: TypeStageChanged, OrderID: "o1", Stage: "preparing"}, want: true},
		{name: "delivered without stage", event: OrderEvent{Type: TypeOrderDelivered, OrderID: "o1"}},
		{name: "missing order id", event: OrderEvent{Type: TypeStageChanged, Stage: "preparing"}},
		{name: "unknown type", event: OrderEvent{Type: "new_review", OrderID: "o1", Stage: "x"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.event.Valid())
		})
	}
}

func TestOrderEvent_MoneyKeepsCents(t *testing.T) {
	ev := OrderEvent{
		Type:      TypeOrderPlaced,
		OrderID:   "o1",
		Totals:    &Totals{Tax: decimal.RequireFromString("0.90")},
		Lines:     []Line{{ItemID: "a1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")}},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"unit_price":"10.5"`)

	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, decoded.Totals.Tax.Equal(decimal.RequireFromString("0.9")))
	assert.Equal(t, ev.Timestamp, decoded.Timestamp)
}
