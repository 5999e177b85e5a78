package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// MenuCategory is one tab of a restaurant menu. Items keep fixture order.
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type Restaurant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	LogoURL      string         `json:"logo_url,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
	Rating       float64        `json:"rating"`
	DeliveryTime string         `json:"delivery_time"`
	Cuisines     []string       `json:"cuisines"`
	IsNew        bool           `json:"is_new,omitempty"`
	Menu         []MenuCategory `json:"menu"`
}

type RestaurantSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"image_url,omitempty"`
	Rating       float64  `json:"rating"`
	DeliveryTime string   `json:"delivery_time"`
	Cuisines     []string `json:"cuisines"`
	IsNew        bool     `json:"is_new,omitempty"`
}

func (r Restaurant) Summary() RestaurantSummary {
	return RestaurantSummary{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.ImageURL,
		Rating:       r.Rating,
		DeliveryTime: r.DeliveryTime,
		Cuisines:     append([]string(nil), r.Cuisines...),
		IsNew:        r.IsNew,
	}
}

type OrderLine struct {
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

type DeliveryDetails struct {
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
}

type Order struct {
	ID                string          `json:"id"`
	Restaurants       []string        `json:"restaurants"`
	Lines             []OrderLine     `json:"lines"`
	Totals            Totals          `json:"totals"`
	Delivery          DeliveryDetails `json:"delivery"`
	Progress          Progress        `json:"progress"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
}
