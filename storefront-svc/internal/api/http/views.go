package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"foodfleet/storefront-svc/internal/domain"
	"foodfleet/storefront-svc/internal/service"
)

const DefaultPlaceholderImage = "/placeholder.svg"

func money(d decimal.Decimal) string { return d.StringFixed(2) }

type totalsView struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func newTotalsView(t domain.Totals) totalsView {
	return totalsView{
		Subtotal:    money(t.Subtotal),
		DeliveryFee: money(t.DeliveryFee),
		Tax:         money(t.Tax),
		Total:       money(t.Total),
	}
}

type menuItemView struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	ImageURL     string `json:"image_url"`
}

type categoryView struct {
	Name  string         `json:"name"`
	Items []menuItemView `json:"items"`
}

type restaurantView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	LogoURL      string         `json:"logo_url"`
	ImageURL     string         `json:"image_url"`
	Rating       float64        `json:"rating"`
	DeliveryTime string         `json:"delivery_time"`
	Cuisines     []string       `json:"cuisines"`
	IsNew        bool           `json:"is_new"`
	Menu         []categoryView `json:"menu"`
}

type lineView struct {
	ItemID       string `json:"item_id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	ImageURL     string `json:"image_url,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	LineTotal    string `json:"line_total"`
}

type cartView struct {
	Lines       []lineView `json:"lines"`
	ItemCount   int        `json:"item_count"`
	Totals      totalsView `json:"totals"`
	Promo       string     `json:"promo,omitempty"`
	CanCheckout bool       `json:"can_checkout"`
}

type stageView struct {
	domain.StageInfo
	Status string `json:"status"`
}

type orderView struct {
	ID                string                 `json:"id"`
	Restaurants       []string               `json:"restaurants"`
	RestaurantNames   []string               `json:"restaurant_names"`
	Lines             []lineView             `json:"lines"`
	Totals            totalsView             `json:"totals"`
	Delivery          domain.DeliveryDetails `json:"delivery"`
	Current           domain.Stage           `json:"current_stage"`
	Stages            []stageView            `json:"stages"`
	EstimatedDelivery time.Time              `json:"estimated_delivery"`
	CreatedAt         time.Time              `json:"created_at"`
	QRCodeURL         string                 `json:"qr_code_url"`
}

func (h *Handler) image(url string) string {
	if url == "" {
		return h.PlaceholderImage
	}
	return url
}

func (h *Handler) newRestaurantView(r domain.Restaurant) restaurantView {
	v := restaurantView{
		ID:           r.ID,
		Name:         r.Name,
		LogoURL:      h.image(r.LogoURL),
		ImageURL:     h.image(r.ImageURL),
		Rating:       r.Rating,
		DeliveryTime: r.DeliveryTime,
		Cuisines:     r.Cuisines,
		IsNew:        r.IsNew,
		Menu:         make([]categoryView, 0, len(r.Menu)),
	}
	for _, c := range r.Menu {
		cv := categoryView{Name: c.Name, Items: make([]menuItemView, 0, len(c.Items))}
		for _, it := range c.Items {
			cv.Items = append(cv.Items, h.newMenuItemView(it))
		}
		v.Menu = append(v.Menu, cv)
	}
	return v
}

func (h *Handler) newMenuItemView(it domain.MenuItem) menuItemView {
	return menuItemView{
		ID:           it.ID,
		RestaurantID: it.RestaurantID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        money(it.Price),
		ImageURL:     h.image(it.ImageURL),
	}
}

func (h *Handler) newCartView(c service.CartView) cartView {
	v := cartView{
		Lines:       make([]lineView, 0, len(c.Lines)),
		ItemCount:   c.ItemCount,
		Totals:      newTotalsView(c.Totals),
		Promo:       c.Promo,
		CanCheckout: len(c.Lines) > 0,
	}
	for _, l := range c.Lines {
		v.Lines = append(v.Lines, lineView{
			ItemID:       l.Item.ID,
			RestaurantID: l.Item.RestaurantID,
			Name:         l.Item.Name,
			ImageURL:     h.image(l.Item.ImageURL),
			Quantity:     l.Quantity,
			UnitPrice:    money(l.Item.Price),
			LineTotal:    money(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		})
	}
	return v
}

func (h *Handler) newOrderView(o domain.Order) orderView {
	v := orderView{
		ID:                o.ID,
		Restaurants:       o.Restaurants,
		RestaurantNames:   make([]string, 0, len(o.Restaurants)),
		Lines:             make([]lineView, 0, len(o.Lines)),
		Totals:            newTotalsView(o.Totals),
		Delivery:          o.Delivery,
		Current:           o.Progress.Current,
		Stages:            stagesOf(o.Progress),
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		QRCodeURL:         h.Orders.QRLink(o.ID),
	}
	for _, id := range o.Restaurants {
		if r, err := h.Catalog.Restaurant(id); err == nil {
			v.RestaurantNames = append(v.RestaurantNames, r.Name)
		}
	}
	for _, l := range o.Lines {
		v.Lines = append(v.Lines, lineView{
			ItemID:       l.ItemID,
			RestaurantID: l.RestaurantID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			UnitPrice:    money(l.UnitPrice),
			LineTotal:    money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		})
	}
	return v
}

// stagesOf labels every stage as done, current or upcoming.
func stagesOf(p domain.Progress) []stageView {
	done := make(map[domain.Stage]bool, len(p.Completed))
	for _, s := range p.Completed {
		done[s] = true
	}
	seq := domain.StageSequence()
	out := make([]stageView, 0, len(seq))
	for _, info := range seq {
		status := "upcoming"
		switch {
		case info.ID == p.Current:
			status = "current"
		case done[info.ID]:
			status = "done"
		}
		out = append(out, stageView{StageInfo: info, Status: status})
	}
	return out
}
