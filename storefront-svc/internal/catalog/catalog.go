// Package catalog holds the read-only restaurant and menu data the
// storefront serves. A Catalog is built once at startup and shared by
// reference; nothing mutates it afterwards.
package catalog

import (
	"errors"
	"strings"

	"foodfleet/storefront-svc/internal/domain"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrItemNotFound       = errors.New("menu item not found")
)

type itemKey struct {
	restaurantID string
	itemID       string
}

type Catalog struct {
	restaurants []domain.Restaurant
	byID        map[string]int
	items       map[itemKey]domain.MenuItem
	cuisines    []string
}

func New(restaurants []domain.Restaurant, cuisines []string) *Catalog {
	c := &Catalog{
		restaurants: make([]domain.Restaurant, 0, len(restaurants)),
		byID:        make(map[string]int, len(restaurants)),
		items:       make(map[itemKey]domain.MenuItem),
		cuisines:    append([]string(nil), cuisines...),
	}
	for _, r := range restaurants {
		r = clone(r)
		for ci := range r.Menu {
			for ii := range r.Menu[ci].Items {
				r.Menu[ci].Items[ii].RestaurantID = r.ID
				it := r.Menu[ci].Items[ii]
				c.items[itemKey{r.ID, it.ID}] = it
			}
		}
		c.byID[r.ID] = len(c.restaurants)
		c.restaurants = append(c.restaurants, r)
	}
	return c
}

// Default builds the catalog from the bundled fixtures.
func Default() *Catalog {
	return New(Fixtures(), CuisineFilters())
}

func (c *Catalog) Restaurant(id string) (domain.Restaurant, error) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	return clone(c.restaurants[idx]), nil
}

func (c *Catalog) Item(restaurantID, itemID string) (domain.MenuItem, error) {
	if _, ok := c.byID[restaurantID]; !ok {
		return domain.MenuItem{}, ErrRestaurantNotFound
	}
	it, ok := c.items[itemKey{restaurantID, itemID}]
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}
	return it, nil
}

// Search filters restaurants by a case-insensitive name substring and a
// cuisine tag. An empty cuisine or "All" matches every restaurant.
func (c *Catalog) Search(term, cuisine string) []domain.RestaurantSummary {
	term = strings.ToLower(strings.TrimSpace(term))
	cuisine = strings.TrimSpace(cuisine)

	out := []domain.RestaurantSummary{}
	for _, r := range c.restaurants {
		if !strings.Contains(strings.ToLower(r.Name), term) {
			continue
		}
		if !matchesCuisine(r, cuisine) {
			continue
		}
		out = append(out, r.Summary())
	}
	return out
}

func (c *Catalog) Cuisines() []string {
	return append([]string(nil), c.cuisines...)
}

func matchesCuisine(r domain.Restaurant, cuisine string) bool {
	if cuisine == "" || strings.EqualFold(cuisine, "All") {
		return true
	}
	for _, tag := range r.Cuisines {
		if strings.EqualFold(tag, cuisine) {
			return true
		}
	}
	return false
}

func clone(r domain.Restaurant) domain.Restaurant {
	r.Cuisines = append([]string(nil), r.Cuisines...)
	menu := make([]domain.MenuCategory, len(r.Menu))
	for i, cat := range r.Menu {
		menu[i] = domain.MenuCategory{
			Name:  cat.Name,
			Items: append([]domain.MenuItem(nil), cat.Items...),
		}
	}
	r.Menu = menu
	return r
}
