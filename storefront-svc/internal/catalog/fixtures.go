package catalog

import (
	"github.com/shopspring/decimal"

	"foodfleet/storefront-svc/internal/domain"
)

const unsplash = "https://images.unsplash.com/"

func photo(id string) string {
	return unsplash + id + "?auto=format&fit=crop&w=300&h=200&q=80"
}

func item(id, name, description, price, image string) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		ImageURL:    image,
	}
}

// Fixtures returns the placeholder restaurants the storefront ships with.
func Fixtures() []domain.Restaurant {
	return []domain.Restaurant{
		{
			ID:           "1",
			Name:         "The Green Leaf Eatery",
			LogoURL:      "https://cdn-icons-png.flaticon.com/512/857/857681.png",
			ImageURL:     photo("photo-1517248135467-4c7edcad34c4"),
			Rating:       4.5,
			DeliveryTime: "25-35 min",
			Cuisines:     []string{"Italian", "Pizza", "Pasta"},
			IsNew:        true,
			Menu: []domain.MenuCategory{
				{Name: "appetizers", Items: []domain.MenuItem{
					item("a1", "Bruschetta", "Grilled bread rubbed with garlic and topped with olive oil and salt.", "8.99", photo("photo-1505253758473-967998758428")),
					item("a2", "Caprese Salad", "Simple Italian salad, made of sliced fresh mozzarella, tomatoes, and sweet basil.", "10.50", photo("photo-1579299705101-ac75159bd522")),
				}},
				{Name: "main_courses", Items: []domain.MenuItem{
					item("m1", "Margherita Pizza", "Classic delight with 100% real mozzarella cheese.", "15.00", photo("photo-1593560708920-61dd98c46a4e")),
					item("m2", "Pasta Carbonara", "Spaghetti with creamy egg sauce, pancetta, and pecorino cheese.", "18.75", photo("photo-1612874742237-6b82a1a1d1bb")),
				}},
				{Name: "drinks", Items: []domain.MenuItem{
					item("d1", "Mineral Water", "Refreshing spring water.", "2.00", photo("photo-1561065371-e82cbf0a055d")),
					item("d2", "Orange Juice", "Freshly squeezed orange juice.", "4.50", photo("photo-1600271886742-f049cd451bba")),
				}},
			},
		},
		{
			ID:           "2",
			Name:         "Spice Fusion Grill",
			LogoURL:      "https://cdn-icons-png.flaticon.com/512/3448/3448609.png",
			ImageURL:     photo("photo-1552566626-52f8b828add9"),
			Rating:       4.8,
			DeliveryTime: "30-40 min",
			Cuisines:     []string{"Indian", "Curry", "Tandoori"},
			Menu: []domain.MenuCategory{
				{Name: "appetizers", Items: []domain.MenuItem{
					item("sfa1", "Samosa", "Crispy pastry with spiced potatoes and peas.", "6.00", "https://plus.unsplash.com/premium_photo-1669017098138-338413710494?auto=format&fit=crop&w=300&h=200&q=80"),
				}},
				{Name: "main_courses", Items: []domain.MenuItem{
					item("sfm1", "Butter Chicken", "Creamy tomato-based curry with tender chicken.", "19.50", photo("photo-1609422094020-098b0ed818f6")),
				}},
				{Name: "drinks", Items: []domain.MenuItem{
					item("sfd1", "Mango Lassi", "Yogurt based mango milkshake.", "5.00", photo("photo-1600790504605-79ff89a69f21")),
				}},
			},
		},
		{
			ID:           "3",
			Name:         "Ocean Basket Sushi",
			LogoURL:      "https://cdn-icons-png.flaticon.com/512/2771/2771395.png",
			ImageURL:     photo("photo-1600891964092-4316c288032e"),
			Rating:       4.3,
			DeliveryTime: "20-30 min",
			Cuisines:     []string{"Japanese", "Sushi", "Seafood"},
			Menu: []domain.MenuCategory{
				{Name: "appetizers", Items: []domain.MenuItem{
					item("oba1", "Edamame", "Steamed soybeans with sea salt.", "5.50", photo("photo-1522650979749-77495849b103")),
				}},
				{Name: "main_courses", Items: []domain.MenuItem{
					item("obm1", "Salmon Nigiri Set", "6 pieces of fresh salmon nigiri.", "22.00", photo("photo-1579871494447-9811cf80d66c")),
				}},
				{Name: "drinks", Items: []domain.MenuItem{
					item("obd1", "Green Tea", "Authentic Japanese green tea.", "3.00", photo("photo-1627435601361-ec25f3c8d075")),
				}},
			},
		},
		{
			ID:           "4",
			Name:         "Burger Barn",
			LogoURL:      "https://cdn-icons-png.flaticon.com/512/198/198416.png",
			ImageURL:     photo("photo-1568901346375-23c9450c58cd"),
			Rating:       4.0,
			DeliveryTime: "35-45 min",
			Cuisines:     []string{"American", "Burgers", "Fries"},
			IsNew:        true,
			Menu: []domain.MenuCategory{
				{Name: "appetizers", Items: []domain.MenuItem{
					item("bba1", "Onion Rings", "Crispy fried onion rings.", "7.00", photo("photo-1541592106381-b58e75a4c956")),
				}},
				{Name: "main_courses", Items: []domain.MenuItem{
					item("bbm1", "Classic Cheeseburger", "Beef patty, cheese, lettuce, tomato, onion.", "12.99", photo("photo-1568901346375-23c9450c58cd")),
				}},
				{Name: "drinks", Items: []domain.MenuItem{
					item("bbd1", "Cola", "Classic cola drink.", "2.50", photo("photo-1554866585-cd94860890b7")),
				}},
			},
		},
	}
}

// CuisineFilters are the discovery badges, in display order.
func CuisineFilters() []string {
	return []string{"All", "Italian", "Indian", "Japanese", "Burgers", "Vegan"}
}
