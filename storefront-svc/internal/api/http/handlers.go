package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"foodfleet/storefront-svc/internal/checkout"
	"foodfleet/storefront-svc/internal/domain"
	"foodfleet/storefront-svc/internal/service"
)

// ProgressStreamer upgrades a request into a live progress feed for one
// order.
type ProgressStreamer interface {
	Serve(w http.ResponseWriter, r *http.Request, orderID string, current domain.Progress)
}

type Handler struct {
	Catalog          service.CatalogReader
	Carts            service.CartServiceInterface
	Orders           service.OrderServiceInterface
	Stream           ProgressStreamer
	Logger           *logrus.Logger
	PlaceholderImage string
}

func NewHandler(catalog service.CatalogReader, carts service.CartServiceInterface, orders service.OrderServiceInterface, stream ProgressStreamer, logger *logrus.Logger) *Handler {
	return &Handler{
		Catalog:          catalog,
		Carts:            carts,
		Orders:           orders,
		Stream:           stream,
		Logger:           logger,
		PlaceholderImage: DefaultPlaceholderImage,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/cuisines", h.getCuisines).Methods("GET")
	r.HandleFunc("/api/stages", h.getStages).Methods("GET")
	r.HandleFunc("/api/restaurants", h.searchRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/items/{itemId}", h.getItem).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{restaurantId}/{itemId}", h.setCartQuantity).Methods("PUT")
	r.HandleFunc("/api/cart/items/{restaurantId}/{itemId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart/promo", h.applyPromo).Methods("POST")

	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.discardOrder).Methods("DELETE")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/ws/orders/{id}", h.streamOrder).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCuisines(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.Catalog.Cuisines())
}

func (h *Handler) getStages(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, domain.StageSequence())
}

func (h *Handler) searchRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results := h.Catalog.Search(q.Get("q"), q.Get("cuisine"))
	for i := range results {
		results[i].ImageURL = h.image(results[i].ImageURL)
	}
	h.respondWithJSON(w, http.StatusOK, results)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.Restaurant(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newRestaurantView(rest))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, err := h.Catalog.Item(vars["id"], vars["itemId"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newMenuItemView(item))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Carts.View(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newCartView(view))
}

type addItemRequest struct {
	RestaurantID string `json:"restaurant_id"`
	ItemID       string `json:"item_id"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	view, err := h.Carts.Add(r.Context(), sessionFrom(r.Context()), req.RestaurantID, req.ItemID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newCartView(view))
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if req.Quantity == nil {
		h.respondWithError(w, r, fmt.Errorf("%w: quantity is required", errBadRequest))
		return
	}
	vars := mux.Vars(r)
	view, err := h.Carts.SetQuantity(r.Context(), sessionFrom(r.Context()), vars["restaurantId"], vars["itemId"], *req.Quantity)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newCartView(view))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.Carts.Remove(r.Context(), sessionFrom(r.Context()), vars["restaurantId"], vars["itemId"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newCartView(view))
}

type promoRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	view, err := h.Carts.ApplyPromo(r.Context(), sessionFrom(r.Context()), req.Code)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newCartView(view))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := decode(r, &form); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	order, err := h.Orders.PlaceOrder(r.Context(), sessionFrom(r.Context()), form)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/orders/"+order.ID)
	h.respondWithJSON(w, http.StatusCreated, h.newOrderView(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.newOrderView(order))
}

// discardOrder is called when the tracking page is left for good.
func (h *Handler) discardOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Discard(mux.Vars(r)["id"]); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.QRCode(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) streamOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	progress, err := h.Orders.Progress(orderID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.Stream.Serve(w, r, orderID, progress)
}

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
