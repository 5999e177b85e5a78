package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/catalog"
	"foodfleet/storefront-svc/internal/checkout"
	"foodfleet/storefront-svc/internal/service"
)

var errBadRequest = errors.New("invalid request body")

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verrs checkout.ValidationErrors
	switch {
	case errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, cart.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &verrs), errors.Is(err, cart.ErrInvalidPromo):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.WithError(err).Error("Failed to encode response")
	}
}

// respondWithError hides the cause of internal errors from clients.
func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var verrs checkout.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp.Error = "Please correct the highlighted fields."
		resp.Fields = verrs
	case errors.Is(err, cart.ErrInvalidPromo):
		resp.Error = "Invalid promo code."
		resp.Fields = map[string]string{"code": "Invalid promo code."}
	case code == http.StatusInternalServerError:
		h.Logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		resp.Error = "Internal server error"
	}
	h.respondWithJSON(w, code, resp)
}
