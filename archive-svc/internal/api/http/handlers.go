package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"foodfleet/archive-svc/internal/service"
	"foodfleet/archive-svc/internal/storage"
)

var errBadRequest = errors.New("invalid query parameter")

type Handler struct {
	Archive service.ArchiveServiceInterface
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewHandler(archive service.ArchiveServiceInterface, logger *logrus.Logger) *Handler {
	return &Handler{Archive: archive, Logger: logger, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/archive/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/archive/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{id}/popular", h.Popular).Methods(http.MethodGet)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	orders, err := h.Archive.Orders(r.Context(), limit)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Archive.Order(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, order)
}

// Popular serves the restaurant's best sellers. period is "all" (default),
// "today" or a YYYY-MM-DD date.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var day string
	switch period := r.URL.Query().Get("period"); period {
	case "", "all":
	case "today":
		day = h.Now().UTC().Format(time.DateOnly)
	default:
		if _, err := time.Parse(time.DateOnly, period); err != nil {
			h.respondWithError(w, r, errBadRequest)
			return
		}
		day = period
	}

	items, err := h.Archive.Popular(r.Context(), mux.Vars(r)["id"], limit, day)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, items)
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errBadRequest
	}
	return n, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		return http.StatusNotFound
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

func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.Logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		msg = "Internal server error"
	}
	h.respondWithJSON(w, code, errorResponse{Error: msg})
}
