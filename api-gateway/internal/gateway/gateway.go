package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StorefrontURL string
	ArchiveURL    string
}

// Gateway is the single origin the front end talks to. Archive reads go to
// archive-svc; everything else under /api and /ws goes to the storefront.
type Gateway struct {
	config Config
	client HTTPClient
	logger *logrus.Logger
	ws     http.Handler
}

func NewGateway(config Config, client HTTPClient, logger *logrus.Logger) (*Gateway, error) {
	target, err := url.Parse(config.StorefrontURL)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
		ws:     httputil.NewSingleHostReverseProxy(target),
	}, nil
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	log := g.logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path, "target": targetURL})
	log.Debug("Proxying request")

	u := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, u, r.Body)
	if err != nil {
		log.WithError(err).Error("Failed to create request")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Upstream unavailable")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Service unavailable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.WithError(err).Error("Failed to copy response")
	}
}

// isArchiveRoute matches /api/archive/... and /api/restaurants/{id}/popular.
func isArchiveRoute(path string) bool {
	if strings.HasPrefix(path, "/api/archive/") || path == "/api/archive" {
		return true
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return len(parts) == 4 && parts[0] == "api" && parts[1] == "restaurants" && parts[3] == "popular"
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case isArchiveRoute(path):
		g.ProxyRequest(w, r, g.config.ArchiveURL)
	case strings.HasPrefix(path, "/api/"):
		g.ProxyRequest(w, r, g.config.StorefrontURL)
	default:
		g.logger.WithField("path", path).Debug("Unmatched route")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods(http.MethodGet)
	r.PathPrefix("/ws/").Handler(g.ws)
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
