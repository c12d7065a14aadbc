package http

import (
	"context"
	"log"
	"net/http"
	"time"
)

// MovieCache is the movie cache in front of the catalog.
type MovieCache interface {
	Clear(ctx context.Context) error
}

// Pinger checks an upstream dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheHandler serves POST /cache/clear.
type CacheHandler struct {
	cache MovieCache
}

func NewCacheHandler(cache MovieCache) *CacheHandler {
	return &CacheHandler{cache: cache}
}

func (h *CacheHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.cache.Clear(r.Context()); err != nil {
		log.Printf("clear movie cache: %v", err)
		http.Error(w, "cache clear failed", http.StatusInternalServerError)
		return
	}
	log.Printf("movie cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

// HealthHandler serves /healthz. With ?deep=1 the catalog is pinged too, so
// plain liveness probes do not spend API quota.
type HealthHandler struct {
	catalog Pinger
	timeout time.Duration
}

// NewHealthHandler accepts a nil catalog when none is configured.
func NewHealthHandler(catalog Pinger) *HealthHandler {
	return &HealthHandler{catalog: catalog, timeout: 5 * time.Second}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.catalog != nil && r.URL.Query().Get("deep") == "1" {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.catalog.Ping(ctx); err != nil {
			log.Printf("catalog health check: %v", err)
			http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("ok"))
}
