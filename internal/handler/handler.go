package handler

import (
	"context"
	"net/http"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

const (
	serviceName    = "Portfolio Backend API"
	serviceVersion = "1.0.0"
)

// StatsProvider is the slice of the storage layer the health endpoint reads.
type StatsProvider interface {
	Stats(ctx context.Context) (model.StoreStats, error)
}

type Handler struct {
	store          StatsProvider
	allowedOrigins []string
}

func New(store StatsProvider, allowedOrigins []string) *Handler {
	return &Handler{store: store, allowedOrigins: allowedOrigins}
}

// CORS allows cross-origin requests from the configured origins only. The
// matched origin is echoed back, so the allow-list works with credentials.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && h.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) originAllowed(origin string) bool {
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
