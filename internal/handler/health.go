package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

type healthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Service       string `json:"service"`
	CORSEnabled   bool   `json:"cors_enabled"`
	MessagesCount int    `json:"messages_count"`
	FileExists    bool   `json:"file_exists"`
	Error         string `json:"error,omitempty"`
}

// Health handles GET /health. A store that cannot be read makes the service
// unhealthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	now := time.Now().UTC().Format(model.TimestampLayout)

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:    "unhealthy",
			Timestamp: now,
			Service:   serviceName,
			Error:     err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:        "healthy",
		Timestamp:     now,
		Service:       serviceName,
		CORSEnabled:   true,
		MessagesCount: stats.MessageCount,
		FileExists:    stats.StorageExists,
	})
}
