package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

type rootResponse struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	CORSEnabled bool              `json:"cors_enabled"`
	Timestamp   string            `json:"timestamp"`
	Endpoints   map[string]string `json:"endpoints"`
}

// Root handles GET /, a small self-describing index of the API.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rootResponse{
		Message:     serviceName + " - Ficram Manifur Farissa",
		Version:     serviceVersion,
		Status:      "running",
		CORSEnabled: true,
		Timestamp:   time.Now().UTC().Format(model.TimestampLayout),
		Endpoints: map[string]string{
			"GET /api/messages":          "Get all messages",
			"POST /api/messages":         "Submit new message",
			"DELETE /api/messages/{id}":  "Delete specific message",
			"POST /api/messages/cleanup": "Trim stored messages",
			"GET /health":                "Health check",
			"GET /test-cors":             "CORS reachability check",
		},
	})
}

type corsTestResponse struct {
	CORSTest      string `json:"cors_test"`
	OriginAllowed bool   `json:"origin_allowed"`
	Timestamp     string `json:"timestamp"`
}

// TestCORS handles GET /test-cors. Browsers only deliver the response when the
// CORS middleware accepted the origin, so reaching the body means success.
func (h *Handler) TestCORS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(corsTestResponse{
		CORSTest:      "success",
		OriginAllowed: true,
		Timestamp:     time.Now().UTC().Format(model.TimestampLayout),
	})
}
