package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
	"github.com/ficrammanifur/portfolio-backend/internal/repository"
	"github.com/ficrammanifur/portfolio-backend/internal/service"
)

// MessageHandler handles the portfolio contact-form message endpoints.
type MessageHandler struct {
	messageService service.MessageService
	cleanupLimit   int
	validate       *validator.Validate
}

// NewMessageHandler creates a MessageHandler. cleanupLimit is the number of
// messages POST /api/messages/cleanup keeps.
func NewMessageHandler(messageService service.MessageService, cleanupLimit int) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		cleanupLimit:   cleanupLimit,
		validate:       validator.New(),
	}
}

// listResponse is the JSON response for GET /api/messages.
type listResponse struct {
	Success  bool             `json:"success"`
	Messages []*model.Message `json:"messages"`
	Count    int              `json:"count"`
}

// submitResponse is the JSON response for POST /api/messages.
type submitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *model.Message `json:"data"`
}

// actionResponse is the JSON response for delete and cleanup.
type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse is the JSON shape of every error status.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// List handles GET /api/messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	messages, err := h.messageService.List(r.Context())
	if err != nil {
		slog.Error("list messages failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.Message{}
	}

	_ = json.NewEncoder(w).Encode(listResponse{
		Success:  true,
		Messages: messages,
		Count:    len(messages),
	})
}

// Submit handles POST /api/messages.
// All four fields are required; email must be well-formed; message max 5000
// chars. Fields are trimmed (email also lower-cased) before validation, so
// whitespace-only input is rejected as missing.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req model.NewMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "invalid_json"})
		return
	}

	req = req.Normalized()
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: validationErrorCode(err)})
		return
	}

	msg, err := h.messageService.Create(r.Context(), req)
	if err != nil {
		slog.Error("submit message failed", "error", err, "email", req.Email)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "submit_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(submitResponse{
		Success: true,
		Message: "Message submitted successfully",
		Data:    msg,
	})
}

// Delete handles DELETE /api/messages/{id}. Unknown ids are a 404.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.messageService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "Message not found"})
			return
		}
		slog.Error("delete message failed", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(actionResponse{
		Success: true,
		Message: "Message deleted successfully",
	})
}

// Cleanup handles POST /api/messages/cleanup, trimming the store down to the
// configured keep count.
func (h *MessageHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	remaining, err := h.messageService.CleanupToLimit(r.Context(), h.cleanupLimit)
	if err != nil {
		slog.Error("cleanup failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "cleanup_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(actionResponse{
		Success: true,
		Message: fmt.Sprintf("Cleanup completed. %d messages remaining", remaining),
	})
}

// jsonFieldNames maps NewMessage struct fields to their wire names for
// validation error codes.
var jsonFieldNames = map[string]string{
	"FullName": "fullName",
	"Email":    "email",
	"Position": "position",
	"Message":  "message",
}

// validationErrorCode renders the first validation failure as a stable
// machine-readable code such as "email_required" or "message_too_long".
func validationErrorCode(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid_request"
	}

	fe := verrs[0]
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return field + "_required"
	case "max":
		return field + "_too_long"
	default:
		return field + "_invalid"
	}
}
