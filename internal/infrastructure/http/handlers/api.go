// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// APIHandlers handles the unauthenticated service endpoints
type APIHandlers struct {
	logger *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(logger *zap.Logger) *APIHandlers {
	return &APIHandlers{logger: logger}
}

// HealthCheck handles GET /health
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "v1.0.0",
		},
		Message: "Service is healthy",
	}

	writeJSON(h.logger, w, http.StatusOK, response)
}

// ReadyCheck handles GET /ready
func (h *APIHandlers) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"status": "ready"},
	})
}

// TierCatalog handles GET /api/v1/tiers
func (h *APIHandlers) TierCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"tiers": tier.Catalog()},
		Message: "Tier catalog retrieved successfully",
	})
}

// MethodNotAllowed is installed as the router-wide fallback for
// unsupported methods
func (h *APIHandlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(h.logger, w, errors.NewMethodNotAllowedError(r.Method))
}

// writeJSON writes a JSON response
func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError normalizes every failure into the error envelope. Typed
// application errors carry their own status; anything else is a 500
// with a generic message so internals never leak to the client.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		writeJSON(logger, w, appErr.StatusCode(), APIResponse{
			Success: false,
			Error:   appErr.Message,
		})
		return
	}

	logger.Error("Unhandled error in HTTP handler", zap.Error(err))
	writeJSON(logger, w, http.StatusInternalServerError, APIResponse{
		Success: false,
		Error:   "Internal server error",
	})
}
