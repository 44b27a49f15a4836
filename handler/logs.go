package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/btwlouis/laravel-paypal/infra/response"
	"github.com/go-chi/chi/v5"
)

// AuditLogSource defines the interface for audit log queries
type AuditLogSource interface {
	SearchLogs(ctx context.Context, account string, query map[string]any) ([]opensearch.AuditLog, error)
	GetRecentLogs(ctx context.Context, account string, hours int) ([]opensearch.AuditLog, error)
	GetRecentErrorLogs(ctx context.Context, account string, hours int) ([]opensearch.AuditLog, error)
}

// LogsHandler handles audit log related HTTP requests
type LogsHandler struct {
	logger AuditLogSource
}

// NewLogsHandler creates a new logs handler. logger is nil when no
// OpenSearch sink is configured; every endpoint then answers 503.
func NewLogsHandler(logger AuditLogSource) *LogsHandler {
	return &LogsHandler{
		logger: logger,
	}
}

// ListLogs lists audit logs for an account with optional filtering
func (h *LogsHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	if h.logger == nil {
		response.Error(w, http.StatusServiceUnavailable, "Logging service not available", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// Get account from URL path parameter (required)
	account := chi.URLParam(r, "account")
	if account == "" {
		response.Error(w, http.StatusBadRequest, "Account parameter is required", nil)
		return
	}

	// Parse hours parameter
	hours := parseHours(r.URL.Query().Get("hours"))

	// Event filter
	var query map[string]any
	if event := r.URL.Query().Get("event"); event != "" {
		query = map[string]any{
			"term": map[string]any{
				"event": event,
			},
		}
	}

	// Error filter (only errors)
	if r.URL.Query().Get("errorsOnly") == "true" {
		errorFilter := map[string]any{
			"exists": map[string]any{
				"field": "error",
			},
		}

		if query == nil {
			query = errorFilter
		} else {
			// Combine with existing query
			existing := query
			query = map[string]any{
				"bool": map[string]any{
					"must": []map[string]any{
						existing,
						errorFilter,
					},
				},
			}
		}
	}

	// Time range filter
	timeFilter := map[string]any{
		"range": map[string]any{
			"timestamp": map[string]any{
				"gte": fmt.Sprintf("now-%dh", hours),
			},
		},
	}

	if query == nil {
		query = timeFilter
	} else {
		// Combine with existing query
		existing := query
		query = map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					existing,
					timeFilter,
				},
			},
		}
	}

	// Search logs
	logs, err := h.logger.SearchLogs(ctx, account, query)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to search logs", err)
		return
	}

	// Prepare response data
	responseData := map[string]any{
		"account": account,
		"filters": map[string]any{
			"hours":      hours,
			"event":      r.URL.Query().Get("event"),
			"errorsOnly": r.URL.Query().Get("errorsOnly") == "true",
		},
		"count": len(logs),
		"logs":  logs,
	}

	response.Success(w, http.StatusOK, "Logs retrieved successfully", responseData)
}

// GetErrorLogs retrieves recent error logs for an account
func (h *LogsHandler) GetErrorLogs(w http.ResponseWriter, r *http.Request) {
	if h.logger == nil {
		response.Error(w, http.StatusServiceUnavailable, "Logging service not available", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// Get account from URL path parameter
	account := chi.URLParam(r, "account")
	if account == "" {
		response.Error(w, http.StatusBadRequest, "Account parameter is required", nil)
		return
	}

	hours := parseHours(r.URL.Query().Get("hours"))

	// Get error logs
	logs, err := h.logger.GetRecentErrorLogs(ctx, account, hours)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get error logs", err)
		return
	}

	// Prepare response data
	responseData := map[string]any{
		"account": account,
		"hours":   hours,
		"count":   len(logs),
		"logs":    logs,
	}

	response.Success(w, http.StatusOK, "Error logs retrieved successfully", responseData)
}

// parseHours parses an hours query parameter, defaulting to 24 and
// capping at 7 days.
func parseHours(value string) int {
	hours := 24
	if value != "" {
		if h, err := strconv.Atoi(value); err == nil && h > 0 && h <= 168 {
			hours = h
		}
	}
	return hours
}
