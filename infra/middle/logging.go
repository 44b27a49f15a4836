package middle

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/btwlouis/laravel-paypal/infra/logger"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/google/uuid"
)

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// RequestLoggingMiddleware creates a middleware that logs API requests
// through the structured system logger. Request bodies are only captured
// for credential endpoints and are sanitized before they reach any sink.
func RequestLoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Generate request ID
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
				r.Header.Set("X-Request-ID", requestID)
			}

			// Extract account from URL
			account := extractAccountFromURL(r.URL.Path)

			// Capture request body for credential endpoints
			var requestBody []byte
			if isConfigEndpoint(r.URL.Path) && r.Body != nil {
				requestBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			}

			// Create response writer wrapper
			rw := newResponseWriter(w)

			// Process request
			next.ServeHTTP(rw, r)

			logCtx := logger.LogContext{
				Account:   account,
				Endpoint:  r.URL.Path,
				RequestID: requestID,
				Fields: map[string]any{
					"method":      r.Method,
					"status_code": rw.statusCode,
					"duration_ms": time.Since(rw.startTime).Milliseconds(),
					"client_ip":   GetClientIP(r),
					"user_agent":  r.UserAgent(),
				},
			}

			// Attach the sanitized body to failed credential requests so
			// misconfigured payloads can be diagnosed without leaking secrets
			if rw.statusCode >= 400 && len(requestBody) > 0 {
				logCtx.Fields["request_body"] = opensearch.SanitizeForLog(string(requestBody))
			}

			message := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
			switch {
			case rw.statusCode >= 500:
				logger.Error(message, nil, logCtx)
			case rw.statusCode >= 400:
				logger.Warn(message, logCtx)
			default:
				logger.Info(message, logCtx)
			}
		})
	}
}

// isConfigEndpoint checks if the URL path is a credential management endpoint
func isConfigEndpoint(path string) bool {
	return strings.HasPrefix(path, "/v1/config")
}

// extractAccountFromURL extracts the account name from the URL path
func extractAccountFromURL(path string) string {
	// URL patterns:
	// /v1/config/{account} -> extract account
	// /v1/logs/{account}   -> extract account

	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) >= 3 && segments[0] == "v1" {
		switch segments[1] {
		case "config", "logs":
			return segments[2]
		}
	}

	return ""
}
