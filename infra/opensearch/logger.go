package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/btwlouis/laravel-paypal/paypal"
	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Audit event types
const (
	EventConfigSaved   = "config_saved"
	EventConfigDeleted = "config_deleted"
	EventAPICall       = "api_call"
)

// AuditLog represents a structured audit log entry. Credential changes and
// outgoing API calls share the same index, discriminated by Event.
type AuditLog struct {
	Timestamp  time.Time      `json:"timestamp"`
	Account    string         `json:"account,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	Event      string         `json:"event"`
	Method     string         `json:"method,omitempty"`
	Endpoint   string         `json:"endpoint,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty"`
	Error      string         `json:"error,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Logger handles OpenSearch audit logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch audit logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogAudit writes an audit entry to the account's index
func (l *Logger) LogAudit(ctx context.Context, entry AuditLog) error {
	if !l.client.IsEnabled() {
		return nil // Logging disabled
	}

	// Set timestamp if not provided
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Generate request ID if not provided
	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}

	indexName := l.client.GetAuditIndexName(entry.Account)

	// Convert entry to JSON
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	// Index the document
	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(entryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index audit entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

// LogConfigSaved records a credential configuration change for an account
func (l *Logger) LogConfigSaved(ctx context.Context, account, mode, clientIP string) error {
	return l.LogAudit(ctx, AuditLog{
		Account:  account,
		Mode:     mode,
		Event:    EventConfigSaved,
		ClientIP: clientIP,
	})
}

// LogConfigDeleted records a credential configuration removal for an account
func (l *Logger) LogConfigDeleted(ctx context.Context, account, clientIP string) error {
	return l.LogAudit(ctx, AuditLog{
		Account:  account,
		Event:    EventConfigDeleted,
		ClientIP: clientIP,
	})
}

// SearchLogs searches an account's audit logs based on criteria
func (l *Logger) SearchLogs(ctx context.Context, account string, query map[string]any) ([]AuditLog, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("logging is disabled")
	}

	indexName := l.client.GetAuditIndexName(account)

	// Build search query
	searchQuery := map[string]any{
		"query": query,
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": 100, // Limit results
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	// Perform search
	req := opensearchapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	// Parse search results
	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source AuditLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	// Extract entries from search results
	logs := make([]AuditLog, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		logs[i] = hit.Source
	}

	return logs, nil
}

// GetRecentLogs retrieves an account's audit entries for the last N hours
func (l *Logger) GetRecentLogs(ctx context.Context, account string, hours int) ([]AuditLog, error) {
	query := map[string]any{
		"range": map[string]any{
			"timestamp": map[string]any{
				"gte": fmt.Sprintf("now-%dh", hours),
			},
		},
	}

	return l.SearchLogs(ctx, account, query)
}

// GetRecentErrorLogs retrieves an account's recent entries that carry an error
func (l *Logger) GetRecentErrorLogs(ctx context.Context, account string, hours int) ([]AuditLog, error) {
	query := map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{
					"range": map[string]any{
						"timestamp": map[string]any{
							"gte": fmt.Sprintf("now-%dh", hours),
						},
					},
				},
				{
					"exists": map[string]any{
						"field": "error",
					},
				},
			},
		},
	}

	return l.SearchLogs(ctx, account, query)
}

// CallLoggerFor returns a paypal.CallLogger that attributes transport calls
// to the given account and mode. Entries are shipped asynchronously so the
// transport is never blocked by the sink.
func (l *Logger) CallLoggerFor(account, mode string) paypal.CallLogger {
	return &boundCallLogger{logger: l, account: account, mode: mode}
}

type boundCallLogger struct {
	logger  *Logger
	account string
	mode    string
}

func (b *boundCallLogger) LogAPICall(_ context.Context, call paypal.APICall) {
	entry := AuditLog{
		Timestamp:  call.Timestamp,
		Account:    b.account,
		Mode:       b.mode,
		Event:      EventAPICall,
		Method:     call.Method,
		Endpoint:   call.URL,
		StatusCode: call.StatusCode,
		DurationMs: call.Duration.Milliseconds(),
		RequestID:  call.RequestID,
		Error:      call.Err,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.logger.LogAudit(ctx, entry); err != nil {
			log.Printf("Failed to log API call to OpenSearch: %v", err)
		}
	}()
}

// LogSystemEvent logs a system event to OpenSearch
func (l *Logger) LogSystemEvent(ctx context.Context, entry any) error {
	if !l.client.IsEnabled() {
		return nil // Logging disabled
	}

	// Use system logs index
	indexName := "paypal-system-logs"

	// Convert entry to JSON
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal system log: %w", err)
	}

	// Index the document
	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(entryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index system log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch system log error: %s", res.String())
	}

	return nil
}

// SanitizeForLog removes sensitive information from data before logging
func SanitizeForLog(data string) string {
	// Replace common sensitive fields
	sensitiveFields := []string{
		"client_secret", "clientSecret", "client_id", "clientId",
		"access_token", "refresh_token", "password", "token",
		"authorization", "api_key", "apiKey", "x-api-key",
	}

	result := data
	for _, field := range sensitiveFields {
		// Regex patterns for different formats
		patterns := []string{
			fmt.Sprintf(`"%s"\s*:\s*"[^"]*"`, field), // JSON format with double quotes
			fmt.Sprintf(`"%s"\s*:\s*'[^']*'`, field), // JSON format with single quotes
			fmt.Sprintf(`%s=[\w.-]+`, field),         // URL parameter format
		}

		for _, pattern := range patterns {
			re := regexp.MustCompile(pattern)
			result = re.ReplaceAllString(result, fmt.Sprintf(`"%s":"***REDACTED***"`, field))
		}
	}

	return result
}
