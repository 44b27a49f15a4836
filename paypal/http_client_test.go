package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	mu    sync.Mutex
	calls []APICall
}

func (l *recordingLogger) LogAPICall(_ context.Context, call APICall) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *recordingLogger) recorded() []APICall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]APICall(nil), l.calls...)
}

func TestSendJSON(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotLanguage, gotRequestID string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotLanguage = r.Header.Get("Accept-Language")
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"CREATED"}`))
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{
		BaseURL:        server.URL,
		DefaultHeaders: map[string]string{"Accept-Language": "en_US"},
	})

	resp, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: "/v2/checkout/orders",
		Body:     map[string]string{"intent": "CAPTURE"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("Expected POST, got %s", gotMethod)
	}
	if gotPath != "/v2/checkout/orders" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Unexpected content type %s", gotContentType)
	}
	if gotLanguage != "en_US" {
		t.Errorf("Default header should be applied, got %q", gotLanguage)
	}
	if gotRequestID == "" {
		t.Error("POST requests should carry a generated PayPal-Request-Id")
	}
	if gotBody["intent"] != "CAPTURE" {
		t.Errorf("Unexpected request body: %v", gotBody)
	}

	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := resp.JSON(&order); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if order.ID != "ORDER-1" || order.Status != "CREATED" {
		t.Errorf("Unexpected decoded response: %+v", order)
	}
}

func TestSendJSONRequestIDPassthrough(t *testing.T) {
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:    http.MethodPost,
		Endpoint:  "/v1/billing/subscriptions",
		RequestID: "my-idempotency-key",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotRequestID != "my-idempotency-key" {
		t.Errorf("Expected caller request ID to pass through, got %q", gotRequestID)
	}
}

func TestSendJSONNoRequestIDOnGet(t *testing.T) {
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("PayPal-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodGet,
		Endpoint: "/v1/identity/oauth2/userinfo",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotRequestID != "" {
		t.Errorf("GET requests should not generate an idempotency header, got %q", gotRequestID)
	}
}

func TestSendJSONPerRequestHeaderWins(t *testing.T) {
	var gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLanguage = r.Header.Get("Accept-Language")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{
		BaseURL:        server.URL,
		DefaultHeaders: map[string]string{"Accept-Language": "en_US"},
	})

	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodGet,
		Endpoint: "/",
		Headers:  map[string]string{"Accept-Language": "ja_JP"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotLanguage != "ja_JP" {
		t.Errorf("Per-request header should win, got %q", gotLanguage)
	}
}

func TestDefaultHeaderMutationVisible(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	headers := map[string]string{}
	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, DefaultHeaders: headers})

	headers["Authorization"] = "Bearer later-token"

	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{Method: http.MethodGet, Endpoint: "/"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotAuth != "Bearer later-token" {
		t.Errorf("Header map mutations should reach subsequent sends, got %q", gotAuth)
	}
}

func TestSendForm(t *testing.T) {
	var gotContentType, gotGrantType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotGrantType = r.PostForm.Get("grant_type")
		}
		_, _ = w.Write([]byte(`{"access_token":"A21AAF"}`))
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := httpClient.SendForm(context.Background(), &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: "/v1/oauth2/token",
		FormData: map[string]string{"grant_type": "client_credentials"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Unexpected content type %s", gotContentType)
	}
	if gotGrantType != "client_credentials" {
		t.Errorf("Unexpected form value %q", gotGrantType)
	}
}

func TestSendJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	resp, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodGet,
		Endpoint: "/v1/oauth2/token",
	})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if resp == nil {
		t.Fatal("Response should be returned alongside the error")
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestCallLoggerRecordsCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &recordingLogger{}
	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, Logger: logger})

	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: "/v2/checkout/orders",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	calls := logger.recorded()
	if len(calls) != 1 {
		t.Fatalf("Expected one recorded call, got %d", len(calls))
	}
	call := calls[0]
	if call.Method != http.MethodPost {
		t.Errorf("Unexpected method %s", call.Method)
	}
	if call.StatusCode != http.StatusOK {
		t.Errorf("Unexpected status %d", call.StatusCode)
	}
	if call.RequestID == "" {
		t.Error("Recorded call should carry the request ID")
	}
	if call.Err != "" {
		t.Errorf("Expected no error, got %q", call.Err)
	}
	if call.Duration < 0 {
		t.Errorf("Unexpected negative duration %v", call.Duration)
	}
}

func TestBuildURL(t *testing.T) {
	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: "https://api-m.sandbox.paypal.com"})

	tests := []struct {
		name     string
		endpoint string
		params   url.Values
		want     string
	}{
		{
			name:     "Relative endpoint",
			endpoint: "/v1/oauth2/token",
			want:     "https://api-m.sandbox.paypal.com/v1/oauth2/token",
		},
		{
			name:     "Relative endpoint without slash",
			endpoint: "v1/oauth2/token",
			want:     "https://api-m.sandbox.paypal.com/v1/oauth2/token",
		},
		{
			name:     "Absolute endpoint",
			endpoint: "https://api-m.paypal.com/v1/notifications",
			want:     "https://api-m.paypal.com/v1/notifications",
		},
		{
			name:     "Query parameters",
			endpoint: "/v1/invoicing/invoices",
			params:   url.Values{"page": {"2"}, "page_size": {"20"}},
			want:     "https://api-m.sandbox.paypal.com/v1/invoicing/invoices?page=2&page_size=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := httpClient.buildURL(tt.endpoint, tt.params)
			if got != tt.want {
				t.Errorf("buildURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewHTTPClientDefaults(t *testing.T) {
	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: "https://api-m.paypal.com"})
	if httpClient.client.Timeout != 30*time.Second {
		t.Errorf("Expected default 30s timeout, got %v", httpClient.client.Timeout)
	}
	if httpClient.BaseURL() != "https://api-m.paypal.com" {
		t.Errorf("Unexpected base URL %s", httpClient.BaseURL())
	}
}

func TestClientPaginationFlowsIntoRequest(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New()
	raw := validSandboxConfig()
	if err := client.SetAPICredentials(raw); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	client.SetPageSize(10).SetCurrentPage(2)

	// Point the transport at the test server instead of the sandbox host.
	httpClient := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, DefaultHeaders: client.Options().Headers})
	_, err := httpClient.SendJSON(context.Background(), &HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    "/v1/invoicing/invoices",
		QueryParams: client.PaginationParams(),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotQuery.Get("page") != "2" || gotQuery.Get("page_size") != "10" || gotQuery.Get("total_required") != "true" {
		t.Errorf("Unexpected query: %v", gotQuery)
	}
}
