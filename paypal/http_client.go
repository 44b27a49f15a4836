package paypal

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPClientConfig configures the transport built for a validated client.
// DefaultHeaders is shared with the owning client's options, so header
// mutations after configuration are visible to subsequent requests.
type HTTPClientConfig struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	DefaultHeaders     map[string]string
	Logger             CallLogger
}

// HTTPRequest is one request against the payment API.
type HTTPRequest struct {
	Method      string
	Endpoint    string
	Headers     map[string]string
	Body        any
	FormData    map[string]string
	QueryParams url.Values

	// RequestID becomes the PayPal-Request-Id idempotency header. When
	// empty, non-GET requests get a generated UUID.
	RequestID string
}

// HTTPResponse is the standardized response of a completed request.
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals the response body into target.
func (r *HTTPResponse) JSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// HTTPClient sends requests to the payment API with the validated SSL
// policy and header set applied.
type HTTPClient struct {
	config HTTPClientConfig
	client *http.Client
	logger CallLogger
}

// NewHTTPClient creates a transport from config.
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = NopCallLogger{}
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// BaseURL returns the endpoint root this transport sends to.
func (c *HTTPClient) BaseURL() string {
	return c.config.BaseURL
}

// SendJSON sends req with a JSON-encoded body.
func (c *HTTPClient) SendJSON(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	return c.send(ctx, req, "application/json")
}

// SendForm sends req with a form-encoded body built from FormData.
func (c *HTTPClient) SendForm(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	return c.send(ctx, req, "application/x-www-form-urlencoded")
}

// SendRaw sends req without forcing a content type; Body must be a string
// or []byte when present.
func (c *HTTPClient) SendRaw(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	return c.send(ctx, req, "")
}

func (c *HTTPClient) send(ctx context.Context, req *HTTPRequest, contentType string) (*HTTPResponse, error) {
	fullURL := c.buildURL(req.Endpoint, req.QueryParams)

	body, err := encodeBody(req, contentType)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	requestID := req.RequestID
	if requestID == "" && req.Method != http.MethodGet {
		requestID = uuid.NewString()
	}
	if requestID != "" {
		httpReq.Header.Set("PayPal-Request-Id", requestID)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logCall(ctx, req.Method, fullURL, 0, start, requestID, err)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logCall(ctx, req.Method, fullURL, resp.StatusCode, start, requestID, err)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	response := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("http error %d: %s", resp.StatusCode, string(respBody))
		c.logCall(ctx, req.Method, fullURL, resp.StatusCode, start, requestID, err)
		return response, err
	}

	c.logCall(ctx, req.Method, fullURL, resp.StatusCode, start, requestID, nil)
	return response, nil
}

func (c *HTTPClient) logCall(ctx context.Context, method, fullURL string, status int, start time.Time, requestID string, callErr error) {
	call := APICall{
		Timestamp:  start,
		Method:     method,
		URL:        fullURL,
		StatusCode: status,
		Duration:   time.Since(start),
		RequestID:  requestID,
	}
	if callErr != nil {
		call.Err = callErr.Error()
	}
	c.logger.LogAPICall(ctx, call)
}

func encodeBody(req *HTTPRequest, contentType string) (io.Reader, error) {
	switch contentType {
	case "application/x-www-form-urlencoded":
		form := url.Values{}
		for key, value := range req.FormData {
			form.Set(key, value)
		}
		if len(form) == 0 {
			return nil, nil
		}
		return strings.NewReader(form.Encode()), nil
	case "application/json":
		if req.Body == nil {
			return nil, nil
		}
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		return bytes.NewReader(data), nil
	default:
		switch raw := req.Body.(type) {
		case nil:
			return nil, nil
		case string:
			return strings.NewReader(raw), nil
		case []byte:
			return bytes.NewReader(raw), nil
		default:
			return nil, fmt.Errorf("unsupported raw body type %T", req.Body)
		}
	}
}

// buildURL resolves endpoint against the base URL and appends query
// parameters. Absolute endpoints are used as given.
func (c *HTTPClient) buildURL(endpoint string, queryParams url.Values) string {
	fullURL := endpoint
	if !strings.HasPrefix(endpoint, "http") {
		fullURL = joinURL(c.config.BaseURL, endpoint)
	}

	if len(queryParams) == 0 {
		return fullURL
	}

	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}

	q := u.Query()
	for key, values := range queryParams {
		for _, value := range values {
			q.Set(key, value)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func joinURL(base, endpoint string) string {
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(endpoint, "/"):
		return base + endpoint[1:]
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(endpoint, "/"):
		return base + "/" + endpoint
	default:
		return base + endpoint
	}
}
