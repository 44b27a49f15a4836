package paypal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// ModeSandbox selects the test environment and its credential block.
	ModeSandbox = "sandbox"
	// ModeLive selects the production environment and its credential block.
	ModeLive = "live"

	sandboxAPIBase = "https://api-m.sandbox.paypal.com"
	liveAPIBase    = "https://api-m.paypal.com"

	defaultCurrency      = "USD"
	defaultLocale        = "en_US"
	defaultPaymentAction = "Sale"
	defaultTimeout       = 30 * time.Second

	defaultPageSize    = 20
	defaultCurrentPage = 1
)

// ConfigSource supplies the raw configuration mapping for a client when the
// caller does not pass one explicitly. Load is called once, synchronously,
// before validation begins.
type ConfigSource interface {
	Load() (map[string]any, error)
}

// Client holds the validated credentials and request options for one
// payment API account.
//
// A Client has two phases: unconfigured after New, configured after a
// successful SetAPICredentials or LoadCredentials. Required fields do not
// change after configuration; headers and options may be mutated through
// the setter methods. A Client is owned by a single goroutine; concurrent
// mutation requires external synchronization.
type Client struct {
	mode          string
	baseURL       string
	config        map[string]string
	currency      string
	locale        string
	paymentAction string
	validateSSL   bool

	options     *RequestOptions
	pageSize    int
	currentPage int
	showTotals  bool

	source ConfigSource
	logger CallLogger
	http   *HTTPClient
}

// Option configures a Client at construction.
type Option func(*Client)

// WithSource sets the configuration source used by LoadCredentials.
func WithSource(source ConfigSource) Option {
	return func(c *Client) { c.source = source }
}

// WithCallLogger sets the logger the transport reports completed API calls
// to.
func WithCallLogger(logger CallLogger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.options.Timeout = timeout }
}

// New creates an unconfigured Client. Pagination fields start at their
// defaults: page size 20, page 1, totals requested.
func New(opts ...Option) *Client {
	c := &Client{
		options:     newRequestOptions(),
		pageSize:    defaultPageSize,
		currentPage: defaultCurrentPage,
		showTotals:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromSource builds a Client and immediately runs the credential
// pipeline against the mapping loaded from source.
func NewFromSource(source ConfigSource, opts ...Option) (*Client, error) {
	c := New(append([]Option{WithSource(source)}, opts...)...)
	if err := c.LoadCredentials(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCredentials performs the single synchronous read from the configured
// source and applies the result through SetAPICredentials.
func (c *Client) LoadCredentials() error {
	if c.source == nil {
		return errInvalidConfig()
	}
	raw, err := c.source.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return c.SetAPICredentials(raw)
}

// SetAPICredentials validates the raw configuration mapping and stores the
// result. It either fully succeeds or returns a *ConfigurationError and
// leaves the client unusable; there is no partial configuration state.
//
// The mode key must be present: a missing or empty mode fails, while a
// present but unrecognized mode silently degrades to live. The credential
// block under the resolved mode must carry non-empty client_id and
// client_secret values; all of its keys are copied through verbatim.
// payment_action, locale and validate_ssl default to "Sale", "en_US" and
// true when absent, and currency defaults to USD. On success the transport
// is rebuilt with the validated SSL policy and header set.
func (c *Client) SetAPICredentials(raw map[string]any) error {
	if len(raw) == 0 {
		return errInvalidConfig()
	}
	if err := c.setAPIEnvironment(raw); err != nil {
		return err
	}
	if err := c.setCredentials(raw); err != nil {
		return err
	}
	c.setRequestDefaults(raw)
	if err := c.SetCurrency(stringOrDefault(raw, "currency", defaultCurrency)); err != nil {
		return err
	}
	c.configureHTTPClient()
	return nil
}

// setAPIEnvironment resolves the mode. Missing mode is fatal; an
// unrecognized mode degrades to live without error.
func (c *Client) setAPIEnvironment(raw map[string]any) error {
	mode := stringValue(raw["mode"])
	if mode == "" {
		return errMissingField("mode")
	}
	if mode != ModeSandbox && mode != ModeLive {
		mode = ModeLive
	}

	c.mode = mode
	c.baseURL = liveAPIBase
	if mode == ModeSandbox {
		c.baseURL = sandboxAPIBase
	}
	return nil
}

// setCredentials validates and copies the per-mode credential block.
func (c *Client) setCredentials(raw map[string]any) error {
	block := credentialBlock(raw[c.mode])
	if len(block) == 0 {
		return errMissingCredentials(c.mode)
	}
	if err := validateCredentialBlock(block, RequiredCredentialFields(c.mode)); err != nil {
		return err
	}
	c.config = block
	return nil
}

func (c *Client) setRequestDefaults(raw map[string]any) {
	c.paymentAction = stringOrDefault(raw, "payment_action", defaultPaymentAction)
	c.locale = stringOrDefault(raw, "locale", defaultLocale)
	c.validateSSL = boolOrDefault(raw, "validate_ssl", true)
	c.options.VerifySSL = c.validateSSL
	c.SetRequestHeader("Accept-Language", c.locale)
}

// configureHTTPClient rebuilds the transport from the validated mode, SSL
// policy and the live header map.
func (c *Client) configureHTTPClient() {
	c.http = NewHTTPClient(HTTPClientConfig{
		BaseURL:            c.baseURL,
		Timeout:            c.options.Timeout,
		InsecureSkipVerify: !c.validateSSL,
		DefaultHeaders:     c.options.Headers,
		Logger:             c.logger,
	})
}

// GetMode returns the active environment, ModeSandbox or ModeLive.
func (c *Client) GetMode() string {
	return c.mode
}

// GetAPIBaseURL returns the REST endpoint root for the active mode.
func (c *Client) GetAPIBaseURL() string {
	return c.baseURL
}

// GetConfiguration returns a copy of the validated credential block for
// the active environment.
func (c *Client) GetConfiguration() map[string]string {
	out := make(map[string]string, len(c.config))
	for key, value := range c.config {
		out[key] = value
	}
	return out
}

// GetPaymentAction returns the configured payment action.
func (c *Client) GetPaymentAction() string {
	return c.paymentAction
}

// GetLocale returns the configured locale.
func (c *Client) GetLocale() string {
	return c.locale
}

// ValidatesSSL reports whether the transport verifies TLS certificates.
func (c *Client) ValidatesSSL() bool {
	return c.validateSSL
}

// HTTPClient returns the transport built by the last successful
// SetAPICredentials, or nil before configuration.
func (c *Client) HTTPClient() *HTTPClient {
	return c.http
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringOrDefault(raw map[string]any, key, fallback string) string {
	if s := stringValue(raw[key]); s != "" {
		return s
	}
	return fallback
}

func boolOrDefault(raw map[string]any, key string, fallback bool) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

// credentialBlock converts a raw per-mode block into a flat string map.
// Non-string scalar values are rendered with fmt.Sprint so extra credential
// fields survive JSON decoding.
func credentialBlock(v any) map[string]string {
	switch block := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(block))
		for key, value := range block {
			out[key] = value
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(block))
		for key, value := range block {
			out[key] = fieldValue(value)
		}
		return out
	}
	return nil
}

func fieldValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
