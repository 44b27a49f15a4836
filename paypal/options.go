package paypal

import (
	"net/url"
	"strconv"
	"time"
)

// RequestOptions carries the mutable HTTP options the transport applies to
// every outbound request. Headers is a plain upsert map: the last write for
// a given header name wins.
type RequestOptions struct {
	Headers   map[string]string
	Timeout   time.Duration
	VerifySSL bool
}

func newRequestOptions() *RequestOptions {
	return &RequestOptions{
		Headers:   make(map[string]string),
		Timeout:   defaultTimeout,
		VerifySSL: true,
	}
}

// Options returns the client's live request options. The transport reads
// them on every send, so later mutations affect subsequent requests.
func (c *Client) Options() *RequestOptions {
	return c.options
}

// SetRequestHeader upserts a single request header. No validation is
// applied to key or value.
func (c *Client) SetRequestHeader(key, value string) *Client {
	c.options.Headers[key] = value
	return c
}

// SetRequestHeaders upserts every pair in headers. Keys are unique within
// the map and each upsert is last-write-wins, so the outcome does not
// depend on iteration order; callers that need a specific relative order
// across keys chain SetRequestHeader calls instead.
func (c *Client) SetRequestHeaders(headers map[string]string) *Client {
	for key, value := range headers {
		c.SetRequestHeader(key, value)
	}
	return c
}

// GetRequestHeader returns the stored value for key.
func (c *Client) GetRequestHeader(key string) (string, error) {
	value, ok := c.options.Headers[key]
	if !ok {
		return "", errHeaderNotSet(key)
	}
	return value, nil
}

// SetAccessToken sets the Authorization header from an already acquired
// OAuth token. Acquiring and refreshing the token is the caller's concern.
func (c *Client) SetAccessToken(tokenType, token string) *Client {
	return c.SetRequestHeader("Authorization", tokenType+" "+token)
}

// SetPageSize sets the page size sent with list-style requests.
func (c *Client) SetPageSize(size int) *Client {
	c.pageSize = size
	return c
}

// SetCurrentPage sets the page number sent with list-style requests.
func (c *Client) SetCurrentPage(page int) *Client {
	c.currentPage = page
	return c
}

// ShowTotals controls whether list-style requests ask the API to include
// total counts in its responses.
func (c *Client) ShowTotals(show bool) *Client {
	c.showTotals = show
	return c
}

// PaginationParams renders the pagination fields as query parameters for
// list-style endpoints.
func (c *Client) PaginationParams() url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(c.currentPage))
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("total_required", strconv.FormatBool(c.showTotals))
	return params
}
