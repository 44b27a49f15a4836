package opensearch

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	config *config.AppConfig
}

// NewClient creates a new OpenSearch client
func NewClient(cfg *config.AppConfig) (*Client, error) {
	// OpenSearch client configuration
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // For development/testing
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	// Add authentication if configured
	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	// Create OpenSearch client
	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client: client,
		config: cfg,
	}

	// Test connection and create default indices
	if err := osClient.setupIndices(); err != nil {
		log.Printf("Warning: Failed to setup OpenSearch indices: %v", err)
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// setupIndices creates the audit index used for credential events
func (c *Client) setupIndices() error {
	indexName := c.GetAuditIndexName("")

	exists, err := c.indexExists(indexName)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", indexName, err)
	}

	if !exists {
		if err := c.createAuditIndex(indexName); err != nil {
			return fmt.Errorf("failed to create index %s: %w", indexName, err)
		}
		log.Printf("Created OpenSearch index: %s", indexName)
	}

	return nil
}

// indexExists checks if an index exists
func (c *Client) indexExists(indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(nil, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == 200, nil
}

// createAuditIndex creates a new index for audit logs with proper mapping
func (c *Client) createAuditIndex(indexName string) error {
	mapping := `{
		"mappings": {
			"properties": {
				"timestamp": {
					"type": "date",
					"format": "strict_date_optional_time||epoch_millis"
				},
				"account": {
					"type": "keyword"
				},
				"mode": {
					"type": "keyword"
				},
				"event": {
					"type": "keyword"
				},
				"method": {
					"type": "keyword"
				},
				"endpoint": {
					"type": "keyword"
				},
				"status_code": {
					"type": "integer"
				},
				"duration_ms": {
					"type": "long"
				},
				"request_id": {
					"type": "keyword"
				},
				"client_ip": {
					"type": "ip"
				},
				"error": {
					"type": "text"
				},
				"fields": {
					"type": "object"
				}
			}
		},
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		}
	}`

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(nil, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}

// GetAuditIndexName returns the index name for an account's audit logs
func (c *Client) GetAuditIndexName(account string) string {
	if account == "" {
		return "paypal-audit-logs"
	}
	return "paypal-" + strings.ToLower(account) + "-audit-logs"
}

// IsEnabled returns whether OpenSearch logging is enabled. Safe to call
// on a nil client.
func (c *Client) IsEnabled() bool {
	return c != nil && c.config != nil && c.config.EnableLogging
}
