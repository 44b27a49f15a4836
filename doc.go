// Package laravelpaypal provides PayPal REST credential configuration and
// transport plumbing for Go services, together with a small HTTP service
// for managing stored per-account credentials.
//
// # Overview
//
// Integrating PayPal starts with a surprisingly fiddly problem: resolving
// which environment to talk to, validating the matching credential block,
// and building a transport with the right SSL policy and default headers.
// This module centralizes that configuration pipeline and keeps validated
// credentials for any number of named accounts in one place.
//
// # Architecture
//
// The configuration flow follows this pattern:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│  Raw mapping    │───►│   Credential    │───►│   Configured    │
//	│ (env, store,    │    │    pipeline     │    │  client + HTTP  │
//	│  API request)   │    │  (validation)   │    │    transport    │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// The pipeline either fully succeeds or reports a *ConfigurationError and
// leaves the client unusable; there is no partially configured state.
//
// # Quick Start
//
// Basic usage example:
//
//	package main
//
//	import (
//	    "fmt"
//
//	    "github.com/btwlouis/laravel-paypal/paypal"
//	)
//
//	func main() {
//	    client := paypal.New()
//
//	    err := client.SetAPICredentials(map[string]any{
//	        "mode": "sandbox",
//	        "sandbox": map[string]any{
//	            "client_id":     "your-client-id",
//	            "client_secret": "your-client-secret",
//	        },
//	        "currency": "EUR",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    fmt.Println(client.GetMode())       // sandbox
//	    fmt.Println(client.GetAPIBaseURL()) // https://api-m.sandbox.paypal.com
//	}
//
// # Credential Sources
//
// Credentials can come from the environment, a static mapping, or the
// SQLite-backed account store. Sources are registered by name:
//
//	// From PAYPAL_* environment variables
//	client, err := paypal.NewFromSource(config.NewEnvSource())
//
//	// From the account store
//	source, err := config.CreateSource("sqlite", accounts, "acme")
//	client, err = paypal.NewFromSource(source)
//
// # Multi-Account Support
//
// The account store keeps a validated configuration per named account, so
// one deployment can serve many merchants:
//
//	storage, _ := config.NewSQLiteStorage("data/paypal.db")
//	accounts := config.NewAccountConfig(storage)
//
//	accounts.SetConfig("acme", map[string]any{
//	    "mode": "live",
//	    "live": map[string]any{
//	        "client_id":     "acme-live-id",
//	        "client_secret": "acme-live-secret",
//	    },
//	})
//
// # Environment Support
//
// Each account carries sandbox and live credential blocks side by side;
// the mode key selects which block is active:
//
//	{
//	    "mode": "sandbox",
//	    "sandbox": {"client_id": "...", "client_secret": "..."},
//	    "live":    {"client_id": "...", "client_secret": "..."}
//	}
//
// A missing mode is an error. An unrecognized mode resolves to live, so a
// typo can never silently point production traffic at the sandbox.
//
// # HTTP API
//
// The bundled service exposes the account store over REST:
//
//	# Store credentials (validated through the full pipeline first)
//	POST /v1/config/{account}
//	Headers:
//	  Authorization: Bearer your-api-key
//	  Content-Type: application/json
//
//	# Read stored credentials (secrets masked)
//	GET /v1/config/{account}
//
//	# Remove stored credentials
//	DELETE /v1/config/{account}
//
//	# Field reference for configuration forms
//	GET /v1/config/{account}/fields?mode=live
//
//	# Audit trail
//	GET /v1/logs/{account}
//
// # Logging and Auditing
//
// Configuration changes and API calls are audited to OpenSearch with
// per-account indices; the service keeps running without the sink when
// OpenSearch is unreachable. Structured system logging with account and
// request context lives in infra/logger.
//
// # Security Features
//
// The service includes several security layers:
//
//   - API key authentication
//   - Rate limiting
//   - IP whitelisting
//   - Request validation
//   - Secret masking on reads
//
// # Examples
//
// Runnable examples are available in the examples/ directory:
//   - examples/basic/ - client configuration and request options
//   - examples/store/ - SQLite-backed multi-account storage
package laravelpaypal
