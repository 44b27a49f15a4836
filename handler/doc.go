// Package handler provides HTTP request handlers for the PayPal credential
// configuration service.
//
// Account credentials are cached in memory and persisted to **SQLite**;
// configuration changes are audited to **OpenSearch** when a sink is
// configured.
//
// This package contains the HTTP handlers that implement the REST API
// endpoints for credential management, audit log access, and service
// health. The handlers bridge the HTTP layer with the credential pipeline
// in the paypal package.
//
// # Core Handlers
//
// The package includes three specialized handlers:
//
//   - ConfigHandler: Manages per-account PayPal credential configurations
//   - LogsHandler: Provides access to configuration audit trails
//   - HealthHandler: Reports storage, system, and service health
//
// # Configuration Handler
//
// The ConfigHandler manages account-scoped credential configurations:
//
//	configHandler := handler.NewConfigHandler(accounts, auditLogger, validator)
//
//	// Routes
//	r.Post("/v1/config/{account}", configHandler.SetConfig)
//	r.Get("/v1/config/{account}", configHandler.GetConfig)
//	r.Delete("/v1/config/{account}", configHandler.DeleteConfig)
//	r.Get("/v1/config/{account}/fields", configHandler.GetRequiredFields)
//
// Example configuration request:
//
//	POST /v1/config/acme
//	Headers:
//	  Authorization: Bearer your-api-key
//	  Content-Type: application/json
//
//	Body:
//	{
//	  "mode": "sandbox",
//	  "sandbox": {
//	    "client_id": "sandbox-client-id",
//	    "client_secret": "sandbox-client-secret"
//	  },
//	  "currency": "EUR",
//	  "locale": "de_DE"
//	}
//
// Every stored configuration is first run through the full credential
// pipeline, so a payload that would fail at load time is rejected at
// save time instead. Reads mask secret-bearing values:
//
//	{
//	  "success": true,
//	  "data": {
//	    "account": "acme",
//	    "config": {
//	      "mode": "sandbox",
//	      "sandbox": {
//	        "client_id": "sandbox-client-id",
//	        "client_secret": "EGnH****PZRbL"
//	      }
//	    }
//	  }
//	}
//
// # Logs Handler
//
// The LogsHandler exposes the audit trail stored in OpenSearch:
//
//	logsHandler := handler.NewLogsHandler(auditLogger)
//
//	// Audit events for an account
//	r.Get("/v1/logs/{account}", logsHandler.ListLogs)
//
//	// Error events only
//	r.Get("/v1/logs/{account}/errors", logsHandler.GetErrorLogs)
//
// When no OpenSearch sink is configured the handler responds with 503
// rather than failing at startup.
//
// # Health Handler
//
// The HealthHandler reports overall service health, including SQLite
// connectivity, memory and disk pressure, and the state of optional
// services:
//
//	healthHandler := handler.NewHealthHandler(storage, auditLogger, accounts)
//	r.Get("/health", healthHandler.CheckHealth)
//
// The endpoint returns 503 only when a hard dependency is down; degraded
// states (slow storage, high memory usage) still return 200.
//
// # Request Validation
//
// Handlers use structured validation for incoming requests:
//
//	type SetConfigRequest struct {
//	    Mode    string           `json:"mode" validate:"required,oneof=sandbox live"`
//	    Sandbox *CredentialBlock `json:"sandbox,omitempty"`
//	    Live    *CredentialBlock `json:"live,omitempty"`
//	}
//
// # Error Handling
//
// All handlers implement consistent error handling with structured responses:
//
//	// Success response
//	{
//	  "success": true,
//	  "message": "Configuration updated",
//	  "data": {
//	    "account": "acme",
//	    "mode": "sandbox"
//	  }
//	}
//
//	// Error response
//	{
//	  "success": false,
//	  "message": "Invalid PayPal configuration",
//	  "error": "paypal: live credentials missing from the provided configuration"
//	}
//
// # Authentication and Authorization
//
// API endpoints require Bearer token authentication:
//
//	Authorization: Bearer your-api-key
//
// The health check endpoint is public and does not require authentication.
//
// # HTTP Status Codes
//
// Handlers use standard HTTP status codes:
//
//   - 200 OK: Successful operation
//   - 400 Bad Request: Invalid request format or validation error
//   - 401 Unauthorized: Missing or invalid authentication
//   - 404 Not Found: No configuration stored for the account
//   - 429 Too Many Requests: Rate limit exceeded
//   - 500 Internal Server Error: Server-side error
//   - 503 Service Unavailable: Audit logging or a hard dependency is down
package handler
