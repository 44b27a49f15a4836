package v1

import (
	"github.com/btwlouis/laravel-paypal/handler"
	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/go-chi/chi/v5"
)

// Routes registers all API routes. auditLogger may be nil when no
// OpenSearch sink is configured; the logs endpoints then respond 503.
func Routes(r chi.Router, accounts *config.AccountConfig, auditLogger *opensearch.Logger) {
	configHandler := handler.NewConfigHandler(accounts, auditLogger, config.App().Validator)

	// A nil *opensearch.Logger must not end up as a non-nil interface
	// value inside the logs handler.
	var auditSource handler.AuditLogSource
	if auditLogger != nil {
		auditSource = auditLogger
	}
	logsHandler := handler.NewLogsHandler(auditSource)

	// Account credential configuration routes
	r.Route("/config", func(r chi.Router) {
		r.Post("/{account}", configHandler.SetConfig)
		r.Get("/{account}", configHandler.GetConfig)
		r.Delete("/{account}", configHandler.DeleteConfig)
		r.Get("/{account}/fields", configHandler.GetRequiredFields)
	})

	// Audit log routes
	r.Route("/logs", func(r chi.Router) {
		r.Get("/{account}", logsHandler.ListLogs)
		r.Get("/{account}/errors", logsHandler.GetErrorLogs)
	})

	// Store statistics
	r.Get("/stats", configHandler.GetStats)
}
