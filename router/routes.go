package router

import (
	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/btwlouis/laravel-paypal/infra/middle"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	v1 "github.com/btwlouis/laravel-paypal/router/v1"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the authenticated API surface under /v1. Request logging
// wraps authentication so rejected requests show up in the logs too.
func Routes(r chi.Router, accounts *config.AccountConfig, auditLogger *opensearch.Logger) {
	r.Route("/v1", func(r chi.Router) {
		r.Use(middle.RequestLoggingMiddleware())
		r.Use(middle.AuthMiddleware())

		v1.Routes(r, accounts, auditLogger)
	})
}
