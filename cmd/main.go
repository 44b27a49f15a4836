package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btwlouis/laravel-paypal/handler"
	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/btwlouis/laravel-paypal/infra/logger"
	"github.com/btwlouis/laravel-paypal/infra/middle"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/btwlouis/laravel-paypal/infra/response"
	"github.com/btwlouis/laravel-paypal/paypal"
	"github.com/btwlouis/laravel-paypal/router"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

var (
	PORT             string
	openSearchLogger *opensearch.Logger
)

func init() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	// init conf
	_ = config.App()

	PORT = config.GetEnv("APP_PORT", "9999")

	// Initialize OpenSearch client and logger
	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger)
}

func main() {
	cfg := config.GetAppConfig()

	// Credential store; the account manager runs memory-only when SQLite
	// is unavailable
	var storage *config.SQLiteStorage
	if s, err := config.NewSQLiteStorage(cfg.DBPath); err != nil {
		logger.Error("Failed to open credential store, running memory-only", err)
	} else {
		storage = s
	}

	accounts := config.NewAccountConfig(storage)

	// Seed the default account from PAYPAL_* variables when present
	if err := accounts.LoadFromEnv(cfg.DefaultAccount); err != nil {
		logger.Info("No PayPal credentials in environment, waiting for configuration via API")
	} else {
		logger.Info("Loaded environment credentials", logger.LogContext{Account: cfg.DefaultAccount})
	}

	// Run the default account through the credential pipeline using the
	// configured source
	if source, err := config.CreateSource(cfg.CredentialSource, accounts, cfg.DefaultAccount); err != nil {
		logger.Warn("Credential source not registered: " + cfg.CredentialSource)
	} else if client, err := paypal.NewFromSource(source); err != nil {
		logger.Warn("Default account is not configured: " + err.Error())
	} else {
		logger.Info("Default account verified", logger.LogContext{
			Account: cfg.DefaultAccount,
			Mode:    client.GetMode(),
		})
	}

	healthHandler := handler.NewHealthHandler(storage, openSearchLogger, accounts)

	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	// Security Middleware
	rateLimiter := middle.NewRateLimiter()
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.IPWhitelistMiddleware())
	r.Use(middle.RateLimitMiddleware(rateLimiter))
	r.Use(middle.RequestValidationMiddleware())

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	// Health check endpoint (no auth required)
	r.Get("/health", healthHandler.CheckHealth)

	// API routes with authentication
	router.Routes(r, accounts, openSearchLogger)

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, response.Response{
			Code:    http.StatusNotFound,
			Success: false,
			Message: "Not Found",
		})
	})

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", PORT),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	logger.Info("API is running on " + PORT)

	// Block until a signal is received
	<-ctx.Done()

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			logger.Error("Failed to close credential store", err)
		}
	}

	logger.CloseGlobalLogger()
}
