package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/btwlouis/laravel-paypal/infra/middle"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/btwlouis/laravel-paypal/infra/response"
	"github.com/btwlouis/laravel-paypal/paypal"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ConfigHandler handles account credential management requests
type ConfigHandler struct {
	accounts    *config.AccountConfig
	auditLogger *opensearch.Logger
	validate    *validator.Validate
}

// NewConfigHandler creates a new config handler. auditLogger may be nil
// when no OpenSearch sink is configured.
func NewConfigHandler(accounts *config.AccountConfig, auditLogger *opensearch.Logger, validate *validator.Validate) *ConfigHandler {
	return &ConfigHandler{
		accounts:    accounts,
		auditLogger: auditLogger,
		validate:    validate,
	}
}

// CredentialBlock carries the REST application credentials for one mode
type CredentialBlock struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	AppID        string `json:"app_id,omitempty"`
}

// SetConfigRequest represents the request structure for storing account
// credentials. The active mode must carry a credential block; the inactive
// block is optional and stored alongside for later switching.
type SetConfigRequest struct {
	Mode          string           `json:"mode" validate:"required,oneof=sandbox live"`
	Sandbox       *CredentialBlock `json:"sandbox,omitempty"`
	Live          *CredentialBlock `json:"live,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Locale        string           `json:"locale,omitempty"`
	PaymentAction string           `json:"payment_action,omitempty" validate:"omitempty,oneof=Sale Authorize Order"`
	ValidateSSL   *bool            `json:"validate_ssl,omitempty"`
	NotifyURL     string           `json:"notify_url,omitempty" validate:"omitempty,url"`
}

// toRawConfig converts the request into the mapping the credential
// pipeline consumes.
func (req *SetConfigRequest) toRawConfig() map[string]any {
	raw := map[string]any{
		"mode": req.Mode,
	}

	if req.Sandbox != nil {
		raw["sandbox"] = credentialBlockToMap(req.Sandbox)
	}
	if req.Live != nil {
		raw["live"] = credentialBlockToMap(req.Live)
	}
	if req.Currency != "" {
		raw["currency"] = req.Currency
	}
	if req.Locale != "" {
		raw["locale"] = req.Locale
	}
	if req.PaymentAction != "" {
		raw["payment_action"] = req.PaymentAction
	}
	if req.ValidateSSL != nil {
		raw["validate_ssl"] = *req.ValidateSSL
	}
	if req.NotifyURL != "" {
		raw["notify_url"] = req.NotifyURL
	}

	return raw
}

func credentialBlockToMap(block *CredentialBlock) map[string]any {
	out := map[string]any{
		"client_id":     block.ClientID,
		"client_secret": block.ClientSecret,
	}
	if block.AppID != "" {
		out["app_id"] = block.AppID
	}
	return out
}

// SetConfig stores the credential configuration for an account. The
// payload runs through the full credential pipeline before anything is
// persisted, so a stored configuration is always a loadable one.
func (h *ConfigHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		response.Error(w, http.StatusBadRequest, "Account name is required", nil)
		return
	}

	// Parse the request
	var req SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	// Validate the request structure
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	raw := req.toRawConfig()

	// Dry-run the credential pipeline before persisting
	client := paypal.New()
	if err := client.SetAPICredentials(raw); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid PayPal configuration", err)
		return
	}

	// Persist the validated configuration
	if err := h.accounts.SetConfig(account, raw); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}

	// Audit the change asynchronously
	if h.auditLogger != nil {
		clientIP := middle.GetClientIP(r)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.auditLogger.LogConfigSaved(ctx, account, req.Mode, clientIP)
		}()
	}

	responseData := map[string]any{
		"account": account,
		"mode":    client.GetMode(),
		"message": "Configuration saved successfully",
	}

	response.Success(w, http.StatusOK, "Configuration updated", responseData)
}

// GetConfig returns the stored configuration for an account with
// secret-bearing values masked.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		response.Error(w, http.StatusBadRequest, "Account name is required", nil)
		return
	}

	raw, err := h.accounts.GetConfig(account)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Configuration not found", err)
		return
	}

	responseData := map[string]any{
		"account": account,
		"config":  maskRawConfig(raw),
	}

	response.Success(w, http.StatusOK, "Configuration retrieved", responseData)
}

// DeleteConfig removes the stored configuration for an account
func (h *ConfigHandler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		response.Error(w, http.StatusBadRequest, "Account name is required", nil)
		return
	}

	if err := h.accounts.DeleteConfig(account); err != nil {
		response.Error(w, http.StatusNotFound, "Failed to delete configuration", err)
		return
	}

	if h.auditLogger != nil {
		clientIP := middle.GetClientIP(r)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.auditLogger.LogConfigDeleted(ctx, account, clientIP)
		}()
	}

	responseData := map[string]any{
		"account": account,
		"message": "Configuration deleted successfully",
	}

	response.Success(w, http.StatusOK, "Configuration deleted", responseData)
}

// GetRequiredFields returns the credential fields expected for the given
// mode so clients can render configuration forms.
func (h *ConfigHandler) GetRequiredFields(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = paypal.ModeSandbox
	}
	if mode != paypal.ModeSandbox && mode != paypal.ModeLive {
		response.Error(w, http.StatusBadRequest, "mode must be sandbox or live", nil)
		return
	}

	fields := paypal.RequiredCredentialFields(mode)

	type fieldInfo struct {
		Key         string `json:"key"`
		Required    bool   `json:"required"`
		Description string `json:"description"`
		Example     string `json:"example,omitempty"`
	}

	out := make([]fieldInfo, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldInfo{
			Key:         f.Key,
			Required:    f.Required,
			Description: f.Description,
			Example:     f.Example,
		})
	}

	responseData := map[string]any{
		"mode":   mode,
		"fields": out,
	}

	response.Success(w, http.StatusOK, "Required fields retrieved", responseData)
}

// GetStats returns account store statistics
func (h *ConfigHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounts.GetStats()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get statistics", err)
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved", stats)
}

// maskRawConfig masks secret-bearing values in a stored configuration
// mapping, descending into the per-mode credential blocks.
func maskRawConfig(raw map[string]any) map[string]any {
	masked := make(map[string]any, len(raw))
	for key, value := range raw {
		switch block := value.(type) {
		case map[string]any:
			inner := make(map[string]any, len(block))
			for k, v := range block {
				if s, ok := v.(string); ok && isSensitiveKey(k) {
					inner[k] = maskValue(s)
				} else {
					inner[k] = v
				}
			}
			masked[key] = inner
		case map[string]string:
			inner := make(map[string]any, len(block))
			for k, v := range block {
				if isSensitiveKey(k) {
					inner[k] = maskValue(v)
				} else {
					inner[k] = v
				}
			}
			masked[key] = inner
		case string:
			if isSensitiveKey(key) {
				masked[key] = maskValue(block)
			} else {
				masked[key] = block
			}
		default:
			masked[key] = value
		}
	}
	return masked
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "secret") ||
		strings.Contains(lower, "password") ||
		strings.Contains(lower, "token")
}

func maskValue(value string) string {
	if len(value) > 8 {
		return value[:4] + "****" + value[len(value)-4:]
	}
	return "****"
}
