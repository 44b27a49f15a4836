package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvSource assembles a raw credential mapping from PAYPAL_* environment
// variables. Variables that are not set are left out of the mapping so the
// client pipeline applies its own defaults.
type EnvSource struct{}

// NewEnvSource creates a new environment-backed credential source
func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

// Load builds the raw configuration from the environment
func (s *EnvSource) Load() (map[string]any, error) {
	raw := map[string]any{
		"mode": GetEnv("PAYPAL_MODE", "sandbox"),
	}

	if block := envCredentialBlock("PAYPAL_SANDBOX_"); len(block) > 0 {
		raw["sandbox"] = block
	}
	if block := envCredentialBlock("PAYPAL_LIVE_"); len(block) > 0 {
		raw["live"] = block
	}

	for _, opt := range []struct{ key, env string }{
		{"currency", "PAYPAL_CURRENCY"},
		{"locale", "PAYPAL_LOCALE"},
		{"payment_action", "PAYPAL_PAYMENT_ACTION"},
		{"notify_url", "PAYPAL_NOTIFY_URL"},
	} {
		if value := GetEnv(opt.env, ""); value != "" {
			raw[opt.key] = value
		}
	}

	if value := GetEnv("PAYPAL_VALIDATE_SSL", ""); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			raw["validate_ssl"] = parsed
		}
	}

	return raw, nil
}

// envCredentialBlock collects client_id, client_secret and app_id values
// from environment variables sharing the given prefix.
func envCredentialBlock(prefix string) map[string]any {
	block := make(map[string]any)
	for _, key := range []string{"client_id", "client_secret", "app_id"} {
		if value := GetEnv(prefix+strings.ToUpper(key), ""); value != "" {
			block[key] = value
		}
	}
	return block
}

// StaticSource serves a fixed mapping, useful for tests and for embedding
// applications that assemble configuration themselves.
type StaticSource struct {
	config map[string]any
}

// NewStaticSource creates a credential source around a literal mapping
func NewStaticSource(config map[string]any) *StaticSource {
	return &StaticSource{config: config}
}

// Load returns a copy of the wrapped mapping
func (s *StaticSource) Load() (map[string]any, error) {
	if s.config == nil {
		return nil, fmt.Errorf("static source has no configuration")
	}
	return copyRawConfig(s.config), nil
}

// StoreSource reads one account's mapping from the credential store
type StoreSource struct {
	accounts *AccountConfig
	account  string
}

// NewStoreSource creates a credential source backed by the account store
func NewStoreSource(accounts *AccountConfig, account string) *StoreSource {
	return &StoreSource{accounts: accounts, account: account}
}

// Load fetches the account's stored configuration
func (s *StoreSource) Load() (map[string]any, error) {
	if s.accounts == nil {
		return nil, fmt.Errorf("store source has no backing store")
	}
	return s.accounts.GetConfig(s.account)
}
