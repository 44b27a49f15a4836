package config

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// AccountConfig manages PayPal credential configurations for named accounts.
// Configurations are cached in memory and optionally persisted to SQLite.
type AccountConfig struct {
	configs map[string]map[string]any
	storage *SQLiteStorage
	mu      sync.RWMutex
}

// NewAccountConfig creates a new account configuration manager. A nil storage
// puts the manager in memory-only mode.
func NewAccountConfig(storage *SQLiteStorage) *AccountConfig {
	manager := &AccountConfig{
		configs: make(map[string]map[string]any),
		storage: storage,
	}

	if storage != nil {
		if err := manager.loadFromStorage(); err != nil {
			log.Printf("Warning: Failed to load configurations from storage: %v", err)
		}
	} else {
		log.Printf("Warning: Storage not available, using memory-only mode")
	}

	return manager
}

// loadFromStorage loads all account configurations from persistent storage
func (c *AccountConfig) loadFromStorage() error {
	configs, err := c.storage.LoadAllAccountConfigs()
	if err != nil {
		return fmt.Errorf("failed to load configs from storage: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for account, config := range configs {
		c.configs[account] = config
	}

	return nil
}

// SetConfig sets the credential configuration for an account
func (c *AccountConfig) SetConfig(account string, config map[string]any) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if len(config) == 0 {
		return fmt.Errorf("config cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.SaveAccountConfig(account, config); err != nil {
			return fmt.Errorf("failed to save config to storage: %w", err)
		}
	}

	c.configs[account] = copyRawConfig(config)
	return nil
}

// GetConfig returns the credential configuration for an account. The returned
// mapping is a copy, so callers cannot mutate cached state.
func (c *AccountConfig) GetConfig(account string) (map[string]any, error) {
	if account == "" {
		return nil, fmt.Errorf("account cannot be empty")
	}

	c.mu.RLock()
	config, exists := c.configs[account]
	c.mu.RUnlock()

	// If not cached, try loading from storage
	if !exists && c.storage != nil {
		stored, err := c.storage.LoadAccountConfig(account)
		if err == nil {
			c.mu.Lock()
			c.configs[account] = stored
			c.mu.Unlock()
			config = stored
			exists = true
		}
	}

	if !exists {
		return nil, fmt.Errorf("no configuration found for account: %s", account)
	}

	return copyRawConfig(config), nil
}

// DeleteConfig removes the credential configuration for an account
func (c *AccountConfig) DeleteConfig(account string) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage != nil {
		if err := c.storage.DeleteAccountConfig(account); err != nil {
			return fmt.Errorf("failed to delete config from storage: %w", err)
		}
	} else if _, exists := c.configs[account]; !exists {
		return fmt.Errorf("no configuration found for account: %s", account)
	}

	delete(c.configs, account)
	return nil
}

// ListAccounts returns all accounts that have a configuration
func (c *AccountConfig) ListAccounts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	accounts := make([]string, 0, len(c.configs))
	for account := range c.configs {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// GetStats returns configuration and storage statistics
func (c *AccountConfig) GetStats() (map[string]any, error) {
	stats := make(map[string]any)

	c.mu.RLock()
	stats["memory_configs"] = len(c.configs)
	c.mu.RUnlock()

	if c.storage != nil {
		storageStats, err := c.storage.GetStats()
		if err != nil {
			stats["storage_error"] = err.Error()
		} else {
			stats["storage"] = storageStats
		}
	} else {
		stats["storage"] = "not_available"
	}

	return stats, nil
}

// LoadFromEnv stores the configuration assembled from PAYPAL_* environment
// variables under the given account name.
func (c *AccountConfig) LoadFromEnv(account string) error {
	raw, err := NewEnvSource().Load()
	if err != nil {
		return err
	}

	if !hasCredentialBlock(raw) {
		return fmt.Errorf("no PayPal credentials present in environment")
	}

	return c.SetConfig(account, raw)
}

// hasCredentialBlock reports whether the mapping carries at least one
// per-mode credential block.
func hasCredentialBlock(raw map[string]any) bool {
	for _, mode := range []string{"sandbox", "live"} {
		if block, ok := raw[mode].(map[string]any); ok && len(block) > 0 {
			return true
		}
	}
	return false
}

// copyRawConfig returns a copy of a raw configuration, including nested
// credential blocks.
func copyRawConfig(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for key, value := range config {
		switch block := value.(type) {
		case map[string]any:
			inner := make(map[string]any, len(block))
			for k, v := range block {
				inner[k] = v
			}
			out[key] = inner
		case map[string]string:
			inner := make(map[string]string, len(block))
			for k, v := range block {
				inner[k] = v
			}
			out[key] = inner
		default:
			out[key] = value
		}
	}
	return out
}
