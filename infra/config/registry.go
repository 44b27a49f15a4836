package config

import (
	"fmt"
	"sync"

	"github.com/btwlouis/laravel-paypal/paypal"
)

// SourceFactory creates a credential source bound to an account. Sources
// that do not read from the store ignore both arguments.
type SourceFactory func(accounts *AccountConfig, account string) paypal.ConfigSource

// SourceRegistry manages all credential source implementations
type SourceRegistry struct {
	sources map[string]SourceFactory
	mu      sync.RWMutex
}

// NewSourceRegistry creates a new source registry
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]SourceFactory),
	}
}

// Register adds a credential source factory to the registry
func (r *SourceRegistry) Register(name string, factory SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = factory
}

// Get retrieves a credential source factory by name
func (r *SourceRegistry) Get(name string) (SourceFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("credential source '%s' is not registered", name)
	}

	return factory, nil
}

// CreateSource creates a new credential source instance
func (r *SourceRegistry) CreateSource(name string, accounts *AccountConfig, account string) (paypal.ConfigSource, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return factory(accounts, account), nil
}

// GetSourceNames returns a list of all registered source names
func (r *SourceRegistry) GetSourceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}

	return names
}

// DefaultRegistry is the global default source registry
var DefaultRegistry = NewSourceRegistry()

// Register registers a credential source with the default registry
func Register(name string, factory SourceFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get retrieves a source factory from the default registry
func Get(name string) (SourceFactory, error) {
	return DefaultRegistry.Get(name)
}

// CreateSource creates a credential source instance from the default registry
func CreateSource(name string, accounts *AccountConfig, account string) (paypal.ConfigSource, error) {
	return DefaultRegistry.CreateSource(name, accounts, account)
}

// GetSourceNames returns the names registered with the default registry
func GetSourceNames() []string {
	return DefaultRegistry.GetSourceNames()
}

func init() {
	Register("env", func(_ *AccountConfig, _ string) paypal.ConfigSource {
		return NewEnvSource()
	})
	Register("sqlite", func(accounts *AccountConfig, account string) paypal.ConfigSource {
		return NewStoreSource(accounts, account)
	})
}
