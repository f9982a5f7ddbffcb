package secret

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ProviderFactory creates a Provider from configuration.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// Registry manages provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds a provider factory under name.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return errors.New("secret: invalid provider registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("secret: provider %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates the provider registered under name.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, name)
	}

	return factory(cfg)
}

// List returns registered provider names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry holds the built-in env and file providers.
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	_ = r.Register("env", func(map[string]any) (Provider, error) {
		return NewEnvProvider(), nil
	})
	_ = r.Register("file", func(cfg map[string]any) (Provider, error) {
		dir, _ := cfg["dir"].(string)
		return &FileProvider{Dir: dir}, nil
	})
	return r
}()
