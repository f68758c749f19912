package llm

import (
	"fmt"
	"sync"
)

// Registry manages completion providers and routing
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRegistry creates a new provider registry
func NewRegistry(defaultProvider string) *Registry {
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// Register registers a completion provider
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Get returns a provider by name, falling back to the default
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	if !p.IsConfigured() {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}

	return p, nil
}

// DefaultProvider returns the default provider name
func (r *Registry) DefaultProvider() string {
	return r.defaultProvider
}

// List returns the names of configured providers
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, p := range r.providers {
		if p.IsConfigured() {
			names = append(names, name)
		}
	}
	return names
}
