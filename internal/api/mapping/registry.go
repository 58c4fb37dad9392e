package mapping

import (
	"fmt"
	"sort"
	"sync"

	"storeapi/internal/api/apperror"
)

// Registry holds one EntityMapConfig per resource name.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]EntityMapConfig
}

func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]EntityMapConfig)}
}

func (r *Registry) Register(resource string, cfg EntityMapConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid mapping config for %s: %w", resource, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[resource] = cfg
	return nil
}

func (r *Registry) MustRegister(resource string, cfg EntityMapConfig) {
	if err := r.Register(resource, cfg); err != nil {
		panic(err)
	}
}

// Lookup fails with a ConfigurationError when resource is unknown.
func (r *Registry) Lookup(resource string) (EntityMapConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[resource]
	if !ok {
		return EntityMapConfig{}, &apperror.ConfigurationError{Resource: resource}
	}
	return cfg, nil
}

func (r *Registry) Map(resource string, rec Record) (Entity, error) {
	cfg, err := r.Lookup(resource)
	if err != nil {
		return nil, err
	}
	return MapEntity(cfg, rec), nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
