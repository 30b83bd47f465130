package sampler

import (
	"fmt"
	"sort"

	"EclipseCast/internal/ports"
)

// Registry keeps a mapping from sampler names to their implementations.
type Registry struct {
	samplers map[string]ports.PosteriorSampler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{samplers: map[string]ports.PosteriorSampler{}}
}

// Register adds or replaces a sampler implementation.
func (r *Registry) Register(s ports.PosteriorSampler) {
	if r.samplers == nil {
		r.samplers = map[string]ports.PosteriorSampler{}
	}
	r.samplers[s.Name()] = s
}

// Resolve returns a sampler by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.PosteriorSampler, error) {
	if s, ok := r.samplers[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("sampler %s is not registered (known: %v)", name, r.Names())
}

// Names lists registered samplers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.samplers))
	for name := range r.samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
