package provider

import "sync"

// Registry holds the ordered set of enabled marketplace adapters. The order
// of registration is the fan-out order, which also decides ties between
// quotes with equal net payouts (first registered wins). It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []Provider
	byID  map[string]Provider
}

// NewRegistry returns a Registry pre-populated with the given providers in
// order.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		byID: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register appends a provider. Registering an ID twice replaces the earlier
// entry in place, keeping its position.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID()]; exists {
		for i, existing := range r.order {
			if existing.ID() == p.ID() {
				r.order[i] = p
				break
			}
		}
	} else {
		r.order = append(r.order, p)
	}
	r.byID[p.ID()] = p
}

// Get looks a provider up by ID. The bool is false when the ID is unknown.
func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// Enabled returns the providers to fan out to, in registration order. The
// returned slice is a copy; callers may not mutate registry state through it.
func (r *Registry) Enabled() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
