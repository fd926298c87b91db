package strategy

import (
	"fmt"
	"sync"

	"AffairsCatalog/internal/domain"
)

// Strategy captures a single content provider (Drishti IAS, Vision IAS, etc.).
type Strategy interface {
	// GenerateURLs builds the provider's links for day. It is a pure function of its inputs.
	GenerateURLs(day domain.Date, opts domain.Options) ([]domain.ResourceDescriptor, error)
	// IsAvailable reports whether content plausibly exists for day, as seen from today.
	IsAvailable(day, today domain.Date) bool
	Metadata() domain.ProviderMetadata
}

// WithinWindow reports whether day lies in the inclusive window [0, maxDays] days before today.
func WithinWindow(day, today domain.Date, maxDays int) bool {
	diff := today.DaysSince(day)
	return diff >= 0 && diff <= maxDays
}

// Registry keeps a mapping from provider keys to their strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[domain.ProviderKey]Strategy
	order      []domain.ProviderKey
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[domain.ProviderKey]Strategy{}}
}

// Register adds or replaces a strategy. A replaced key keeps its position.
func (r *Registry) Register(key domain.ProviderKey, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.strategies == nil {
		r.strategies = map[domain.ProviderKey]Strategy{}
	}
	if _, ok := r.strategies[key]; !ok {
		r.order = append(r.order, key)
	}
	r.strategies[key] = s
}

// Get returns a strategy by key or an ErrNotFound error if it is absent.
func (r *Registry) Get(key domain.ProviderKey) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.strategies[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("strategy %s: %w", key, domain.ErrNotFound)
}

// Keys lists registered keys in insertion order.
func (r *Registry) Keys() []domain.ProviderKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]domain.ProviderKey, len(r.order))
	copy(keys, r.order)
	return keys
}

// AvailableKeys filters Keys by each strategy's availability for day.
func (r *Registry) AvailableKeys(day, today domain.Date) []domain.ProviderKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []domain.ProviderKey
	for _, key := range r.order {
		if r.strategies[key].IsAvailable(day, today) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
