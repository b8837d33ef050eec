package catalog

import (
	"errors"
	"fmt"
)

// ErrProviderNotFound indicates a builder/registry mismatch. This is a
// configuration bug, not a user error, and is logged accordingly.
var ErrProviderNotFound = errors.New("specification provider not found")

// ProviderRegistry is the closed lookup table from field key to provider.
// It is populated once at startup and read-only afterwards, so concurrent
// lookups need no locking.
type ProviderRegistry struct {
	providers map[string]SpecificationProvider
}

func NewProviderRegistry() *ProviderRegistry {
	r := &ProviderRegistry{providers: make(map[string]SpecificationProvider)}

	for _, p := range []SpecificationProvider{
		titleProvider{},
		authorProvider{},
		isbnProvider{},
		categoriesProvider{},
		priceProvider{},
	} {
		r.providers[p.Key()] = p
	}

	return r
}

func (r *ProviderRegistry) Get(key string) (SpecificationProvider, error) {
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, key)
	}

	return p, nil
}
