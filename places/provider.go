// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"fmt"
	"sync"
)

// Provider is the seam between the resolution callers and a place-data
// backend. Implementations own their query pipeline; the scoring and
// text layers in this package are backend-independent, so a new backend
// only needs these two operations.
type Provider interface {
	// ResolveByCoordinate resolves a dropped pin into the best-matching
	// place. It never fails for "place not found": absence is reported
	// as a result with a nil Place. Upstream failures degrade to empty
	// stages rather than surfacing as errors.
	ResolveByCoordinate(ctx context.Context, lat, lon float64, hint string) (*ResolutionResult, error)

	// SearchByText returns a proximity-biased ranked candidate list for
	// a free-text query. No scoring or enrichment is applied.
	SearchByText(ctx context.Context, query string, lat, lon float64) ([]PlaceCandidate, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// Register makes a provider available under the given name. Providers
// are registered during setup, before any resolution call.
func Register(name string, p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()

	providers[name] = p
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()

	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown places provider: %q", name)
	}

	return p, nil
}
