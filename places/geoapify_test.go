// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Upstream ids long enough to pass the real-key heuristic.
const (
	upstreamIDStreet = "51f07e9f0a1b2c3d4e5f60718293a4b5"
	upstreamIDMuseum = "51a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8"
)

func newTestGeoapify(t *testing.T, srv *httptest.Server) *Geoapify {
	t.Helper()

	g, err := NewGeoapify(&Config{APIKey: "test-key", SearchTimeout: 2 * time.Second})
	require.NoError(t, err)

	g.baseURL = srv.URL
	g.client = srv.Client()

	return g
}

func writeFeatures(t *testing.T, w http.ResponseWriter, feats ...map[string]any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(map[string]any{
		"type":     "FeatureCollection",
		"features": feats,
	})
	assert.NoError(t, err)
}

func props(p map[string]any) map[string]any {
	return map[string]any{"type": "Feature", "properties": p}
}

func TestResolveByCoordinatePicksBestAndEnriches(t *testing.T) {
	var detailCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/places":
			q := r.URL.Query()
			assert.Equal(t, "test-key", q.Get("apiKey"))
			assert.Contains(t, q.Get("categories"), "tourism")
			assert.Contains(t, q.Get("filter"), "circle:")
			assert.Contains(t, q.Get("bias"), "proximity:")

			writeFeatures(t, w,
				props(map[string]any{
					"place_id": upstreamIDStreet,
					"name":     "Main Street",
					"city":     "Springfield",
					"lat":      39.7817, "lon": -89.6501,
				}),
				props(map[string]any{
					"place_id":   upstreamIDMuseum,
					"name":       "Old Town Museum",
					"city":       "Springfield",
					"website":    "example.com",
					"categories": []any{"entertainment.museum"},
					"lat":        39.7819, "lon": -89.6503,
				}),
			)
		case "/v2/place-details":
			detailCalls++

			assert.Equal(t, upstreamIDMuseum, r.URL.Query().Get("id"))

			writeFeatures(t, w, props(map[string]any{
				"place_id": upstreamIDMuseum,
				"name":     "Old Town Museum of History",
				"website":  "https://detail.example",
				"phone":    "+1 555 0100",
				"lat":      39.7819, "lon": -89.6503,
			}))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 39.7818, -89.6502, "")
	require.NoError(t, err)
	require.NotNil(t, result.Place)

	assert.Equal(t, 1, detailCalls)
	assert.Len(t, result.Candidates, 2)

	// The museum wins: named + locality + website + travel category.
	assert.Equal(t, upstreamIDMuseum, result.Place.ID)
	assert.Equal(t, "named+locality+website+travel_category", result.ChosenReason)

	// Enrichment backfills name and phone, but the candidate's own
	// website wins over the detail payload.
	assert.Equal(t, "Old Town Museum of History", result.Place.Name)
	assert.Equal(t, "+1 555 0100", result.Place.Phone)
	assert.Equal(t, "https://example.com", result.Place.Website)
}

func TestResolveByCoordinateReverseFallback(t *testing.T) {
	var detailCalls, reverseCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/places":
			writeFeatures(t, w) // nothing nearby
		case "/v1/geocode/reverse":
			reverseCalls++

			// Address-level result with no upstream place id.
			writeFeatures(t, w, props(map[string]any{
				"formatted": "Champ de Mars, Paris",
				"city":      "Paris",
				"lat":       48.8584, "lon": 2.2945,
			}))
		case "/v2/place-details":
			detailCalls++
			w.WriteHeader(http.StatusInternalServerError)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 48.8584, 2.2945, "")
	require.NoError(t, err)
	require.NotNil(t, result.Place)

	assert.Equal(t, 1, reverseCalls)

	// The synthesized lon,lat key contains a comma, so the enrichment
	// step is skipped entirely.
	assert.Equal(t, "2.2945,48.8584", result.Place.ID)
	assert.Equal(t, 0, detailCalls)
}

func TestResolveByCoordinateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFeatures(t, w)
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 0.01, 0.01, "")
	require.NoError(t, err)

	assert.Nil(t, result.Place)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, ChosenReasonNone, result.ChosenReason)
	assert.Equal(t, "Location", BuildTitle(result.Place))
}

func TestResolveByCoordinateUpstreamFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/places":
			w.WriteHeader(http.StatusInternalServerError)
		case "/v1/geocode/reverse":
			writeFeatures(t, w, props(map[string]any{
				"formatted": "Somewhere 1, Oslo",
				"city":      "Oslo",
				"lat":       59.9139, "lon": 10.7522,
			}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 59.9139, 10.7522, "")
	require.NoError(t, err)
	require.NotNil(t, result.Place)
	assert.Equal(t, "Oslo", result.Place.City)
}

func TestResolveByCoordinateEverythingDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 1, 1, "")
	require.NoError(t, err)

	assert.Nil(t, result.Place)
	assert.Equal(t, ChosenReasonNone, result.ChosenReason)
}

func TestEnrichmentFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/places":
			writeFeatures(t, w, props(map[string]any{
				"place_id": upstreamIDMuseum,
				"name":     "Old Town Museum",
				"city":     "Springfield",
				"lat":      39.78, "lon": -89.65,
			}))
		case "/v2/place-details":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	result, err := g.ResolveByCoordinate(context.Background(), 39.78, -89.65, "")
	require.NoError(t, err)
	require.NotNil(t, result.Place)

	// Passed through unchanged.
	assert.Equal(t, "Old Town Museum", result.Place.Name)
	assert.Empty(t, result.Place.Phone)
}

func TestSearchByText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/search", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "louvre", q.Get("text"))
		assert.Contains(t, q.Get("bias"), "proximity:")

		writeFeatures(t, w,
			props(map[string]any{"name": "Louvre Museum", "city": "Paris", "lat": 48.8606, "lon": 2.3376}),
			props(map[string]any{"name": "Louvre Hotel", "city": "Paris", "lat": 48.8639, "lon": 2.3350}),
		)
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	candidates, err := g.SearchByText(context.Background(), "louvre", 48.8584, 2.2945)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Upstream rank order is preserved.
	assert.Equal(t, "Louvre Museum", candidates[0].Name)
	assert.Equal(t, "Louvre Hotel", candidates[1].Name)
}

func TestSearchByTextUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	candidates, err := g.SearchByText(context.Background(), "anything", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestResolveByCoordinateCancelledParent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFeatures(t, w)
	}))
	defer srv.Close()

	g := newTestGeoapify(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Both stages fail immediately; the caller still gets a result.
	result, err := g.ResolveByCoordinate(ctx, 1, 1, "")
	require.NoError(t, err)
	assert.Nil(t, result.Place)
	assert.Equal(t, ChosenReasonNone, result.ChosenReason)
}

func TestLooksLikeUpstreamID(t *testing.T) {
	g := &Geoapify{}

	tests := []struct {
		id   string
		real bool
	}{
		{upstreamIDMuseum, true},
		{"2.2945,48.8584", false},  // fallback key: comma
		{"48.8584,2.2945", false},  // fallback key, lat-first flavor
		{"shortid", false},         // too short
		{"aaaaaaaaaaaaaaaaaaaa", false}, // exactly 20 is not enough
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.real, g.looksLikeUpstreamID(tt.id))
		})
	}
}

func TestNewGeoapifyRequiresAPIKey(t *testing.T) {
	_, err := NewGeoapify(&Config{})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewGeoapify(nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
