// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Duke1965/mark-this-spot/utils/httputils"
)

const (
	geoapifyBaseURL = "https://api.geoapify.com"

	// defaultRadiusMeters bounds the nearby search around the pin.
	defaultRadiusMeters = 300

	// defaultCategoryFilter restricts nearby results to the
	// travel-relevant slice of the upstream taxonomy.
	defaultCategoryFilter = "tourism,accommodation,catering,entertainment.museum," +
		"leisure.park,natural,beach,heritage,religion.place_of_worship"

	nearbyLimit = 20
	textLimit   = 10
)

// Geoapify queries the Geoapify Places API. It implements Provider.
// The client holds no per-call state, so one instance serves concurrent
// callers without locking.
type Geoapify struct {
	apiKey        string
	baseURL       string
	client        *http.Client
	searchTimeout time.Duration
}

// NewGeoapify builds a Geoapify-backed provider from a Config. A
// missing API key is rejected here, before any network call.
func NewGeoapify(cfg *Config) (*Geoapify, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	searchTimeout := cfg.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = defaultSearchTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "markspot/unknown"
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		MaxConnsPerHost:       4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:       cfg.HTTPTrace,
		DumpBody:     cfg.HTTPTraceBody,
		RedactParams: []string{"apiKey"},
		Transport:    transport,
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: loggingTransport,
	}

	return &Geoapify{
		apiKey:        cfg.APIKey,
		baseURL:       geoapifyBaseURL,
		client:        &http.Client{Transport: headerTransport},
		searchTimeout: searchTimeout,
	}, nil
}

// ResolveByCoordinate runs the full pipeline: nearby search, reverse
// geocode fallback, scoring, and detail enrichment of the winner. A
// failed or timed-out stage degrades to empty results for that stage;
// the caller always receives a result.
func (g *Geoapify) ResolveByCoordinate(ctx context.Context, lat, lon float64, hint string) (*ResolutionResult, error) {
	feats, err := g.searchNearby(ctx, lat, lon, defaultRadiusMeters, defaultCategoryFilter)
	if err != nil {
		log.Printf("Nearby search degraded to empty: %s", err)
	}

	candidates := normalizeFeatures(feats, SourceGeoapify)

	if len(candidates) == 0 {
		feats, err = g.reverseGeocode(ctx, lat, lon)
		if err != nil {
			log.Printf("Reverse geocode degraded to empty: %s", err)
		}

		candidates = normalizeFeatures(feats, SourceGeoapify)
	}

	if len(candidates) == 0 {
		return &ResolutionResult{
			Candidates:   []PlaceCandidate{},
			ChosenReason: ChosenReasonNone,
		}, nil
	}

	scored := scoreCandidates(candidates, hint)
	best := pickBest(scored)

	place := g.enrich(ctx, scored[best].PlaceCandidate)

	return &ResolutionResult{
		Place:        &place,
		Candidates:   candidates,
		ChosenReason: scored[best].Reason,
		Scored:       scored,
	}, nil
}

// SearchByText returns a ranked, proximity-biased candidate list for a
// free-text query. Scoring and enrichment are bypassed.
func (g *Geoapify) SearchByText(ctx context.Context, query string, lat, lon float64) ([]PlaceCandidate, error) {
	params := url.Values{}
	params.Set("text", query)
	params.Set("limit", strconv.Itoa(textLimit))
	params.Set("bias", proximity(lat, lon))
	params.Set("format", "geojson")
	params.Set("apiKey", g.apiKey)

	var fc featureCollection
	if err := g.getJSON(ctx, textTimeout, g.baseURL+"/v1/geocode/search?"+params.Encode(), &fc); err != nil {
		log.Printf("Text search degraded to empty: %s", err)

		return nil, nil
	}

	return normalizeFeatures(fc.Features, SourceGeoapify), nil
}

// searchNearby asks for POIs around the coordinate, biased toward it
// and restricted to the category filter.
func (g *Geoapify) searchNearby(ctx context.Context, lat, lon float64, radiusMeters int, categories string) ([]feature, error) {
	params := url.Values{}
	params.Set("categories", categories)
	params.Set("filter", fmt.Sprintf("circle:%s,%s,%d", formatCoord(lon), formatCoord(lat), radiusMeters))
	params.Set("bias", proximity(lat, lon))
	params.Set("limit", strconv.Itoa(nearbyLimit))
	params.Set("apiKey", g.apiKey)

	var fc featureCollection
	if err := g.getJSON(ctx, g.searchTimeout, g.baseURL+"/v2/places?"+params.Encode(), &fc); err != nil {
		return nil, err
	}

	return fc.Features, nil
}

// reverseGeocode resolves the coordinate to at most one address-level
// result. Only used when the nearby search yields nothing.
func (g *Geoapify) reverseGeocode(ctx context.Context, lat, lon float64) ([]feature, error) {
	params := url.Values{}
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	params.Set("limit", "1")
	params.Set("format", "geojson")
	params.Set("apiKey", g.apiKey)

	var fc featureCollection
	if err := g.getJSON(ctx, g.searchTimeout, g.baseURL+"/v1/geocode/reverse?"+params.Encode(), &fc); err != nil {
		return nil, err
	}

	if len(fc.Features) > 1 {
		fc.Features = fc.Features[:1]
	}

	return fc.Features, nil
}

// looksLikeUpstreamID tells a genuine Geoapify place id apart from the
// synthesized "lon,lat" fallback key: fallback keys contain a comma and
// are short. The rule is specific to this backend; other providers must
// define their own.
func (g *Geoapify) looksLikeUpstreamID(id string) bool {
	return !strings.Contains(id, ",") && len(id) > 20
}

// enrich backfills name, website and phone on the selected candidate
// via one place-details lookup. The candidate's own values always win;
// enrichment only fills gaps. Any failure passes the candidate through
// unchanged.
func (g *Geoapify) enrich(ctx context.Context, c PlaceCandidate) PlaceCandidate {
	if !g.looksLikeUpstreamID(c.ID) {
		return c
	}

	params := url.Values{}
	params.Set("id", c.ID)
	params.Set("apiKey", g.apiKey)

	var fc featureCollection
	if err := g.getJSON(ctx, detailTimeout, g.baseURL+"/v2/place-details?"+params.Encode(), &fc); err != nil {
		log.Printf("Enrichment for %s skipped: %s", c.ID, err)

		return c
	}

	if len(fc.Features) == 0 {
		return c
	}

	detail := normalizeFeature(fc.Features[0], SourceGeoapify)
	if detail == nil {
		return c
	}

	if detail.Name != "" && detail.Name != UnknownPlaceName {
		c.Name = detail.Name
	}

	if c.Website == "" {
		c.Website = detail.Website
	}

	if c.Phone == "" {
		c.Phone = detail.Phone
	}

	return c
}

// getJSON issues one GET with its own cancellable deadline, derived
// from ctx so cancelling the parent resolution cancels the call.
func (g *Geoapify) getJSON(ctx context.Context, timeout time.Duration, rawURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places backend returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func proximity(lat, lon float64) string {
	return "proximity:" + formatCoord(lon) + "," + formatCoord(lat)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
