// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

// Package places resolves a raw coordinate (or free-text query) into the
// single best-matching real-world point of interest, plus deterministic
// short strings for display. It orchestrates one pluggable place-data
// backend and makes the resolution decisions on top of its results; it
// renders nothing and persists nothing.
package places

// UnknownPlaceName is the sentinel name assigned when the upstream
// supplies no usable name for a feature.
const UnknownPlaceName = "Unknown Place"

// Source identifies the backend that produced a candidate.
type Source string

// SourceGeoapify is the only backend currently implemented.
const SourceGeoapify Source = "geoapify"

// PlaceCandidate is a provider-agnostic record of one possible
// real-world place. Lat/Lon are always finite; ID is always non-empty
// (an upstream place id, or a synthesized "lon,lat" key when the
// upstream gives none).
type PlaceCandidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories,omitempty"`
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	Region     string   `json:"region,omitempty"`
	Country    string   `json:"country,omitempty"`
	Website    string   `json:"website,omitempty"` // absolute https URL, no fragment
	Phone      string   `json:"phone,omitempty"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Source     Source   `json:"source"`

	// Raw is the upstream properties payload, retained only for
	// diagnostics. Scoring never inspects it.
	Raw map[string]any `json:"-"`
}

// ScoredCandidate pairs a candidate with its score and the names of the
// signals that fired, joined by "+". It exists only within one
// resolution call.
type ScoredCandidate struct {
	PlaceCandidate
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// ResolutionResult is the outcome of one ResolveByCoordinate call.
// Place is nil only when both search stages produced zero candidates;
// that is a valid terminal outcome, not an error.
type ResolutionResult struct {
	Place        *PlaceCandidate  `json:"place"`
	Candidates   []PlaceCandidate `json:"candidates"`
	ChosenReason string           `json:"chosenReason"`

	// Scored is the full scored list, for diagnostics.
	Scored []ScoredCandidate `json:"-"`
}

// ChosenReasonNone is the ChosenReason reported when no candidate
// survived either search stage.
const ChosenReasonNone = "no_candidates"
