// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"strings"
)

// travelCategoryMarkers is the fixed allowlist of category substrings
// that mark a candidate as travel-relevant.
var travelCategoryMarkers = []string{
	"tourism.",
	"accommodation.",
	"catering.",
	"entertainment.",
	"leisure.",
	"natural.",
	"beach.",
	"heritage.",
	"religion.place_of_worship",
	"building.tourism",
}

// signal is one independent additive scoring rule. The rules are kept
// as an ordered list so the reason string is reproducible.
type signal struct {
	name    string
	points  float64
	applies func(c *PlaceCandidate, hint string) bool
}

var signals = []signal{
	{
		name:   "named",
		points: 2,
		applies: func(c *PlaceCandidate, _ string) bool {
			return c.Name != UnknownPlaceName && !IsStreetyName(c.Name)
		},
	},
	{
		// Street-segment names are nearly useless as labels, but a
		// named anything still beats a bare map node.
		name:   "streety_name",
		points: 0.5,
		applies: func(c *PlaceCandidate, _ string) bool {
			return c.Name != UnknownPlaceName && IsStreetyName(c.Name)
		},
	},
	{
		name:   "locality",
		points: 1,
		applies: func(c *PlaceCandidate, _ string) bool {
			return c.City != ""
		},
	},
	{
		// A website is a strong proxy for a real business listing.
		name:   "website",
		points: 2,
		applies: func(c *PlaceCandidate, _ string) bool {
			return c.Website != ""
		},
	},
	{
		name:   "travel_category",
		points: 1.5,
		applies: func(c *PlaceCandidate, _ string) bool {
			for _, cat := range c.Categories {
				for _, marker := range travelCategoryMarkers {
					if strings.Contains(cat, marker) {
						return true
					}
				}
			}

			return false
		},
	},
	{
		name:   "hint_match",
		points: 1,
		applies: func(c *PlaceCandidate, hint string) bool {
			if hint == "" {
				return false
			}

			h, n := lowerFold(hint), lowerFold(c.Name)

			return h != "" && n != "" && (strings.Contains(n, h) || strings.Contains(h, n))
		},
	},
}

// scoreCandidates evaluates every signal, in order, against every
// candidate. Deterministic: the same input always yields the same
// scores and reason strings.
func scoreCandidates(candidates []PlaceCandidate, hint string) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))

	for i := range candidates {
		c := candidates[i]

		var (
			score   float64
			reasons []string
		)

		for _, s := range signals {
			if s.applies(&c, hint) {
				score += s.points
				reasons = append(reasons, s.name)
			}
		}

		scored = append(scored, ScoredCandidate{
			PlaceCandidate: c,
			Score:          score,
			Reason:         strings.Join(reasons, "+"),
		})
	}

	return scored
}

// pickBest returns the index of the highest-scoring candidate. Ties go
// to the first-encountered, so selection is stable on input order.
func pickBest(scored []ScoredCandidate) int {
	best := 0

	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}

	return best
}
