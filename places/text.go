// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Raw geocoders frequently return a street segment as the "name" of a
// coordinate, which is useless as a place label. A name is streety when
// it matches road vocabulary, starts with a house number, or joins
// streets with an intersection separator.
var (
	streetyKeywords    = regexp.MustCompile(`(?i)\b(street|road|avenue|drive|lane|boulevard|highway|route|junction|intersection|roundabout)\b`)
	streetyHouseNumber = regexp.MustCompile(`^\d+\s+\S`)
)

// IsStreetyName reports whether name describes a street, road, or
// intersection instead of a business or landmark.
func IsStreetyName(name string) bool {
	if streetyKeywords.MatchString(name) || streetyHouseNumber.MatchString(name) {
		return true
	}

	lower := strings.ToLower(name)

	return strings.Contains(lower, " at ") ||
		strings.Contains(lower, " & ") ||
		strings.Contains(lower, " and ")
}

// labelRule maps a category substring to a display label. The rules are
// evaluated top to bottom, and specific rules sit above their broader
// parent, so keep the order intact: existing UI copy depends on it.
type labelRule struct {
	match string
	label string
}

var categoryLabelRules = []labelRule{
	{"accommodation.hotel", "Hotel"},
	{"accommodation.hostel", "Hostel"},
	{"accommodation.motel", "Motel"},
	{"accommodation", "Place to stay"},
	{"catering.restaurant", "Restaurant"},
	{"catering.cafe", "Cafe"},
	{"catering.fast_food", "Fast food spot"},
	{"catering.bar", "Bar"},
	{"catering.pub", "Pub"},
	{"catering", "Food spot"},
	{"entertainment.museum", "Museum"},
	{"entertainment.culture", "Cultural venue"},
	{"entertainment", "Entertainment venue"},
	{"building.tourism", "Landmark"},
	{"tourism.attraction", "Attraction"},
	{"tourism.sights", "Landmark"},
	{"tourism", "Tourist spot"},
	{"religion.place_of_worship", "Place of worship"},
	{"heritage", "Heritage site"},
	{"beach", "Beach"},
	{"natural", "Nature spot"},
	{"leisure.park", "Park"},
	{"leisure.playground", "Playground"},
	{"leisure", "Leisure spot"},
}

// categoryLabel derives a short display label from the category tags.
// Falls back to title-casing the first dot-segment of the first
// category, then to "Place".
func categoryLabel(categories []string) string {
	if len(categories) == 0 {
		return "Place"
	}

	joined := strings.ToLower(strings.Join(categories, ","))

	for _, r := range categoryLabelRules {
		if strings.Contains(joined, r.match) {
			return r.label
		}
	}

	first := categories[0]
	if i := strings.IndexByte(first, '.'); i >= 0 {
		first = first[:i]
	}

	first = strings.ReplaceAll(first, "_", " ")
	if first == "" {
		return "Place"
	}

	// cases.Caser carries internal state, so build one per call:
	// resolution calls must stay safe without locking.
	return cases.Title(language.English).String(first)
}

// locality is the place's display locality: the city when known,
// otherwise the region.
func locality(c *PlaceCandidate) string {
	if c.City != "" {
		return c.City
	}

	return c.Region
}

// BuildTitle returns the short display title for a resolved place. A
// real, non-streety name is used verbatim; otherwise a label is
// synthesized from the categories. A nil candidate yields "Location".
func BuildTitle(c *PlaceCandidate) string {
	if c == nil {
		return "Location"
	}

	name := strings.TrimSpace(c.Name)
	if name != "" && name != UnknownPlaceName && !IsStreetyName(name) {
		return name
	}

	label := categoryLabel(c.Categories)
	if loc := locality(c); loc != "" {
		return collapseWhitespace(label + " near " + loc)
	}

	return label
}

// BuildDescription returns the one/two-sentence display description.
// The raw address is appended only when it is short enough and is not a
// geocoder placeholder.
func BuildDescription(c *PlaceCandidate) string {
	if c == nil {
		return ""
	}

	label := categoryLabel(c.Categories)

	s := label + "."
	if loc := locality(c); loc != "" {
		s = label + " in " + loc + "."
	}

	addr := strings.TrimSpace(c.Address)
	if addr != "" && len(addr) <= 80 && !strings.Contains(strings.ToLower(addr), "unnamed") {
		s += " " + addr
	}

	return collapseWhitespace(s)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// lowerFold normalizes a string by removing accents, lowercasing, and
// trimming spaces. Used for hint matching so "Café" finds "cafe"; note
// this widens matching beyond a plain lowercase comparison, since two
// strings differing only in diacritics fold to the same value.
func lowerFold(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}
