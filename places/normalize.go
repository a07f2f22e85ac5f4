// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// feature is the raw GeoJSON feature shape shared by all four upstream
// endpoints. Properties carries everything of interest; the geometry
// coordinates are only a fallback when properties lack lat/lon.
type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"` // lon, lat
	} `json:"geometry"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

// normalizeFeature maps one raw feature into a PlaceCandidate. It
// returns nil when the feature has no finite coordinates; such features
// are dropped silently rather than surfaced as errors.
func normalizeFeature(f feature, src Source) *PlaceCandidate {
	props := f.Properties
	if props == nil {
		props = map[string]any{}
	}

	lat, latOK := floatProp(props, "lat")
	lon, lonOK := floatProp(props, "lon")

	if (!latOK || !lonOK) && len(f.Geometry.Coordinates) >= 2 {
		lon, lat = f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		latOK, lonOK = isFinite(lat), isFinite(lon)
	}

	if !latOK || !lonOK {
		return nil
	}

	c := &PlaceCandidate{
		ID:         stringProp(props, "place_id"),
		Name:       firstNonEmpty(stringProp(props, "name"), stringProp(props, "formatted"), stringProp(props, "address_line1")),
		Categories: stringSliceProp(props, "categories"),
		Address:    stringProp(props, "formatted"),
		City:       firstNonEmpty(stringProp(props, "city"), stringProp(props, "town"), stringProp(props, "village"), stringProp(props, "municipality"), stringProp(props, "district")),
		Region:     firstNonEmpty(stringProp(props, "state"), stringProp(props, "county")),
		Country:    firstNonEmpty(stringProp(props, "country"), stringProp(props, "country_code")),
		Website:    normalizeWebsite(contactProp(props, "website")),
		Phone:      contactProp(props, "phone"),
		Lat:        lat,
		Lon:        lon,
		Source:     src,
		Raw:        props,
	}

	if c.ID == "" {
		c.ID = fallbackID(lat, lon)
	}

	if c.Name == "" {
		c.Name = UnknownPlaceName
	}

	return c
}

// normalizeFeatures maps a raw feature list, dropping the unusable ones.
func normalizeFeatures(feats []feature, src Source) []PlaceCandidate {
	out := make([]PlaceCandidate, 0, len(feats))

	for _, f := range feats {
		if c := normalizeFeature(f, src); c != nil {
			out = append(out, *c)
		}
	}

	return out
}

// fallbackID synthesizes a stable "lon,lat" key for features that carry
// no upstream place id. Identical input always yields the same key.
func fallbackID(lat, lon float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}

// contactProp looks a field up in the four places upstream payloads are
// known to hide it: top level, the contact object, and the two
// datasource-raw spellings. The first non-empty hit wins.
func contactProp(props map[string]any, key string) string {
	if v := stringProp(props, key); v != "" {
		return v
	}

	if contact, ok := props["contact"].(map[string]any); ok {
		if v := stringProp(contact, key); v != "" {
			return v
		}
	}

	if ds, ok := props["datasource"].(map[string]any); ok {
		if raw, ok := ds["raw"].(map[string]any); ok {
			if v := stringProp(raw, key); v != "" {
				return v
			}

			if v := stringProp(raw, "contact:"+key); v != "" {
				return v
			}
		}
	}

	return ""
}

// normalizeWebsite coerces a raw website value to an absolute https URL
// with the fragment stripped. A value that cannot be parsed is dropped
// rather than kept malformed.
func normalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	u.Fragment = ""

	return u.String()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func floatProp(props map[string]any, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, isFinite(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)

		return f, err == nil && isFinite(f)
	default:
		return 0, false
	}
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)

	return strings.TrimSpace(s)
}

func stringSliceProp(props map[string]any, key string) []string {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))

	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
