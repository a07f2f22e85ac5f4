// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"errors"
	"io"
	"os"
	"strconv"
	"time"
)

// Environment variables consumed by ConfigFromEnv.
const (
	EnvAPIKey          = "GEOAPIFY_API_KEY"
	EnvSearchTimeoutMS = "PLACES_SEARCH_TIMEOUT_MS"
)

const (
	defaultSearchTimeout = 3500 * time.Millisecond

	// Detail and text lookups are not tunable; a slow backend is
	// bounded to at most three sequential capped calls per resolution.
	detailTimeout = 4 * time.Second
	textTimeout   = 4 * time.Second
)

// ErrMissingAPIKey reports a fatal configuration problem: the backend
// cannot be queried at all without a key.
var ErrMissingAPIKey = errors.New("places: " + EnvAPIKey + " is not set")

// Config holds the settings for a backend client.
type Config struct {
	// APIKey authenticates every upstream call. Required.
	APIKey string

	// SearchTimeout bounds the nearby-search and reverse-geocode calls.
	SearchTimeout time.Duration

	// UserAgent is sent on every upstream request.
	UserAgent string

	// HTTPTrace, when non-nil, receives a dump of every HTTP
	// transaction. Development aid only.
	HTTPTrace io.Writer

	// HTTPTraceBody additionally dumps response bodies.
	HTTPTraceBody bool
}

// ConfigFromEnv reads the backend configuration from the process
// environment. A missing API key is a setup failure, reported before
// any network call is attempted.
func ConfigFromEnv() (*Config, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	timeout := defaultSearchTimeout

	if v := os.Getenv(EnvSearchTimeoutMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, errors.New("places: invalid " + EnvSearchTimeoutMS + ": " + v)
		}

		timeout = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		APIKey:        key,
		SearchTimeout: timeout,
	}, nil
}
