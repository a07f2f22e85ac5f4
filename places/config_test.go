// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("missing api key is a setup failure", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")

		_, err := ConfigFromEnv()
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("default search timeout", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "k")
		t.Setenv(EnvSearchTimeoutMS, "")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 3500*time.Millisecond, cfg.SearchTimeout)
	})

	t.Run("timeout override", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "k")
		t.Setenv(EnvSearchTimeoutMS, "5000")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.SearchTimeout)
	})

	t.Run("invalid timeout rejected", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "k")
		t.Setenv(EnvSearchTimeoutMS, "soon")

		_, err := ConfigFromEnv()
		require.Error(t, err)
	})

	t.Run("non-positive timeout rejected", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "k")
		t.Setenv(EnvSearchTimeoutMS, "0")

		_, err := ConfigFromEnv()
		require.Error(t, err)
	})
}
