// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Duke1965/mark-this-spot/places"
)

var searchNear string

// parseLatLon parses a "lat,lon" pair.
func parseLatLon(s string) (float64, float64, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lat,lon but got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude %q: %w", parts[0], err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude %q: %w", parts[1], err)
	}

	return lat, lon, nil
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search places by free text",
	Long: `Runs the proximity-biased free-text search and lists the ranked
candidates. Scoring and enrichment are not applied.

$ markspot search "louvre" --near 48.8584,2.2945
`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var lat, lon float64

		if searchNear != "" {
			var err error

			lat, lon, err = parseLatLon(searchNear)
			if err != nil {
				return err
			}
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}

		candidates, err := provider.SearchByText(context.Background(), args[0], lat, lon)
		if err != nil {
			return fmt.Errorf("searching %q: %w", args[0], err)
		}

		if len(candidates) == 0 {
			fmt.Println("No results")

			return nil
		}

		for _, c := range candidates {
			fmt.Printf("%s\t%s\t%s\t%s\n", places.BuildTitle(&c), c.Address, c.ID, places.BuildDescription(&c))
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchNear, "near", "", "bias results toward lat,lon")
	rootCmd.AddCommand(searchCmd)
}
