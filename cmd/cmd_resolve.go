// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Duke1965/mark-this-spot/places"
	"github.com/Duke1965/mark-this-spot/spatial"
)

var resolveHint string

// diagCellResolution is roughly neighborhood-sized, a good resolution
// for eyeballing whether two pins landed in the same area.
const diagCellResolution = 9

var resolveCmd = &cobra.Command{
	Use:   "resolve <lat> <lon>",
	Short: "Resolve a coordinate into the best-matching place",
	Long: `Runs the full resolution pipeline for one coordinate and prints the
chosen place, its display strings, and the scored candidate list.

$ markspot resolve 48.8584 2.2945 --hint "eiffel"
`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("parsing latitude %q: %w", args[0], err)
		}

		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing longitude %q: %w", args[1], err)
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}

		result, err := provider.ResolveByCoordinate(context.Background(), lat, lon, resolveHint)
		if err != nil {
			return fmt.Errorf("resolving %s,%s: %w", args[0], args[1], err)
		}

		pin := spatial.Point{Lat: lat, Lng: lon}

		fmt.Printf("Pin:         %s\n", pin.String())

		if cell, err := pin.Cell(diagCellResolution); err == nil {
			fmt.Printf("H3 cell:     %s\n", cell)
		} else {
			log.Printf("Computing pin cell: %s", err)
		}

		fmt.Printf("Title:       %s\n", places.BuildTitle(result.Place))
		fmt.Printf("Description: %s\n", places.BuildDescription(result.Place))
		fmt.Printf("Reason:      %s\n", result.ChosenReason)

		if result.Place != nil {
			at := spatial.Point{Lat: result.Place.Lat, Lng: result.Place.Lon}
			fmt.Printf("Place id:    %s\n", result.Place.ID)
			fmt.Printf("Distance:    %.0fm\n", pin.HaversineDistance(&at))

			if result.Place.Website != "" {
				fmt.Printf("Website:     %s\n", result.Place.Website)
			}

			if result.Place.Phone != "" {
				fmt.Printf("Phone:       %s\n", result.Place.Phone)
			}
		}

		if len(result.Scored) > 0 {
			fmt.Println("\nCandidates:")

			for _, s := range result.Scored {
				fmt.Printf("  %5.2f  %-40s  %s\n", s.Score, s.Name, s.Reason)
			}
		}

		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveHint, "hint", "", "user-supplied place name hint")
	rootCmd.AddCommand(resolveCmd)
}
