// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Duke1965/mark-this-spot/places"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Resolve a file of coordinates",
	Long: `Reads one "lat,lon" or "lat,lon,hint" per line and writes a TSV of
lat, lon, title, description, and place id to stdout. Lines starting
with # are skipped.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		var lines []string

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			lines = append(lines, line)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(lines),
				progressbar.OptionSetDescription("Resolving"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}

		ctx := context.Background()

		var failed int

		for _, line := range lines {
			parts := strings.SplitN(line, ",", 3)
			if len(parts) < 2 {
				log.Printf("Skipping malformed line %q", line)

				failed++

				continue
			}

			lat, lon, err := parseLatLon(parts[0] + "," + parts[1])
			if err != nil {
				log.Printf("Skipping %q: %s", line, err)

				failed++

				continue
			}

			var hint string
			if len(parts) == 3 {
				hint = strings.TrimSpace(parts[2])
			}

			result, err := provider.ResolveByCoordinate(ctx, lat, lon, hint)
			if err != nil {
				log.Printf("Resolving %q: %s", line, err)

				failed++

				continue
			}

			var id string
			if result.Place != nil {
				id = result.Place.ID
			}

			fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
				parts[0], parts[1],
				places.BuildTitle(result.Place),
				places.BuildDescription(result.Place),
				id,
			)

			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Printf("Updating progress bar: %s", err)
				}
			}
		}

		if failed > 0 {
			log.Printf("Batch completed with %d failed lines", failed)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
