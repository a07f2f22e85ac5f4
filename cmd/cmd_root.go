// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Duke1965/mark-this-spot/places"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var (
	httpTrace     bool
	httpBodyTrace bool
)

var rootCmd = &cobra.Command{
	Use:   "markspot",
	Short: "resolve coordinates into real-world places",
	Long: `
markspot answers "what place is this, concretely" for a dropped pin. It
queries the configured place-data backend, scores the candidates, and
synthesizes stable title/description strings for display.

Requires ` + places.EnvAPIKey + ` in the environment (or a .env file).
`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A missing .env file is fine; the environment may already be set.
		_ = godotenv.Load()
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newProvider builds the geoapify provider from the process environment.
func newProvider() (places.Provider, error) {
	cfg, err := places.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	cfg.UserAgent = "markspot/" + Version

	if httpTrace || httpBodyTrace {
		cfg.HTTPTrace = os.Stderr
		cfg.HTTPTraceBody = httpBodyTrace
	}

	p, err := places.NewGeoapify(cfg)
	if err != nil {
		return nil, err
	}

	places.Register(string(places.SourceGeoapify), p)

	return p, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&httpTrace, "http-trace", false, "trace HTTP requests and responses to stderr")
	rootCmd.PersistentFlags().BoolVar(&httpBodyTrace, "http-body-trace", false, "trace HTTP bodies too (implies --http-trace)")
}
