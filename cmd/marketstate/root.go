package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nesterchung/stock-decision-maker/internal/metrics"
	"github.com/nesterchung/stock-decision-maker/internal/util"
)

var (
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "marketstate",
	Short: "Market state engine: daily regime signals from price history",
	Long: `marketstate turns a daily price table into dated market regime records:
per-signal UP/DOWN/NA classifications plus a composite state label, evaluated
against a user-editable signals.yaml rule configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "zerolog level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address (empty disables)")
}

// newLogger builds the run logger and starts the optional metrics endpoint.
func newLogger() zerolog.Logger {
	log := util.NewConsoleLogger(logLevel)
	if metricsAddr != "" {
		_ = metrics.Serve(metricsAddr)
		log.Info().Str("addr", metricsAddr).Msg("metrics up")
	}
	return log
}

// envOr returns the environment value when set, else the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
