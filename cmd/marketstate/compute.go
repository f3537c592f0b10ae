package main

import (
	"github.com/spf13/cobra"

	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/engine"
	"github.com/nesterchung/stock-decision-maker/internal/prices"
	"github.com/nesterchung/stock-decision-maker/internal/record"
)

var computeOpts struct {
	input      string
	out        string
	configPath string
	window     int
	legacy     bool
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute canonical market state records from a wide prices CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg := config.Legacy()
		if !computeOpts.legacy {
			loaded, err := config.Load(computeOpts.configPath)
			if err != nil {
				return err
			}
			warnings, err := loaded.Validate()
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				log.Warn().Msg(warning)
			}
			cfg = loaded
		}
		if computeOpts.window > 0 {
			cfg.Window = computeOpts.window
		}

		mode, err := engine.SelectMode(computeOpts.legacy, cfg)
		if err != nil {
			return err
		}
		log.Info().Stringer("mode", mode).Str("config", computeOpts.configPath).Msg("starting run")

		table, err := prices.Load(computeOpts.input, cfg.Tickers(), cfg.PriceField)
		if err != nil {
			return err
		}

		records, err := engine.New(cfg, mode, log).Run(table)
		if err != nil {
			return err
		}
		if err := record.WriteAll(computeOpts.out, records); err != nil {
			return err
		}
		log.Info().Int("records", len(records)).Str("path", computeOpts.out).Msg("wrote canonical records")
		return nil
	},
}

func init() {
	computeCmd.Flags().StringVarP(&computeOpts.input, "input", "i", "", "input wide CSV with date + ticker columns")
	computeCmd.Flags().StringVarP(&computeOpts.out, "out", "o", "data/canonical.ndjson", "output NDJSON file")
	computeCmd.Flags().StringVarP(&computeOpts.configPath, "config", "c", envOr("MARKETSTATE_CONFIG", "signals.yaml"), "signals.yaml path")
	computeCmd.Flags().IntVarP(&computeOpts.window, "window", "w", 0, "override the SMA window")
	computeCmd.Flags().BoolVar(&computeOpts.legacy, "legacy", false, "run the built-in v0.1 signal set, ignoring the config")
	_ = computeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(computeCmd)
}
