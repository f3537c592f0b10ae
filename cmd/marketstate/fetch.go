package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nesterchung/stock-decision-maker/internal/config"
	"github.com/nesterchung/stock-decision-maker/internal/fetch"
	"github.com/nesterchung/stock-decision-maker/internal/prices"
)

var fetchOpts struct {
	start      string
	end        string
	configPath string
	out        string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily price history for every configured ticker",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		start, err := time.Parse(prices.DateLayout, fetchOpts.start)
		if err != nil {
			return fmt.Errorf("invalid start date %q", fetchOpts.start)
		}
		end := time.Now().UTC().Truncate(24 * time.Hour)
		if fetchOpts.end != "" {
			end, err = time.Parse(prices.DateLayout, fetchOpts.end)
			if err != nil {
				return fmt.Errorf("invalid end date %q", fetchOpts.end)
			}
		}
		if !end.After(start) {
			return fmt.Errorf("end date must be after start date")
		}

		cfg, err := config.Load(fetchOpts.configPath)
		if err != nil {
			return err
		}
		tickers := cfg.Tickers()
		if len(tickers) == 0 {
			return fmt.Errorf("no tickers found in %s", fetchOpts.configPath)
		}
		log.Info().Strs("tickers", tickers).Str("start", fetchOpts.start).Msg("downloading prices")

		table, err := fetch.NewClient(log).Download(cmd.Context(), tickers, start, end)
		if err != nil {
			return err
		}
		if err := fetch.WriteCSV(fetchOpts.out, table, tickers); err != nil {
			return err
		}
		log.Info().Int("days", table.Len()).Str("path", fetchOpts.out).Msg("saved trading days")
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOpts.start, "start", "", "start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchOpts.end, "end", "", "end date (YYYY-MM-DD, default today)")
	fetchCmd.Flags().StringVarP(&fetchOpts.configPath, "config", "c", envOr("MARKETSTATE_CONFIG", "signals.yaml"), "signals.yaml path")
	fetchCmd.Flags().StringVarP(&fetchOpts.out, "out", "o", "data/prices.csv", "output wide CSV path")
	_ = fetchCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(fetchCmd)
}
