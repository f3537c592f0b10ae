package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nesterchung/stock-decision-maker/internal/snapshot"
)

var snapshotOpts struct {
	records string
	dir     string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write state.json and a changelog from the newest record",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		curr, err := snapshot.Latest(snapshotOpts.records)
		if err != nil {
			return err
		}
		log.Info().Str("date", curr.Date).Msg("current state loaded")

		prev, err := snapshot.LoadPrevious(filepath.Join(snapshotOpts.dir, "state.json"))
		if err != nil {
			return err
		}
		if prev != nil {
			log.Info().Str("date", prev.Date).Msg("previous state loaded")
		} else {
			log.Info().Msg("no previous state found")
		}

		if err := snapshot.Write(snapshotOpts.dir, curr, prev); err != nil {
			return err
		}
		log.Info().Str("dir", snapshotOpts.dir).Str("changes", snapshot.Diff(prev, curr)).Msg("snapshot written")
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOpts.records, "records", "r", "data/canonical.ndjson", "NDJSON records produced by compute")
	snapshotCmd.Flags().StringVarP(&snapshotOpts.dir, "dir", "d", "outputs", "directory for state.json and CHANGELOG.md")
	rootCmd.AddCommand(snapshotCmd)
}
