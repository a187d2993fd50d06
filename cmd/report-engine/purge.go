// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/retention"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Immediately clear the staged working directories",
	Long: `Purge empties the working directories (reports, temp, teacher_audio)
without waiting for the scheduled retention deadline, recreates them empty,
and appends a timestamped line to the deletion log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := rootCmd.PersistentFlags().GetString("log-mode")
		log, err := logging.New(mode)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		cfg := buildConfig()
		return retention.NewScheduler(cfg.Retention, cfg.WorkDirs, log).Purge()
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
