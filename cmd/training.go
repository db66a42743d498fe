package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velden-health/denial-audit/internal/store"
)

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Inspect the de-identified training store",
}

var trainingCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the training dataset size",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("training"); err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		n, err := st.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Training records: %d\n", n)
		return nil
	},
}

var trainingStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show payer denial aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("training"); err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		stats, err := st.PayerStats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("Training store is empty.")
			return nil
		}

		fmt.Printf("%-32s %-10s %8s %14s %12s\n", "Payer", "Code", "Count", "Total Denied", "Avg Denial")
		for _, s := range stats {
			fmt.Printf("%-32s %-10s %8d %14.2f %12.2f\n",
				s.Payer, s.DenialCode, s.Count, s.TotalDenied, s.AvgDenial)
		}
		return nil
	},
}

func init() {
	trainingCmd.AddCommand(trainingCountCmd, trainingStatsCmd)
	rootCmd.AddCommand(trainingCmd)
}
