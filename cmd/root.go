package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "denial-audit",
	Short: "835 denial extraction and recoverability audit",
	Long:  "Scans 835 remittance files and EHR denial exports, classifies each denial by financial recoverability, and produces recovery reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
