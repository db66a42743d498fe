package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/velden-health/denial-audit/internal/report"
)

var (
	reportOut    string
	reportClient string
)

var reportCmd = &cobra.Command{
	Use:   "report [files or directories...]",
	Short: "Generate a branded HTML recovery report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		eng, _ := buildEngine(cfg)

		records, err := collectRecords(eng, args)
		if err != nil {
			return err
		}

		client := reportClient
		if client == "" {
			client = cfg.Client.Name
		}
		summary := report.Summarize(eng.Enrich(records))

		f, err := os.Create(reportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", reportOut)
		}
		defer f.Close()

		if err := report.WriteHTML(f, client, summary); err != nil {
			return err
		}
		fmt.Printf("Report written to %s (%d denials, $%.2f recoverable)\n",
			reportOut, summary.Records, summary.Recoverable)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "audit_report.html", "output path for the HTML report")
	reportCmd.Flags().StringVar(&reportClient, "client", "", "client name shown on the report (default from config)")
	rootCmd.AddCommand(reportCmd)
}
