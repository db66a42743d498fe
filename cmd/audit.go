package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/engine"
	"github.com/velden-health/denial-audit/internal/model"
	"github.com/velden-health/denial-audit/internal/report"
	"github.com/velden-health/denial-audit/internal/store"
)

var (
	auditCSVOut     string
	auditSummaryOut string
	auditSave       bool
	auditPayer      string
	auditState      string
)

var auditCmd = &cobra.Command{
	Use:   "audit [files or directories...]",
	Short: "Extract and classify denials from 835 files and denial exports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("audit"); err != nil {
			return err
		}

		eng, _ := buildEngine(cfg)

		records, err := collectRecords(eng, args)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No qualifying denials found.")
			return nil
		}

		enriched := eng.Enrich(records)
		summary := report.Summarize(enriched)
		printSummary(summary)

		if auditCSVOut != "" {
			if err := writeCSVFile(auditCSVOut, func(f *os.File) error {
				return report.WriteDetailCSV(f, enriched)
			}); err != nil {
				return err
			}
			fmt.Printf("Detail CSV written to %s\n", auditCSVOut)
		}
		if auditSummaryOut != "" {
			if err := writeCSVFile(auditSummaryOut, func(f *os.File) error {
				return report.WriteSummaryCSV(f, summary)
			}); err != nil {
				return err
			}
			fmt.Printf("Summary CSV written to %s\n", auditSummaryOut)
		}

		if auditSave {
			if err := saveTraining(cmd, enriched); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditCSVOut, "csv-out", "", "write per-denial detail CSV to this path")
	auditCmd.Flags().StringVar(&auditSummaryOut, "summary-out", "", "write status summary CSV to this path")
	auditCmd.Flags().BoolVar(&auditSave, "save", false, "persist de-identified rows to the training store")
	auditCmd.Flags().StringVar(&auditPayer, "payer", "", "payer name for training rows (default from config)")
	auditCmd.Flags().StringVar(&auditState, "state", "", "state for training rows (default from config)")
	rootCmd.AddCommand(auditCmd)
}

// collectRecords reads all remittance files concurrently up front, then
// walks the arguments in path order: remittances are scanned, CSV/XLSX
// exports go through the column mapper, and each file's records land at
// its original position.
func collectRecords(eng *engine.Engine, args []string) ([]model.DenialRecord, error) {
	paths, err := expandPaths(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, eris.New("no input files found")
	}

	var remits []string
	for _, path := range paths {
		if !isExport(path) {
			remits = append(remits, path)
		}
	}
	inputs, err := readRemittances(remits)
	if err != nil {
		return nil, err
	}

	var records []model.DenialRecord
	next := 0
	for _, path := range paths {
		if isExport(path) {
			recs, err := parseExport(eng, path)
			if err != nil {
				zap.L().Warn("export skipped", zap.String("file", path), zap.Error(err))
				continue
			}
			records = append(records, recs...)
			continue
		}

		records = append(records, eng.Process(inputs[next:next+1])...)
		next++
	}
	return records, nil
}

func parseExport(eng *engine.Engine, path string) ([]model.DenialRecord, error) {
	if isXLSX(path) {
		return eng.ProcessExportXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return eng.ProcessExport(filepath.Base(path), f)
}

func saveTraining(cmd *cobra.Command, enriched []model.EnrichedRecord) error {
	st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(cmd.Context()); err != nil {
		return err
	}

	meta := store.Meta{Payer: auditPayer, State: auditState}
	if meta.Payer == "" {
		meta.Payer = cfg.Client.Payer
	}
	if meta.State == "" {
		meta.State = cfg.Client.State
	}

	saved, dups, err := st.SaveRecords(cmd.Context(), store.FromEnriched(enriched, meta))
	if err != nil {
		return err
	}
	fmt.Printf("Training store: %d saved, %d duplicates skipped\n", saved, dups)
	return nil
}

func printSummary(s report.Summary) {
	fmt.Printf("\nDenials analyzed: %d\n", s.Records)
	fmt.Printf("Total denied:     $%.2f\n", s.TotalDenied)
	fmt.Printf("Recoverable:      $%.2f\n\n", s.Recoverable)

	for _, b := range s.Statuses {
		fmt.Printf("  %-28s %5d  $%12.2f\n", b.Label, b.Count, b.Amount)
	}

	if len(s.TopCodes) > 0 {
		fmt.Println("\nTop denial codes:")
		for _, c := range s.TopCodes {
			fmt.Printf("  %-8s %5d  $%12.2f  %s\n", c.Code, c.Count, c.Amount, c.Description)
		}
	}
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	return write(f)
}
