package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/velden-health/denial-audit/internal/mockdata"
)

var (
	mockgenOut    string
	mockgenFiles  int
	mockgenClaims int
	mockgenSeed   int64
)

var mockgenCmd = &cobra.Command{
	Use:   "mockgen",
	Short: "Generate synthetic 835 files for development",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := mockgenSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		paths, err := mockdata.NewGenerator(seed).WriteFiles(mockgenOut, mockgenFiles, mockgenClaims)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("Created %s\n", p)
		}
		return nil
	},
}

func init() {
	mockgenCmd.Flags().StringVar(&mockgenOut, "out", "client_data", "output directory")
	mockgenCmd.Flags().IntVar(&mockgenFiles, "files", 5, "number of files to generate")
	mockgenCmd.Flags().IntVar(&mockgenClaims, "claims", 25, "denied claims per file")
	mockgenCmd.Flags().Int64Var(&mockgenSeed, "seed", 0, "random seed (0 = time-based)")
	rootCmd.AddCommand(mockgenCmd)
}
