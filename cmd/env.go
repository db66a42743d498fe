package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/velden-health/denial-audit/internal/config"
	"github.com/velden-health/denial-audit/internal/edi"
	"github.com/velden-health/denial-audit/internal/engine"
	"github.com/velden-health/denial-audit/internal/fetcher"
	"github.com/velden-health/denial-audit/internal/matrix"
)

// references holds the loaded CARC/RARC description maps and the
// classification matrix shared with the engine built from them.
type references struct {
	carc   map[string]string
	rarc   map[string]string
	matrix matrix.Matrix
}

// buildEngine loads the reference tables and assembles the audit engine.
// Missing reference files degrade to empty maps, never an error.
func buildEngine(cfg *config.Config) (*engine.Engine, references) {
	carc := matrix.LoadReferenceFile(cfg.Reference.CARCPath)
	rarc := matrix.LoadReferenceFile(cfg.Reference.RARCPath)
	m := matrix.BuildDefault(carc)

	e := engine.New(m, carc, rarc, edi.Options{
		StrictClaimReset: cfg.Parser.StrictClaimReset,
	})
	return e, references{carc: carc, rarc: rarc, matrix: m}
}

// expandPaths resolves file and directory arguments into a sorted list of
// readable input files. Directories contribute their .835/.txt/.csv/.xlsx
// entries, non-recursively.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "read dir %s", arg)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".835", ".txt", ".edi", ".csv", ".xlsx":
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// readRemittances loads remittance files concurrently, preserving the
// order of paths in the returned inputs.
func readRemittances(paths []string) ([]engine.Input, error) {
	inputs := make([]engine.Input, len(paths))

	var g errgroup.Group
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}
			inputs[i] = engine.Input{
				Name: filepath.Base(path),
				Text: fetcher.DecodeText(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func isExport(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

func isXLSX(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xlsx"
}
