// Package matrix classifies claim-adjustment reason codes by financial
// recoverability. The matrix is built once at startup from the official
// reason-code reference CSV merged with a curated manual table, then
// treated as immutable; Classify never fails, falling back to a
// review-required default for unknown codes.
package matrix

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/fetcher"
	"github.com/velden-health/denial-audit/internal/model"
)

// defaultEntry is returned for any code the matrix does not know.
func defaultEntry() model.ReasonCodeEntry {
	return model.ReasonCodeEntry{
		Status:      model.StatusReviewRequired,
		Category:    "Unknown",
		Fixable:     nil,
		Action:      "Manual review required",
		Description: "Code not found",
	}
}

// Matrix maps reason codes to recoverability entries.
type Matrix struct {
	entries map[string]model.ReasonCodeEntry
}

// Build constructs a Matrix from official code descriptions and manual
// overrides. Every code in ref gets exactly one entry; manual entries win
// over keyword inference but still pick up the official description.
// Codes present only in the manual table are not added - they classify to
// the default entry like any unknown code.
func Build(ref map[string]string, manual map[string]model.ReasonCodeEntry) Matrix {
	entries := make(map[string]model.ReasonCodeEntry, len(ref))
	for code, desc := range ref {
		if m, ok := manual[code]; ok {
			m.Description = desc
			entries[code] = m
			continue
		}
		entries[code] = autoClassify(desc)
	}
	return Matrix{entries: entries}
}

// BuildDefault builds a Matrix from the reference map using the curated
// manual classification table.
func BuildDefault(ref map[string]string) Matrix {
	return Build(ref, manualClassifications)
}

// Classify returns the entry for a reason code, or the review-required
// default when the code is unknown or the matrix is degraded/empty.
func (m Matrix) Classify(code string) model.ReasonCodeEntry {
	if e, ok := m.entries[strings.TrimSpace(code)]; ok {
		return e
	}
	return defaultEntry()
}

// Len reports how many codes the matrix covers.
func (m Matrix) Len() int { return len(m.entries) }

// LoadReference parses a code reference table (CARC or RARC) into a
// code-to-description map. The code and description columns are found by
// case-insensitive substring match on the header: a column containing
// "CODE" but not "DESC" is the code column, one containing "DESC" is the
// description column. Multi-line descriptions keep only their first line.
func LoadReference(r io.Reader) (map[string]string, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "matrix: read reference csv")
	}

	codeCol, descCol := -1, -1
	for i, col := range header {
		upper := strings.ToUpper(col)
		switch {
		case strings.Contains(upper, "DESC"):
			if descCol < 0 {
				descCol = i
			}
		case strings.Contains(upper, "CODE"):
			if codeCol < 0 {
				codeCol = i
			}
		}
	}
	if codeCol < 0 || descCol < 0 {
		return nil, eris.Errorf("matrix: reference columns not found in header %v", header)
	}

	ref := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) <= codeCol || len(row) <= descCol {
			continue
		}
		code := strings.TrimSpace(row[codeCol])
		desc := strings.TrimSpace(row[descCol])
		if code == "" {
			continue
		}
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		ref[code] = desc
	}
	return ref, nil
}

// LoadReferenceFile loads a reference CSV from disk. A missing or
// malformed file degrades to an empty map with a warning: the engine keeps
// running and every classification falls back to the default entry.
func LoadReferenceFile(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Warn("matrix: reference file unavailable",
			zap.String("path", path),
			zap.Error(err),
		)
		return map[string]string{}
	}
	defer f.Close()

	ref, err := LoadReference(f)
	if err != nil {
		zap.L().Warn("matrix: reference file unreadable",
			zap.String("path", path),
			zap.Error(err),
		)
		return map[string]string{}
	}

	zap.L().Info("matrix: reference loaded",
		zap.String("path", path),
		zap.Int("codes", len(ref)),
	)
	return ref
}
