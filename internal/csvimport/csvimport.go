// Package csvimport maps EHR denial exports onto denial records. Clinics
// export denial worklists from many different systems, so column names are
// matched fuzzily by substring rather than by a fixed schema.
package csvimport

import (
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/fetcher"
	"github.com/velden-health/denial-audit/internal/model"
)

const patientMaxLen = 50

// columns holds resolved header indexes; -1 means the column is absent.
type columns struct {
	reason  int
	group   int
	amount  int
	patient int
	claim   int
	date    int
	remark  int
}

// mapColumns resolves export columns by lowercase substring match. Later
// columns override earlier ones within the same role, matching how most
// exports put the authoritative column last.
func mapColumns(header []string) columns {
	cols := columns{reason: -1, group: -1, amount: -1, patient: -1, claim: -1, date: -1, remark: -1}

	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case containsAny(name, "carc", "reason_code", "reason code", "denial_code", "denial code", "code"):
			if !strings.Contains(name, "group") {
				cols.reason = i
			}
		case containsAny(name, "group", "grp", "adjustment_group"):
			cols.group = i
		case containsAny(name, "amount", "denied", "denial_amount", "adj_amt", "adjustment"):
			cols.amount = i
		case containsAny(name, "patient", "member", "subscriber", "name"):
			cols.patient = i
		case containsAny(name, "claim", "claim_id", "claim_number", "icn"):
			cols.claim = i
		case containsAny(name, "date", "service_date", "dos"):
			cols.date = i
		case containsAny(name, "rarc", "remark"):
			cols.remark = i
		}
	}
	return cols
}

// Parse converts export rows into denial records. It fails only when the
// minimum viable columns (reason code and amount) cannot be identified;
// individual unusable rows are skipped.
func Parse(header []string, rows [][]string, filename string) ([]model.DenialRecord, error) {
	cols := mapColumns(header)
	if cols.reason < 0 || cols.amount < 0 {
		return nil, eris.Errorf("csvimport: required columns (reason code, amount) not found in %v", header)
	}

	var records []model.DenialRecord
	for _, row := range rows {
		reason := strings.TrimSpace(cell(row, cols.reason))

		group := ""
		if i := strings.IndexByte(reason, '-'); i >= 0 {
			// Combined form like CO-45.
			group = reason[:i]
			reason = reason[i+1:]
		} else if cols.group >= 0 {
			group = strings.TrimSpace(cell(row, cols.group))
		}
		if group == "" {
			group = "CO"
		}
		if len(group) > 2 {
			group = group[:2]
		}

		reason = digitsOnly(reason)
		if reason == "" {
			continue
		}

		patient := cell(row, cols.patient)
		if patient == "" {
			patient = "N/A"
		}
		claimID := cell(row, cols.claim)
		if claimID == "" {
			claimID = "N/A"
		}
		serviceDate := cell(row, cols.date)
		if serviceDate == "" {
			serviceDate = "N/A"
		}

		records = append(records, model.DenialRecord{
			Filename:    filename,
			Patient:     truncate(patient, patientMaxLen),
			ClaimID:     claimID,
			ServiceDate: serviceDate,
			GroupCode:   group,
			ReasonCode:  reason,
			CodeDisplay: group + "-" + reason,
			Amount:      parseAmount(cell(row, cols.amount)),
			Remark:      cell(row, cols.remark),
		})
	}

	zap.L().Info("csvimport: export parsed",
		zap.String("file", filename),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// ParseCSV parses a CSV denial export.
func ParseCSV(r io.Reader, filename string) ([]model.DenialRecord, error) {
	header, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrapf(err, "csvimport: read %s", filename)
	}
	return Parse(header, rows, filename)
}

// ParseXLSXFile parses the first sheet of an XLSX denial export.
func ParseXLSXFile(path string) ([]model.DenialRecord, error) {
	header, rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "csvimport: read %s", path)
	}
	return Parse(header, rows, filepath.Base(path))
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseAmount(field string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(field)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return math.Abs(v)
}

// truncate bounds s to n runes; byte slicing could split a multi-byte
// character in a non-ASCII patient name.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
