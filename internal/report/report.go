// Package report aggregates enriched denial records into the financial
// roll-ups shown to clients and writes them out as CSV or HTML.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/velden-health/denial-audit/internal/engine"
	"github.com/velden-health/denial-audit/internal/model"
)

// topCodeLimit caps the per-code rollup shown on reports.
const topCodeLimit = 10

// StatusBucket is the roll-up for one recoverability status.
type StatusBucket struct {
	Status model.RecoverabilityStatus `json:"status"`
	Label  string                     `json:"label"`
	Count  int                        `json:"count"`
	Amount float64                    `json:"amount"`
}

// CodeBucket is the roll-up for one reason code.
type CodeBucket struct {
	Code        string                     `json:"code"`
	Description string                     `json:"description"`
	Status      model.RecoverabilityStatus `json:"status"`
	Count       int                        `json:"count"`
	Amount      float64                    `json:"amount"`
}

// Summary is the aggregate view of one audit run.
type Summary struct {
	Records     int            `json:"records"`
	TotalDenied float64        `json:"total_denied"`
	Recoverable float64        `json:"recoverable"`
	Statuses    []StatusBucket `json:"statuses"`
	TopCodes    []CodeBucket   `json:"top_codes"`
}

// Summarize rolls enriched records up by status and reason code. Status
// buckets come back in display order with empty buckets omitted; code
// buckets are the top codes by denied amount.
func Summarize(records []model.EnrichedRecord) Summary {
	s := Summary{Records: len(records)}

	byStatus := make(map[model.RecoverabilityStatus]*StatusBucket)
	byCode := make(map[string]*CodeBucket)
	for _, r := range records {
		s.TotalDenied += r.Amount
		if r.Status.Recoverable() {
			s.Recoverable += r.Amount
		}

		sb, ok := byStatus[r.Status]
		if !ok {
			sb = &StatusBucket{Status: r.Status, Label: r.Status.Label()}
			byStatus[r.Status] = sb
		}
		sb.Count++
		sb.Amount += r.Amount

		cb, ok := byCode[r.CodeDisplay]
		if !ok {
			cb = &CodeBucket{Code: r.CodeDisplay, Description: r.Description, Status: r.Status}
			byCode[r.CodeDisplay] = cb
		}
		cb.Count++
		cb.Amount += r.Amount
	}

	for _, status := range model.Statuses {
		if sb, ok := byStatus[status]; ok {
			s.Statuses = append(s.Statuses, *sb)
		}
	}

	codes := make([]CodeBucket, 0, len(byCode))
	for _, cb := range byCode {
		codes = append(codes, *cb)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i].Amount != codes[j].Amount {
			return codes[i].Amount > codes[j].Amount
		}
		return codes[i].Code < codes[j].Code
	})
	if len(codes) > topCodeLimit {
		codes = codes[:topCodeLimit]
	}
	s.TopCodes = codes
	return s
}

// WriteDetailCSV writes one row per enriched record.
func WriteDetailCSV(w io.Writer, records []model.EnrichedRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"File", "Patient", "Claim ID", "Service Date", "Code",
		"Description", "Denied Amount", "Status", "Recommended Action",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write detail header")
	}
	for _, r := range records {
		row := []string{
			r.Filename,
			r.Patient,
			r.ClaimID,
			r.ServiceDate,
			r.CodeDisplay,
			engine.FullDescription(r),
			fmt.Sprintf("%.2f", r.Amount),
			r.Status.Label(),
			r.Action,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write detail row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush detail csv")
}

// WriteSummaryCSV writes the status roll-up plus total/recoverable lines.
func WriteSummaryCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Status", "Count", "Amount"}); err != nil {
		return eris.Wrap(err, "report: write summary header")
	}
	for _, b := range s.Statuses {
		row := []string{b.Label, fmt.Sprintf("%d", b.Count), fmt.Sprintf("%.2f", b.Amount)}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write summary row")
		}
	}
	totals := [][]string{
		{"Total Denied", fmt.Sprintf("%d", s.Records), fmt.Sprintf("%.2f", s.TotalDenied)},
		{"Recoverable", "", fmt.Sprintf("%.2f", s.Recoverable)},
	}
	for _, row := range totals {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write summary totals")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush summary csv")
}
