// Package engine ties the audit pipeline together: it scans remittance and
// export inputs into denial records, then enriches each record with
// reference descriptions and its recoverability classification.
package engine

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/csvimport"
	"github.com/velden-health/denial-audit/internal/edi"
	"github.com/velden-health/denial-audit/internal/matrix"
	"github.com/velden-health/denial-audit/internal/model"
)

// descriptionMaxLen bounds the reference description carried on an
// enriched record.
const descriptionMaxLen = 80

// Input is one decoded remittance file handed to the engine.
type Input struct {
	Name string
	Text string
}

// Engine scans input files and enriches the extracted denial records. The
// classification matrix and reference maps are read-only after
// construction, so one Engine may serve many scans.
type Engine struct {
	scanner *edi.Scanner
	matrix  matrix.Matrix
	carc    map[string]string
	rarc    map[string]string
}

// New creates an Engine.
func New(m matrix.Matrix, carc, rarc map[string]string, opts edi.Options) *Engine {
	return &Engine{
		scanner: edi.NewScanner(opts),
		matrix:  m,
		carc:    carc,
		rarc:    rarc,
	}
}

// Process scans each input independently and concatenates the results in
// input order. Files that contribute nothing are logged, not failed.
func (e *Engine) Process(inputs []Input) []model.DenialRecord {
	var records []model.DenialRecord
	for _, in := range inputs {
		recs := e.scanner.Scan(in.Text, in.Name)
		if len(recs) == 0 {
			zap.L().Warn("engine: no qualifying adjustments found", zap.String("file", in.Name))
			continue
		}
		zap.L().Info("engine: file scanned",
			zap.String("file", in.Name),
			zap.Int("records", len(recs)),
			zap.Int("with_remark", countWithRemark(recs)),
		)
		records = append(records, recs...)
	}
	return records
}

// ProcessExport parses one CSV denial export.
func (e *Engine) ProcessExport(name string, r io.Reader) ([]model.DenialRecord, error) {
	return csvimport.ParseCSV(r, name)
}

// ProcessExportXLSX parses one XLSX denial export.
func (e *Engine) ProcessExportXLSX(path string) ([]model.DenialRecord, error) {
	return csvimport.ParseXLSXFile(path)
}

// Enrich joins each record with its official description, the remark
// description when a remark code was captured, and the recoverability
// verdict from the matrix.
func (e *Engine) Enrich(records []model.DenialRecord) []model.EnrichedRecord {
	enriched := make([]model.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		entry := e.matrix.Classify(rec.ReasonCode)

		desc, ok := e.carc[rec.ReasonCode]
		if !ok {
			desc = "Unknown"
		}
		if len(desc) > descriptionMaxLen {
			desc = desc[:descriptionMaxLen]
		}

		er := model.EnrichedRecord{
			DenialRecord: rec,
			Description:  desc,
			Status:       entry.Status,
			Action:       entry.Action,
		}
		if rec.Remark != "" {
			if rd, ok := e.rarc[rec.Remark]; ok {
				er.RemarkDescription = rd
			} else {
				er.RemarkDescription = "Unknown Remark"
			}
		}
		enriched = append(enriched, er)
	}
	return enriched
}

// FullDescription renders the description shown on reports: the reason
// description, plus the remark code and its description when present.
func FullDescription(r model.EnrichedRecord) string {
	if r.Remark == "" {
		return r.Description
	}
	var b strings.Builder
	b.WriteString(r.Description)
	b.WriteString(" [")
	b.WriteString(r.Remark)
	b.WriteString(": ")
	b.WriteString(r.RemarkDescription)
	b.WriteString("]")
	return b.String()
}

func countWithRemark(recs []model.DenialRecord) int {
	n := 0
	for _, r := range recs {
		if r.Remark != "" {
			n++
		}
	}
	return n
}
