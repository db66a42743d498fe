package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velden-health/denial-audit/internal/model"
)

func testRecords() []model.EnrichedRecord {
	return []model.EnrichedRecord{
		{
			DenialRecord: model.DenialRecord{
				Filename: "a.835", Patient: "SMITH JANE", ClaimID: "C1",
				ServiceDate: "20250215", CodeDisplay: "CO-16", Amount: 100,
			},
			Description: "Claim lacks information.",
			Status:      model.StatusFixable,
			Action:      "Add missing claim information and resubmit",
		},
		{
			DenialRecord: model.DenialRecord{CodeDisplay: "CO-16", Amount: 50},
			Description:  "Claim lacks information.",
			Status:       model.StatusFixable,
		},
		{
			DenialRecord: model.DenialRecord{CodeDisplay: "PR-29", Amount: 250},
			Description:  "The time limit for filing has expired.",
			Status:       model.StatusRescueCandidate,
		},
		{
			DenialRecord: model.DenialRecord{CodeDisplay: "CO-197", Amount: 600},
			Description:  "Authorization absent.",
			Status:       model.StatusFatalPrevention,
		},
		{
			DenialRecord: model.DenialRecord{CodeDisplay: "PR-1", Amount: 30},
			Description:  "Deductible Amount",
			Status:       model.StatusPatientResponsibility,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRecords())

	assert.Equal(t, 5, s.Records)
	assert.Equal(t, 1030.0, s.TotalDenied)
	// Fixable (150) + rescue (250); fatal prevention never counts.
	assert.Equal(t, 400.0, s.Recoverable)

	require.Len(t, s.Statuses, 4)
	assert.Equal(t, model.StatusFixable, s.Statuses[0].Status, "status buckets follow display order")
	assert.Equal(t, 2, s.Statuses[0].Count)
	assert.Equal(t, 150.0, s.Statuses[0].Amount)

	require.Len(t, s.TopCodes, 4)
	assert.Equal(t, "CO-197", s.TopCodes[0].Code, "codes ranked by denied amount")
	assert.Equal(t, "PR-29", s.TopCodes[1].Code)
	assert.Equal(t, "CO-16", s.TopCodes[2].Code)
	assert.Equal(t, 2, s.TopCodes[2].Count)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Records)
	assert.Equal(t, 0.0, s.TotalDenied)
	assert.Empty(t, s.Statuses)
	assert.Empty(t, s.TopCodes)
}

func TestSummarizeTopCodesCapped(t *testing.T) {
	var recs []model.EnrichedRecord
	for i := 0; i < 15; i++ {
		recs = append(recs, model.EnrichedRecord{
			DenialRecord: model.DenialRecord{
				CodeDisplay: "CO-" + string(rune('A'+i)),
				Amount:      float64(i + 1),
			},
			Status: model.StatusFixable,
		})
	}

	s := Summarize(recs)
	assert.Len(t, s.TopCodes, topCodeLimit)
	assert.Equal(t, 15.0, s.TopCodes[0].Amount)
}

func TestWriteDetailCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailCSV(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Recommended Action")
	assert.Contains(t, lines[1], "SMITH JANE")
	assert.Contains(t, lines[1], "100.00")
	assert.Contains(t, lines[1], "Recoverable (Priority)")
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, Summarize(testRecords())))

	out := buf.String()
	assert.Contains(t, out, "Recoverable (Priority),2,150.00")
	assert.Contains(t, out, "Total Denied,5,1030.00")
	assert.Contains(t, out, "Recoverable,,400.00")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "Velden Health Partners", Summarize(testRecords())))

	out := buf.String()
	assert.Contains(t, out, "Velden Health Partners")
	assert.Contains(t, out, "$400.00")
	assert.Contains(t, out, "$1,030.00")
	assert.Contains(t, out, "CO-197")
	assert.Contains(t, out, "5 denials analyzed")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "0.00", humanize(0))
	assert.Equal(t, "999.50", humanize(999.5))
	assert.Equal(t, "1,030.00", humanize(1030))
	assert.Equal(t, "1,234,567.89", humanize(1234567.89))
}
