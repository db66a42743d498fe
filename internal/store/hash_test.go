package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velden-health/denial-audit/internal/model"
)

func TestAnonymizeClaim(t *testing.T) {
	h := AnonymizeClaim("SMITH JANE", "CLM001")
	assert.Len(t, h, 16)
	assert.Equal(t, h, AnonymizeClaim("SMITH JANE", "CLM001"), "hash is stable")
	assert.NotEqual(t, h, AnonymizeClaim("SMITH JANE", "CLM002"))
	assert.NotEqual(t, h, AnonymizeClaim("DOE JOHN", "CLM001"))
	assert.NotContains(t, h, "SMITH")
}

func TestAnonymizeClaimNoPatient(t *testing.T) {
	for _, patient := range []string{"", "N/A"} {
		h := AnonymizeClaim(patient, "CLM001")
		assert.True(t, strings.HasPrefix(h, "ANON_"), "got %s", h)
		assert.Len(t, h, len("ANON_")+12)
	}
	assert.Equal(t, AnonymizeClaim("", "CLM001"), AnonymizeClaim("N/A", "CLM001"))
}

func TestFromEnriched(t *testing.T) {
	recs := []model.EnrichedRecord{
		{
			DenialRecord: model.DenialRecord{
				Patient: "SMITH JANE", ClaimID: "CLM001", ServiceDate: "20250215",
				CodeDisplay: "CO-16", Amount: 100, Remark: "M143",
			},
			Status: model.StatusFixable,
		},
		{
			DenialRecord: model.DenialRecord{Patient: "N/A", CodeDisplay: "PR-29", Amount: 250},
		},
	}

	rows := FromEnriched(recs, Meta{Payer: "BCBS IL", State: "IL"})
	require.Len(t, rows, 2)

	assert.Equal(t, "BCBS IL", rows[0].Payer)
	assert.Equal(t, "IL", rows[0].State)
	assert.Equal(t, "Unknown", rows[0].CPTCode)
	assert.Equal(t, "CO-16", rows[0].DenialCode)
	assert.Equal(t, "M143", rows[0].RemarkCode)
	assert.Equal(t, model.StatusFixable, rows[0].Status)
	assert.Equal(t, AnonymizeClaim("SMITH JANE", "CLM001"), rows[0].ClaimHash)

	// Missing claim ID falls back to a stable sentinel; missing status
	// defaults to review-required.
	assert.Equal(t, AnonymizeClaim("N/A", "UNK"), rows[1].ClaimHash)
	assert.Equal(t, model.StatusReviewRequired, rows[1].Status)
}

func TestFromEnrichedCarriesNoPHI(t *testing.T) {
	recs := []model.EnrichedRecord{{
		DenialRecord: model.DenialRecord{
			Patient: "GARCIA MARIA", ClaimID: "CLM777", ServiceDate: "20250301",
			CodeDisplay: "CO-16", Amount: 50,
		},
		Status: model.StatusFixable,
	}}

	rows := FromEnriched(recs, Meta{})
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0].ClaimHash, "GARCIA")
	assert.NotContains(t, rows[0].ClaimHash, "CLM777")
}
