package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velden-health/denial-audit/internal/edi"
	"github.com/velden-health/denial-audit/internal/matrix"
	"github.com/velden-health/denial-audit/internal/model"
)

func testEngine() *Engine {
	carc := map[string]string{
		"16":  "Claim/service lacks information or has submission/billing error(s).",
		"29":  "The time limit for filing has expired.",
		"50":  "These are non-covered services because this is not deemed a medical necessity.",
		"197": "Precertification/authorization/notification/pre-treatment absent.",
	}
	rarc := map[string]string{
		"M143": "The provider must update insurance information directly with payer.",
		"N30":  "Patient ineligible for this service.",
	}
	return New(matrix.BuildDefault(carc), carc, rarc, edi.Options{})
}

func TestProcessSingleFile(t *testing.T) {
	e := testEngine()
	text := "CLP*CLM100*4*500*0~" +
		"NM1*QC*1*SMITH*JANE~" +
		"DTM*232*20250215~" +
		"CAS*CO*16*100.00~" +
		"LQ*HE*M143~"

	recs := e.Process([]Input{{Name: "era1.835", Text: text}})
	require.Len(t, recs, 1)

	assert.Equal(t, "era1.835", recs[0].Filename)
	assert.Equal(t, "SMITH JANE", recs[0].Patient)
	assert.Equal(t, "CLM100", recs[0].ClaimID)
	assert.Equal(t, "20250215", recs[0].ServiceDate)
	assert.Equal(t, "CO-16", recs[0].CodeDisplay)
	assert.Equal(t, 100.0, recs[0].Amount)
	assert.Equal(t, "M143", recs[0].Remark)
}

func TestProcessPreservesFileOrder(t *testing.T) {
	e := testEngine()
	inputs := []Input{
		{Name: "b.835", Text: "CLP*B1*4*100*0~CAS*CO*16*10~"},
		{Name: "empty.835", Text: "ISA*00~GS*HP~"},
		{Name: "a.835", Text: "CLP*A1*4*100*0~CAS*PR*50*20~CLP*A2*4*100*0~CAS*CO*29*30~"},
	}

	recs := e.Process(inputs)
	require.Len(t, recs, 3)
	assert.Equal(t, "b.835", recs[0].Filename)
	assert.Equal(t, "a.835", recs[1].Filename)
	assert.Equal(t, "50", recs[1].ReasonCode)
	assert.Equal(t, "29", recs[2].ReasonCode)
}

func TestProcessExport(t *testing.T) {
	e := testEngine()
	in := "patient,claim,code,amount\nDOE JOHN,CLM9,29,250\n"

	recs, err := e.ProcessExport("worklist.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "worklist.csv", recs[0].Filename)
	assert.Equal(t, "29", recs[0].ReasonCode)
}

func TestEnrichJoinsReferenceAndMatrix(t *testing.T) {
	e := testEngine()
	recs := []model.DenialRecord{
		{ReasonCode: "16", Remark: "M143", Amount: 100},
		{ReasonCode: "29", Amount: 250},
		{ReasonCode: "197", Amount: 80},
	}

	enriched := e.Enrich(recs)
	require.Len(t, enriched, 3)

	assert.Equal(t, model.StatusFixable, enriched[0].Status)
	assert.Equal(t, "Add missing claim information and resubmit", enriched[0].Action)
	assert.Contains(t, enriched[0].Description, "lacks information")
	assert.Contains(t, enriched[0].RemarkDescription, "update insurance")

	assert.Equal(t, model.StatusRescueCandidate, enriched[1].Status)
	assert.Empty(t, enriched[1].RemarkDescription)

	assert.Equal(t, model.StatusFatalPrevention, enriched[2].Status)
}

func TestEnrichUnknownCodes(t *testing.T) {
	e := testEngine()
	recs := []model.DenialRecord{{ReasonCode: "9999", Remark: "Z999"}}

	enriched := e.Enrich(recs)
	require.Len(t, enriched, 1)
	assert.Equal(t, model.StatusReviewRequired, enriched[0].Status)
	assert.Equal(t, "Unknown", enriched[0].Description)
	assert.Equal(t, "Unknown Remark", enriched[0].RemarkDescription)
}

func TestEnrichTruncatesLongDescriptions(t *testing.T) {
	carc := map[string]string{"16": strings.Repeat("x", 200)}
	e := New(matrix.BuildDefault(carc), carc, nil, edi.Options{})

	enriched := e.Enrich([]model.DenialRecord{{ReasonCode: "16"}})
	require.Len(t, enriched, 1)
	assert.Len(t, enriched[0].Description, 80)
}

func TestFullDescription(t *testing.T) {
	r := model.EnrichedRecord{
		DenialRecord:      model.DenialRecord{Remark: "N30"},
		Description:       "Non-covered service.",
		RemarkDescription: "Patient ineligible for this service.",
	}
	assert.Equal(t, "Non-covered service. [N30: Patient ineligible for this service.]", FullDescription(r))

	r.Remark = ""
	assert.Equal(t, "Non-covered service.", FullDescription(r))
}

func TestEndToEndPipeline(t *testing.T) {
	e := testEngine()
	text := "ISA*00*          ~GS*HP~ST*835*0001~" +
		"CLP*CLM200*4*1200*0~" +
		"NM1*QC*1*GARCIA*MARIA~" +
		"DTM*232*20250301~" +
		"CAS*CO*45*900*1*16*150*1~" +
		"LQ*HE*N30~" +
		"CAS*PR*29*150~" +
		"SE*9*0001~"

	recs := e.Process([]Input{{Name: "e2e.835", Text: text}})
	// 45 is filtered as contractual; 16 and 29 survive.
	require.Len(t, recs, 2)

	enriched := e.Enrich(recs)
	assert.Equal(t, model.StatusFixable, enriched[0].Status)
	assert.Equal(t, "N30", enriched[0].Remark)
	assert.Equal(t, model.StatusRescueCandidate, enriched[1].Status)
	assert.Empty(t, enriched[1].Remark, "remark search stops at the next CAS boundary")

	for _, er := range enriched {
		assert.Equal(t, "GARCIA MARIA", er.Patient)
		assert.Equal(t, "CLM200", er.ClaimID)
	}
}
