package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velden-health/denial-audit/internal/model"
)

func TestAutoClassifyWaterfall(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want model.RecoverabilityStatus
	}{
		{"deductible", "Deductible Amount", model.StatusPatientResponsibility},
		{"coinsurance", "Coinsurance Amount", model.StatusPatientResponsibility},
		{"timely filing", "The time limit for filing has expired.", model.StatusRescueCandidate},
		{"filing deadline", "Claim received after the filing deadline.", model.StatusRescueCandidate},
		{"auth excluded from rescue", "Time limit exceeded because authorization was not requested.", model.StatusFatalPrevention},
		{"prior auth", "Prior authorization number is required.", model.StatusFatalPrevention},
		{"precert", "Precertification absent.", model.StatusFatalPrevention},
		{"duplicate", "Duplicate claim/service.", model.StatusUnrecoverable},
		{"lifetime max", "Lifetime benefit maximum has been reached.", model.StatusUnrecoverable},
		{"experimental", "Procedure is experimental/investigational.", model.StatusUnrecoverable},
		{"fee schedule", "Charge exceeds fee schedule.", model.StatusContractual},
		{"bundled", "Payment is bundled into another service.", model.StatusContractual},
		{"missing info", "Claim lacks required information.", model.StatusFixable},
		{"modifier", "Procedure modifier was invalid on the date of service.", model.StatusFixable},
		{"npi", "NPI not on file.", model.StatusFixable},
		{"no match", "Payment adjusted due to weather event.", model.StatusReviewRequired},
		{"empty description", "", model.StatusReviewRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := autoClassify(tt.desc)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestAutoClassifyPriorityOrder(t *testing.T) {
	// Patient cost-share outranks the correctable-error keywords even when
	// both match.
	got := autoClassify("Patient responsibility: missing deductible information.")
	assert.Equal(t, model.StatusPatientResponsibility, got.Status)

	// Policy limits outrank contractual language.
	got = autoClassify("Maximum allowance under the fee schedule was exhausted.")
	assert.Equal(t, model.StatusUnrecoverable, got.Status)
}

func TestAutoClassifyPreservesDescription(t *testing.T) {
	got := autoClassify("Charge exceeds fee schedule.")
	assert.Equal(t, "Charge exceeds fee schedule.", got.Description)
	assert.Equal(t, "Standard contractual adjustment", got.Action)
	if assert.NotNil(t, got.Fixable) {
		assert.False(t, *got.Fixable)
	}
}

func TestRuleOrderIsStable(t *testing.T) {
	// The waterfall order is a contract; a reorder silently changes money
	// totals downstream.
	wantOrder := []model.RecoverabilityStatus{
		model.StatusPatientResponsibility,
		model.StatusRescueCandidate,
		model.StatusFatalPrevention,
		model.StatusUnrecoverable,
		model.StatusContractual,
		model.StatusFixable,
	}

	assert.Len(t, classificationRules, len(wantOrder))
	for i, rule := range classificationRules {
		assert.Equal(t, wantOrder[i], rule.status, "rule %d (%s)", i, rule.name)
	}
}
