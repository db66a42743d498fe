package matrix

import (
	"strings"

	"github.com/velden-health/denial-audit/internal/model"
)

// keywordRule maps description keywords to a recoverability verdict. Rules
// are evaluated top to bottom with first-match-wins semantics; a rule
// matches when the lowercased description contains any keyword and none of
// the excludes.
type keywordRule struct {
	name     string
	status   model.RecoverabilityStatus
	category string
	action   string
	fixable  *bool
	keywords []string
	excludes []string
}

// classificationRules is the keyword fallback used for codes with no
// manual override. Order is load-bearing: timely-filing must be tested
// before authorization so that filing-deadline language wins, but the
// authorization excludes keep auth denials out of the rescue bucket even
// when they also mention timing. Auth denials are terminal; the rescue
// path (HFS 1624 override) exists only for filing deadlines.
var classificationRules = []keywordRule{
	{
		name:     "patient cost share",
		status:   model.StatusPatientResponsibility,
		category: "Patient Balance",
		action:   "Bill patient for applicable amount",
		fixable:  no,
		keywords: []string{"deductible", "coinsurance", "copay", "co-pay", "patient responsibility"},
	},
	{
		name:     "timely filing",
		status:   model.StatusRescueCandidate,
		category: "Timely Filing",
		action:   "HFS 1624 Override Appeal",
		fixable:  yes,
		keywords: []string{"timely", "time limit", "filing deadline"},
		excludes: []string{"authorization", "precert"},
	},
	{
		name:     "authorization",
		status:   model.StatusFatalPrevention,
		category: "Authorization",
		action:   "Prevention: add pre-certification checks to intake workflow",
		fixable:  no,
		keywords: []string{"authorization", "precertification", "precert", "pre-cert", "prior auth"},
	},
	{
		name:     "policy limit",
		status:   model.StatusUnrecoverable,
		category: "Policy Limit",
		action:   "No recovery path available",
		fixable:  no,
		keywords: []string{"expired", "terminated", "maximum", "lifetime", "not covered", "experimental", "investigational", "duplicate"},
	},
	{
		name:     "contractual",
		status:   model.StatusContractual,
		category: "Contractual",
		action:   "Standard contractual adjustment",
		fixable:  no,
		keywords: []string{"fee schedule", "contractual", "bundled", "included in", "allowance"},
	},
	{
		name:     "correctable billing error",
		status:   model.StatusFixable,
		category: "Billing Issue",
		action:   "Correct and resubmit claim",
		fixable:  yes,
		keywords: []string{
			"missing", "invalid", "incomplete", "incorrect", "lacks",
			"not provided", "billing error", "submission error",
			"modifier", "taxonomy", "npi", "identifier", "provider",
			"diagnosis", "procedure code", "coding",
		},
	},
}

// autoClassify infers a classification from a code's official description.
// No match yields the review-required default.
func autoClassify(description string) model.ReasonCodeEntry {
	lower := strings.ToLower(description)

	for _, rule := range classificationRules {
		if containsAny(lower, rule.keywords) && !containsAny(lower, rule.excludes) {
			return model.ReasonCodeEntry{
				Status:      rule.status,
				Category:    rule.category,
				Fixable:     rule.fixable,
				Action:      rule.action,
				Description: description,
			}
		}
	}

	entry := defaultEntry()
	entry.Description = description
	return entry
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
