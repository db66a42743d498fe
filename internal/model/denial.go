package model

// RecoverabilityStatus is the classification verdict attached to a reason
// code. It drives the financial roll-up in reports: only Fixable and
// RescueCandidate amounts count toward recoverable revenue.
type RecoverabilityStatus string

const (
	StatusFixable               RecoverabilityStatus = "FIXABLE"
	StatusRescueCandidate       RecoverabilityStatus = "RESCUE_CANDIDATE"
	StatusFatalPrevention       RecoverabilityStatus = "FATAL_PREVENTION"
	StatusPartiallyRecoverable  RecoverabilityStatus = "PARTIALLY_RECOVERABLE"
	StatusUnrecoverable         RecoverabilityStatus = "UNRECOVERABLE"
	StatusPatientResponsibility RecoverabilityStatus = "PATIENT_RESPONSIBILITY"
	StatusContractual           RecoverabilityStatus = "CONTRACTUAL"
	StatusReviewRequired        RecoverabilityStatus = "REVIEW_REQUIRED"
)

// Statuses lists every valid status, in report display order.
var Statuses = []RecoverabilityStatus{
	StatusFixable,
	StatusRescueCandidate,
	StatusFatalPrevention,
	StatusPartiallyRecoverable,
	StatusUnrecoverable,
	StatusPatientResponsibility,
	StatusContractual,
	StatusReviewRequired,
}

// Label returns the client-facing display label for a status.
func (s RecoverabilityStatus) Label() string {
	switch s {
	case StatusFixable:
		return "Recoverable (Priority)"
	case StatusRescueCandidate:
		return "Rescue Candidate (HFS 1624)"
	case StatusFatalPrevention:
		return "Fatal (Prevention Required)"
	case StatusPartiallyRecoverable:
		return "Conditionally Recoverable"
	case StatusUnrecoverable:
		return "Process Failure"
	case StatusPatientResponsibility:
		return "Patient Balance"
	case StatusContractual:
		return "Contractual Write-off"
	case StatusReviewRequired:
		return "Review Required"
	default:
		return string(s)
	}
}

// Recoverable reports whether denials with this status count toward the
// recoverable-revenue total. Only priority fixes and timely-filing rescues
// qualify; authorization denials (FatalPrevention) never do.
func (s RecoverabilityStatus) Recoverable() bool {
	return s == StatusFixable || s == StatusRescueCandidate
}

// ReasonCodeEntry is the classification matrix value for one reason code.
type ReasonCodeEntry struct {
	Status      RecoverabilityStatus `json:"status"`
	Category    string               `json:"category"`
	Fixable     *bool                `json:"fixable"`
	Action      string               `json:"action"`
	Description string               `json:"description,omitempty"`
}

// DenialRecord is one qualifying adjustment extracted from a remittance
// file or denial export. Immutable once emitted by the scanner.
type DenialRecord struct {
	Filename    string  `json:"filename"`
	Patient     string  `json:"patient"`
	ClaimID     string  `json:"claim_id"`
	ServiceDate string  `json:"service_date"`
	GroupCode   string  `json:"group_code"`
	ReasonCode  string  `json:"reason_code"`
	CodeDisplay string  `json:"code_display"`
	Amount      float64 `json:"amount"`
	Remark      string  `json:"rarc,omitempty"`
}

// EnrichedRecord is a DenialRecord joined with reference descriptions and
// its recoverability classification.
type EnrichedRecord struct {
	DenialRecord
	Description       string               `json:"description"`
	RemarkDescription string               `json:"remark_description,omitempty"`
	Status            RecoverabilityStatus `json:"status"`
	Action            string               `json:"action"`
}

// TrainingRecord is the de-identified row persisted to the training store.
// It carries no patient name, claim ID, or service date; the claim hash is
// a one-way digest used only for duplicate detection.
type TrainingRecord struct {
	Payer      string               `json:"payer_name"`
	CPTCode    string               `json:"cpt_code"`
	State      string               `json:"state"`
	DenialCode string               `json:"denial_code"`
	RemarkCode string               `json:"rarc_code"`
	Status     RecoverabilityStatus `json:"recoverability_status"`
	Amount     float64              `json:"adjustment_amount"`
	ClaimHash  string               `json:"claim_hash"`
}

// PayerStat is an aggregate row from the training store.
type PayerStat struct {
	Payer       string  `json:"payer_name"`
	DenialCode  string  `json:"denial_code"`
	Count       int     `json:"total_denials"`
	TotalDenied float64 `json:"total_denied"`
	AvgDenial   float64 `json:"avg_denial"`
}
