package matrix

import "github.com/velden-health/denial-audit/internal/model"

var (
	yes = boolPtr(true)
	no  = boolPtr(false)
)

func boolPtr(b bool) *bool { return &b }

func entry(status model.RecoverabilityStatus, category string, fixable *bool, action string) model.ReasonCodeEntry {
	return model.ReasonCodeEntry{Status: status, Category: category, Fixable: fixable, Action: action}
}

// manualClassifications are curated, high-confidence verdicts that always
// beat keyword inference. Code 29 (timely filing) is forced to rescue even
// though its description can mention authorization; 197/198/39 are forced
// fatal because authorization denials have no rework path; 45/97/59 are
// forced contractual and are also excluded outright at the extractor, as a
// second independent safety net.
var manualClassifications = map[string]model.ReasonCodeEntry{
	// Patient responsibility.
	"1":  entry(model.StatusPatientResponsibility, "Deductible", no, "Bill patient for deductible amount"),
	"2":  entry(model.StatusPatientResponsibility, "Coinsurance", no, "Bill patient for coinsurance amount"),
	"3":  entry(model.StatusPatientResponsibility, "Copay", no, "Bill patient for copay amount"),
	"66": entry(model.StatusPatientResponsibility, "Blood Deductible", no, "Bill patient"),

	// Priority recovery: correct and resubmit.
	"4":   entry(model.StatusFixable, "Modifier Error", yes, "Correct modifier settings in EHR and resubmit"),
	"5":   entry(model.StatusFixable, "Place of Service", yes, "Update POS code and resubmit"),
	"6":   entry(model.StatusFixable, "Age Inconsistency", yes, "Verify patient DOB and resubmit"),
	"7":   entry(model.StatusFixable, "Gender Inconsistency", yes, "Verify patient gender and resubmit"),
	"8":   entry(model.StatusFixable, "Taxonomy Error", yes, "Update provider taxonomy code in EHR"),
	"9":   entry(model.StatusFixable, "Diagnosis Age", yes, "Review diagnosis for age appropriateness"),
	"10":  entry(model.StatusFixable, "Diagnosis Gender", yes, "Review diagnosis for gender coding"),
	"11":  entry(model.StatusFixable, "Diagnosis/Procedure", yes, "Match diagnosis to procedure code"),
	"12":  entry(model.StatusFixable, "Provider Type", yes, "Update provider credentials"),
	"15":  entry(model.StatusFixable, "Modifier Error", yes, "Update or match modifier to procedure code"),
	"16":  entry(model.StatusFixable, "Missing Info", yes, "Add missing claim information and resubmit"),
	"96":  entry(model.StatusFixable, "Non-Covered", yes, "Review coding alternatives"),
	"109": entry(model.StatusFixable, "Wrong Payer", yes, "Submit to correct payer"),
	"140": entry(model.StatusFixable, "ID Mismatch", yes, "Verify patient ID and name spelling"),
	"146": entry(model.StatusFixable, "Diagnosis Error", yes, "Update diagnosis code"),
	"167": entry(model.StatusFixable, "Diagnosis Issue", yes, "Review diagnosis coding"),
	"170": entry(model.StatusFixable, "Provider Type", yes, "Update provider type/specialty"),
	"171": entry(model.StatusFixable, "Facility Type", yes, "Update facility type"),
	"172": entry(model.StatusFixable, "Specialty", yes, "Update provider specialty"),
	"173": entry(model.StatusFixable, "Prescription", yes, "Obtain prescription documentation"),
	"181": entry(model.StatusFixable, "Procedure Invalid", yes, "Update procedure code"),
	"182": entry(model.StatusFixable, "Modifier Invalid", yes, "Correct modifier code"),
	"183": entry(model.StatusFixable, "Referring Provider", yes, "Add referring provider NPI"),
	"184": entry(model.StatusFixable, "Ordering Provider", yes, "Add ordering provider NPI"),
	"185": entry(model.StatusFixable, "Rendering Provider", yes, "Verify rendering provider credentials"),
	"199": entry(model.StatusFixable, "Revenue/Procedure", yes, "Match revenue code to procedure"),
	"206": entry(model.StatusFixable, "NPI Missing", yes, "Add provider NPI"),
	"207": entry(model.StatusFixable, "NPI Invalid", yes, "Correct NPI format"),
	"208": entry(model.StatusFixable, "NPI Mismatch", yes, "Update NPI enrollment"),
	"226": entry(model.StatusFixable, "Provider Info", yes, "Submit required provider documentation"),
	"227": entry(model.StatusFixable, "Patient Info", yes, "Submit required patient documentation"),
	"252": entry(model.StatusFixable, "Attachment Required", yes, "Submit required attachment"),
	"282": entry(model.StatusFixable, "Type of Bill", yes, "Correct type of bill code"),

	// Conditional recovery.
	"22": entry(model.StatusPartiallyRecoverable, "COB Issue", yes, "Verify coordination of benefits"),
	"31": entry(model.StatusPartiallyRecoverable, "Eligibility", yes, "Verify patient eligibility and resubmit"),

	// Contractual: normal business adjustments.
	"45": entry(model.StatusContractual, "Fee Schedule", no, "Contractual write-off per fee schedule"),
	"97": entry(model.StatusContractual, "Bundled", no, "Service bundled with primary procedure"),
	"59": entry(model.StatusContractual, "Multiple Procedure", no, "Multiple procedure reduction applied"),
	"44": entry(model.StatusContractual, "Prompt Pay", no, "Prompt pay discount applied"),

	// Rescue candidate: timely filing only.
	"29": entry(model.StatusRescueCandidate, "Timely Filing", yes, "HFS 1624 Override - Retroactive Eligibility Appeal"),

	// Fatal prevention: no rework path for authorization denials.
	"197": entry(model.StatusFatalPrevention, "Auth Missing", no, "Prevention: verify pre-cert requirements at scheduling"),
	"198": entry(model.StatusFatalPrevention, "Auth Exceeded", no, "Prevention: track authorization unit limits"),
	"39":  entry(model.StatusFatalPrevention, "Auth Denied", no, "Prevention: enforce pre-auth workflow"),

	// Unrecoverable: no recourse.
	"18":  entry(model.StatusUnrecoverable, "Duplicate", no, "Exact duplicate - already paid"),
	"26":  entry(model.StatusUnrecoverable, "Pre-Coverage", no, "Service before coverage effective date"),
	"27":  entry(model.StatusUnrecoverable, "Post-Coverage", no, "Service after coverage terminated"),
	"35":  entry(model.StatusUnrecoverable, "Lifetime Max", no, "Lifetime benefit exhausted"),
	"50":  entry(model.StatusUnrecoverable, "Medical Necessity", no, "Requires clinical appeal - low success rate"),
	"55":  entry(model.StatusUnrecoverable, "Experimental", no, "Experimental/investigational procedure"),
	"119": entry(model.StatusUnrecoverable, "Benefit Max", no, "Period benefit maximum reached"),
	"149": entry(model.StatusUnrecoverable, "Lifetime Max", no, "Lifetime service maximum reached"),
	"204": entry(model.StatusUnrecoverable, "Not Covered", no, "Service not covered under plan"),
}
