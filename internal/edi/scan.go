package edi

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/model"
)

// notAvailable is the sentinel for context fields no segment has set yet.
const notAvailable = "N/A"

// patientMaxLen bounds the patient name carried on a denial record.
const patientMaxLen = 50

// remarkLookahead bounds how many segments past an adjustment the scanner
// searches for the associated LQ remark. Remarks are expected immediately
// after their adjustment within the same claim loop; the bound keeps the
// search from leaking into an unrelated claim's remarks.
const remarkLookahead = 10

// allowedGroups is the adjustment group-code allow-set. Adjustments in any
// other group are skipped without a record.
var allowedGroups = map[string]bool{
	"CO": true, // contractual obligation
	"PR": true, // patient responsibility
	"OA": true, // other adjustment
	"PI": true, // payer initiated
	"CR": true, // correction/reversal
}

// contractualReasons are expected contract terms, not billing errors worth
// auditing. The matrix classifies the same three codes as contractual;
// both lists are kept independently on purpose.
var contractualReasons = map[string]bool{
	"45": true,
	"97": true,
	"59": true,
}

// Options tunes scanner behavior.
type Options struct {
	// StrictClaimReset resets patient and service date whenever a new CLP
	// segment starts a claim. Off by default: the baseline behavior carries
	// both across claims until the next NM1/DTM overwrites them, and
	// certification runs compare against that baseline.
	StrictClaimReset bool
}

// Scanner extracts denial records from remittance text. The zero value is
// ready to use.
type Scanner struct {
	opts Options
}

// NewScanner creates a Scanner with the given options.
func NewScanner(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// scanContext is the mutable claim/patient/date state carried while
// walking a file's segments.
type scanContext struct {
	claimID     string
	patient     string
	serviceDate string
}

func newScanContext() scanContext {
	return scanContext{
		claimID:     notAvailable,
		patient:     notAvailable,
		serviceDate: notAvailable,
	}
}

// Scan walks one file's segments and returns its denial records in
// document order. It never fails: malformed segments and triplets are
// skipped at the smallest possible granularity.
func (s *Scanner) Scan(text, filename string) []model.DenialRecord {
	segments := Tokenize(text)
	ctx := newScanContext()

	var records []model.DenialRecord
	for i, segment := range segments {
		fields := Fields(segment)

		switch fields[0] {
		case segClaimStart:
			if len(fields) >= 2 {
				ctx.claimID = fields[1]
				if s.opts.StrictClaimReset {
					ctx.patient = notAvailable
					ctx.serviceDate = notAvailable
				}
			}
		case segName:
			if len(fields) >= 4 && fields[1] == qualifierPatient {
				ctx.patient = fields[3]
				if len(fields) > 4 && fields[4] != "" {
					ctx.patient = fields[3] + " " + fields[4]
				}
			}
		case segDate:
			if len(fields) >= 3 && fields[1] == qualifierServiceDate {
				ctx.serviceDate = fields[2]
			}
		case segAdjustment:
			if len(fields) >= 4 {
				records = append(records, s.extractAdjustments(segments, i, fields, ctx, filename)...)
			}
		}
	}

	zap.L().Debug("edi: scan complete",
		zap.String("file", filename),
		zap.Int("segments", len(segments)),
		zap.Int("records", len(records)),
	)
	return records
}

// extractAdjustments expands one CAS segment's (reason, amount, quantity)
// triplets into denial records. The quantity slot is unread but must be
// skipped to realign the cursor.
func (s *Scanner) extractAdjustments(segments []string, idx int, fields []string, ctx scanContext, filename string) []model.DenialRecord {
	group := fields[1]

	var records []model.DenialRecord
	for j := 2; j+1 < len(fields); j += 3 {
		reason := fields[j]
		amount := parseAmount(fields[j+1])

		if reason == "" || !allowedGroups[group] {
			continue
		}
		if contractualReasons[reason] {
			// Expected contract terms, not denials worth auditing.
			continue
		}

		records = append(records, model.DenialRecord{
			Filename:    filename,
			Patient:     truncate(ctx.patient, patientMaxLen),
			ClaimID:     ctx.claimID,
			ServiceDate: ctx.serviceDate,
			GroupCode:   group,
			ReasonCode:  reason,
			CodeDisplay: group + "-" + reason,
			Amount:      amount,
			Remark:      findRemark(segments, idx),
		})
	}
	return records
}

// findRemark scans forward from the adjustment at idx for the first LQ
// segment, bounded by remarkLookahead. A new adjustment, claim start, or
// transaction trailer ends the search with no remark attached.
func findRemark(segments []string, idx int) string {
	limit := idx + remarkLookahead
	if limit > len(segments)-1 {
		limit = len(segments) - 1
	}

	for k := idx + 1; k <= limit; k++ {
		fields := Fields(segments[k])
		if fields[0] == segRemark && len(fields) >= 3 {
			return fields[2]
		}
		if fields[0] == segAdjustment || fields[0] == segClaimStart || fields[0] == segTrailer {
			break
		}
	}
	return ""
}

// parseAmount parses a monetary field, stripping currency symbols and
// thousands separators. Unparseable or empty input yields 0 rather than an
// error so the denial itself stays visible; the sign is discarded because
// adjustments always reduce payment.
func parseAmount(field string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(field))
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
