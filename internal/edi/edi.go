// Package edi extracts denial line items from 835 remittance advice text.
//
// The scanner is a best-effort extractor, not a full X12 decoder: it walks
// the flat segment stream in document order, tracks the current
// claim/patient/service-date context, expands CAS adjustment triplets, and
// associates each qualifying adjustment with the nearest following LQ
// remark code. Malformed segments never abort a scan; they simply yield
// fewer usable fields.
package edi

import "strings"

// Segment terminator and field separator for the 835 wire format. Newlines
// are treated as equivalent to the terminator before splitting.
const (
	segmentTerminator = "~"
	fieldSeparator    = "*"
)

// Segment identifiers the scanner consumes. Everything else is ignored,
// except that CAS, CLP, and SE also end a remark lookahead early.
const (
	segClaimStart = "CLP"
	segName       = "NM1"
	segDate       = "DTM"
	segAdjustment = "CAS"
	segRemark     = "LQ"
	segTrailer    = "SE"
)

const (
	qualifierPatient     = "QC"
	qualifierServiceDate = "232"
)

// Tokenize splits raw remittance text into trimmed, non-empty segments.
// Carriage returns are dropped and newlines are normalized to the segment
// terminator first, so both `~`-delimited and line-delimited files work.
func Tokenize(text string) []string {
	normalized := strings.NewReplacer("\n", segmentTerminator, "\r", "").Replace(text)

	raw := strings.Split(normalized, segmentTerminator)
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Fields splits a segment into its fields. Field 0 is the segment
// identifier; callers must check the field count before indexing further.
func Fields(segment string) []string {
	return strings.Split(segment, fieldSeparator)
}
