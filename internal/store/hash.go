package store

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/velden-health/denial-audit/internal/model"
)

// Meta carries batch-level attributes attached to every training row.
type Meta struct {
	Payer   string
	CPTCode string
	State   string
}

// AnonymizeClaim derives the one-way claim hash stored in place of PHI.
// The hash is stable across uploads (no date component) so the same claim
// dedupes no matter when it is resubmitted.
func AnonymizeClaim(patient, claimID string) string {
	if patient == "" || patient == "N/A" {
		sum := sha256.Sum256([]byte(claimID))
		return "ANON_" + hex.EncodeToString(sum[:])[:12]
	}
	sum := sha256.Sum256([]byte(patient + "_" + claimID))
	return hex.EncodeToString(sum[:])[:16]
}

// FromEnriched strips enriched records down to their HIPAA-safe training
// rows. Unset batch attributes default to "Unknown".
func FromEnriched(records []model.EnrichedRecord, meta Meta) []model.TrainingRecord {
	if meta.Payer == "" {
		meta.Payer = "Unknown"
	}
	if meta.CPTCode == "" {
		meta.CPTCode = "Unknown"
	}
	if meta.State == "" {
		meta.State = "Unknown"
	}

	rows := make([]model.TrainingRecord, 0, len(records))
	for _, r := range records {
		claimID := r.ClaimID
		if claimID == "" {
			claimID = "UNK"
		}
		status := r.Status
		if status == "" {
			status = model.StatusReviewRequired
		}
		rows = append(rows, model.TrainingRecord{
			Payer:      meta.Payer,
			CPTCode:    meta.CPTCode,
			State:      meta.State,
			DenialCode: r.CodeDisplay,
			RemarkCode: r.Remark,
			Status:     status,
			Amount:     r.Amount,
			ClaimHash:  AnonymizeClaim(r.Patient, claimID),
		})
	}
	return rows
}
