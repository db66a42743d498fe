// Package store persists de-identified denial rows for payer-behavior
// training. Only HIPAA-safe fields are stored: no patient names, claim
// IDs, or service dates ever reach the database; claims are tracked by a
// one-way hash used solely for duplicate detection.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/velden-health/denial-audit/internal/model"
)

// payerStatsLimit bounds the aggregate query used by the training CLI.
const payerStatsLimit = 100

// Store is the persistence interface for the training dataset.
type Store interface {
	// SaveRecords inserts new rows and reports how many were saved and how
	// many were skipped as duplicates of already-stored claims.
	SaveRecords(ctx context.Context, records []model.TrainingRecord) (saved, duplicates int, err error)

	// Count reports the training dataset size.
	Count(ctx context.Context) (int, error)

	// PayerStats aggregates denials by payer and code, highest denied
	// amount first.
	PayerStats(ctx context.Context) ([]model.PayerStat, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
