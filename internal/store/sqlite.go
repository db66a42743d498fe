package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/velden-health/denial-audit/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS payer_performance (
	id                    TEXT PRIMARY KEY,
	upload_date           DATETIME NOT NULL DEFAULT (datetime('now')),
	payer_name            TEXT NOT NULL DEFAULT 'Unknown',
	cpt_code              TEXT NOT NULL DEFAULT 'Unknown',
	state                 TEXT NOT NULL DEFAULT 'Unknown',
	denial_code           TEXT NOT NULL,
	rarc_code             TEXT NOT NULL DEFAULT '',
	recoverability_status TEXT NOT NULL,
	adjustment_amount     REAL NOT NULL DEFAULT 0,
	claim_hash            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payer_performance_claim_hash ON payer_performance(claim_hash);
CREATE INDEX IF NOT EXISTS idx_payer_performance_payer ON payer_performance(payer_name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecords inserts rows whose claim hash is not already stored. The
// duplicate check runs against persisted hashes only; rows within one
// batch that share a hash are all kept, matching upload-at-a-time
// semantics where a claim's multiple adjustments arrive together.
func (s *SQLiteStore) SaveRecords(ctx context.Context, records []model.TrainingRecord) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	existing, err := s.existingHashes(ctx)
	if err != nil {
		return 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	saved, duplicates := 0, 0
	for _, r := range records {
		if existing[r.ClaimHash] {
			duplicates++
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payer_performance
			 (id, upload_date, payer_name, cpt_code, state, denial_code, rarc_code, recoverability_status, adjustment_amount, claim_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), now, r.Payer, r.CPTCode, r.State,
			r.DenialCode, r.RemarkCode, string(r.Status), r.Amount, r.ClaimHash,
		)
		if err != nil {
			return 0, 0, eris.Wrap(err, "sqlite: insert training row")
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: commit save")
	}
	return saved, duplicates, nil
}

func (s *SQLiteStore) existingHashes(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT claim_hash FROM payer_performance`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load claim hashes")
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan claim hash")
		}
		hashes[h] = true
	}
	return hashes, eris.Wrap(rows.Err(), "sqlite: iterate claim hashes")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payer_performance`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count")
}

func (s *SQLiteStore) PayerStats(ctx context.Context) ([]model.PayerStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payer_name, denial_code, COUNT(*) AS total_denials,
		        SUM(adjustment_amount) AS total_denied,
		        AVG(adjustment_amount) AS avg_denial
		 FROM payer_performance
		 GROUP BY payer_name, denial_code
		 ORDER BY total_denied DESC
		 LIMIT ?`,
		payerStatsLimit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: payer stats")
	}
	defer rows.Close()

	var stats []model.PayerStat
	for rows.Next() {
		var st model.PayerStat
		if err := rows.Scan(&st.Payer, &st.DenialCode, &st.Count, &st.TotalDenied, &st.AvgDenial); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan payer stat")
		}
		stats = append(stats, st)
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: payer stats iterate")
}
