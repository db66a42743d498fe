package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/velden-health/denial-audit/internal/db"
	"github.com/velden-health/denial-audit/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use this with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS payer_performance (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	upload_date           TIMESTAMPTZ NOT NULL DEFAULT now(),
	payer_name            TEXT NOT NULL DEFAULT 'Unknown',
	cpt_code              TEXT NOT NULL DEFAULT 'Unknown',
	state                 TEXT NOT NULL DEFAULT 'Unknown',
	denial_code           TEXT NOT NULL,
	rarc_code             TEXT NOT NULL DEFAULT '',
	recoverability_status TEXT NOT NULL,
	adjustment_amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
	claim_hash            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payer_performance_claim_hash ON payer_performance(claim_hash);
CREATE INDEX IF NOT EXISTS idx_payer_performance_payer ON payer_performance(payer_name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// trainingColumns is the COPY column order used by SaveRecords.
var trainingColumns = []string{
	"id", "upload_date", "payer_name", "cpt_code", "state",
	"denial_code", "rarc_code", "recoverability_status", "adjustment_amount", "claim_hash",
}

// SaveRecords bulk-inserts rows whose claim hash is not already stored,
// using COPY. The duplicate check runs against persisted hashes only, the
// same batch semantics as the SQLite store.
func (s *PostgresStore) SaveRecords(ctx context.Context, records []model.TrainingRecord) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	existing, err := s.existingHashes(ctx)
	if err != nil {
		return 0, 0, err
	}

	now := time.Now().UTC()
	var rows [][]any
	duplicates := 0
	for _, r := range records {
		if existing[r.ClaimHash] {
			duplicates++
			continue
		}
		rows = append(rows, []any{
			uuid.New().String(), now, r.Payer, r.CPTCode, r.State,
			r.DenialCode, r.RemarkCode, string(r.Status), r.Amount, r.ClaimHash,
		})
	}

	n, err := db.CopyFrom(ctx, s.pool, "payer_performance", trainingColumns, rows)
	if err != nil {
		return 0, 0, eris.Wrap(err, "postgres: save training rows")
	}
	return int(n), duplicates, nil
}

func (s *PostgresStore) existingHashes(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT claim_hash FROM payer_performance`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load claim hashes")
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, eris.Wrap(err, "postgres: scan claim hash")
		}
		hashes[h] = true
	}
	return hashes, eris.Wrap(rows.Err(), "postgres: iterate claim hashes")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payer_performance`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count")
}

func (s *PostgresStore) PayerStats(ctx context.Context) ([]model.PayerStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payer_name, denial_code, COUNT(*) AS total_denials,
		        SUM(adjustment_amount) AS total_denied,
		        AVG(adjustment_amount) AS avg_denial
		 FROM payer_performance
		 GROUP BY payer_name, denial_code
		 ORDER BY total_denied DESC
		 LIMIT $1`,
		payerStatsLimit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: payer stats")
	}
	defer rows.Close()

	var stats []model.PayerStat
	for rows.Next() {
		var st model.PayerStat
		if err := rows.Scan(&st.Payer, &st.DenialCode, &st.Count, &st.TotalDenied, &st.AvgDenial); err != nil {
			return nil, eris.Wrap(err, "postgres: scan payer stat")
		}
		stats = append(stats, st)
	}
	return stats, eris.Wrap(rows.Err(), "postgres: payer stats iterate")
}
