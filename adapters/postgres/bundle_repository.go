// Package postgres persists finished analysis runs. Persistence is
// optional: the CLI only wires this adapter when DATABASE_URL is set.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/internal/errors"
	"renastat/ports"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY,
	dataset    TEXT NOT NULL,
	records    INTEGER NOT NULL,
	bundle     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// Connect opens a Postgres connection and ensures the runs table exists
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure analysis_runs table")
	}
	return db, nil
}

// bundleRepository implements ports.BundleRepository
type bundleRepository struct {
	db *sqlx.DB
}

// NewBundleRepository creates a new bundle repository
func NewBundleRepository(db *sqlx.DB) ports.BundleRepository {
	return &bundleRepository{db: db}
}

// Save inserts a finished run; replaying the same run ID is an error
func (r *bundleRepository) Save(ctx context.Context, bundle *analysis.ResultBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return errors.Wrap(err, "failed to marshal bundle")
	}

	query := `INSERT INTO analysis_runs (id, dataset, records, bundle, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err = r.db.ExecContext(ctx, query,
		bundle.RunID.String(), bundle.Dataset, bundle.Records, payload, bundle.CreatedAt.Time())
	if err != nil {
		return errors.Wrap(err, "failed to insert analysis run")
	}
	return nil
}

// GetByID loads a stored run by its ID
func (r *bundleRepository) GetByID(ctx context.Context, runID core.RunID) (*analysis.ResultBundle, error) {
	query := `SELECT bundle FROM analysis_runs WHERE id = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, runID.String()).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("analysis run " + runID.String())
		}
		return nil, errors.Wrap(err, "failed to load analysis run")
	}

	var bundle analysis.ResultBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal bundle")
	}
	return &bundle, nil
}
