// Package store keeps a SQLite catalog of the translation models this
// installation has loaded: load attempts, their latency, and how often each
// model was used. Source and translated texts are never stored.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	StatusLoaded = "loaded"
	StatusFailed = "failed"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; the web server records from many goroutines.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS model_loads (
		id TEXT PRIMARY KEY,
		model_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		latency_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- models holds one row per identifier that has been requested at least once
	CREATE TABLE IF NOT EXISTS models (
		model_id TEXT PRIMARY KEY,
		load_count INTEGER DEFAULT 0,
		failure_count INTEGER DEFAULT 0,
		use_count INTEGER DEFAULT 0,
		last_error TEXT,
		last_loaded TIMESTAMP,
		last_used TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_loads_model ON model_loads(model_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordLoad stores the outcome of one engine load attempt. A failed attempt
// is kept for reporting only.
func (s *Store) RecordLoad(ctx context.Context, modelID string, latency time.Duration, loadErr error) error {
	status, errMsg := StatusLoaded, ""
	if loadErr != nil {
		status, errMsg = StatusFailed, loadErr.Error()
	}
	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO model_loads (id, model_id, status, error, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), modelID, status, errMsg, latency.Milliseconds(), now); err != nil {
		return err
	}

	if loadErr != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO models (model_id, failure_count, last_error, created_at) VALUES (?, 1, ?, ?)
			 ON CONFLICT(model_id) DO UPDATE SET failure_count = failure_count + 1, last_error = excluded.last_error`,
			modelID, errMsg, now)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO models (model_id, load_count, last_loaded, created_at) VALUES (?, 1, ?, ?)
			 ON CONFLICT(model_id) DO UPDATE SET load_count = load_count + 1, last_loaded = excluded.last_loaded`,
			modelID, now, now)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RecordUse counts one successful translation served by modelID.
func (s *Store) RecordUse(ctx context.Context, modelID string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (model_id, use_count, last_used, created_at) VALUES (?, 1, ?, ?)
		 ON CONFLICT(model_id) DO UPDATE SET use_count = use_count + 1, last_used = excluded.last_used`,
		modelID, now, now)
	return err
}

// ModelEntry is a row from the models table.
type ModelEntry struct {
	ModelID      string
	LoadCount    int
	FailureCount int
	UseCount     int
	LastError    string
	LastLoaded   *time.Time
	LastUsed     *time.Time
}

// CatalogStats summarises the model catalog.
type CatalogStats struct {
	Models       int
	Loads        int
	FailedLoads  int
	Translations int
	AvgLoadMs    float64
}

// LoadEntry is a row from the model_loads table.
type LoadEntry struct {
	ID        string
	ModelID   string
	Status    string
	Error     string
	LatencyMs int64
	CreatedAt time.Time
}

// ListModels returns all catalog entries, most used first.
func (s *Store) ListModels(ctx context.Context) ([]ModelEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_id, load_count, failure_count, use_count, COALESCE(last_error, ''), last_loaded, last_used
		 FROM models ORDER BY use_count DESC, model_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ModelEntry
	for rows.Next() {
		var e ModelEntry
		var lastLoaded, lastUsed sql.NullTime
		if err := rows.Scan(&e.ModelID, &e.LoadCount, &e.FailureCount, &e.UseCount, &e.LastError, &lastLoaded, &lastUsed); err != nil {
			return nil, err
		}
		if lastLoaded.Valid {
			e.LastLoaded = &lastLoaded.Time
		}
		if lastUsed.Valid {
			e.LastUsed = &lastUsed.Time
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// ListLoads returns the load attempts for modelID, newest first.
func (s *Store) ListLoads(ctx context.Context, modelID string) ([]LoadEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model_id, status, COALESCE(error, ''), latency_ms, created_at
		 FROM model_loads WHERE model_id = ? ORDER BY created_at DESC`, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []LoadEntry
	for rows.Next() {
		var e LoadEntry
		if err := rows.Scan(&e.ID, &e.ModelID, &e.Status, &e.Error, &e.LatencyMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the catalog.
func (s *Store) Stats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM models),
			(SELECT COUNT(*) FROM model_loads),
			(SELECT COUNT(*) FROM model_loads WHERE status = 'failed'),
			(SELECT COALESCE(SUM(use_count), 0) FROM models),
			(SELECT COALESCE(AVG(latency_ms), 0) FROM model_loads WHERE status = 'loaded')`).Scan(
		&stats.Models,
		&stats.Loads,
		&stats.FailedLoads,
		&stats.Translations,
		&stats.AvgLoadMs,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteModel removes a model and its load history from the catalog.
func (s *Store) DeleteModel(ctx context.Context, modelID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM model_loads WHERE model_id = ?`, modelID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM models WHERE model_id = ?`, modelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("model not in catalog: %s", modelID)
	}
	return tx.Commit()
}

// Clear removes all catalog entries and returns the number of models removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM model_loads`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM models`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
