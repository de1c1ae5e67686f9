package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/cartpilot/backend/internal/domain"
)

// PostgresHistory persists search records to PostgreSQL.
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use history writer.
func NewPostgresHistory(dsn string) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	h := &PostgresHistory{db: db}
	if err := h.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return h, nil
}

func (h *PostgresHistory) migrate() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS search_history (
			id           SERIAL PRIMARY KEY,
			session_id   VARCHAR(128) NOT NULL,
			query        TEXT         NOT NULL,
			budget       NUMERIC(10,2) NOT NULL DEFAULT 0,
			result_count INTEGER      NOT NULL DEFAULT 0,
			top_result   TEXT         NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_search_history_session ON search_history(session_id);
		CREATE INDEX IF NOT EXISTS idx_search_history_created ON search_history(created_at);
	`)
	return err
}

// Save inserts one search record.
func (h *PostgresHistory) Save(ctx context.Context, rec *domain.SearchRecord) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO search_history (session_id, query, budget, result_count, top_result)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.SessionID, rec.Query, rec.Budget, rec.ResultCount, rec.TopResult)
	if err != nil {
		return fmt.Errorf("postgres: save search record: %w", err)
	}
	return nil
}

// Recent retrieves the latest records for a session, newest first.
func (h *PostgresHistory) Recent(ctx context.Context, sessionID string, limit int) ([]*domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT session_id, query, budget, result_count, top_result
		FROM search_history
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	var records []*domain.SearchRecord
	for rows.Next() {
		rec := &domain.SearchRecord{}
		if err := rows.Scan(&rec.SessionID, &rec.Query, &rec.Budget, &rec.ResultCount, &rec.TopResult); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (h *PostgresHistory) Close() error {
	return h.db.Close()
}
