package querylog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/models"
)

// SQLiteSink stores records in a SQLite database and can tally them for
// the stats endpoint.
type SQLiteSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteSink opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteSink(dbPath string, logger *zap.Logger) (*SQLiteSink, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSink{db: db, logger: logger}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_records (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		tier TEXT NOT NULL,
		confidence REAL NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_query_records_status ON query_records(status);
	CREATE INDEX IF NOT EXISTS idx_query_records_created_at ON query_records(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Append inserts one record. Insert errors are logged and swallowed.
func (s *SQLiteSink) Append(ctx context.Context, rec models.QueryLogRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_records (id, query, tier, confidence, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Tier, rec.Confidence, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		s.logger.Warn("query record insert failed", zap.Error(err))
	}
}

// Stats tallies recorded queries by status and tier.
func (s *SQLiteSink) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByStatus: make(map[string]int64),
		ByTier:   make(map[string]int64),
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM query_records`).Scan(&stats.Total); err != nil {
		return Stats{}, err
	}

	if err := s.tally(ctx, `SELECT status, COUNT(*) FROM query_records GROUP BY status`, stats.ByStatus); err != nil {
		return Stats{}, err
	}
	if err := s.tally(ctx, `SELECT tier, COUNT(*) FROM query_records GROUP BY tier`, stats.ByTier); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func (s *SQLiteSink) tally(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

// Recent returns the most recent records, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]models.QueryLogRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, tier, confidence, status, created_at
		 FROM query_records ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.QueryLogRecord
	for rows.Next() {
		var rec models.QueryLogRecord
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Tier, &rec.Confidence, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
