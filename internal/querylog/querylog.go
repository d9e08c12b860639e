// Package querylog records one entry per resolved query. Writes are
// best-effort: a failing sink must never block answer delivery.
package querylog

import (
	"context"

	"github.com/campusqa/prashna/internal/models"
)

// Logger appends query log records.
type Logger interface {
	Append(ctx context.Context, rec models.QueryLogRecord)
	Close() error
}

// Stats summarizes the recorded query history.
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByTier   map[string]int64 `json:"by_tier"`
}

// StatsProvider is implemented by sinks that can tally their records.
type StatsProvider interface {
	Stats(ctx context.Context) (Stats, error)
}

// Nop discards all records.
type Nop struct{}

func (Nop) Append(ctx context.Context, rec models.QueryLogRecord) {}
func (Nop) Close() error                                          { return nil }

// Tee fans records out to multiple sinks.
type Tee []Logger

func (t Tee) Append(ctx context.Context, rec models.QueryLogRecord) {
	for _, l := range t {
		l.Append(ctx, rec)
	}
}

func (t Tee) Close() error {
	var firstErr error
	for _, l := range t {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
