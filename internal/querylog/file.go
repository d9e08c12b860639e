package querylog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/models"
)

// FileSink appends human-readable lines to a text file. Appends are
// serialized so concurrent queries never interleave within a line.
type FileSink struct {
	mu     sync.Mutex
	file   *os.File
	logger *zap.Logger
}

// NewFileSink opens (or creates) the log file at path in append mode.
func NewFileSink(path string, logger *zap.Logger) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open query log: %w", err)
	}
	return &FileSink{file: f, logger: logger}, nil
}

// Append writes one line. Write errors are logged and swallowed.
func (s *FileSink) Append(ctx context.Context, rec models.QueryLogRecord) {
	line := fmt.Sprintf("Query: %s | Source: %s | Confidence: %.3f | Status: %s\n",
		rec.Query, rec.Tier, rec.Confidence, rec.Status)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.WriteString(line); err != nil {
		s.logger.Warn("query log write failed", zap.Error(err))
	}
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
