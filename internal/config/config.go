// Package config provides configuration loading and structs for the Prashna server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Cascade     CascadeConfig     `yaml:"cascade"`
	Synthesizer SynthesizerConfig `yaml:"synthesizer"`
	QueryLog    QueryLogConfig    `yaml:"query_log"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Watch       WatchConfig       `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CorpusConfig holds knowledge corpus locations and chunking settings.
type CorpusConfig struct {
	CuratedDir    string `yaml:"curated_dir"`
	DocumentsDir  string `yaml:"documents_dir"`
	MinChunkChars int    `yaml:"min_chunk_chars"`
	// VectorCacheDir, when set, persists each tier's embedding vectors so an
	// unchanged corpus is not re-embedded on restart.
	VectorCacheDir string `yaml:"vector_cache_dir"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// TierConfig holds the two thresholds and candidate count for one tier.
// DirectThreshold is the minimum top-1 confidence for answering without
// synthesis; RetrievalThreshold is the lower bar for feeding weak matches
// into synthesis context. DirectThreshold must be >= RetrievalThreshold.
type TierConfig struct {
	DirectThreshold    float64 `yaml:"direct_threshold"`
	RetrievalThreshold float64 `yaml:"retrieval_threshold"`
	TopK               int     `yaml:"top_k"`
}

// CascadeConfig holds per-tier cascade settings.
type CascadeConfig struct {
	Curated   TierConfig `yaml:"curated"`
	Documents TierConfig `yaml:"documents"`
}

// SynthesizerConfig holds the generative fallback endpoint settings.
// BaseURL points at any OpenAI-compatible chat completion API (Ollama
// exposes one at http://localhost:11434/v1).
type SynthesizerConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Temperature    float32 `yaml:"temperature"`
}

// Timeout returns the synthesizer call timeout as a duration.
func (s *SynthesizerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// QueryLogConfig holds query log sink settings. FilePath is the append-only
// text sink; DatabasePath optionally adds a SQLite sink used for stats.
type QueryLogConfig struct {
	FilePath     string `yaml:"file_path"`
	DatabasePath string `yaml:"database_path"`
}

// SuggestionsConfig controls related-question suggestions on rejections.
// Disabled by default so the rejection text stays byte-stable.
type SuggestionsConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// WatchConfig controls corpus directory watching and rebuild.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands paths relative to the config file's directory.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Corpus.CuratedDir = expandPath(cfg.Corpus.CuratedDir, configDir)
	cfg.Corpus.DocumentsDir = expandPath(cfg.Corpus.DocumentsDir, configDir)
	if cfg.Corpus.VectorCacheDir != "" {
		cfg.Corpus.VectorCacheDir = expandPath(cfg.Corpus.VectorCacheDir, configDir)
	}
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.QueryLog.FilePath = expandPath(cfg.QueryLog.FilePath, configDir)
	if cfg.QueryLog.DatabasePath != "" {
		cfg.QueryLog.DatabasePath = expandPath(cfg.QueryLog.DatabasePath, configDir)
	}

	return &cfg, nil
}

// Validate checks threshold ordering for both tiers. A retrieval threshold
// above the direct threshold would let weak matches answer directly.
func Validate(cfg *Config) error {
	for name, tier := range map[string]TierConfig{
		"curated":   cfg.Cascade.Curated,
		"documents": cfg.Cascade.Documents,
	} {
		if tier.DirectThreshold < tier.RetrievalThreshold {
			return fmt.Errorf("cascade.%s: direct_threshold %.2f below retrieval_threshold %.2f",
				name, tier.DirectThreshold, tier.RetrievalThreshold)
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
