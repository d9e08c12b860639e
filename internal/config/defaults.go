package config

// ApplyDefaults sets default values for any zero values in cfg.
// Threshold defaults were tuned against the production corpora: curated Q&A
// matches are trusted at 0.80 while document chunks (noisier text) answer
// directly from 0.50. The retrieval thresholds stay low on purpose so weak
// matches still reach the synthesis context.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Corpus.CuratedDir == "" {
		cfg.Corpus.CuratedDir = "/usr/local/var/prashna/data/curated"
	}
	if cfg.Corpus.DocumentsDir == "" {
		cfg.Corpus.DocumentsDir = "/usr/local/var/prashna/data/knowledge_base"
	}
	if cfg.Corpus.MinChunkChars == 0 {
		cfg.Corpus.MinChunkChars = 50
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/prashna/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Cascade.Curated.DirectThreshold == 0 {
		cfg.Cascade.Curated.DirectThreshold = 0.80
	}
	if cfg.Cascade.Curated.RetrievalThreshold == 0 {
		cfg.Cascade.Curated.RetrievalThreshold = 0.30
	}
	if cfg.Cascade.Curated.TopK == 0 {
		cfg.Cascade.Curated.TopK = 3
	}
	if cfg.Cascade.Documents.DirectThreshold == 0 {
		cfg.Cascade.Documents.DirectThreshold = 0.50
	}
	if cfg.Cascade.Documents.RetrievalThreshold == 0 {
		cfg.Cascade.Documents.RetrievalThreshold = 0.20
	}
	if cfg.Cascade.Documents.TopK == 0 {
		cfg.Cascade.Documents.TopK = 3
	}
	if cfg.Synthesizer.BaseURL == "" {
		cfg.Synthesizer.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Synthesizer.APIKey == "" {
		// Ollama's OpenAI-compatible endpoint ignores the key but the client requires one.
		cfg.Synthesizer.APIKey = "ollama"
	}
	if cfg.Synthesizer.Model == "" {
		cfg.Synthesizer.Model = "llama3"
	}
	if cfg.Synthesizer.TimeoutSeconds == 0 {
		cfg.Synthesizer.TimeoutSeconds = 60
	}
	if cfg.Synthesizer.Temperature == 0 {
		cfg.Synthesizer.Temperature = 0.2
	}
	if cfg.QueryLog.FilePath == "" {
		cfg.QueryLog.FilePath = "/usr/local/var/prashna/data/query_logs.txt"
	}
	if cfg.Suggestions.Limit == 0 {
		cfg.Suggestions.Limit = 3
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 2000
	}
}
