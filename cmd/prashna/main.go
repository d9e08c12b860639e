// Package main is the Prashna CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/cascade"
	"github.com/campusqa/prashna/internal/config"
	"github.com/campusqa/prashna/internal/corpus"
	"github.com/campusqa/prashna/internal/embedding"
	"github.com/campusqa/prashna/internal/index"
	"github.com/campusqa/prashna/internal/models"
	"github.com/campusqa/prashna/internal/querylog"
	"github.com/campusqa/prashna/internal/rules"
	"github.com/campusqa/prashna/internal/server"
	"github.com/campusqa/prashna/internal/suggest"
	"github.com/campusqa/prashna/internal/synth"
	"github.com/campusqa/prashna/internal/watcher"
	"github.com/campusqa/prashna/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/prashna/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("prashna version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (cascade decisions, corpus rebuilds, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		watchSvc := watcher.New(
			map[string]func(){
				cfg.Corpus.CuratedDir:   components.rebuildCurated(cfg, logger),
				cfg.Corpus.DocumentsDir: components.rebuildDocuments(cfg, logger),
			},
			time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
			logger,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Stats,
		components,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without a server)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: prashna ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: prashna ask [flags] <question>")
		os.Exit(1)
	}

	if *serverURL != "" {
		reply, err := askViaHTTP(*serverURL, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply)
		return
	}

	// Local mode: load the corpus and answer in-process.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	fmt.Println(components.Engine.Answer(context.Background(), question))
}

func askViaHTTP(serverURL, question string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": question})
	if err != nil {
		return "", err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Reply, nil
}

// statusResponse is the shape of GET /api/v1/stats response.
type statusResponse struct {
	CuratedItems      int             `json:"curated_items"`
	DocumentItems     int             `json:"document_items"`
	CuratedCategories map[string]int  `json:"curated_categories,omitempty"`
	Queries           *querylog.Stats `json:"queries,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load corpus locally)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		status.CuratedItems = components.CuratedSize()
		status.DocumentItems = components.DocumentSize()
		status.CuratedCategories = components.CuratedCategories()
		if components.Stats != nil {
			if stats, err := components.Stats.Stats(context.Background()); err == nil {
				status.Queries = &stats
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("curated_items:   %d   # curated Q&A entries\n", status.CuratedItems)
		fmt.Printf("document_items:  %d   # document chunks\n", status.DocumentItems)
		if len(status.CuratedCategories) > 0 {
			categories := make([]string, 0, len(status.CuratedCategories))
			for cat := range status.CuratedCategories {
				categories = append(categories, cat)
			}
			sort.Strings(categories)
			fmt.Println()
			fmt.Println("# curated categories")
			for _, cat := range categories {
				fmt.Printf("%-16s %d\n", cat+":", status.CuratedCategories[cat])
			}
		}
		if status.Queries != nil {
			fmt.Println()
			fmt.Println("# query history")
			fmt.Printf("total:           %d\n", status.Queries.Total)
			for _, s := range []string{models.StatusSuccess, models.StatusGenerated, models.StatusRejected} {
				if n, ok := status.Queries.ByStatus[s]; ok {
					fmt.Printf("%-16s %d\n", strings.ToLower(s)+":", n)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/stats")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Embedder     embedding.Embedder
	CuratedIndex *index.Index
	DocIndex     *index.Index
	QueryLog     querylog.Logger
	Stats        querylog.StatsProvider
	Suggester    *suggest.Suggester
	Engine       *cascade.Engine
}

// CuratedSize reports the curated tier's corpus size.
func (c *Components) CuratedSize() int {
	return c.CuratedIndex.Size()
}

// DocumentSize reports the document tier's corpus size.
func (c *Components) DocumentSize() int {
	return c.DocIndex.Size()
}

// CuratedCategories tallies curated items per category.
func (c *Components) CuratedCategories() map[string]int {
	counts := make(map[string]int)
	for _, item := range c.CuratedIndex.Items() {
		counts[item.Category]++
	}
	return counts
}

func (c *Components) Close() {
	if c.QueryLog != nil {
		_ = c.QueryLog.Close()
	}
	if c.Suggester != nil {
		_ = c.Suggester.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// rebuildCurated returns the watcher callback that reloads and re-embeds the
// curated tier after its directory changes.
func (c *Components) rebuildCurated(cfg *config.Config, logger *zap.Logger) func() {
	return func() {
		items, err := corpus.LoadCurated(cfg.Corpus.CuratedDir, logger)
		if err != nil {
			logger.Warn("curated reload failed", zap.Error(err))
			return
		}
		if err := c.CuratedIndex.Build(context.Background(), items); err != nil {
			logger.Warn("curated rebuild failed", zap.Error(err))
			return
		}
		saveVectorCache(c.CuratedIndex, cfg.Corpus.VectorCacheDir, "curated.vec", logger)
		logger.Info("curated tier rebuilt", zap.Int("items", len(items)))
	}
}

// rebuildDocuments returns the watcher callback for the document tier.
func (c *Components) rebuildDocuments(cfg *config.Config, logger *zap.Logger) func() {
	return func() {
		items, err := corpus.LoadDocuments(cfg.Corpus.DocumentsDir, cfg.Corpus.MinChunkChars, logger)
		if err != nil {
			logger.Warn("document reload failed", zap.Error(err))
			return
		}
		if err := c.DocIndex.Build(context.Background(), items); err != nil {
			logger.Warn("document rebuild failed", zap.Error(err))
			return
		}
		saveVectorCache(c.DocIndex, cfg.Corpus.VectorCacheDir, "documents.vec", logger)
		logger.Info("document tier rebuilt", zap.Int("items", len(items)))
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		logger.Warn("ONNX embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}

	curatedItems, err := corpus.LoadCurated(cfg.Corpus.CuratedDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated corpus: %w", err)
	}
	documentItems, err := corpus.LoadDocuments(cfg.Corpus.DocumentsDir, cfg.Corpus.MinChunkChars, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load document corpus: %w", err)
	}
	logger.Info("corpus loaded",
		zap.Int("curated_items", len(curatedItems)),
		zap.Int("document_items", len(documentItems)),
	)

	curatedIndex := index.New(models.TierCurated, embedder)
	docIndex := index.New(models.TierDocument, embedder)
	if err := buildIndex(curatedIndex, curatedItems, cfg.Corpus.VectorCacheDir, "curated.vec", logger); err != nil {
		return nil, err
	}
	if err := buildIndex(docIndex, documentItems, cfg.Corpus.VectorCacheDir, "documents.vec", logger); err != nil {
		return nil, err
	}

	fileSink, err := querylog.NewFileSink(cfg.QueryLog.FilePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open query log: %w", err)
	}
	queryLog := querylog.Logger(fileSink)
	var stats querylog.StatsProvider
	if cfg.QueryLog.DatabasePath != "" {
		sqliteSink, err := querylog.NewSQLiteSink(cfg.QueryLog.DatabasePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open query database: %w", err)
		}
		queryLog = querylog.Tee{fileSink, sqliteSink}
		stats = sqliteSink
	}

	synthesizer := synth.NewOpenAISynthesizer(cfg.Synthesizer, logger)

	var opts []cascade.Option
	var suggester *suggest.Suggester
	if cfg.Suggestions.Enabled {
		suggester, err = suggest.New(curatedItems)
		if err != nil {
			logger.Warn("suggestion index unavailable", zap.Error(err))
		} else {
			opts = append(opts, cascade.WithSuggestions(suggester, cfg.Suggestions.Limit))
		}
	}

	engine := cascade.NewEngine(
		rules.NewEngine(rules.Builtin()),
		curatedIndex,
		docIndex,
		cfg.Cascade,
		synthesizer,
		queryLog,
		logger,
		opts...,
	)

	return &Components{
		Embedder:     embedder,
		CuratedIndex: curatedIndex,
		DocIndex:     docIndex,
		QueryLog:     queryLog,
		Stats:        stats,
		Suggester:    suggester,
		Engine:       engine,
	}, nil
}

// buildIndex fills ix from the vector cache when it matches the loaded
// corpus, re-embedding from scratch otherwise.
func buildIndex(ix *index.Index, items []models.KnowledgeItem, cacheDir, cacheFile string, logger *zap.Logger) error {
	if cacheDir != "" {
		path := filepath.Join(cacheDir, cacheFile)
		if err := ix.LoadVectors(path, items); err == nil {
			logger.Info("vector cache loaded", zap.String("path", path), zap.Int("items", len(items)))
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("vector cache unusable, re-embedding", zap.String("path", path), zap.Error(err))
		}
	}
	if err := ix.Build(context.Background(), items); err != nil {
		return fmt.Errorf("failed to build %s index: %w", ix.Tier(), err)
	}
	saveVectorCache(ix, cacheDir, cacheFile, logger)
	return nil
}

func saveVectorCache(ix *index.Index, cacheDir, cacheFile string, logger *zap.Logger) {
	if cacheDir == "" {
		return
	}
	path := filepath.Join(cacheDir, cacheFile)
	if err := ix.SaveVectors(path); err != nil {
		logger.Warn("vector cache save failed", zap.String("path", path), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`prashna - Institution Q&A engine with cascading retrieval

Usage:
  prashna server [flags]          Start the HTTP server
  prashna ask [flags] <question>  Ask a question
  prashna status [flags]          Show corpus and query history status
  prashna version                 Show version
  prashna help                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/prashna/config.yaml)
  --debug            Enable debug logging (cascade decisions, corpus rebuilds, etc.)

Ask Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer locally.

Status Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for local mode.
  --output string    Output format: text or json (default: text)

Examples:
  prashna server
  prashna ask "What hostels are available?"
  prashna ask --server "" "btech admission process"
  prashna status
  prashna status --output json`)
}
