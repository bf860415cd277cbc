// Package main is the Niteru CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/niteru/internal/chart"
	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/embedding"
	"github.com/hyperjump/niteru/internal/extract"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/pipeline"
	"github.com/hyperjump/niteru/internal/server"
	"github.com/hyperjump/niteru/internal/storage"
	"github.com/hyperjump/niteru/internal/watcher"
	"github.com/hyperjump/niteru/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/niteru/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
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
	if _, err := os.Stat(path); err != nil {
		// No config file anywhere; run on defaults.
		return config.Default(), "", nil
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
	case "compare":
		runCompare()
	case "serve":
		runServe()
	case "watch":
		runWatch()
	case "runs":
		runRuns()
	case "version", "--version", "-v":
		fmt.Printf("niteru version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCompare() {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	outputFormat := fs.String("output", "text", "output format: text or json")
	noChart := fs.Bool("no-chart", false, "skip rendering the similarity chart")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Println("Usage: niteru compare [flags] <document-a> <document-b>")
		os.Exit(1)
	}
	pathA, pathB := fs.Arg(0), fs.Arg(1)

	cfg, logger := mustSetup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, *noChart)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	summary, err := components.Pipeline.Run(context.Background(), pathA, pathB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Comparison failed: %v\n", err)
		os.Exit(1)
	}
	printSummary(summary, *outputFormat)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Pipeline, components.Storage, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Println("Usage: niteru watch [flags] <document-a> <document-b>")
		os.Exit(1)
	}
	pathA, pathB := fs.Arg(0), fs.Arg(1)

	cfg, logger := mustSetup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	compare := func(trigger string) {
		summary, runErr := components.Pipeline.Run(context.Background(), pathA, pathB)
		if runErr != nil {
			logger.Warn("comparison failed", zap.String("trigger", trigger), zap.Error(runErr))
			return
		}
		printSummary(summary, *outputFormat)
	}

	watchOpts := []watcher.Option{
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond),
	}
	if cfg.Debug || *debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w, err := watcher.New([]string{pathA, pathB}, func(path string) {
		compare(path)
	}, watchOpts...)
	if err != nil {
		logger.Fatal("Failed to create watcher", zap.Error(err))
	}
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := w.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()

	// Run once up front, then re-run on changes.
	compare("initial")
	logger.Info("watching documents", zap.String("doc_a", pathA), zap.String("doc_b", pathB))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
}

func runRuns() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to show")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := mustSetup(*configPath, false)
	defer logger.Sync()

	registry, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open run registry: %v\n", err)
		os.Exit(1)
	}
	defer registry.Close()

	ctx := context.Background()
	runs, err := registry.ListRuns(ctx, 0, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list runs: %v\n", err)
		os.Exit(1)
	}
	total, err := registry.CountRuns(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to count runs: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]interface{}{"runs": runs, "total": total}); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  sim=%.10f  pairs=%d\n  %s <> %s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Similarity, r.Pairs, r.DocA, r.DocB)
		}
		fmt.Printf("total: %d\n", total)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func printSummary(summary *models.RunSummary, format string) {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("document_similarity: %.10f\n", summary.DocumentSimilarity)
		fmt.Printf("sentences:           %d / %d\n", summary.SentencesA, summary.SentencesB)
		fmt.Printf("embedded:            %d / %d\n", summary.EmbeddedA, summary.EmbeddedB)
		fmt.Printf("pairs:               %d\n", summary.Pairs)
		fmt.Printf("matrix:              %s\n", summary.MatrixPath)
		if summary.ChartPath != "" {
			fmt.Printf("chart:               %s\n", summary.ChartPath)
		}
		fmt.Printf("elapsed_ms:          %d\n", summary.ElapsedMs)
	}
}

func mustSetup(configPath string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	cfg.Debug = debugMode
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if resolvedPath != "" {
		logger.Info("config loaded", zap.String("config_path", resolvedPath), zap.Bool("debug", debugMode))
	} else {
		logger.Info("no config file found, using defaults", zap.Bool("debug", debugMode))
	}
	return cfg, logger
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Embedder embedding.Embedder
	Pipeline *pipeline.Pipeline
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, noChart bool) (*Components, error) {
	registry, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run registry: %w", err)
	}

	embedder, err := embedding.NewFromConfig(&cfg.Embedding)
	if err != nil {
		logger.Warn("embedding provider unavailable, falling back to mock",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	opts := []pipeline.Option{
		pipeline.WithRegistry(registry),
		pipeline.WithLogger(logger),
	}
	if !noChart {
		opts = append(opts, pipeline.WithRenderer(chart.NewScatterRenderer()))
	}
	p := pipeline.New(extract.NewExtractor(), embedder, cfg, opts...)

	return &Components{
		Storage:  registry,
		Embedder: embedder,
		Pipeline: p,
	}, nil
}

func printUsage() {
	fmt.Println(`niteru - Sentence-level document similarity

Usage:
  niteru compare [flags] <doc-a> <doc-b>   Compare two documents
  niteru watch [flags] <doc-a> <doc-b>     Compare and re-run on file changes
  niteru serve [flags]                     Start the HTTP server
  niteru runs [flags]                      List recorded comparison runs
  niteru version                           Show version
  niteru help                              Show this help

Compare Flags:
  --config string    Config file path (default: /usr/local/etc/niteru/config.yaml)
  --debug            Enable debug logging
  --output string    Output format: text or json (default: text)
  --no-chart         Skip rendering the similarity chart

Serve Flags:
  --config string    Config file path
  --debug            Enable debug logging

Watch Flags:
  --config string    Config file path
  --debug            Enable debug logging
  --output string    Output format: text or json (default: text)

Runs Flags:
  --config string    Config file path
  --limit int        Number of runs to show (default: 20)
  --output string    Output format: text or json (default: text)

Examples:
  niteru compare a.txt b.txt
  niteru compare --output json report_v1.pdf report_v2.pdf
  niteru watch draft.md reference.md
  niteru serve
  niteru runs --limit 5`)
}
