// Package main is the entry point for the expense manager extraction and
// import pipeline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arpithpm/expense-manager-sub001/internal/config"
	"github.com/arpithpm/expense-manager-sub001/internal/database"
	"github.com/arpithpm/expense-manager-sub001/internal/gemini"
	"github.com/arpithpm/expense-manager-sub001/internal/importer"
	"github.com/arpithpm/expense-manager-sub001/internal/logger"
	"github.com/arpithpm/expense-manager-sub001/internal/pipeline"
	"github.com/arpithpm/expense-manager-sub001/internal/repository"
	"github.com/arpithpm/expense-manager-sub001/internal/store"
	"github.com/arpithpm/expense-manager-sub001/internal/validation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: expense-manager <command> [args]

commands:
  parse <file>     parse and validate a raw extraction response
  scan <image>     extract a receipt image via Gemini, then parse and validate
  import <file>    merge a bulk import document into the record store
  summary <file>   preview an import document without merging it
  version          print build information
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	if os.Args[1] == "version" {
		fmt.Printf("expense-manager %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	if len(os.Args) < 3 {
		usage()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	pipe := pipeline.New(
		validation.NewFinancialValidator(validation.FinancialOptions{
			DefaultCurrency:   cfg.DefaultCurrency,
			AbsoluteTolerance: cfg.BreakdownAbsoluteTolerance,
			RelativeTolerance: cfg.BreakdownRelativeTolerance,
		}),
		validation.NewRecordValidator(),
	)

	command, path := os.Args[1], os.Args[2]
	switch command {
	case "parse":
		runParse(pipe, path)
	case "scan":
		runScan(ctx, cfg, pipe, path)
	case "import":
		runImport(ctx, cfg, path, false)
	case "summary":
		runImport(ctx, cfg, path, true)
	default:
		usage()
	}
}

func runParse(pipe *pipeline.Pipeline, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to read response file")
	}

	result, err := pipe.ParseAndValidate(string(raw))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to parse extraction response")
	}

	printJSON(result)
}

func runScan(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline, path string) {
	image, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to read image file")
	}

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	raw, err := client.ExtractReceipt(ctx, image, mimeTypeFor(path))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Receipt extraction failed")
	}

	record, err := pipe.ProcessResponse(raw)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to process extraction response")
	}

	printJSON(record)
}

func runImport(ctx context.Context, cfg *config.Config, path string, previewOnly bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to read import document")
	}

	doc, err := importer.ParseDocument(data)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Import document unreadable")
	}

	recordStore, cleanup := openStore(ctx, cfg)
	defer cleanup()

	merger := importer.NewMergerWithEpsilon(validation.NewRecordValidator(), cfg.DuplicateAmountEpsilon)
	imp := importer.NewImporter(recordStore, merger)

	if previewOnly {
		printJSON(imp.Preview(doc))
		return
	}

	result, err := imp.Import(ctx, doc, importer.Options{
		AllowDuplicates: cfg.AllowDuplicateImports,
		Progress: func(fraction float64) {
			logger.Log.Debug().Float64("progress", fraction).Msg("Import progress")
		},
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Import failed")
	}

	printJSON(result)
}

// openStore selects the Postgres store when DATABASE_URL is configured
// and an in-memory one otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func()) {
	if cfg.DatabaseURL == "" {
		logger.Log.Warn().Msg("DATABASE_URL not set; records will not be persisted")
		return store.NewMemoryStore(), func() {}
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	return repository.NewRecordRepository(pool), pool.Close
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to encode output")
	}
	fmt.Println(string(out))
}
