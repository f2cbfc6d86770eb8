package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AlellaGreenTech/Invoice-app/internal/batch"
	"github.com/AlellaGreenTech/Invoice-app/internal/categorize"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
	"github.com/AlellaGreenTech/Invoice-app/internal/export"
	"github.com/AlellaGreenTech/Invoice-app/internal/extract"
	"github.com/AlellaGreenTech/Invoice-app/internal/llm"
	"github.com/AlellaGreenTech/Invoice-app/internal/llm/anthropic"
	"github.com/AlellaGreenTech/Invoice-app/internal/source/dir"
	"github.com/AlellaGreenTech/Invoice-app/internal/store"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inDir  = flag.String("dir", "", "directory with invoice PDFs (required)")
		out    = flag.String("out", "", "output file path (optional, defaults next to --dir)")
		format = flag.String("format", "csv", "output format: csv or xlsx")
	)
	flag.Parse()

	if *inDir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *format != "csv" && *format != "xlsx" {
		printError("Error: --format must be csv or xlsx\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	batches := store.NewBatchRepository(db)
	invoices := store.NewInvoiceRepository(db)

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	var classifier llm.Classifier
	if cfg.LLM.APIKey != "" {
		classifier = anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		logger.Info("model client initialized", "model", cfg.LLM.Model)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not configured, using keyword categorization only")
	}
	categorizer := categorize.NewCategorizer(classifier, logger)

	orch := batch.NewOrchestrator(batches, invoices, extractor, categorizer,
		entity.Settings{BaseCurrency: cfg.Batch.BaseCurrency}, logger)

	abs, err := filepath.Abs(*inDir)
	if err != nil {
		logger.Error("failed to resolve directory", "dir", *inDir, "error", err)
		os.Exit(1)
	}

	b := &entity.Batch{SourceLocator: "dir:" + abs}
	if err := batches.Create(ctx, b); err != nil {
		logger.Error("failed to create batch", "error", err)
		os.Exit(1)
	}

	if err := orch.Run(ctx, b, dir.NewSource(abs)); err != nil {
		logger.Error("batch processing failed", "batch_id", b.ID, "error", err)
		os.Exit(1)
	}

	recs, err := invoices.ListByBatch(ctx, b.ID)
	if err != nil {
		logger.Error("failed to load invoices", "batch_id", b.ID, "error", err)
		os.Exit(1)
	}

	exporter := export.NewService(logger)
	var data []byte
	if *format == "xlsx" {
		data, err = exporter.ExportXLSX(b, recs, nil)
	} else {
		data, err = exporter.ExportCSV(b, recs, nil)
	}
	if err != nil {
		logger.Error("failed to export batch", "batch_id", b.ID, "error", err)
		os.Exit(1)
	}

	if *out == "" {
		name := export.GenerateFilename(b)
		if *format == "xlsx" {
			name = strings.TrimSuffix(name, ".csv") + ".xlsx"
		}
		*out = filepath.Join(filepath.Dir(abs), name)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"batch_id", b.ID,
		"total", b.TotalInvoices,
		"processed", b.ProcessedInvoices,
		"failed", b.FailedInvoices,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files found: %d\n", b.TotalInvoices)
	fmt.Printf("- Processed: %d\n", b.ProcessedInvoices)
	fmt.Printf("- Failed: %d\n", b.FailedInvoices)
	fmt.Printf("- Total: %s %s\n", cfg.Batch.BaseCurrency, b.TotalAmount.StringFixed(2))
	fmt.Printf("- Output: %s\n", *out)
}
