package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"github.com/AlellaGreenTech/Invoice-app/internal/batch"
	"github.com/AlellaGreenTech/Invoice-app/internal/categorize"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
	"github.com/AlellaGreenTech/Invoice-app/internal/extract"
	"github.com/AlellaGreenTech/Invoice-app/internal/llm"
	"github.com/AlellaGreenTech/Invoice-app/internal/llm/anthropic"
	"github.com/AlellaGreenTech/Invoice-app/internal/source"
	"github.com/AlellaGreenTech/Invoice-app/internal/source/dir"
	"github.com/AlellaGreenTech/Invoice-app/internal/source/drive"
	"github.com/AlellaGreenTech/Invoice-app/internal/store"
)

// cleanupInterval controls how often expired batches are purged.
const cleanupInterval = 6 * time.Hour

func main() {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		entity.Settings{BaseCurrency: cfg.Batch.BaseCurrency}, logger,
		batch.WithProgressFunc(func(p batch.Progress) {
			logger.Info("batch.progress",
				"batch_id", p.BatchID,
				"processed", p.Processed,
				"failed", p.Failed,
				"total", p.Total,
				"percentage", p.Percentage,
				"file", p.CurrentFile,
			)
		}))

	queue := batch.NewQueue(orch, logger,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithQueueSize(cfg.Batch.QueueSize),
		batch.WithBatchTimeout(cfg.Batch.BatchTimeout),
	)

	// Batches submitted at startup, comma separated. A value is either a
	// Drive share URL or a local path prefixed with dir:
	if locators := os.Getenv("BATCH_SOURCES"); locators != "" {
		for _, locator := range strings.Split(locators, ",") {
			locator = strings.TrimSpace(locator)
			if locator == "" {
				continue
			}
			if err := submit(ctx, queue, batches, cfg, locator, logger); err != nil {
				logger.Error("failed to submit batch", "source", locator, "error", err)
			}
		}
	}

	go cleanupLoop(ctx, batches, logger)

	logger.Info("invoiced started",
		"workers", cfg.Batch.Workers,
		"base_currency", cfg.Batch.BaseCurrency,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(drainCtx)
}

func submit(ctx context.Context, queue *batch.Queue, batches store.BatchRepository, cfg *common.Config, locator string, logger *slog.Logger) error {
	src, err := buildSource(ctx, cfg, locator, logger)
	if err != nil {
		return err
	}

	b := &entity.Batch{SourceLocator: locator}
	if err := batches.Create(ctx, b); err != nil {
		return err
	}
	return queue.Enqueue(ctx, batch.Job{Batch: b, Source: src})
}

func buildSource(ctx context.Context, cfg *common.Config, locator string, logger *slog.Logger) (source.Source, error) {
	if path, ok := strings.CutPrefix(locator, "dir:"); ok {
		return dir.NewSource(path), nil
	}

	_, folderID, err := drive.ParseURL(locator)
	if err != nil {
		return nil, err
	}

	token := os.Getenv("GOOGLE_OAUTH_TOKEN")
	if token == "" {
		return nil, common.NewAppError("CONFIG_ERROR",
			"GOOGLE_OAUTH_TOKEN is required for Drive sources", common.ErrInvalidInput)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	return drive.NewSource(ctx, ts, drive.Config{
		FolderID:          folderID,
		RequestsPerSecond: cfg.Drive.RequestsPerSecond,
		Burst:             cfg.Drive.Burst,
	}, logger)
}

func cleanupLoop(ctx context.Context, batches store.BatchRepository, logger *slog.Logger) {
	days := 30
	if v := os.Getenv("BATCH_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().AddDate(0, 0, -days)
			n, err := batches.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				logger.Error("batch cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("batch cleanup done", "deleted", n, "cutoff", cutoff)
			}
		}
	}
}
