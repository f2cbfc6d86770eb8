// Package batch drives the per-file pipeline over a whole source folder and
// keeps the batch record's state machine honest while doing it.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/categorize"
	"github.com/AlellaGreenTech/Invoice-app/internal/currency"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
	"github.com/AlellaGreenTech/Invoice-app/internal/extract"
	"github.com/AlellaGreenTech/Invoice-app/internal/fields"
	"github.com/AlellaGreenTech/Invoice-app/internal/source"
	"github.com/AlellaGreenTech/Invoice-app/internal/store"
)

// Progress is a snapshot pushed to observers after every file outcome.
type Progress struct {
	BatchID     string
	Total       int
	Processed   int
	Failed      int
	Percentage  int
	CurrentFile string
}

// ProgressFunc receives progress snapshots. Implementations must not block;
// the orchestrator calls it inline between files.
type ProgressFunc func(Progress)

// Orchestrator runs one batch end to end. Files within a batch are handled
// sequentially so at most one PDF and one text buffer are resident at a time.
type Orchestrator struct {
	batches      store.BatchRepository
	invoices     store.InvoiceRepository
	extractor    extract.TextExtractor
	categorizer  *categorize.Categorizer
	baseCurrency string
	onProgress   ProgressFunc
	logger       *slog.Logger
}

type OrchestratorOption func(*Orchestrator)

func WithProgressFunc(fn ProgressFunc) OrchestratorOption {
	return func(o *Orchestrator) { o.onProgress = fn }
}

func NewOrchestrator(
	batches store.BatchRepository,
	invoices store.InvoiceRepository,
	extractor extract.TextExtractor,
	categorizer *categorize.Categorizer,
	settings entity.Settings,
	logger *slog.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	baseCurrency := settings.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = constants.EUR
	}
	o := &Orchestrator{
		batches:      batches,
		invoices:     invoices,
		extractor:    extractor,
		categorizer:  categorizer,
		baseCurrency: baseCurrency,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// fileOutcome is what one file contributes to the batch aggregates.
type fileOutcome struct {
	failed   bool
	amount   *decimal.Decimal // converted, in the base currency
	currency *string
	date     *time.Time
}

// Run takes a PENDING batch through to a terminal state. A per-file failure
// records a FAILED invoice and keeps going; only source enumeration errors
// and context cancellation fail the whole batch.
func (o *Orchestrator) Run(ctx context.Context, b *entity.Batch, src source.Source) error {
	start := time.Now()
	o.logger.Info("batch.run.start", "batch_id", b.ID, "source", b.SourceLocator)

	if err := o.batches.UpdateStatus(ctx, b.ID, constants.BatchProcessing, nil); err != nil {
		return err
	}
	b.Status = constants.BatchProcessing

	files, err := src.ListFiles(ctx)
	if err != nil {
		return o.fail(ctx, b, err)
	}

	b.TotalInvoices = len(files)
	if err := o.batches.UpdateProgress(ctx, b.ID, b.TotalInvoices, 0, 0); err != nil {
		return o.fail(ctx, b, err)
	}

	var outcomes []fileOutcome
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			// Already-recorded invoices stay put.
			return o.fail(ctx, b, err)
		}

		outcome := o.processFile(ctx, b, src, f)
		outcomes = append(outcomes, outcome)

		if outcome.failed {
			b.FailedInvoices++
		} else {
			b.ProcessedInvoices++
		}
		if err := o.batches.UpdateProgress(ctx, b.ID, b.TotalInvoices, b.ProcessedInvoices, b.FailedInvoices); err != nil {
			return o.fail(ctx, b, err)
		}
		o.emitProgress(b, f.Name)
	}

	o.finalize(b, outcomes)
	if err := o.batches.Finalize(ctx, b); err != nil {
		return err
	}

	o.logger.Info("batch.run.done",
		"batch_id", b.ID,
		"total", b.TotalInvoices,
		"processed", b.ProcessedInvoices,
		"failed", b.FailedInvoices,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// processFile runs the whole pipeline for one file. Any error is converted
// into a FAILED invoice record; it never propagates to the batch.
func (o *Orchestrator) processFile(ctx context.Context, b *entity.Batch, src source.Source, f source.SourceFile) fileOutcome {
	inv := &entity.Invoice{
		BatchID:      b.ID,
		SourceFileID: f.ID,
		Filename:     f.Name,
		Status:       constants.InvoicePending,
	}

	data, err := src.Download(ctx, f.ID)
	if err != nil {
		return o.recordFailure(ctx, inv, err)
	}

	text, err := o.extractor.Extract(ctx, data)
	if err != nil {
		return o.recordFailure(ctx, inv, err)
	}

	method := string(text.Method)
	inv.ExtractionMethod = &method
	inv.RawText = fields.Sanitize(text.Content)

	parsed := fields.Extract(text.Content)
	inv.VendorName = parsed.VendorName
	inv.InvoiceNumber = parsed.InvoiceNumber
	inv.InvoiceDate = parsed.InvoiceDate
	inv.TotalAmount = parsed.Amount
	inv.Currency = parsed.Currency
	inv.CurrencyConfidence = parsed.CurrencyConfidence

	catIn := categorize.Input{RawText: text.Content}
	if parsed.VendorName != nil {
		catIn.VendorName = *parsed.VendorName
	}
	if parsed.Amount != nil {
		catIn.Amount = parsed.Amount.StringFixed(2)
	}
	if parsed.Currency != nil {
		catIn.Currency = *parsed.Currency
	}
	cat := o.categorizer.Categorize(ctx, catIn)
	category := string(cat.Category)
	inv.Category = &category
	inv.CategoryConfidence = cat.Confidence
	if cat.Reasoning != "" {
		inv.CategoryReasoning = &cat.Reasoning
	}

	if parsed.Amount != nil && parsed.Currency != nil {
		converted := currency.Convert(*parsed.Amount, *parsed.Currency, o.baseCurrency)
		inv.ConvertedAmount = &converted
	}

	inv.Status = constants.InvoiceCategorized
	if err := o.invoices.Create(ctx, inv); err != nil {
		o.logger.Error("batch.invoice.persist_failed", "batch_id", b.ID, "file", f.Name, "error", err)
		return fileOutcome{failed: true}
	}

	out := fileOutcome{currency: inv.Currency, date: inv.InvoiceDate}
	switch {
	case inv.ConvertedAmount != nil:
		out.amount = inv.ConvertedAmount
	case inv.TotalAmount != nil:
		out.amount = inv.TotalAmount
	}
	return out
}

func (o *Orchestrator) recordFailure(ctx context.Context, inv *entity.Invoice, cause error) fileOutcome {
	msg := cause.Error()
	inv.Status = constants.InvoiceFailed
	inv.ErrorMessage = &msg
	if err := o.invoices.Create(ctx, inv); err != nil {
		o.logger.Error("batch.invoice.persist_failed", "batch_id", inv.BatchID, "file", inv.Filename, "error", err)
	}
	o.logger.Warn("batch.file.failed", "batch_id", inv.BatchID, "file", inv.Filename, "error", cause)
	return fileOutcome{failed: true}
}

// finalize folds the per-file outcomes into the batch aggregates. The fold
// only looks at successful outcomes; a batch where every file failed still
// completes, with zero totals.
func (o *Orchestrator) finalize(b *entity.Batch, outcomes []fileOutcome) {
	total := decimal.Zero
	counts := map[string]int{}
	var firstSeen []string
	var minDate, maxDate *time.Time

	for _, out := range outcomes {
		if out.failed {
			continue
		}
		if out.amount != nil {
			total = total.Add(*out.amount)
		}
		if out.currency != nil {
			if _, seen := counts[*out.currency]; !seen {
				firstSeen = append(firstSeen, *out.currency)
			}
			counts[*out.currency]++
		}
		if out.date != nil {
			d := *out.date
			if minDate == nil || d.Before(*minDate) {
				minDate = &d
			}
			if maxDate == nil || d.After(*maxDate) {
				maxDate = &d
			}
		}
	}

	b.TotalAmount = total
	b.DateRangeStart = minDate
	b.DateRangeEnd = maxDate

	// Mode of observed currencies; first-seen order breaks ties.
	best := 0
	for _, c := range firstSeen {
		if counts[c] > best {
			best = counts[c]
			cc := c
			b.Currency = &cc
		}
	}

	now := time.Now().UTC()
	b.Status = constants.BatchCompleted
	b.CompletedAt = &now
}

func (o *Orchestrator) fail(ctx context.Context, b *entity.Batch, cause error) error {
	msg := cause.Error()
	b.Status = constants.BatchFailed
	b.ErrorMessage = &msg
	o.logger.Error("batch.run.failed", "batch_id", b.ID, "error", cause)

	// Use a fresh context so a cancelled run can still record its failure.
	updateCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		updateCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := o.batches.UpdateStatus(updateCtx, b.ID, constants.BatchFailed, &msg); err != nil {
		o.logger.Error("batch.run.fail_update", "batch_id", b.ID, "error", err)
	}
	return cause
}

func (o *Orchestrator) emitProgress(b *entity.Batch, currentFile string) {
	if o.onProgress == nil {
		return
	}
	o.onProgress(Progress{
		BatchID:     b.ID.String(),
		Total:       b.TotalInvoices,
		Processed:   b.ProcessedInvoices,
		Failed:      b.FailedInvoices,
		Percentage:  b.ProgressPercentage(),
		CurrentFile: currentFile,
	})
}
