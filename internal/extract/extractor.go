package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
}

// Extractor pulls text out of PDF bytes: structural extraction first, OCR
// when that yields too little. It never surfaces the structural error; only
// an OCR failure is fatal for the file.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract spools the PDF bytes to a temp file (the poppler binaries want
// paths) and runs the structural-then-OCR fallback chain.
func (e *Extractor) Extract(ctx context.Context, pdf []byte) (ExtractedText, error) {
	tmpDir, err := os.MkdirTemp("", "inv-pdf-*")
	if err != nil {
		return ExtractedText{}, common.NewAppError("EXTRACT_TMP", "create temp dir", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("extract.tmp.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, "invoice.pdf")
	if err := os.WriteFile(path, pdf, 0600); err != nil {
		return ExtractedText{}, common.NewAppError("EXTRACT_TMP", "write temp pdf", err)
	}

	text, pages, err := e.pdfToText(ctx, path)
	if err != nil {
		e.logger.Warn("extract.structural.failed", "error", err)
		return e.pdfToOCR(ctx, path)
	}
	if len(strings.TrimSpace(text)) <= constants.MinTextLength {
		e.logger.Info("extract.ocr.fallback",
			"reason", "insufficient_text", "stripped_len", len(strings.TrimSpace(text)))
		return e.pdfToOCR(ctx, path)
	}

	e.logger.Info("extract.structural.ok", "pages", pages, "bytes", len(text))
	return ExtractedText{Content: text, Method: constants.MethodStructural, Pages: pages}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (string, int, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (ExtractedText, error) {
	tmpDir, err := os.MkdirTemp("", "inv-pp-*")
	if err != nil {
		return ExtractedText{}, common.NewAppError("EXTRACT_FAILED", "create raster dir", common.ErrExtraction)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("extract.tmp.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix); err != nil {
		return ExtractedText{}, common.NewAppError("EXTRACT_FAILED",
			fmt.Sprintf("rasterize pdf: %s", truncate(string(errb), 512)), common.ErrExtraction)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return ExtractedText{}, common.NewAppError("EXTRACT_FAILED", "pdftoppm produced no images", common.ErrExtraction)
	}

	var b strings.Builder
	ocrOK := 0
	for _, img := range matches {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			e.logger.Warn("extract.ocr.page_failed", "image", filepath.Base(img), "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
		ocrOK++
	}
	if ocrOK == 0 {
		return ExtractedText{}, common.NewAppError("EXTRACT_FAILED", "ocr failed on every page", common.ErrExtraction)
	}

	e.logger.Info("extract.ocr.ok", "pages", len(matches), "pages_ok", ocrOK, "bytes", b.Len())
	return ExtractedText{Content: b.String(), Method: constants.MethodOCR, Pages: len(matches)}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
