package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

// stubRunner fakes the poppler/tesseract binaries.
type stubRunner struct {
	structuralText string
	structuralErr  error
	ocrText        string
	ocrErr         error
	rasterErr      error
	rasterPages    int

	calls []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	switch name {
	case "pdftotext":
		if s.structuralErr != nil {
			return nil, []byte("pdftotext boom"), s.structuralErr
		}
		return []byte(s.structuralText), nil, nil
	case "pdftoppm":
		if s.rasterErr != nil {
			return nil, []byte("pdftoppm boom"), s.rasterErr
		}
		prefix := args[len(args)-1]
		pages := s.rasterPages
		if pages == 0 {
			pages = 1
		}
		for i := 1; i <= pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if s.ocrErr != nil {
			return nil, []byte("tesseract boom"), s.ocrErr
		}
		return []byte(s.ocrText), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected binary %q", name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func TestExtractStructural(t *testing.T) {
	long := "ACME GmbH\nInvoice #INV-100\nTotal: €1.234,56\n" +
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit."
	r := &stubRunner{structuralText: long}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodStructural, res.Method)
	assert.Equal(t, long, res.Content)
	assert.NotContains(t, r.calls, "tesseract")
}

func TestExtractFallsBackOnShortText(t *testing.T) {
	r := &stubRunner{structuralText: "   \n  ", ocrText: "Scanned Vendor Inc\nTotal: $42.00"}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodOCR, res.Method)
	assert.Contains(t, res.Content, "Scanned Vendor Inc")
	assert.Contains(t, r.calls, "pdftoppm")
}

func TestExtractFallsBackOnStructuralError(t *testing.T) {
	r := &stubRunner{structuralErr: errors.New("exit status 1"), ocrText: "ocr text here"}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodOCR, res.Method)
}

func TestExtractOCRFailureIsFatal(t *testing.T) {
	r := &stubRunner{structuralText: "x", ocrErr: errors.New("exit status 1")}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtractRasterFailureIsFatal(t *testing.T) {
	r := &stubRunner{structuralText: "x", rasterErr: errors.New("exit status 1")}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtractConcatenatesOCRPages(t *testing.T) {
	r := &stubRunner{structuralText: "", ocrText: "page text", rasterPages: 3}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "page text\npage text\npage text", res.Content)
}
