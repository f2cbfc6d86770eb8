package extract

import (
	"context"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

// ExtractedText is the immutable result of text extraction for one PDF.
type ExtractedText struct {
	Content string
	Method  constants.ExtractionMethod
	Pages   int
}

// TextExtractor is the interface the orchestrator depends on.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (ExtractedText, error)
}
