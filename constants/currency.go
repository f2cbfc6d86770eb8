package constants

// ISO 4217 codes the pipeline detects and converts between.
const (
	EUR = "EUR"
	GBP = "GBP"
	USD = "USD"
)

// ExtractionMethod records how text was obtained from a PDF.
type ExtractionMethod string

const (
	MethodStructural ExtractionMethod = "pdf-text" // embedded content stream
	MethodOCR        ExtractionMethod = "pdf-ocr"  // rasterize + tesseract
)

// MinTextLength is the minimum stripped length structural extraction must
// yield before the extractor falls back to OCR. Short CJK invoices may trip
// this; see DESIGN.md.
const MinTextLength = 50
