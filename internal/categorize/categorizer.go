package categorize

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/llm"
)

// Input carries everything the categorizer can use to pick a category.
// Amount is a preformatted decimal string so callers decide the precision.
type Input struct {
	VendorName string
	Amount     string
	Currency   string
	RawText    string
}

type Result struct {
	Category   constants.Category
	Confidence float32
	Reasoning  string
}

// Categorizer picks a spend category for an invoice. When a model client is
// configured it asks the model first and falls back to keyword rules on any
// failure; with no client it runs rules only.
type Categorizer struct {
	classifier llm.Classifier
	logger     *slog.Logger
}

func NewCategorizer(classifier llm.Classifier, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Categorizer{classifier: classifier, logger: logger}
}

func (c *Categorizer) Categorize(ctx context.Context, in Input) Result {
	if c.classifier != nil {
		start := time.Now()
		res, err := c.categorizeLLM(ctx, in)
		if err == nil {
			c.logger.Info("categorize.llm.done",
				"category", string(res.Category),
				"confidence", res.Confidence,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return res
		}
		c.logger.Warn("categorize.llm.fallback",
			"err", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	return c.categorizeRules(in)
}

var (
	categoryLineRe   = regexp.MustCompile(`(?i)category:\s*(.+)`)
	confidenceLineRe = regexp.MustCompile(`(?i)confidence:\s*([\d.]+)`)
	reasoningLineRe  = regexp.MustCompile(`(?is)reasoning:\s*(.+)`)
)

func (c *Categorizer) categorizeLLM(ctx context.Context, in Input) (Result, error) {
	raw, err := c.classifier.Classify(ctx, buildPrompt(in))
	if err != nil {
		return Result{}, err
	}
	return parseResponse(raw), nil
}

// parseResponse reads the labeled-line reply format. Missing confidence
// defaults to 0.5; the category label is coerced onto the fixed set so a
// creative model answer still lands somewhere usable.
func parseResponse(raw string) Result {
	res := Result{Category: constants.Other, Confidence: 0.5}

	if m := categoryLineRe.FindStringSubmatch(raw); m != nil {
		cat, _ := constants.Canonicalize(strings.TrimSpace(strings.Split(m[1], "\n")[0]))
		res.Category = cat
	}
	if m := confidenceLineRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 32); err == nil {
			if v > 1 {
				v /= 100
			}
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			res.Confidence = float32(v)
		}
	}
	if m := reasoningLineRe.FindStringSubmatch(raw); m != nil {
		res.Reasoning = strings.TrimSpace(m[1])
	}
	return res
}

// categorizeRules scores each rule by keyword hits against the lowercased
// vendor name and raw text. First rule with the highest hit count wins, so
// declaration order breaks ties.
func (c *Categorizer) categorizeRules(in Input) Result {
	haystack := strings.ToLower(in.VendorName + " " + in.RawText)

	best := -1
	bestHits := 0
	for i, rule := range keywordRules {
		hits := 0
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = i
			bestHits = hits
		}
	}

	if best < 0 {
		return Result{
			Category:   constants.Other,
			Confidence: 0.3,
			Reasoning:  "No clear category match found",
		}
	}

	conf := 0.4 + 0.1*float32(bestHits)
	if conf > 0.7 {
		conf = 0.7
	}
	return Result{
		Category:   keywordRules[best].category,
		Confidence: conf,
		Reasoning:  "Rule-based match (" + strconv.Itoa(bestHits) + " keywords)",
	}
}
