package llm

import "context"

// Classifier is the classification oracle the categorizer depends on. Any
// error it returns is treated as "oracle unavailable" by callers.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}
