package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

type stubClassifier struct {
	reply string
	err   error
}

func (s *stubClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestCategorizeLLMPath(t *testing.T) {
	c := NewCategorizer(&stubClassifier{
		reply: "Category: Software & Technology\nConfidence: 85\nReasoning: Monthly SaaS subscription.",
	}, nil)

	res := c.Categorize(context.Background(), Input{VendorName: "GitHub", RawText: "subscription"})

	assert.Equal(t, constants.Software, res.Category)
	assert.InDelta(t, 0.85, res.Confidence, 0.001)
	assert.Equal(t, "Monthly SaaS subscription.", res.Reasoning)
}

func TestCategorizeFallsBackOnLLMError(t *testing.T) {
	c := NewCategorizer(&stubClassifier{err: errors.New("rate limited")}, nil)

	res := c.Categorize(context.Background(), Input{
		VendorName: "Staples",
		RawText:    "office supplies paper pens",
	})

	assert.Equal(t, constants.OfficeSupplies, res.Category)
	assert.Greater(t, res.Confidence, float32(0.4))
	assert.Equal(t, "Rule-based match (4 keywords)", res.Reasoning)
}

func TestCategorizeRulesNoMatch(t *testing.T) {
	c := NewCategorizer(nil, nil)

	res := c.Categorize(context.Background(), Input{
		VendorName: "Mystery Vendor",
		RawText:    "lorem ipsum dolor",
	})

	assert.Equal(t, constants.Other, res.Category)
	assert.InDelta(t, 0.3, res.Confidence, 0.001)
	assert.Equal(t, "No clear category match found", res.Reasoning)
}

func TestCategorizeRulesConfidenceCap(t *testing.T) {
	c := NewCategorizer(nil, nil)

	res := c.Categorize(context.Background(), Input{
		VendorName: "CloudCo",
		RawText:    "software saas cloud hosting domain aws azure github adobe",
	})

	assert.Equal(t, constants.Software, res.Category)
	assert.InDelta(t, 0.7, res.Confidence, 0.001)
}

func TestCategorizeRulesTieBreakByOrder(t *testing.T) {
	c := NewCategorizer(nil, nil)

	// One hit each for Office Supplies ("paper") and Travel ("hotel");
	// the earlier rule wins.
	res := c.Categorize(context.Background(), Input{RawText: "paper hotel"})

	assert.Equal(t, constants.OfficeSupplies, res.Category)
}

func TestParseResponseDefaults(t *testing.T) {
	res := parseResponse("Category: nonsense label here")

	assert.Equal(t, constants.Other, res.Category)
	assert.InDelta(t, 0.5, res.Confidence, 0.001)
	assert.Empty(t, res.Reasoning)
}

func TestParseResponseFractionalConfidence(t *testing.T) {
	res := parseResponse("Category: Travel\nConfidence: 0.9\nReasoning: flight booking")

	require.Equal(t, constants.Travel, res.Category)
	assert.InDelta(t, 0.9, res.Confidence, 0.001)
}

func TestParseResponseMultilineReasoning(t *testing.T) {
	res := parseResponse("Category: Utilities\nConfidence: 70\nReasoning: Electricity bill\nfrom a power company.")

	assert.Equal(t, constants.Utilities, res.Category)
	assert.Equal(t, "Electricity bill\nfrom a power company.", res.Reasoning)
}
