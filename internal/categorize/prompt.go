package categorize

import (
	"fmt"
	"strings"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

// maxPromptText caps how much raw invoice text is sent to the model.
const maxPromptText = 2000

func buildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("You are an expense categorization assistant. Categorize the following invoice into exactly one of these categories:\n\n")
	for _, cat := range constants.AsStringSlice() {
		fmt.Fprintf(&b, "- %s\n", cat)
	}

	b.WriteString("\nInvoice details:\n")
	if in.VendorName != "" {
		fmt.Fprintf(&b, "Vendor: %s\n", in.VendorName)
	}
	if in.Amount != "" {
		fmt.Fprintf(&b, "Amount: %s %s\n", in.Amount, in.Currency)
	}

	text := in.RawText
	if len(text) > maxPromptText {
		text = text[:maxPromptText] + "..."
	}
	fmt.Fprintf(&b, "\nInvoice text:\n%s\n", text)

	b.WriteString("\nRespond in exactly this format:\n")
	b.WriteString("Category: <category name>\n")
	b.WriteString("Confidence: <0-100>\n")
	b.WriteString("Reasoning: <one sentence>\n")

	return b.String()
}
