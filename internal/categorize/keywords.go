package categorize

import "github.com/AlellaGreenTech/Invoice-app/constants"

// keywordRule associates a category with the vendor/text keywords that vote
// for it. Declared as a slice, not a map, so fallback iteration order (and
// therefore tie-breaking) is deterministic.
type keywordRule struct {
	category constants.Category
	keywords []string
}

var keywordRules = []keywordRule{
	{constants.OfficeSupplies, []string{"staples", "office depot", "paper", "pens", "supplies", "stationery"}},
	{constants.Travel, []string{"airline", "hotel", "uber", "lyft", "rental car", "airbnb", "expedia", "booking"}},
	{constants.Software, []string{"software", "saas", "cloud", "hosting", "domain", "aws", "azure", "github", "adobe"}},
	{constants.ProfessionalServices, []string{"consulting", "legal", "accounting", "audit", "advisory"}},
	{constants.Utilities, []string{"electric", "water", "gas", "utility", "power", "energy"}},
	{constants.Marketing, []string{"google ads", "facebook ads", "marketing", "advertising", "promotion"}},
	{constants.Equipment, []string{"computer", "laptop", "monitor", "printer", "equipment", "hardware"}},
	{constants.Telecommunications, []string{"phone", "internet", "telecom", "verizon", "at&t", "comcast"}},
	{constants.Shipping, []string{"fedex", "ups", "usps", "dhl", "shipping", "freight"}},
	{constants.Meals, []string{"restaurant", "catering", "food", "meal", "dining"}},
}
