package constants

import (
	"strings"
)

type Category string

const (
	OfficeSupplies       Category = "Office Supplies"
	Travel               Category = "Travel"
	Software             Category = "Software & Technology"
	ProfessionalServices Category = "Professional Services"
	Utilities            Category = "Utilities"
	Marketing            Category = "Marketing & Advertising"
	Equipment            Category = "Equipment & Hardware"
	RentFacilities       Category = "Rent & Facilities"
	Insurance            Category = "Insurance"
	Legal                Category = "Legal & Compliance"
	Training             Category = "Training & Education"
	Meals                Category = "Meals & Entertainment"
	Telecommunications   Category = "Telecommunications"
	Shipping             Category = "Shipping & Delivery"
	Maintenance          Category = "Maintenance & Repairs"
	Other                Category = "Other"
)

var allCategories = []Category{
	OfficeSupplies,
	Travel,
	Software,
	ProfessionalServices,
	Utilities,
	Marketing,
	Equipment,
	RentFacilities,
	Insurance,
	Legal,
	Training,
	Meals,
	Telecommunications,
	Shipping,
	Maintenance,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a free-form label onto the fixed category set.
// Exact match wins; otherwise case-insensitive containment in either
// direction. Unmatched labels map to Other.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Other, false
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	for _, cat := range allCategories {
		catLower := strings.ToLower(string(cat))
		if strings.Contains(catLower, normalized) || strings.Contains(normalized, catLower) {
			return cat, true
		}
	}

	return Other, false
}
