package tools

import "strings"

// Spending categories. Every transaction maps to exactly one.
const (
	CategoryDining         = "dining"
	CategoryGroceries      = "groceries"
	CategoryTransportation = "transportation"
	CategorySubscriptions  = "subscriptions"
	CategoryOther          = "other"
)

// categoryKeywords is checked in order; the first category with a matching
// keyword wins. Matching is a case-insensitive substring test against the
// transaction description.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDining, []string{"restaurant", "cafe", "coffee", "doordash", "grubhub", "dining"}},
	{CategoryGroceries, []string{"grocery", "whole foods", "market", "safeway", "trader joe"}},
	{CategoryTransportation, []string{"gas", "fuel", "shell", "chevron", "uber", "lyft", "transit"}},
	{CategorySubscriptions, []string{"netflix", "spotify", "hulu", "subscription"}},
}

// Categorize assigns a spending category to a transaction description.
// Unmatched descriptions fall through to "other".
func Categorize(description string) string {
	desc := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(desc, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}

// Categories returns the fixed category set in priority order.
func Categories() []string {
	return []string{
		CategoryDining,
		CategoryGroceries,
		CategoryTransportation,
		CategorySubscriptions,
		CategoryOther,
	}
}
