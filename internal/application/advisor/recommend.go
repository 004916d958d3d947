package advisor

import "github.com/urbansight/urbansight/internal/domain/safety"

// Static advisory strings keyed by score category.  This is a fixed lookup
// table, not algorithmic content.
var recommendationTable = map[safety.Category][]string{
	safety.CategoryLow: {
		"Avoid poorly lit streets when walking.",
		"Consider traveling with a larger group.",
		"Use transit options with safer hubs nearby.",
	},
	safety.CategoryMedium: {
		"Stay alert in less crowded areas.",
		"Keep emergency contacts readily accessible.",
	},
	safety.CategoryHigh: {
		"Standard positive precautions are sufficient.",
	},
}

// Recommendations returns the advisory strings for a category.  Unknown
// categories fall back to the High set, matching the table's else branch.
func Recommendations(cat safety.Category) []string {
	if recs, ok := recommendationTable[cat]; ok {
		return recs
	}
	return recommendationTable[safety.CategoryHigh]
}
