// ABOUTME: Declarative category-exclusion rules for candidate selection
// ABOUTME: Symmetric rules are explicit table entries, not inferred
package recommend

// categoryExclusions maps a selected category to the categories it rules out
// of the candidate set. A dress replaces both a top and a bottom, so those
// pairs exclude each other in both directions.
var categoryExclusions = map[string][]string{
	"dress":  {"top", "bottom"},
	"top":    {"dress"},
	"bottom": {"dress"},
}

// excludedCategories returns the set of candidate categories ineligible when
// the given category is selected. The selected category itself is always in
// the set: an outfit never pairs two items from the same category.
func excludedCategories(selected string) map[string]bool {
	excluded := map[string]bool{selected: true}
	for _, cat := range categoryExclusions[selected] {
		excluded[cat] = true
	}
	return excluded
}
