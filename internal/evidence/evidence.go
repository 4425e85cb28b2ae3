// Package evidence verifies that generated claims trace back to the
// authoritative fact list.
package evidence

import (
	"github.com/pkorytov/groundgen/internal/model"
)

// Validate checks a set of cited fact IDs against the known facts.
// Duplicates in citedIDs are collapsed; order of MissingFactIDs follows first
// occurrence in citedIDs, UnusedFacts follows document order.
func Validate(citedIDs []string, facts []model.Fact) model.EvidenceCheck {
	known := make(map[string]bool, len(facts))
	for _, f := range facts {
		known[f.ID] = true
	}

	seen := make(map[string]bool, len(citedIDs))
	citationCount := 0
	var missing []string
	for _, id := range citedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if known[id] {
			citationCount++
		} else {
			missing = append(missing, id)
		}
	}

	var unused []string
	for _, f := range facts {
		if !seen[f.ID] {
			unused = append(unused, f.ID)
		}
	}

	coverage := 0.0
	if len(known) > 0 {
		coverage = float64(citationCount) / float64(len(known))
	}

	return model.EvidenceCheck{
		IsValid:        len(citedIDs) > 0 && len(missing) == 0,
		CitationCount:  citationCount,
		Coverage:       coverage,
		MissingFactIDs: missing,
		UnusedFacts:    unused,
	}
}

// ValidateAcrossItems unions the citations of all items before computing a
// single aggregate check. Used when a generation produces multiple items
// (e.g., several emails) that collectively must cover the evidence.
func ValidateAcrossItems(items []model.GenerationItem, facts []model.Fact) model.EvidenceCheck {
	return Validate(UnionFactIDs(items), facts)
}

// UnionFactIDs merges the cited IDs of all items, deduplicated in first-seen
// order.
func UnionFactIDs(items []model.GenerationItem) []string {
	seen := make(map[string]bool)
	var union []string
	for _, item := range items {
		for _, id := range item.CitedFactIDs() {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}
	return union
}
