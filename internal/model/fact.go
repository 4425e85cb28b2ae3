package model

// Fact represents a single evidence-backed claim extracted from a source
type Fact struct {
	ID       string `json:"id"`                 // Stable identifier (e.g., "fact-12")
	Text     string `json:"text"`               // The claim text itself
	Page     string `json:"page,omitempty"`     // Page or section the fact came from
	Evidence string `json:"evidence"`           // Verbatim supporting quote; must never be empty
}

// FactsDocument aggregates everything the extraction stage learned about a
// source. It is produced once per analysis run and read-only afterwards.
type FactsDocument struct {
	Brand      string   `json:"brand,omitempty"`      // Brand or product name
	Structure  string   `json:"structure,omitempty"`  // Page structure summary
	Facts      []Fact   `json:"facts"`                // Extracted facts
	ValueProps []string `json:"valueProps,omitempty"` // Raw value propositions
	Pains      []string `json:"pains,omitempty"`      // Customer pains mentioned
	Proof      []string `json:"proof,omitempty"`      // Proof points (logos, certifications)
}

// FactIDs returns all known fact IDs in document order.
func (d *FactsDocument) FactIDs() []string {
	ids := make([]string, 0, len(d.Facts))
	for _, f := range d.Facts {
		ids = append(ids, f.ID)
	}
	return ids
}

// FactIDSet returns the known fact IDs as a lookup set.
func (d *FactsDocument) FactIDSet() map[string]bool {
	set := make(map[string]bool, len(d.Facts))
	for _, f := range d.Facts {
		set[f.ID] = true
	}
	return set
}
