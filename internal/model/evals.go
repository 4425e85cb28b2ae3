package model

import "time"

// EvalEntry records the outcome of one generation. Entries are appended to
// the tracker and never mutated afterwards.
type EvalEntry struct {
	Timestamp        time.Time    `json:"timestamp"`
	Operation        string       `json:"operation"` // e.g., "generate_icps"
	ValidationPassed bool         `json:"validation_passed"`
	RepairAttempted  bool         `json:"repair_attempted"`
	QualityScore     QualityScore `json:"quality_score"`
	EvidenceCount    int          `json:"evidence_count"` // Distinct valid facts cited
	Model            string       `json:"model,omitempty"`
}

// Metrics are aggregates derived on demand from the full eval log
type Metrics struct {
	TotalGenerations     int           `json:"total_generations"`
	AvgQualityScore      float64       `json:"avg_quality_score"`
	EvidenceCitationRate float64       `json:"evidence_citation_rate"` // Fraction of entries that cited any evidence
	GradeDistribution    map[Grade]int `json:"grade_distribution"`
	AvgFactsPerOutput    float64       `json:"avg_facts_per_output"`
	RepairSuccessRate    float64       `json:"repair_success_rate"` // Fraction of repaired entries that ended valid
}
