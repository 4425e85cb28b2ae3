package model

// EvidenceCheck contains the result of validating citations against the
// authoritative fact list.
type EvidenceCheck struct {
	IsValid        bool     `json:"is_valid"`         // Non-empty citations and none unknown
	CitationCount  int      `json:"citation_count"`   // Unique cited IDs that exist in the fact list
	Coverage       float64  `json:"coverage"`         // Cited known facts / all known facts (0..1)
	MissingFactIDs []string `json:"missing_fact_ids"` // Cited IDs not present in the fact list
	UnusedFacts    []string `json:"unused_facts"`     // Known fact IDs never cited
}

// Grade is a letter derived from a 0-1 quality score via fixed thresholds
type Grade string

const (
	GradeA Grade = "A" // >= 0.8
	GradeB Grade = "B" // >= 0.6
	GradeC Grade = "C" // >= 0.4
	GradeD Grade = "D" // >= 0.2
	GradeF Grade = "F"
)

// ScoreBreakdown holds the per-criterion contributions to the total score.
// Each component is 0..1; EvidenceCount is the only one with partial credit.
type ScoreBreakdown struct {
	HasEvidence   float64 `json:"has_evidence"`
	EvidenceCount float64 `json:"evidence_count"`
	NoGenerics    float64 `json:"no_generics"`
	HasMetrics    float64 `json:"has_metrics"`
	EvidenceValid float64 `json:"evidence_valid"`
}

// ScoreDetails carries the transparent data behind the breakdown
type ScoreDetails struct {
	CitationCount       int      `json:"citation_count"`
	GenericPhrasesFound []string `json:"generic_phrases_found"`
	MetricsFound        bool     `json:"metrics_found"`
	InvalidFactIDs      []string `json:"invalid_fact_ids"`
}

// QualityScore is the rubric result for one generation output (or a batch
// scored as a unit).
type QualityScore struct {
	TotalScore float64        `json:"total_score"` // Mean of the five breakdown components
	Grade      Grade          `json:"grade"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Issues     []string       `json:"issues"` // Human-readable remediation list
	Details    ScoreDetails   `json:"details"`
}
