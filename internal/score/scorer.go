// Package score applies a fixed weighted rubric to generation output,
// producing a 0-1 score, a letter grade, and remediation issues.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pkorytov/groundgen/internal/evidence"
	"github.com/pkorytov/groundgen/internal/model"
)

// minUsefulCitations is the threshold for full credit on the evidence-count
// criterion; fewer citations earn proportional partial credit.
const minUsefulCitations = 3

// improvementThreshold gates whether an output is flagged for repair
const improvementThreshold = 0.6

// genericPhrases is the filler dictionary. Matching is case-insensitive
// substring matching over the combined output text.
var genericPhrases = []string{
	"leverage",
	"streamline",
	"cutting-edge",
	"best-in-class",
	"world-class",
	"state-of-the-art",
	"game-changing",
	"revolutionary",
	"innovative",
	"seamless",
	"synergy",
	"next-level",
	"industry-leading",
	"empower",
	"unlock",
	"robust",
	"great",
	"amazing",
	"excellent",
	"powerful",
}

// metricsPattern recognizes quantified claims: percentages, multipliers like
// "2x", currency amounts, and number+unit phrases.
var metricsPattern = regexp.MustCompile(
	`(?i)\d+(?:\.\d+)?\s*%` +
		`|\b\d+(?:\.\d+)?x\b` +
		`|[$€£]\s?\d` +
		`|\b\d+(?:,\d{3})*\+?\s*(?:seconds?|minutes?|hours?|days?|weeks?|months?|years?|percent|users?|customers?|teams?|companies|deals?|leads?|seats?|points?)\b`)

// Scorer applies the quality rubric. Stateless; safe for concurrent use.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Output scores a single generation item against the facts document.
// Scoring is deterministic: identical input always yields an identical score.
func (s *Scorer) Output(item model.GenerationItem, doc *model.FactsDocument) model.QualityScore {
	return s.score([]model.GenerationItem{item}, doc)
}

// MultipleOutputs aggregates citations across all items before scoring, so a
// batch that collectively covers the evidence is scored as a unit.
func (s *Scorer) MultipleOutputs(items []model.GenerationItem, doc *model.FactsDocument) model.QualityScore {
	return s.score(items, doc)
}

func (s *Scorer) score(items []model.GenerationItem, doc *model.FactsDocument) model.QualityScore {
	cited := evidence.UnionFactIDs(items)
	check := evidence.Validate(cited, doc.Facts)

	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.ContentText())
	}
	text := strings.Join(texts, "\n")

	genericsFound := findGenericPhrases(text)
	metricsFound := metricsPattern.MatchString(text)

	breakdown := model.ScoreBreakdown{
		EvidenceCount: math.Min(float64(check.CitationCount)/minUsefulCitations, 1),
	}
	if len(cited) > 0 {
		breakdown.HasEvidence = 1
	}
	if len(genericsFound) == 0 {
		breakdown.NoGenerics = 1
	}
	if metricsFound {
		breakdown.HasMetrics = 1
	}
	// Vacuous validity does not count: an output with no citations at all
	// scores zero here, not one.
	if len(cited) > 0 && len(check.MissingFactIDs) == 0 {
		breakdown.EvidenceValid = 1
	}

	total := (breakdown.HasEvidence +
		breakdown.EvidenceCount +
		breakdown.NoGenerics +
		breakdown.HasMetrics +
		breakdown.EvidenceValid) / 5

	return model.QualityScore{
		TotalScore: total,
		Grade:      gradeFor(total),
		Breakdown:  breakdown,
		Issues:     buildIssues(breakdown, check, genericsFound),
		Details: model.ScoreDetails{
			CitationCount:       check.CitationCount,
			GenericPhrasesFound: genericsFound,
			MetricsFound:        metricsFound,
			InvalidFactIDs:      check.MissingFactIDs,
		},
	}
}

// NeedsImprovement reports whether the score falls below the repair threshold
func (s *Scorer) NeedsImprovement(qs model.QualityScore) bool {
	return qs.TotalScore < improvementThreshold
}

// ImprovementPrompt renders the score's issues into a corrective instruction
// block. When evidence is missing it spells out the sourceFactIds requirement
// explicitly, since that is the defect models most often repeat.
func (s *Scorer) ImprovementPrompt(qs model.QualityScore) string {
	var b strings.Builder
	b.WriteString("The previous output did not meet quality requirements. Fix the following issues:\n")
	for _, issue := range qs.Issues {
		b.WriteString("- " + issue + "\n")
	}
	if qs.Breakdown.HasEvidence == 0 {
		b.WriteString("\nEvery item MUST include a non-empty sourceFactIds array citing fact IDs from the provided facts document.\n")
	}
	b.WriteString("\nRegenerate the full output with these corrections. Respond with JSON only.")
	return b.String()
}

// gradeFor maps a total score onto a letter grade. Thresholds are exact:
// A >= 0.8, B >= 0.6, C >= 0.4, D >= 0.2, else F.
func gradeFor(total float64) model.Grade {
	switch {
	case total >= 0.8:
		return model.GradeA
	case total >= 0.6:
		return model.GradeB
	case total >= 0.4:
		return model.GradeC
	case total >= 0.2:
		return model.GradeD
	default:
		return model.GradeF
	}
}

func findGenericPhrases(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

func buildIssues(breakdown model.ScoreBreakdown, check model.EvidenceCheck, generics []string) []string {
	var issues []string
	if breakdown.HasEvidence == 0 {
		issues = append(issues, "Missing evidence citations: add sourceFactIds referencing the facts document")
	}
	if breakdown.EvidenceCount < 1 && breakdown.HasEvidence > 0 {
		issues = append(issues, fmt.Sprintf("Only %d distinct facts cited; aim for at least %d", check.CitationCount, minUsefulCitations))
	}
	if breakdown.NoGenerics == 0 {
		issues = append(issues, fmt.Sprintf("Contains %d generic phrases: %s", len(generics), strings.Join(generics, ", ")))
	}
	if breakdown.HasMetrics == 0 {
		issues = append(issues, "Missing quantified metrics (percentages, multipliers, or concrete numbers)")
	}
	if breakdown.EvidenceValid == 0 && len(check.MissingFactIDs) > 0 {
		issues = append(issues, fmt.Sprintf("Cites unknown fact IDs: %s", strings.Join(check.MissingFactIDs, ", ")))
	}
	return issues
}
