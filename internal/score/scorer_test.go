package score

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pkorytov/groundgen/internal/model"
)

func testDoc() model.FactsDocument {
	return model.FactsDocument{
		Brand: "Acme",
		Facts: []model.Fact{
			{ID: "fact-1", Text: "Cuts onboarding time by 40%", Evidence: "Case study p.3"},
			{ID: "fact-2", Text: "SOC2 Type II certified", Evidence: "Trust center"},
			{ID: "fact-3", Text: "Used by 500 customers", Evidence: "Customer page"},
		},
	}
}

func TestOutputFullMarks(t *testing.T) {
	doc := testDoc()
	item := model.ValueProp{
		Text:          "Cut time by 40% with SOC2-certified automation",
		SourceFactIDs: []string{"fact-1", "fact-2", "fact-3"},
	}

	qs := NewScorer().Output(item, &doc)

	if qs.TotalScore != 1 {
		t.Errorf("total = %v, want 1 (breakdown %+v)", qs.TotalScore, qs.Breakdown)
	}
	if qs.Grade != model.GradeA {
		t.Errorf("grade = %s, want A", qs.Grade)
	}
	if len(qs.Issues) != 0 {
		t.Errorf("issues on a perfect output: %v", qs.Issues)
	}
	if qs.Details.CitationCount != 3 || !qs.Details.MetricsFound {
		t.Errorf("details = %+v", qs.Details)
	}
}

func TestOutputGenericUncitedScoresF(t *testing.T) {
	doc := testDoc()
	item := model.ValueProp{Text: "Great software for all your needs"}

	qs := NewScorer().Output(item, &doc)

	if qs.TotalScore != 0 {
		t.Errorf("total = %v, want 0 (breakdown %+v)", qs.TotalScore, qs.Breakdown)
	}
	if qs.Grade != model.GradeF {
		t.Errorf("grade = %s, want F", qs.Grade)
	}
	if !reflect.DeepEqual(qs.Details.GenericPhrasesFound, []string{"great"}) {
		t.Errorf("generics = %v, want [great]", qs.Details.GenericPhrasesFound)
	}
	if len(qs.Issues) == 0 {
		t.Error("expected remediation issues")
	}
}

func TestOutputPartialCitationCredit(t *testing.T) {
	doc := testDoc()
	item := model.ValueProp{
		Text:          "Onboarding drops by 40% for certified teams",
		SourceFactIDs: []string{"fact-1", "fact-2"},
	}

	qs := NewScorer().Output(item, &doc)

	if got, want := qs.Breakdown.EvidenceCount, 2.0/3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("evidenceCount = %v, want 2/3", got)
	}
	want := (1 + 2.0/3.0 + 1 + 1 + 1) / 5
	if math.Abs(qs.TotalScore-want) > 1e-9 {
		t.Errorf("total = %v, want %v", qs.TotalScore, want)
	}
	if qs.Grade != model.GradeA {
		t.Errorf("grade = %s, want A", qs.Grade)
	}
}

func TestOutputUnknownCitationInvalidatesEvidence(t *testing.T) {
	doc := testDoc()
	item := model.ValueProp{
		Text:          "Saves 3 hours per week",
		SourceFactIDs: []string{"fact-1", "fact-99"},
	}

	qs := NewScorer().Output(item, &doc)

	if qs.Breakdown.EvidenceValid != 0 {
		t.Error("unknown citation must zero the validity criterion")
	}
	if !reflect.DeepEqual(qs.Details.InvalidFactIDs, []string{"fact-99"}) {
		t.Errorf("invalid ids = %v", qs.Details.InvalidFactIDs)
	}
	found := false
	for _, issue := range qs.Issues {
		if strings.Contains(issue, "fact-99") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues do not name the unknown id: %v", qs.Issues)
	}
}

func TestMultipleOutputsScoredAsUnit(t *testing.T) {
	doc := testDoc()
	items := []model.GenerationItem{
		model.Email{Subject: "Cut onboarding 40%", Body: "Proof inside.", SourceFactIDs: []string{"fact-1"}},
		model.Email{Subject: "SOC2 matters", Body: "Here is why.", SourceFactIDs: []string{"fact-2"}},
		model.Email{Subject: "500 customers agree", Body: "Join them.", SourceFactIDs: []string{"fact-3"}},
	}

	qs := NewScorer().MultipleOutputs(items, &doc)

	if qs.Breakdown.EvidenceCount != 1 {
		t.Errorf("evidenceCount = %v, want 1 (citations union across items)", qs.Breakdown.EvidenceCount)
	}
	if qs.Details.CitationCount != 3 {
		t.Errorf("citationCount = %d, want 3", qs.Details.CitationCount)
	}
}

func TestScoringIsDeterministic(t *testing.T) {
	doc := testDoc()
	item := model.ValueProp{
		Text:          "Seamless rollout saves 2x the effort",
		SourceFactIDs: []string{"fact-1", "fact-404"},
	}

	s := NewScorer()
	first := s.Output(item, &doc)
	for i := 0; i < 10; i++ {
		if got := s.Output(item, &doc); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		total float64
		want  model.Grade
	}{
		{1.0, model.GradeA},
		{0.8, model.GradeA},
		{0.79999, model.GradeB},
		{0.6, model.GradeB},
		{0.59999, model.GradeC},
		{0.4, model.GradeC},
		{0.39999, model.GradeD},
		{0.2, model.GradeD},
		{0.19999, model.GradeF},
		{0, model.GradeF},
	}

	for _, tt := range tests {
		if got := gradeFor(tt.total); got != tt.want {
			t.Errorf("gradeFor(%v) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestMetricsPattern(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"cuts time by 40%", true},
		{"a 2.5% lift", true},
		{"grows 3x faster", true},
		{"saves $500 per seat", true},
		{"from €20 per month", true},
		{"500 customers in production", true},
		{"2 hours saved weekly", true},
		{"10,000 users onboarded", true},
		{"saves plenty of time", false},
		{"much faster than before", false},
		{"the x factor", false},
	}

	for _, tt := range tests {
		if got := metricsPattern.MatchString(tt.text); got != tt.want {
			t.Errorf("metricsPattern(%q) = %t, want %t", tt.text, got, tt.want)
		}
	}
}

func TestFindGenericPhrasesCaseInsensitive(t *testing.T) {
	got := findGenericPhrases("LEVERAGE our Seamless platform")
	if !reflect.DeepEqual(got, []string{"leverage", "seamless"}) {
		t.Errorf("generics = %v", got)
	}
	if found := findGenericPhrases("cuts onboarding time in half"); found != nil {
		t.Errorf("false positives: %v", found)
	}
}

func TestNeedsImprovement(t *testing.T) {
	s := NewScorer()
	if s.NeedsImprovement(model.QualityScore{TotalScore: 0.6}) {
		t.Error("0.6 flagged for improvement")
	}
	if !s.NeedsImprovement(model.QualityScore{TotalScore: 0.59}) {
		t.Error("0.59 not flagged")
	}
}

func TestImprovementPromptSpellsOutCitations(t *testing.T) {
	qs := model.QualityScore{
		Issues: []string{"Missing evidence citations: add sourceFactIds referencing the facts document"},
	}
	prompt := NewScorer().ImprovementPrompt(qs)

	if !strings.Contains(prompt, "sourceFactIds") {
		t.Errorf("prompt does not mention sourceFactIds:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Missing evidence citations") {
		t.Errorf("prompt does not carry the issues:\n%s", prompt)
	}
}
