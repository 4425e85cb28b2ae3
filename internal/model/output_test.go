package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestICPEvidencePointerDistinguishesOmittedFromEmpty(t *testing.T) {
	var omitted ICP
	if err := json.Unmarshal([]byte(`{"name": "A", "sourceFactIds": ["fact-1"]}`), &omitted); err != nil {
		t.Fatal(err)
	}
	if omitted.Evidence != nil {
		t.Error("omitted evidence decoded as non-nil")
	}

	var empty ICP
	if err := json.Unmarshal([]byte(`{"name": "A", "evidence": [], "sourceFactIds": ["fact-1"]}`), &empty); err != nil {
		t.Fatal(err)
	}
	if empty.Evidence == nil || len(*empty.Evidence) != 0 {
		t.Errorf("explicit empty array decoded as %v", empty.Evidence)
	}
}

func TestICPContentText(t *testing.T) {
	icp := ICP{
		Name:     "RevOps lead",
		Title:    "Director",
		Pains:    []string{"Slow onboarding", ""},
		Goals:    []string{"Cut ramp time"},
		Evidence: &[]string{"not part of the scored text"},
	}

	text := icp.ContentText()
	for _, want := range []string{"RevOps lead", "Director", "Slow onboarding", "Cut ramp time"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
	if strings.Contains(text, "not part of the scored text") {
		t.Error("evidence leaked into scored text")
	}
	if strings.Contains(text, "\n\n") {
		t.Errorf("blank entries not dropped: %q", text)
	}
}

func TestGenerationItemImplementations(t *testing.T) {
	items := []GenerationItem{
		ICP{Name: "a", SourceFactIDs: []string{"fact-1"}},
		Email{Subject: "s", Body: "b", SourceFactIDs: []string{"fact-2"}},
		LinkedInPost{Hook: "h", Body: "b", SourceFactIDs: []string{"fact-3"}},
		ValueProp{Text: "t", SourceFactIDs: []string{"fact-4"}},
	}

	for i, item := range items {
		if len(item.CitedFactIDs()) != 1 {
			t.Errorf("item %d cited = %v", i, item.CitedFactIDs())
		}
		if item.ContentText() == "" {
			t.Errorf("item %d has empty content text", i)
		}
	}
}

func TestFactsDocumentLookups(t *testing.T) {
	doc := FactsDocument{Facts: []Fact{
		{ID: "fact-1", Text: "a", Evidence: "e"},
		{ID: "fact-2", Text: "b", Evidence: "e"},
	}}

	ids := doc.FactIDs()
	if len(ids) != 2 || ids[0] != "fact-1" || ids[1] != "fact-2" {
		t.Errorf("ids = %v", ids)
	}

	set := doc.FactIDSet()
	if !set["fact-1"] || set["fact-3"] {
		t.Errorf("set = %v", set)
	}
}
