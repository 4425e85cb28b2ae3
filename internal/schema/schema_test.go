package schema

import (
	"strings"
	"testing"
)

func TestValidateFactsDocumentAccepts(t *testing.T) {
	raw := []byte(`{
		"brand": "Acme",
		"facts": [
			{"id": "fact-1", "text": "Cuts onboarding time by 40%", "evidence": "Case study p.3", "page": "3"},
			{"id": "fact-2", "text": "SOC2 Type II certified", "evidence": "Trust center"}
		]
	}`)

	res := ValidateFactsDocument(raw)
	if !res.OK {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
	if res.Data.Brand != "Acme" {
		t.Errorf("brand = %q", res.Data.Brand)
	}
	if len(res.Data.Facts) != 2 {
		t.Errorf("facts = %d, want 2", len(res.Data.Facts))
	}
}

func TestValidateFactsDocumentCollectsAllErrors(t *testing.T) {
	raw := []byte(`{
		"facts": [
			{"id": "fact-1", "text": "ok", "evidence": "src"},
			{"id": "", "text": "", "evidence": "src"},
			{"id": "fact-3", "text": "claim", "evidence": ""}
		]
	}`)

	res := ValidateFactsDocument(raw)
	if res.OK {
		t.Fatal("expected invalid")
	}
	// One pass collects every problem: missing id, missing text, empty evidence
	if len(res.Errors) != 3 {
		t.Fatalf("errors = %d, want 3: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0], "facts[1]") || !strings.Contains(res.Errors[0], "id is required") {
		t.Errorf("unexpected first error: %q", res.Errors[0])
	}
	if !strings.Contains(res.Errors[2], `facts[2] ("fact-3")`) || !strings.Contains(res.Errors[2], "evidence must not be empty") {
		t.Errorf("unexpected third error: %q", res.Errors[2])
	}
	// Best-effort decode survives validation failure
	if len(res.Data.Facts) != 3 {
		t.Errorf("partial data lost: %d facts", len(res.Data.Facts))
	}
}

func TestValidateFactsDocumentRejectsEmptyAndMalformed(t *testing.T) {
	res := ValidateFactsDocument([]byte(`{"facts": []}`))
	if res.OK {
		t.Error("empty fact list accepted")
	}

	res = ValidateFactsDocument([]byte(`{"facts": "nope"}`))
	if res.OK {
		t.Error("malformed document accepted")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "expected shape") {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidateICPListEvidenceAsymmetry(t *testing.T) {
	// Omitting evidence entirely is fine
	omitted := []byte(`{"icps": [{"name": "VP Sales", "sourceFactIds": ["fact-1"]}]}`)
	if res := ValidateICPList(omitted); !res.OK {
		t.Errorf("omitted evidence rejected: %v", res.Errors)
	}

	// A populated evidence array is fine
	populated := []byte(`{"icps": [{"name": "VP Sales", "evidence": ["case study"], "sourceFactIds": ["fact-1"]}]}`)
	if res := ValidateICPList(populated); !res.OK {
		t.Errorf("populated evidence rejected: %v", res.Errors)
	}

	// An explicit empty array is not
	empty := []byte(`{"icps": [{"name": "VP Sales", "evidence": [], "sourceFactIds": ["fact-1"]}]}`)
	res := ValidateICPList(empty)
	if res.OK {
		t.Fatal("explicit empty evidence array accepted")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "omit the field instead") {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidateICPListRequiresNameAndCitations(t *testing.T) {
	raw := []byte(`{"icps": [{"name": "  ", "sourceFactIds": []}]}`)
	res := ValidateICPList(raw)
	if res.OK {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[1], "sourceFactIds must not be empty") {
		t.Errorf("unexpected error: %q", res.Errors[1])
	}
}

func TestValidateEmailSequence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantErrs int
	}{
		{
			"valid",
			`{"emails": [{"subject": "Quick question", "body": "We cut onboarding by 40%.", "sourceFactIds": ["fact-1"]}]}`,
			true, 0,
		},
		{
			"empty sequence",
			`{"emails": []}`,
			false, 1,
		},
		{
			"missing subject and citations",
			`{"emails": [{"subject": "", "body": "text", "sourceFactIds": []}]}`,
			false, 2,
		},
		{
			"blank body",
			`{"emails": [{"subject": "Hi", "body": "   ", "sourceFactIds": ["fact-1"]}]}`,
			false, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateEmailSequence([]byte(tt.raw))
			if res.OK != tt.wantOK {
				t.Errorf("OK = %t, want %t (errors: %v)", res.OK, tt.wantOK, res.Errors)
			}
			if len(res.Errors) != tt.wantErrs {
				t.Errorf("errors = %d, want %d: %v", len(res.Errors), tt.wantErrs, res.Errors)
			}
		})
	}
}

func TestValidateLinkedInContent(t *testing.T) {
	valid := []byte(`{"posts": [{"hook": "40% faster onboarding", "body": "Here is how.", "hashtags": ["#sales"], "sourceFactIds": ["fact-1"]}]}`)
	if res := ValidateLinkedInContent(valid); !res.OK {
		t.Errorf("valid content rejected: %v", res.Errors)
	}

	// Hook is optional, body is not
	noBody := []byte(`{"posts": [{"hook": "h", "body": "", "sourceFactIds": ["fact-1"]}]}`)
	res := ValidateLinkedInContent(noBody)
	if res.OK {
		t.Fatal("post without body accepted")
	}
	if !strings.Contains(res.Errors[0], "body is required") {
		t.Errorf("unexpected error: %q", res.Errors[0])
	}
}

func TestValidateValueProps(t *testing.T) {
	valid := []byte(`{"valueProps": [{"text": "Cut onboarding by 40%", "segment": "mid-market", "sourceFactIds": ["fact-1", "fact-2"]}]}`)
	if res := ValidateValueProps(valid); !res.OK {
		t.Errorf("valid set rejected: %v", res.Errors)
	}

	res := ValidateValueProps([]byte(`{"valueProps": []}`))
	if res.OK {
		t.Error("empty set accepted")
	}
}

func TestItemLabelTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("x", 60)
	label := itemLabel("icps", 0, long)
	if !strings.Contains(label, strings.Repeat("x", 40)+"...") {
		t.Errorf("label not truncated: %q", label)
	}
	if strings.Contains(label, strings.Repeat("x", 41)) {
		t.Errorf("label kept more than 40 chars: %q", label)
	}
}
