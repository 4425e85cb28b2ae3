// Package schema validates that parsed generation output matches one of the
// expected shapes. Each validator collects every structural error in one pass
// so a repair prompt can address them together.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkorytov/groundgen/internal/model"
)

// Result is the outcome of a structural validation pass. It never panics.
// On failure Data still holds whatever decoded, so best-effort consumers can
// keep the partial value alongside the error list.
type Result[T any] struct {
	OK     bool
	Data   T
	Errors []string
}

func valid[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

func invalid[T any](data T, errs []string) Result[T] {
	return Result[T]{Data: data, Errors: errs}
}

// ValidateFactsDocument checks a facts document, including the non-empty
// evidence invariant on every fact.
func ValidateFactsDocument(raw []byte) Result[model.FactsDocument] {
	var doc model.FactsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid(doc, []string{fmt.Sprintf("facts document does not match expected shape: %v", err)})
	}

	var errs []string
	if len(doc.Facts) == 0 {
		errs = append(errs, "facts: must contain at least one fact")
	}
	for i, f := range doc.Facts {
		label := factLabel(i, f.ID)
		if f.ID == "" {
			errs = append(errs, label+": id is required")
		}
		if strings.TrimSpace(f.Text) == "" {
			errs = append(errs, label+": text is required")
		}
		if f.Evidence == "" {
			errs = append(errs, label+": evidence must not be empty")
		}
	}

	if len(errs) > 0 {
		return invalid(doc, errs)
	}
	return valid(doc)
}

// ValidateICPList checks an ICP generation.
//
// The evidence rule is intentionally asymmetric: an ICP may omit evidence
// entirely (older outputs never carried it), but supplying an explicit empty
// array is an error. The source data asserts on both sides of this rule.
func ValidateICPList(raw []byte) Result[model.ICPList] {
	var list model.ICPList
	if err := json.Unmarshal(raw, &list); err != nil {
		return invalid(list, []string{fmt.Sprintf("ICP list does not match expected shape: %v", err)})
	}

	var errs []string
	if len(list.ICPs) == 0 {
		errs = append(errs, "icps: must contain at least one ICP")
	}
	for i, icp := range list.ICPs {
		label := itemLabel("icps", i, icp.Name)
		if strings.TrimSpace(icp.Name) == "" {
			errs = append(errs, label+": name is required")
		}
		if icp.Evidence != nil && len(*icp.Evidence) == 0 {
			errs = append(errs, label+": evidence must not be an empty array (omit the field instead)")
		}
		if len(icp.SourceFactIDs) == 0 {
			errs = append(errs, label+": sourceFactIds must not be empty")
		}
	}

	if len(errs) > 0 {
		return invalid(list, errs)
	}
	return valid(list)
}

// ValidateEmailSequence checks an email sequence generation.
func ValidateEmailSequence(raw []byte) Result[model.EmailSequence] {
	var seq model.EmailSequence
	if err := json.Unmarshal(raw, &seq); err != nil {
		return invalid(seq, []string{fmt.Sprintf("email sequence does not match expected shape: %v", err)})
	}

	var errs []string
	if len(seq.Emails) == 0 {
		errs = append(errs, "emails: must contain at least one email")
	}
	for i, email := range seq.Emails {
		label := itemLabel("emails", i, email.Subject)
		if strings.TrimSpace(email.Subject) == "" {
			errs = append(errs, label+": subject is required")
		}
		if strings.TrimSpace(email.Body) == "" {
			errs = append(errs, label+": body is required")
		}
		if len(email.SourceFactIDs) == 0 {
			errs = append(errs, label+": sourceFactIds must not be empty")
		}
	}

	if len(errs) > 0 {
		return invalid(seq, errs)
	}
	return valid(seq)
}

// ValidateLinkedInContent checks a LinkedIn content generation.
func ValidateLinkedInContent(raw []byte) Result[model.LinkedInContent] {
	var content model.LinkedInContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return invalid(content, []string{fmt.Sprintf("LinkedIn content does not match expected shape: %v", err)})
	}

	var errs []string
	if len(content.Posts) == 0 {
		errs = append(errs, "posts: must contain at least one post")
	}
	for i, post := range content.Posts {
		label := itemLabel("posts", i, post.Hook)
		if strings.TrimSpace(post.Body) == "" {
			errs = append(errs, label+": body is required")
		}
		if len(post.SourceFactIDs) == 0 {
			errs = append(errs, label+": sourceFactIds must not be empty")
		}
	}

	if len(errs) > 0 {
		return invalid(content, errs)
	}
	return valid(content)
}

// ValidateValueProps checks a value proposition generation.
func ValidateValueProps(raw []byte) Result[model.ValuePropSet] {
	var set model.ValuePropSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return invalid(set, []string{fmt.Sprintf("value proposition set does not match expected shape: %v", err)})
	}

	var errs []string
	if len(set.ValueProps) == 0 {
		errs = append(errs, "valueProps: must contain at least one value proposition")
	}
	for i, vp := range set.ValueProps {
		label := itemLabel("valueProps", i, vp.Text)
		if strings.TrimSpace(vp.Text) == "" {
			errs = append(errs, label+": text is required")
		}
		if len(vp.SourceFactIDs) == 0 {
			errs = append(errs, label+": sourceFactIds must not be empty")
		}
	}

	if len(errs) > 0 {
		return invalid(set, errs)
	}
	return valid(set)
}

func factLabel(index int, id string) string {
	if id != "" {
		return fmt.Sprintf("facts[%d] (%q)", index, id)
	}
	return fmt.Sprintf("facts[%d]", index)
}

func itemLabel(field string, index int, name string) string {
	if name != "" {
		if len(name) > 40 {
			name = name[:40] + "..."
		}
		return fmt.Sprintf("%s[%d] (%q)", field, index, name)
	}
	return fmt.Sprintf("%s[%d]", field, index)
}
