package model

import "strings"

// GenerationItem is implemented by every claim-bearing item a generation can
// produce. CitedFactIDs links the item back to the facts that justify it;
// ContentText is the human-visible text the quality scorer inspects.
type GenerationItem interface {
	CitedFactIDs() []string
	ContentText() string
}

// ICP describes one ideal customer profile.
//
// Evidence is a pointer on purpose: an ICP that omits the field entirely is
// accepted for backward compatibility, but an ICP that supplies an explicit
// empty array is rejected by the schema validator. Do not "simplify" this to
// a plain slice - the distinction is load-bearing.
type ICP struct {
	Name          string    `json:"name"`
	Title         string    `json:"title,omitempty"`
	CompanySize   string    `json:"companySize,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Pains         []string  `json:"pains,omitempty"`
	Goals         []string  `json:"goals,omitempty"`
	Evidence      *[]string `json:"evidence,omitempty"`
	SourceFactIDs []string  `json:"sourceFactIds"`
}

func (i ICP) CitedFactIDs() []string { return i.SourceFactIDs }

func (i ICP) ContentText() string {
	parts := []string{i.Name, i.Title, i.CompanySize, i.Industry}
	parts = append(parts, i.Pains...)
	parts = append(parts, i.Goals...)
	return joinNonEmpty(parts)
}

// ICPList is the top-level shape of an ICP generation.
type ICPList struct {
	ICPs []ICP `json:"icps"`
}

// Email is one message in a generated outbound sequence.
type Email struct {
	Subject       string   `json:"subject"`
	Body          string   `json:"body"`
	SourceFactIDs []string `json:"sourceFactIds"`
}

func (e Email) CitedFactIDs() []string { return e.SourceFactIDs }

func (e Email) ContentText() string {
	return joinNonEmpty([]string{e.Subject, e.Body})
}

// EmailSequence is the top-level shape of an email generation.
type EmailSequence struct {
	Emails []Email `json:"emails"`
}

// LinkedInPost is one generated LinkedIn post.
type LinkedInPost struct {
	Hook          string   `json:"hook,omitempty"`
	Body          string   `json:"body"`
	Hashtags      []string `json:"hashtags,omitempty"`
	SourceFactIDs []string `json:"sourceFactIds"`
}

func (p LinkedInPost) CitedFactIDs() []string { return p.SourceFactIDs }

func (p LinkedInPost) ContentText() string {
	return joinNonEmpty([]string{p.Hook, p.Body})
}

// LinkedInContent is the top-level shape of a LinkedIn generation.
type LinkedInContent struct {
	Posts []LinkedInPost `json:"posts"`
}

// ValueProp is one generated value proposition.
type ValueProp struct {
	Text          string   `json:"text"`
	Segment       string   `json:"segment,omitempty"`
	SourceFactIDs []string `json:"sourceFactIds"`
}

func (v ValueProp) CitedFactIDs() []string { return v.SourceFactIDs }

func (v ValueProp) ContentText() string {
	return joinNonEmpty([]string{v.Text, v.Segment})
}

// ValuePropSet is the top-level shape of a value proposition generation.
type ValuePropSet struct {
	ValueProps []ValueProp `json:"valueProps"`
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
