package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkorytov/groundgen/internal/llm"
	"github.com/pkorytov/groundgen/internal/model"
)

// maxPromptFacts caps the fact list embedded in a prompt to avoid token bloat
const maxPromptFacts = 50

const systemPrompt = `You are a marketing content generator that works ONLY from verified facts.

CRITICAL RULES:
1. Every item you produce MUST include a "sourceFactIds" array citing the IDs of the facts it is based on.
2. You MUST ONLY cite fact IDs from the provided fact list. Never invent IDs.
3. Do not make claims that no fact supports. If the facts are thin, produce fewer, better-grounded items.
4. Prefer concrete numbers from the evidence over adjectives. Avoid filler like "cutting-edge" or "best-in-class".
5. Respond with a single JSON object matching the requested shape. No prose, no markdown fences.`

var kindInstructions = map[Kind]string{
	KindICP: `Produce a JSON object: {"icps": [{"name", "title", "companySize", "industry", "pains": [], "goals": [], "sourceFactIds": []}]}.
Generate 2-3 ideal customer profiles grounded in the facts.`,

	KindEmails: `Produce a JSON object: {"emails": [{"subject", "body", "sourceFactIds": []}]}.
Generate a 3-email outbound sequence. Each email must cite the facts its claims rest on.`,

	KindLinkedIn: `Produce a JSON object: {"posts": [{"hook", "body", "hashtags": [], "sourceFactIds": []}]}.
Generate 2-3 LinkedIn posts. Each post must cite the facts its claims rest on.`,

	KindValueProps: `Produce a JSON object: {"valueProps": [{"text", "segment", "sourceFactIds": []}]}.
Generate 3-5 one-sentence value propositions, each traceable to specific facts.`,
}

// buildMessages renders the base prompt for a generation request
func buildMessages(req GenerateRequest) []llm.Message {
	var b strings.Builder

	b.WriteString(kindInstructions[req.Kind])
	b.WriteString("\n\n")

	if req.Audience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n\n", req.Audience)
	}
	if req.Facts.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", req.Facts.Brand)
	}
	if len(req.Facts.Pains) > 0 {
		fmt.Fprintf(&b, "Known customer pains: %s\n", strings.Join(req.Facts.Pains, "; "))
	}
	if len(req.Facts.Proof) > 0 {
		fmt.Fprintf(&b, "Proof points: %s\n", strings.Join(req.Facts.Proof, "; "))
	}

	b.WriteString("\nAllowed facts (cite by id):\n")
	b.WriteString(renderFacts(req.Facts.Facts))

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

func renderFacts(facts []model.Fact) string {
	var b strings.Builder
	for i, f := range facts {
		if i >= maxPromptFacts {
			fmt.Fprintf(&b, "... and %d more facts\n", len(facts)-maxPromptFacts)
			break
		}
		fmt.Fprintf(&b, "- %s: %s (evidence: %q)\n", f.ID, f.Text, f.Evidence)
	}
	if b.Len() == 0 {
		b.WriteString("(no facts available)\n")
	}
	return b.String()
}
