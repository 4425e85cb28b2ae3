package pipeline

import (
	"fmt"

	"github.com/pkorytov/groundgen/internal/model"
	"github.com/pkorytov/groundgen/internal/schema"
)

// ParseOutput validates raw JSON of the given kind and returns the decoded
// output plus its claim-bearing items. Validation errors come back alongside
// the best-effort decode so callers can re-score imperfect output.
func ParseOutput(kind Kind, raw []byte) (interface{}, []model.GenerationItem, []string, error) {
	switch kind {
	case KindICP:
		res := schema.ValidateICPList(raw)
		return res.Data, icpItems(res.Data), res.Errors, nil
	case KindEmails:
		res := schema.ValidateEmailSequence(raw)
		return res.Data, emailItems(res.Data), res.Errors, nil
	case KindLinkedIn:
		res := schema.ValidateLinkedInContent(raw)
		return res.Data, linkedInItems(res.Data), res.Errors, nil
	case KindValueProps:
		res := schema.ValidateValueProps(raw)
		return res.Data, valuePropItems(res.Data), res.Errors, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown generation kind: %s", kind)
	}
}
