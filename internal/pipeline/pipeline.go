// Package pipeline wires the generation stages together: prompt build,
// orchestrated model call with auto-repair, quality scoring, and eval
// tracking.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkorytov/groundgen/internal/cache"
	"github.com/pkorytov/groundgen/internal/call"
	"github.com/pkorytov/groundgen/internal/evals"
	"github.com/pkorytov/groundgen/internal/evidence"
	"github.com/pkorytov/groundgen/internal/llm"
	"github.com/pkorytov/groundgen/internal/model"
	"github.com/pkorytov/groundgen/internal/repair"
	"github.com/pkorytov/groundgen/internal/schema"
	"github.com/pkorytov/groundgen/internal/score"
)

// Kind selects the output shape of a generation
type Kind string

const (
	KindICP        Kind = "icp"
	KindEmails     Kind = "emails"
	KindLinkedIn   Kind = "linkedin"
	KindValueProps Kind = "valueprops"
)

// Kinds lists every supported generation kind
func Kinds() []Kind {
	return []Kind{KindICP, KindEmails, KindLinkedIn, KindValueProps}
}

// ParseKind validates a kind name from user input
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown generation kind: %s (supported: icp, emails, linkedin, valueprops)", s)
}

// RateWaiter blocks until a provider call is allowed. *worker.Limiter
// satisfies this.
type RateWaiter interface {
	Wait(ctx context.Context, key string) error
}

// GenerateRequest describes one generation
type GenerateRequest struct {
	Kind     Kind
	Facts    model.FactsDocument
	Audience string // Optional audience/context hint folded into the prompt
}

// GenerateResult is the typed outcome handed to callers. The pipeline never
// persists it.
type GenerateResult struct {
	Kind   Kind
	Output interface{} // model.ICPList, model.EmailSequence, ...
	Items  []model.GenerationItem

	Score    model.QualityScore
	Evidence model.EvidenceCheck

	// ValidationErrors is non-empty when the output still failed validation
	// after the single repair attempt; the caller decides whether that
	// blocks or is surfaced as a warning
	ValidationErrors []string
	RepairAttempted  bool
	Model            string
	TokensUsed       int
}

// Pipeline orchestrates the complete generation process
type Pipeline struct {
	provider llm.Provider
	scorer   *score.Scorer
	tracker  *evals.Tracker
	limiter  RateWaiter
	config   *model.Config
}

// New creates a pipeline from configuration, building the provider and the
// response cache. Fails when no provider is configured.
func New(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider or --provider)")
	}

	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(home, ".groundgen", "cache")
			}
		}
		if dir != "" {
			store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
			provider = llm.NewCachedProvider(provider, store, cfg.Cache.DiskTTL)
		}
	}

	return NewWithProvider(cfg, provider, evals.NewTracker()), nil
}

// NewWithProvider creates a pipeline around an existing provider and tracker.
// Used by tests and by callers that wrap the provider themselves.
func NewWithProvider(cfg *model.Config, provider llm.Provider, tracker *evals.Tracker) *Pipeline {
	return &Pipeline{
		provider: provider,
		scorer:   score.NewScorer(),
		tracker:  tracker,
		config:   cfg,
	}
}

// SetRateLimiter installs a rate limiter awaited before each generation
func (p *Pipeline) SetRateLimiter(l RateWaiter) {
	p.limiter = l
}

// Tracker exposes the eval log for metrics rendering
func (p *Pipeline) Tracker() *evals.Tracker {
	return p.tracker
}

// Scorer exposes the scorer for offline re-scoring
func (p *Pipeline) Scorer() *score.Scorer {
	return p.scorer
}

// Generate runs the full pipeline for one request
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	switch req.Kind {
	case KindICP:
		return runKind(ctx, p, req, "generate_icps", schema.ValidateICPList, icpItems)
	case KindEmails:
		return runKind(ctx, p, req, "generate_emails", schema.ValidateEmailSequence, emailItems)
	case KindLinkedIn:
		return runKind(ctx, p, req, "generate_linkedin", schema.ValidateLinkedInContent, linkedInItems)
	case KindValueProps:
		return runKind(ctx, p, req, "generate_valueprops", schema.ValidateValueProps, valuePropItems)
	default:
		return nil, fmt.Errorf("unknown generation kind: %s", req.Kind)
	}
}

// runKind is the shared typed path for every kind: rate-limit, invoke with
// auto-repair, score, track, return.
func runKind[T any](
	ctx context.Context,
	p *Pipeline,
	req GenerateRequest,
	label string,
	validateFn repair.ValidateFunc[T],
	itemsFn func(T) []model.GenerationItem,
) (*GenerateResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	modelCfg := repair.ModelConfig{
		Model:       p.config.LLM.Model,
		MaxTokens:   p.config.LLM.MaxTokens,
		Temperature: p.config.LLM.Temperature,
		Retry: call.Config{
			MaxRetries: p.config.Retry.MaxRetries,
			BaseDelay:  p.config.Retry.BaseDelay,
			MaxDelay:   p.config.Retry.MaxDelay,
			Timeout:    p.config.Retry.Timeout,
		},
	}

	promptFn := func() []llm.Message { return buildMessages(req) }

	res := repair.CallWithAutoRepair(ctx, promptFn, validateFn, modelCfg, p.provider, label)
	if !res.Success {
		return nil, res.Err
	}

	out := res.Data
	items := itemsFn(out.Data)
	qs := p.scorer.MultipleOutputs(items, &req.Facts)
	check := evidence.ValidateAcrossItems(items, req.Facts.Facts)

	p.tracker.Track(model.EvalEntry{
		Operation:        label,
		ValidationPassed: len(out.ValidationErrors) == 0,
		RepairAttempted:  out.RepairAttempted,
		QualityScore:     qs,
		EvidenceCount:    check.CitationCount,
		Model:            out.Model,
	})

	return &GenerateResult{
		Kind:             req.Kind,
		Output:           out.Data,
		Items:            items,
		Score:            qs,
		Evidence:         check,
		ValidationErrors: out.ValidationErrors,
		RepairAttempted:  out.RepairAttempted,
		Model:            out.Model,
		TokensUsed:       out.TokensUsed,
	}, nil
}

func icpItems(list model.ICPList) []model.GenerationItem {
	items := make([]model.GenerationItem, 0, len(list.ICPs))
	for _, icp := range list.ICPs {
		items = append(items, icp)
	}
	return items
}

func emailItems(seq model.EmailSequence) []model.GenerationItem {
	items := make([]model.GenerationItem, 0, len(seq.Emails))
	for _, e := range seq.Emails {
		items = append(items, e)
	}
	return items
}

func linkedInItems(content model.LinkedInContent) []model.GenerationItem {
	items := make([]model.GenerationItem, 0, len(content.Posts))
	for _, post := range content.Posts {
		items = append(items, post)
	}
	return items
}

func valuePropItems(set model.ValuePropSet) []model.GenerationItem {
	items := make([]model.GenerationItem, 0, len(set.ValueProps))
	for _, vp := range set.ValueProps {
		items = append(items, vp)
	}
	return items
}
