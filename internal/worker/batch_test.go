package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pkorytov/groundgen/internal/model"
	"github.com/pkorytov/groundgen/internal/pipeline"
)

type fakeGenerator struct {
	mu    sync.Mutex
	seen  []pipeline.Kind
	fails map[pipeline.Kind]error
}

func (g *fakeGenerator) Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.GenerateResult, error) {
	g.mu.Lock()
	g.seen = append(g.seen, req.Kind)
	g.mu.Unlock()

	if err, ok := g.fails[req.Kind]; ok {
		return nil, err
	}
	return &pipeline.GenerateResult{
		Kind:  req.Kind,
		Score: model.QualityScore{TotalScore: 0.8, Grade: model.GradeA},
	}, nil
}

func requestsFor(kinds ...pipeline.Kind) []pipeline.GenerateRequest {
	reqs := make([]pipeline.GenerateRequest, 0, len(kinds))
	for _, k := range kinds {
		reqs = append(reqs, pipeline.GenerateRequest{Kind: k})
	}
	return reqs
}

func TestBatchProcessorRunsAllKinds(t *testing.T) {
	gen := &fakeGenerator{}
	bp := NewBatchProcessor(gen, 2)

	results := bp.Process(context.Background(), requestsFor(pipeline.Kinds()...))
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}

	byKind := map[pipeline.Kind]*GenerationResult{}
	for _, r := range results {
		byKind[r.Kind] = r
	}
	for _, k := range pipeline.Kinds() {
		r, ok := byKind[k]
		if !ok {
			t.Errorf("missing result for %s", k)
			continue
		}
		if r.Err != nil || r.Result == nil || r.Result.Kind != k {
			t.Errorf("result for %s = %+v", k, r)
		}
	}
}

func TestBatchProcessorKeepsFailuresSeparate(t *testing.T) {
	gen := &fakeGenerator{fails: map[pipeline.Kind]error{
		pipeline.KindEmails: errors.New("provider down"),
	}}
	bp := NewBatchProcessor(gen, 2)

	results := bp.Process(context.Background(), requestsFor(pipeline.KindICP, pipeline.KindEmails))

	var okCount, failCount int
	for _, r := range results {
		if r.GetError() != nil {
			failCount++
			if r.Kind != pipeline.KindEmails {
				t.Errorf("failure attributed to %s", r.Kind)
			}
		} else {
			okCount++
		}
	}
	if okCount != 1 || failCount != 1 {
		t.Errorf("ok/fail = %d/%d, want 1/1", okCount, failCount)
	}
}

func TestBatchProcessorEmptyRequests(t *testing.T) {
	bp := NewBatchProcessor(&fakeGenerator{}, 2)
	if results := bp.Process(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}
