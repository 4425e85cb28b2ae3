package worker

import (
	"context"

	"github.com/pkorytov/groundgen/internal/pipeline"
)

// Generator defines the interface for running one generation
type Generator interface {
	Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.GenerateResult, error)
}

// GenerationJob runs one generation request through a Generator
type GenerationJob struct {
	Request   pipeline.GenerateRequest
	Generator Generator
}

// Execute runs the generation job
func (j *GenerationJob) Execute(ctx context.Context) Result {
	result, err := j.Generator.Generate(ctx, j.Request)
	return &GenerationResult{
		Kind:   j.Request.Kind,
		Result: result,
		Err:    err,
	}
}

// GenerationResult pairs a generation outcome with its kind
type GenerationResult struct {
	Kind   pipeline.Kind
	Result *pipeline.GenerateResult
	Err    error
}

// GetError returns the error from the generation
func (r *GenerationResult) GetError() error {
	return r.Err
}

// BatchProcessor runs multiple generation requests concurrently
type BatchProcessor struct {
	generator   Generator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(generator Generator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
	}
}

// Process runs all requests through the pool and returns results in
// completion order.
func (b *BatchProcessor) Process(ctx context.Context, requests []pipeline.GenerateRequest) []*GenerationResult {
	if len(requests) == 0 {
		return []*GenerationResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&GenerationJob{
			Request:   req,
			Generator: b.generator,
		})
	}

	results := pool.Wait()

	out := make([]*GenerationResult, len(results))
	for i, result := range results {
		out[i] = result.(*GenerationResult)
	}
	return out
}
