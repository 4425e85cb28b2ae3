package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkorytov/groundgen/internal/pipeline"
	"github.com/pkorytov/groundgen/internal/worker"
)

var (
	batchFactsPath string
	batchKinds     string
	batchOutDir    string
	batchTimeout   time.Duration
	concurrency    int
	requestsPerSec float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate multiple content kinds concurrently",
	Long: `Batch runs several generations through a worker pool, sharing one
rate-limited provider, and prints aggregate eval metrics at the end.

Example:
  groundgen batch --facts facts.json --kinds icp,emails,linkedin,valueprops --out-dir ./out`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFactsPath, "facts", "", "facts document JSON path (required)")
	batchCmd.Flags().StringVar(&batchKinds, "kinds", "icp,emails,linkedin,valueprops", "comma-separated content kinds")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", ".", "directory for output JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "concurrent generations")
	batchCmd.Flags().Float64Var(&requestsPerSec, "rps", 2, "provider requests per second")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache")
	_ = batchCmd.MarkFlagRequired("facts")
}

func runBatch(cmd *cobra.Command, args []string) error {
	facts, err := loadFacts(batchFactsPath)
	if err != nil {
		return err
	}

	var requests []pipeline.GenerateRequest
	for _, name := range strings.Split(batchKinds, ",") {
		kind, err := pipeline.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		requests = append(requests, pipeline.GenerateRequest{Kind: kind, Facts: facts})
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Concurrency.RequestsPerSecond = requestsPerSec

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	p.SetRateLimiter(worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst))

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results := processor.Process(ctx, requests)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Kind, r.Err)
			continue
		}

		outPath := filepath.Join(batchOutDir, fmt.Sprintf("%s.json", r.Kind))
		if err := pipeline.WriteJSON(outPath, r.Result); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Kind, err)
			continue
		}

		fmt.Printf("✓ %s: score %.2f (grade %s) -> %s\n",
			r.Kind, r.Result.Score.TotalScore, r.Result.Score.Grade, outPath)
		if verbose {
			pipeline.RenderSummary(os.Stderr, r.Result)
			fmt.Fprintln(os.Stderr)
		}
	}

	fmt.Println("\nEval metrics:")
	pipeline.RenderMetrics(os.Stdout, p.Tracker().Aggregate())

	if failures > 0 {
		return fmt.Errorf("%d of %d generations failed", failures, len(results))
	}
	return nil
}
