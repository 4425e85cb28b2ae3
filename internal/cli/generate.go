package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkorytov/groundgen/internal/model"
	"github.com/pkorytov/groundgen/internal/pipeline"
	"github.com/pkorytov/groundgen/internal/schema"
)

var (
	factsPath   string
	kindName    string
	outJSON     string
	audience    string
	timeout     time.Duration
	noCache     bool
	llmProvider string
	llmModel    string
	temperature float32
	maxTokens   int
	maxRetries  int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate evidence-grounded content from a facts document",
	Long: `Generate runs the full pipeline for one content kind:
- Build a strict-evidence prompt from the facts document
- Invoke the model with retry/timeout discipline
- Validate output structure and evidence citations
- Attempt one automatic repair when validation fails
- Score the result against the quality rubric

Example:
  groundgen generate --facts facts.json --kind emails --out emails.json
  groundgen generate --facts facts.json --kind icp --provider anthropic --llm-model claude-3-5-sonnet-20241022`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&factsPath, "facts", "", "facts document JSON path (required)")
	generateCmd.Flags().StringVar(&kindName, "kind", "icp", "content kind (icp, emails, linkedin, valueprops)")
	generateCmd.Flags().StringVar(&outJSON, "out", "output.json", "output JSON path")
	generateCmd.Flags().StringVar(&audience, "audience", "", "optional audience hint for the prompt")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall generation timeout")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache (force fresh calls)")
	generateCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	generateCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
	generateCmd.Flags().Float32Var(&temperature, "temperature", 0.7, "sampling temperature")
	generateCmd.Flags().IntVar(&maxTokens, "max-tokens", 2000, "max response tokens")
	generateCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "max attempts per model call")
	_ = generateCmd.MarkFlagRequired("facts")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := pipeline.ParseKind(kindName)
	if err != nil {
		return err
	}

	facts, err := loadFacts(factsPath)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Generating %s from %d facts via %s\n", kind, len(facts.Facts), cfg.LLM.Provider)
	}

	result, err := p.Generate(ctx, pipeline.GenerateRequest{
		Kind:     kind,
		Facts:    facts,
		Audience: audience,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := pipeline.WriteJSON(outJSON, result); err != nil {
		return err
	}

	pipeline.RenderSummary(os.Stdout, result)
	fmt.Printf("\nOutput written to %s\n", outJSON)

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarning: output still has %d validation problems after repair\n", len(result.ValidationErrors))
	}
	return nil
}

// loadFacts reads and validates a facts document
func loadFacts(path string) (model.FactsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FactsDocument{}, fmt.Errorf("read facts document: %w", err)
	}

	res := schema.ValidateFactsDocument(data)
	if !res.OK {
		return res.Data, fmt.Errorf("invalid facts document:\n  %s", strings.Join(res.Errors, "\n  "))
	}
	return res.Data, nil
}

// buildConfig assembles configuration from defaults and flags, including
// provider API keys from the environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.Temperature = temperature
	cfg.LLM.MaxTokens = maxTokens
	cfg.Retry.MaxRetries = maxRetries
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}
