package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkorytov/groundgen/internal/evidence"
	"github.com/pkorytov/groundgen/internal/pipeline"
	"github.com/pkorytov/groundgen/internal/score"
)

var (
	scoreFactsPath string
	scoreKindName  string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <output.json>",
	Short: "Re-score an existing generation output offline",
	Long: `Score validates a previously generated output file against a facts
document and applies the quality rubric. No model call is made.

Example:
  groundgen score emails.json --facts facts.json --kind emails`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreFactsPath, "facts", "", "facts document JSON path (required)")
	scoreCmd.Flags().StringVar(&scoreKindName, "kind", "icp", "content kind (icp, emails, linkedin, valueprops)")
	_ = scoreCmd.MarkFlagRequired("facts")
}

func runScore(cmd *cobra.Command, args []string) error {
	kind, err := pipeline.ParseKind(scoreKindName)
	if err != nil {
		return err
	}

	facts, err := loadFacts(scoreFactsPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read output file: %w", err)
	}

	output, items, validationErrors, err := pipeline.ParseOutput(kind, raw)
	if err != nil {
		return err
	}

	scorer := score.NewScorer()
	qs := scorer.MultipleOutputs(items, &facts)
	check := evidence.ValidateAcrossItems(items, facts.Facts)

	result := &pipeline.GenerateResult{
		Kind:             kind,
		Output:           output,
		Items:            items,
		Score:            qs,
		Evidence:         check,
		ValidationErrors: validationErrors,
	}
	pipeline.RenderSummary(os.Stdout, result)

	if scorer.NeedsImprovement(qs) {
		fmt.Printf("\nImprovement guidance:\n%s\n", scorer.ImprovementPrompt(qs))
	}
	if len(validationErrors) > 0 {
		return fmt.Errorf("output failed validation with %d problems", len(validationErrors))
	}
	return nil
}
