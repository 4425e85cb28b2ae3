package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkorytov/groundgen/internal/evals"
	"github.com/pkorytov/groundgen/internal/evidence"
	"github.com/pkorytov/groundgen/internal/model"
	"github.com/pkorytov/groundgen/internal/pipeline"
	"github.com/pkorytov/groundgen/internal/score"
)

var (
	evalsFactsPath string
	evalsDir       string
)

// evalsCmd represents the evals command
var evalsCmd = &cobra.Command{
	Use:   "evals",
	Short: "Aggregate quality metrics over a directory of generation outputs",
	Long: `Evals re-scores every <kind>.json file found in a directory (as written
by 'groundgen batch') against a facts document and prints aggregate metrics.
No model call is made.

Example:
  groundgen evals --facts facts.json --dir ./out`,
	RunE: runEvals,
}

func init() {
	rootCmd.AddCommand(evalsCmd)

	evalsCmd.Flags().StringVar(&evalsFactsPath, "facts", "", "facts document JSON path (required)")
	evalsCmd.Flags().StringVar(&evalsDir, "dir", ".", "directory holding <kind>.json output files")
	_ = evalsCmd.MarkFlagRequired("facts")
}

func runEvals(cmd *cobra.Command, args []string) error {
	facts, err := loadFacts(evalsFactsPath)
	if err != nil {
		return err
	}

	scorer := score.NewScorer()
	tracker := evals.NewTracker()

	scored := 0
	for _, kind := range pipeline.Kinds() {
		path := filepath.Join(evalsDir, fmt.Sprintf("%s.json", kind))
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read %s: %w", path, err)
		}

		_, items, validationErrors, err := pipeline.ParseOutput(kind, raw)
		if err != nil {
			return err
		}

		qs := scorer.MultipleOutputs(items, &facts)
		check := evidence.ValidateAcrossItems(items, facts.Facts)
		tracker.Track(model.EvalEntry{
			Operation:        string(kind),
			ValidationPassed: len(validationErrors) == 0,
			QualityScore:     qs,
			EvidenceCount:    check.CitationCount,
		})
		scored++

		fmt.Printf("%s: score %.2f (grade %s), %d citations", kind, qs.TotalScore, qs.Grade, check.CitationCount)
		if len(validationErrors) > 0 {
			fmt.Printf(", %d validation problems", len(validationErrors))
		}
		fmt.Println()
	}

	if scored == 0 {
		return fmt.Errorf("no <kind>.json output files found in %s", evalsDir)
	}

	fmt.Println()
	pipeline.RenderMetrics(os.Stdout, tracker.Aggregate())
	return nil
}
