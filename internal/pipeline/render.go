package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkorytov/groundgen/internal/model"
)

// WriteJSON writes a generation result's output to path as indented JSON
func WriteJSON(path string, res *GenerateResult) error {
	data, err := json.MarshalIndent(res.Output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable quality summary for one result
func RenderSummary(w io.Writer, res *GenerateResult) {
	fmt.Fprintf(w, "Kind:        %s\n", res.Kind)
	fmt.Fprintf(w, "Model:       %s\n", res.Model)
	fmt.Fprintf(w, "Items:       %d\n", len(res.Items))
	fmt.Fprintf(w, "Score:       %.2f (grade %s)\n", res.Score.TotalScore, res.Score.Grade)
	fmt.Fprintf(w, "Citations:   %d distinct facts (coverage %.0f%%)\n",
		res.Evidence.CitationCount, res.Evidence.Coverage*100)
	if res.RepairAttempted {
		fmt.Fprintf(w, "Repair:      attempted\n")
	}
	for _, issue := range res.Score.Issues {
		fmt.Fprintf(w, "Issue:       %s\n", issue)
	}
	for _, verr := range res.ValidationErrors {
		fmt.Fprintf(w, "Validation:  %s\n", verr)
	}
}

// RenderMetrics prints aggregate eval metrics
func RenderMetrics(w io.Writer, m model.Metrics) {
	fmt.Fprintf(w, "Generations:       %d\n", m.TotalGenerations)
	if m.TotalGenerations == 0 {
		return
	}
	fmt.Fprintf(w, "Avg quality:       %.2f\n", m.AvgQualityScore)
	fmt.Fprintf(w, "Citation rate:     %.0f%%\n", m.EvidenceCitationRate*100)
	fmt.Fprintf(w, "Avg facts/output:  %.1f\n", m.AvgFactsPerOutput)
	fmt.Fprintf(w, "Repair success:    %.0f%%\n", m.RepairSuccessRate*100)
	for _, grade := range []model.Grade{model.GradeA, model.GradeB, model.GradeC, model.GradeD, model.GradeF} {
		if count := m.GradeDistribution[grade]; count > 0 {
			fmt.Fprintf(w, "Grade %s:           %d\n", grade, count)
		}
	}
}
