// Package evals keeps an append-only log of generation outcomes and derives
// aggregate quality metrics from it on demand.
package evals

import (
	"sync"
	"time"

	"github.com/pkorytov/groundgen/internal/model"
)

// Tracker is an injectable, append-only eval log. Construct one per process
// (or per test) rather than sharing a package-level instance. Safe for
// concurrent use: multiple in-flight generations append through one mutex.
type Tracker struct {
	mu      sync.Mutex
	entries []model.EvalEntry
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Track appends one entry. A zero timestamp is stamped with the current time.
// Entries are never mutated or individually removed afterwards.
func (t *Tracker) Track(entry model.EvalEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

// Len returns the number of tracked entries
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Entries returns a copy of the log in append order
func (t *Tracker) Entries() []model.EvalEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.EvalEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Clear discards the whole log. Intended for tests and explicit resets.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Aggregate computes metrics over the full log. Aggregates are recomputed
// from scratch each call; log sizes are bounded by process lifetime, so
// correctness wins over incremental state.
func (t *Tracker) Aggregate() model.Metrics {
	return computeMetrics(t.Entries())
}

// ForOperation computes metrics over entries with the given operation name
func (t *Tracker) ForOperation(name string) model.Metrics {
	var filtered []model.EvalEntry
	for _, e := range t.Entries() {
		if e.Operation == name {
			filtered = append(filtered, e)
		}
	}
	return computeMetrics(filtered)
}

func computeMetrics(entries []model.EvalEntry) model.Metrics {
	metrics := model.Metrics{
		GradeDistribution: map[model.Grade]int{},
	}
	if len(entries) == 0 {
		return metrics
	}

	var scoreSum, factsSum float64
	cited := 0
	repairAttempts := 0
	repairSuccesses := 0

	for _, e := range entries {
		scoreSum += e.QualityScore.TotalScore
		factsSum += float64(e.EvidenceCount)
		metrics.GradeDistribution[e.QualityScore.Grade]++
		if e.QualityScore.Breakdown.HasEvidence > 0 {
			cited++
		}
		if e.RepairAttempted {
			repairAttempts++
			if e.ValidationPassed {
				repairSuccesses++
			}
		}
	}

	n := float64(len(entries))
	metrics.TotalGenerations = len(entries)
	metrics.AvgQualityScore = scoreSum / n
	metrics.EvidenceCitationRate = float64(cited) / n
	metrics.AvgFactsPerOutput = factsSum / n
	if repairAttempts > 0 {
		metrics.RepairSuccessRate = float64(repairSuccesses) / float64(repairAttempts)
	}
	return metrics
}
