package metrics

import (
	"context"

	"ethica/domain/core"
	"ethica/domain/fairness"
)

// Input carries the aligned per-sample vectors for one protected attribute.
// YTrue and YPred are binary labels; Probabilities, when present, are the
// model's predicted positive-class probabilities. All populated vectors must
// share the attribute's length.
type Input struct {
	YTrue         []float64
	YPred         []float64
	Probabilities []float64
	Attribute     []string
}

// Metric defines the interface for each fairness metric calculator
type Metric interface {
	Name() string
	Description() string
	RequiresTruth() bool // Parity only needs predictions; the others need true labels
	Evaluate(ctx context.Context, in Input) (fairness.Result, error)
}

// validate enforces the shared input contract: a non-empty attribute vector
// and index alignment of every required or populated vector. Validation
// failures are raised here, at the boundary, so malformed inputs never reach
// a verdict.
func validate(in Input, needTruth, needPred bool) error {
	n := len(in.Attribute)
	if n == 0 {
		return core.ErrEmptyDataset
	}
	if needTruth && len(in.YTrue) != n {
		return core.NewLengthMismatchError("y_true", n, len(in.YTrue))
	}
	if (needPred || in.YPred != nil) && len(in.YPred) != n {
		return core.NewLengthMismatchError("y_pred", n, len(in.YPred))
	}
	if in.Probabilities != nil && len(in.Probabilities) != n {
		return core.NewLengthMismatchError("probabilities", n, len(in.Probabilities))
	}
	return nil
}

// isBinary reports whether every value is 0 or 1
func isBinary(values []float64) bool {
	for _, v := range values {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// minMax returns the extremes of a non-empty rate slice
func minMax(rates []float64) (min, max float64) {
	min, max = rates[0], rates[0]
	for _, r := range rates[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	return min, max
}

// mean returns the arithmetic mean, 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// subset extracts the values at idx, preserving order
func subset(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
