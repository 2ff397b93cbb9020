package metrics

import (
	"ethica/domain/core"
	"ethica/domain/fairness"
)

// Confusion tallies the 2x2 confusion counts for one group's samples, with
// label 1 as the positive class. Both vectors must already be restricted to
// the group and aligned by index. Non-binary labels are rejected because
// TPR/FPR are undefined for them.
func Confusion(yTrue, yPred []float64) (fairness.ConfusionCounts, error) {
	var counts fairness.ConfusionCounts

	if len(yTrue) != len(yPred) {
		return counts, core.NewLengthMismatchError("y_pred", len(yTrue), len(yPred))
	}
	if !isBinary(yTrue) || !isBinary(yPred) {
		return counts, core.ErrNonBinaryLabels
	}

	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			counts.TP++
		case yTrue[i] == 1 && yPred[i] == 0:
			counts.FN++
		case yTrue[i] == 0 && yPred[i] == 1:
			counts.FP++
		default:
			counts.TN++
		}
	}

	return counts, nil
}
