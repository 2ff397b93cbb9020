package metrics

import (
	"context"
	"math"

	"ethica/domain/core"
	"ethica/domain/fairness"
)

// CalibrationMetric checks that predicted probabilities match observed
// outcome rates within each protected group
type CalibrationMetric struct {
	thresholds fairness.Thresholds
}

// NewCalibrationMetric creates a calibration calculator
func NewCalibrationMetric(thresholds fairness.Thresholds) *CalibrationMetric {
	return &CalibrationMetric{thresholds: thresholds}
}

// Name returns the metric name
func (m *CalibrationMetric) Name() string {
	return fairness.MetricCalibration
}

// Description returns a human-readable description
func (m *CalibrationMetric) Description() string {
	return "Requires predicted probabilities to match observed rates per group"
}

// RequiresTruth indicates this metric needs true labels
func (m *CalibrationMetric) RequiresTruth() bool {
	return true
}

// Evaluate compares each group's mean predicted probability against its mean
// observed outcome. When no probability vector is supplied the predicted
// labels stand in for probabilities.
func (m *CalibrationMetric) Evaluate(ctx context.Context, in Input) (fairness.Result, error) {
	if err := validate(in, true, false); err != nil {
		return fairness.Result{}, err
	}

	probs := in.Probabilities
	if probs == nil {
		probs = in.YPred
	}
	if probs == nil {
		return fairness.Result{}, core.NewLengthMismatchError("probabilities", len(in.Attribute), 0)
	}

	groups, indexes, err := Partition(in.Attribute)
	if err != nil {
		return fairness.Result{}, err
	}

	groupCalibration := make(map[string]fairness.GroupCalibration, len(groups))
	maxError := 0.0
	for _, g := range groups {
		expected := mean(subset(probs, indexes[g]))
		actual := mean(subset(in.YTrue, indexes[g]))
		calErr := math.Abs(expected - actual)

		groupCalibration[g] = fairness.GroupCalibration{
			ExpectedPositiveRate: expected,
			ActualPositiveRate:   actual,
			CalibrationError:     calErr,
		}
		if calErr > maxError {
			maxError = calErr
		}
	}

	return fairness.Result{
		Metric: m.Name(),
		Calibration: &fairness.CalibrationResult{
			GroupCalibration:    groupCalibration,
			MaxCalibrationError: maxError,
			IsCalibrated:        maxError < m.thresholds.CalibrationError,
		},
	}, nil
}
