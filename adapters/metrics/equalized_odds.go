package metrics

import (
	"context"

	"ethica/domain/fairness"
)

// EqualizedOddsMetric checks that true-positive and false-positive rates
// match across protected groups
type EqualizedOddsMetric struct {
	thresholds fairness.Thresholds
}

// NewEqualizedOddsMetric creates an equalized odds calculator
func NewEqualizedOddsMetric(thresholds fairness.Thresholds) *EqualizedOddsMetric {
	return &EqualizedOddsMetric{thresholds: thresholds}
}

// Name returns the metric name
func (m *EqualizedOddsMetric) Name() string {
	return fairness.MetricEqualizedOdds
}

// Description returns a human-readable description
func (m *EqualizedOddsMetric) Description() string {
	return "Requires equal TPR and FPR across protected groups"
}

// RequiresTruth indicates this metric needs true labels
func (m *EqualizedOddsMetric) RequiresTruth() bool {
	return true
}

// Evaluate computes per-group TPR/FPR and both disparity scores. Zero-member
// denominators resolve to a rate of 0, never an error, so downstream
// aggregation stays total.
func (m *EqualizedOddsMetric) Evaluate(ctx context.Context, in Input) (fairness.Result, error) {
	if err := validate(in, true, true); err != nil {
		return fairness.Result{}, err
	}

	groups, indexes, err := Partition(in.Attribute)
	if err != nil {
		return fairness.Result{}, err
	}

	groupMetrics := make(map[string]fairness.GroupOdds, len(groups))
	tprs := make([]float64, 0, len(groups))
	fprs := make([]float64, 0, len(groups))
	for _, g := range groups {
		counts, err := Confusion(subset(in.YTrue, indexes[g]), subset(in.YPred, indexes[g]))
		if err != nil {
			return fairness.Result{}, err
		}
		odds := fairness.GroupOdds{TPR: counts.TPR(), FPR: counts.FPR(), Confusion: counts}
		groupMetrics[g] = odds
		tprs = append(tprs, odds.TPR)
		fprs = append(fprs, odds.FPR)
	}

	minTPR, maxTPR := minMax(tprs)
	minFPR, maxFPR := minMax(fprs)
	tprViolation := maxTPR - minTPR
	fprViolation := maxFPR - minFPR

	return fairness.Result{
		Metric: m.Name(),
		Odds: &fairness.OddsResult{
			GroupMetrics: groupMetrics,
			TPRViolation: tprViolation,
			FPRViolation: fprViolation,
			IsFair:       tprViolation < m.thresholds.OddsViolation && fprViolation < m.thresholds.OddsViolation,
		},
	}, nil
}
