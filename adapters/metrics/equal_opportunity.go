package metrics

import (
	"context"

	"ethica/domain/fairness"
)

// EqualOpportunityMetric checks that true-positive rates match across
// protected groups, a relaxation of equalized odds
type EqualOpportunityMetric struct {
	thresholds fairness.Thresholds
}

// NewEqualOpportunityMetric creates an equal opportunity calculator
func NewEqualOpportunityMetric(thresholds fairness.Thresholds) *EqualOpportunityMetric {
	return &EqualOpportunityMetric{thresholds: thresholds}
}

// Name returns the metric name
func (m *EqualOpportunityMetric) Name() string {
	return fairness.MetricEqualOpportunity
}

// Description returns a human-readable description
func (m *EqualOpportunityMetric) Description() string {
	return "Requires equal TPR across protected groups (relaxed equalized odds)"
}

// RequiresTruth indicates this metric needs true labels
func (m *EqualOpportunityMetric) RequiresTruth() bool {
	return true
}

// Evaluate computes per-group TPR and the max-min disparity. A group with no
// true positives contributes TPR 0 rather than failing.
func (m *EqualOpportunityMetric) Evaluate(ctx context.Context, in Input) (fairness.Result, error) {
	if err := validate(in, true, true); err != nil {
		return fairness.Result{}, err
	}

	groups, indexes, err := Partition(in.Attribute)
	if err != nil {
		return fairness.Result{}, err
	}

	tprByGroup := make(map[string]float64, len(groups))
	rates := make([]float64, 0, len(groups))
	for _, g := range groups {
		counts, err := Confusion(subset(in.YTrue, indexes[g]), subset(in.YPred, indexes[g]))
		if err != nil {
			return fairness.Result{}, err
		}
		tprByGroup[g] = counts.TPR()
		rates = append(rates, counts.TPR())
	}

	minTPR, maxTPR := minMax(rates)
	violation := maxTPR - minTPR

	return fairness.Result{
		Metric: m.Name(),
		Opportunity: &fairness.OpportunityResult{
			TPRs:      tprByGroup,
			Violation: violation,
			IsFair:    violation < m.thresholds.OpportunityViolation,
		},
	}, nil
}
