package metrics

import (
	"context"

	"ethica/domain/fairness"
)

// DemographicParityMetric checks that positive predictions land at the same
// rate in every protected group
type DemographicParityMetric struct {
	thresholds fairness.Thresholds
}

// NewDemographicParityMetric creates a demographic parity calculator
func NewDemographicParityMetric(thresholds fairness.Thresholds) *DemographicParityMetric {
	return &DemographicParityMetric{thresholds: thresholds}
}

// Name returns the metric name
func (m *DemographicParityMetric) Name() string {
	return fairness.MetricDemographicParity
}

// Description returns a human-readable description
func (m *DemographicParityMetric) Description() string {
	return "Requires equal positive-prediction rates across protected groups"
}

// RequiresTruth indicates this metric only needs predictions
func (m *DemographicParityMetric) RequiresTruth() bool {
	return false
}

// Evaluate computes per-group positive-prediction rates and their disparity.
// With a single group the violation is 0 against itself; the result is valid
// but the disparity carries no information.
func (m *DemographicParityMetric) Evaluate(ctx context.Context, in Input) (fairness.Result, error) {
	if err := validate(in, false, true); err != nil {
		return fairness.Result{}, err
	}

	groups, indexes, err := Partition(in.Attribute)
	if err != nil {
		return fairness.Result{}, err
	}

	positiveRates := make(map[string]float64, len(groups))
	rates := make([]float64, 0, len(groups))
	positives := make(map[string]int, len(groups))
	for _, g := range groups {
		preds := subset(in.YPred, indexes[g])
		count := 0
		for _, p := range preds {
			if p == 1 {
				count++
			}
		}
		rate := 0.0
		if len(preds) > 0 {
			rate = float64(count) / float64(len(preds))
		}
		positives[g] = count
		positiveRates[g] = rate
		rates = append(rates, rate)
	}

	minRate, maxRate := minMax(rates)
	violation := maxRate - minRate

	// Significance of the extreme-group gap; annotation only, the verdict
	// stays a pure threshold check on the violation.
	loGroup, hiGroup := extremeGroups(groups, positiveRates)
	pValue := twoProportionPValue(
		positives[hiGroup], len(indexes[hiGroup]),
		positives[loGroup], len(indexes[loGroup]),
	)

	return fairness.Result{
		Metric: m.Name(),
		Parity: &fairness.ParityResult{
			PositiveRates: positiveRates,
			ParityRatio:   fairness.DisparityRatio(maxRate, minRate),
			Violation:     violation,
			PValue:        pValue,
			IsFair:        violation < m.thresholds.ParityViolation,
		},
	}, nil
}

// extremeGroups returns the group names carrying the min and max rate
func extremeGroups(groups []string, rates map[string]float64) (lo, hi string) {
	lo, hi = groups[0], groups[0]
	for _, g := range groups[1:] {
		if rates[g] < rates[lo] {
			lo = g
		}
		if rates[g] > rates[hi] {
			hi = g
		}
	}
	return lo, hi
}
