package metrics

import (
	"fmt"
	"sort"

	"ethica/domain/fairness"
)

// recommend applies the fixed rule table over an assembled report. Rules run
// in declared order per attribute, attributes in sorted order, so the output
// sequence is stable for a given report. The default message is appended only
// when no rule matched.
func recommend(report *fairness.Report, thresholds fairness.Thresholds) []string {
	names := make([]string, 0, len(report.Attributes))
	for name := range report.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, attr := range names {
		results := report.Attributes[attr]

		if r, ok := results[fairness.MetricDemographicParity]; ok && r.Parity != nil && !r.Parity.IsFair {
			out = append(out, fmt.Sprintf(
				"Demographic parity violation of %.3f detected in '%s'. Review selection criteria affecting this attribute.",
				r.Parity.Violation, attr))
		}
		if r, ok := results[fairness.MetricEqualizedOdds]; ok && r.Odds != nil && !r.Odds.IsFair {
			out = append(out, fmt.Sprintf(
				"Equalized odds violation detected in '%s' (TPR gap %.3f, FPR gap %.3f). Error rates differ across groups.",
				attr, r.Odds.TPRViolation, r.Odds.FPRViolation))
		}
		if r, ok := results[fairness.MetricEqualOpportunity]; ok && r.Opportunity != nil && !r.Opportunity.IsFair {
			out = append(out, fmt.Sprintf(
				"Equal opportunity violation of %.3f detected in '%s'. Qualified members of some groups are under-selected.",
				r.Opportunity.Violation, attr))
		}
		if r, ok := results[fairness.MetricCalibration]; ok && r.Calibration != nil && !r.Calibration.IsCalibrated {
			out = append(out, fmt.Sprintf(
				"Calibration error of %.3f detected in '%s'. Predicted probabilities drift from observed rates.",
				r.Calibration.MaxCalibrationError, attr))
		}
	}

	if len(out) == 0 {
		out = append(out, "No significant fairness issues detected. Continue monitoring.")
	}
	return out
}
