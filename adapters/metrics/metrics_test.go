package metrics

import (
	"context"
	"math"
	"testing"

	"ethica/domain/core"
	"ethica/domain/fairness"
)

// TestDemographicParity_EqualRates verifies violation is 0 when groups match
func TestDemographicParity_EqualRates(t *testing.T) {
	metric := NewDemographicParityMetric(fairness.DefaultThresholds())

	in := Input{
		YPred:     []float64{1, 0, 1, 0, 1, 0},
		Attribute: []string{"A", "A", "B", "B", "A", "B"},
	}

	result, err := metric.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	parity := result.Parity
	if parity == nil {
		t.Fatal("Expected parity result to be populated")
	}
	if parity.Violation != 0 {
		t.Errorf("Expected violation 0 for identical rates, got %f", parity.Violation)
	}
	if !parity.IsFair {
		t.Error("Expected is_fair for identical rates")
	}
	for group, rate := range parity.PositiveRates {
		if rate < 0 || rate > 1 {
			t.Errorf("Rate for group %s out of [0,1]: %f", group, rate)
		}
	}
}

// TestDemographicParity_SkewedScenario reproduces the 60/40 prediction split
// across a 50/50 attribute: rate A=1.0, rate B=0.2, violation 0.8, ratio 5.0
func TestDemographicParity_SkewedScenario(t *testing.T) {
	metric := NewDemographicParityMetric(fairness.DefaultThresholds())

	yPred := make([]float64, 100)
	attr := make([]string, 100)
	for i := 0; i < 100; i++ {
		if i < 60 {
			yPred[i] = 1
		}
		if i < 50 {
			attr[i] = "A"
		} else {
			attr[i] = "B"
		}
	}

	result, err := metric.Evaluate(context.Background(), Input{YPred: yPred, Attribute: attr})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	parity := result.Parity
	if parity.PositiveRates["A"] != 1.0 {
		t.Errorf("Expected rate 1.0 for group A, got %f", parity.PositiveRates["A"])
	}
	if parity.PositiveRates["B"] != 0.2 {
		t.Errorf("Expected rate 0.2 for group B, got %f", parity.PositiveRates["B"])
	}
	if math.Abs(parity.Violation-0.8) > 1e-12 {
		t.Errorf("Expected violation 0.8, got %f", parity.Violation)
	}
	if math.Abs(float64(parity.ParityRatio)-5.0) > 1e-12 {
		t.Errorf("Expected parity ratio 5.0, got %f", parity.ParityRatio)
	}
	if parity.IsFair {
		t.Error("Expected is_fair false for violation 0.8")
	}
	if parity.PValue < 0 || parity.PValue > 1 {
		t.Errorf("PValue out of [0,1]: %f", parity.PValue)
	}
}

// TestDemographicParity_StrictBoundary verifies a violation of exactly the
// threshold is judged unfair (strict inequality)
func TestDemographicParity_StrictBoundary(t *testing.T) {
	metric := NewDemographicParityMetric(fairness.DefaultThresholds())

	// Group A: 1/20 positive (0.05), group B: 0/20 positive (0.0) -> violation 0.05
	yPred := make([]float64, 40)
	attr := make([]string, 40)
	for i := 0; i < 40; i++ {
		if i < 20 {
			attr[i] = "A"
		} else {
			attr[i] = "B"
		}
	}
	yPred[0] = 1

	result, err := metric.Evaluate(context.Background(), Input{YPred: yPred, Attribute: attr})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Parity.Violation != 0.05 {
		t.Fatalf("Expected violation exactly 0.05, got %f", result.Parity.Violation)
	}
	if result.Parity.IsFair {
		t.Error("Violation equal to the threshold must not be fair")
	}
}

// TestDemographicParity_ZeroMinRate verifies the ratio goes to +Inf
func TestDemographicParity_ZeroMinRate(t *testing.T) {
	metric := NewDemographicParityMetric(fairness.DefaultThresholds())

	result, err := metric.Evaluate(context.Background(), Input{
		YPred:     []float64{1, 1, 0, 0},
		Attribute: []string{"A", "A", "B", "B"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !math.IsInf(float64(result.Parity.ParityRatio), 1) {
		t.Errorf("Expected +Inf parity ratio, got %f", result.Parity.ParityRatio)
	}
	if result.Parity.Violation != 1.0 {
		t.Errorf("Expected violation 1.0, got %f", result.Parity.Violation)
	}
}

// TestEqualOpportunity_PerfectPredictions: predictions identical to truth
// give TPR 1.0 in both groups, violation 0
func TestEqualOpportunity_PerfectPredictions(t *testing.T) {
	metric := NewEqualOpportunityMetric(fairness.DefaultThresholds())

	yTrue := []float64{1, 1, 0, 0, 1, 0}
	in := Input{
		YTrue:     yTrue,
		YPred:     yTrue,
		Attribute: []string{"A", "A", "A", "B", "B", "B"},
	}

	result, err := metric.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	opp := result.Opportunity
	if opp.TPRs["A"] != 1.0 || opp.TPRs["B"] != 1.0 {
		t.Errorf("Expected TPR 1.0 for both groups, got A=%f B=%f", opp.TPRs["A"], opp.TPRs["B"])
	}
	if opp.Violation != 0 {
		t.Errorf("Expected violation 0, got %f", opp.Violation)
	}
	if !opp.IsFair {
		t.Error("Expected is_fair true")
	}
}

// TestEqualOpportunity_NoEligiblePositives verifies TPR resolves to 0 for a
// group with no true positives instead of NaN or an error
func TestEqualOpportunity_NoEligiblePositives(t *testing.T) {
	metric := NewEqualOpportunityMetric(fairness.DefaultThresholds())

	// Group B has no samples with true label 1, so TP+FN == 0
	result, err := metric.Evaluate(context.Background(), Input{
		YTrue:     []float64{1, 1, 0, 0},
		YPred:     []float64{1, 1, 0, 0},
		Attribute: []string{"A", "A", "B", "B"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := result.Opportunity.TPRs["B"]; got != 0 {
		t.Errorf("Expected TPR 0 for group with no eligible positives, got %f", got)
	}
	if math.IsNaN(result.Opportunity.Violation) {
		t.Error("Violation must never be NaN")
	}
}

// TestEqualizedOdds_Violations verifies TPR and FPR gaps are both reported
func TestEqualizedOdds_Violations(t *testing.T) {
	metric := NewEqualizedOddsMetric(fairness.DefaultThresholds())

	// Group A: perfect predictions. Group B: all predicted positive.
	result, err := metric.Evaluate(context.Background(), Input{
		YTrue:     []float64{1, 0, 1, 0, 1, 0, 1, 0},
		YPred:     []float64{1, 0, 1, 0, 1, 1, 1, 1},
		Attribute: []string{"A", "A", "A", "A", "B", "B", "B", "B"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	odds := result.Odds
	if odds.GroupMetrics["A"].TPR != 1.0 || odds.GroupMetrics["A"].FPR != 0.0 {
		t.Errorf("Group A should be perfect, got TPR=%f FPR=%f",
			odds.GroupMetrics["A"].TPR, odds.GroupMetrics["A"].FPR)
	}
	if odds.GroupMetrics["B"].FPR != 1.0 {
		t.Errorf("Group B FPR should be 1.0, got %f", odds.GroupMetrics["B"].FPR)
	}
	if odds.TPRViolation != 0.0 {
		t.Errorf("Expected TPR violation 0, got %f", odds.TPRViolation)
	}
	if odds.FPRViolation != 1.0 {
		t.Errorf("Expected FPR violation 1.0, got %f", odds.FPRViolation)
	}
	if odds.IsFair {
		t.Error("Expected is_fair false when FPR gap exceeds threshold")
	}
}

// TestEqualizedOdds_NonBinaryLabels verifies the binary-label contract
func TestEqualizedOdds_NonBinaryLabels(t *testing.T) {
	metric := NewEqualizedOddsMetric(fairness.DefaultThresholds())

	_, err := metric.Evaluate(context.Background(), Input{
		YTrue:     []float64{1, 2, 0, 1},
		YPred:     []float64{1, 1, 0, 0},
		Attribute: []string{"A", "A", "B", "B"},
	})
	if !core.IsInvalidInputError(err) {
		t.Errorf("Expected invalid-input error for non-binary labels, got %v", err)
	}
}

// TestCalibration_PerfectAndDrifting exercises both calibration outcomes
func TestCalibration_PerfectAndDrifting(t *testing.T) {
	metric := NewCalibrationMetric(fairness.DefaultThresholds())

	// Both groups: mean probability equals observed positive rate (0.5)
	result, err := metric.Evaluate(context.Background(), Input{
		YTrue:         []float64{1, 0, 1, 0},
		Probabilities: []float64{0.5, 0.5, 0.5, 0.5},
		Attribute:     []string{"A", "A", "B", "B"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Calibration.MaxCalibrationError != 0 {
		t.Errorf("Expected zero calibration error, got %f", result.Calibration.MaxCalibrationError)
	}
	if !result.Calibration.IsCalibrated {
		t.Error("Expected is_calibrated true")
	}

	// Group B over-predicts: mean probability 0.9 vs observed 0.5
	result, err = metric.Evaluate(context.Background(), Input{
		YTrue:         []float64{1, 0, 1, 0},
		Probabilities: []float64{0.5, 0.5, 0.9, 0.9},
		Attribute:     []string{"A", "A", "B", "B"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	calErr := result.Calibration.GroupCalibration["B"].CalibrationError
	if math.Abs(calErr-0.4) > 1e-12 {
		t.Errorf("Expected group B calibration error 0.4, got %f", calErr)
	}
	if result.Calibration.IsCalibrated {
		t.Error("Expected is_calibrated false")
	}
}

// TestSingleGroup_DegenerateButValid verifies one-group inputs compute a zero
// violation instead of failing
func TestSingleGroup_DegenerateButValid(t *testing.T) {
	metric := NewDemographicParityMetric(fairness.DefaultThresholds())

	result, err := metric.Evaluate(context.Background(), Input{
		YPred:     []float64{1, 0, 1},
		Attribute: []string{"A", "A", "A"},
	})
	if err != nil {
		t.Fatalf("Single-group input should be valid, got %v", err)
	}
	if result.Parity.Violation != 0 {
		t.Errorf("Expected violation 0 against itself, got %f", result.Parity.Violation)
	}
	if !result.Parity.IsFair {
		t.Error("Expected is_fair for degenerate single group")
	}
}

// TestMismatchedLengths verifies alignment is enforced at the boundary
func TestMismatchedLengths(t *testing.T) {
	metric := NewEqualOpportunityMetric(fairness.DefaultThresholds())

	_, err := metric.Evaluate(context.Background(), Input{
		YTrue:     []float64{1, 0, 1},
		YPred:     []float64{1, 0},
		Attribute: []string{"A", "B", "A"},
	})
	if !core.IsInvalidInputError(err) {
		t.Errorf("Expected invalid-input error for mismatched lengths, got %v", err)
	}
}

// TestConfusion_Counts verifies the 2x2 tally
func TestConfusion_Counts(t *testing.T) {
	counts, err := Confusion(
		[]float64{1, 1, 0, 0, 1, 0},
		[]float64{1, 0, 1, 0, 1, 0},
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if counts.TP != 2 || counts.FN != 1 || counts.FP != 1 || counts.TN != 2 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
	if math.Abs(counts.TPR()-2.0/3.0) > 1e-12 {
		t.Errorf("Expected TPR 2/3, got %f", counts.TPR())
	}
	if math.Abs(counts.FPR()-1.0/3.0) > 1e-12 {
		t.Errorf("Expected FPR 1/3, got %f", counts.FPR())
	}
}

// TestConfusion_ZeroDenominators verifies rates resolve to 0, never NaN
func TestConfusion_ZeroDenominators(t *testing.T) {
	counts := fairness.ConfusionCounts{}
	if counts.TPR() != 0 {
		t.Errorf("Expected TPR 0 with empty counts, got %f", counts.TPR())
	}
	if counts.FPR() != 0 {
		t.Errorf("Expected FPR 0 with empty counts, got %f", counts.FPR())
	}
}

// TestTwoProportionPValue sanity checks the significance annotation
func TestTwoProportionPValue(t *testing.T) {
	// Identical rates -> p = 1
	if p := twoProportionPValue(10, 20, 10, 20); p != 1.0 {
		t.Errorf("Expected p=1 for identical proportions, got %f", p)
	}
	// Extreme gap -> small p
	if p := twoProportionPValue(50, 50, 10, 50); p > 0.001 {
		t.Errorf("Expected tiny p for 1.0 vs 0.2 on n=50, got %f", p)
	}
	// Empty group -> degenerate p = 1
	if p := twoProportionPValue(0, 0, 5, 10); p != 1.0 {
		t.Errorf("Expected p=1 for empty group, got %f", p)
	}
}
