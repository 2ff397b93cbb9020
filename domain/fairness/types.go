package fairness

import (
	"encoding/json"
	"math"
)

// Metric name identifiers accepted by the engine
const (
	MetricDemographicParity = "demographic_parity"
	MetricEqualizedOdds     = "equalized_odds"
	MetricEqualOpportunity  = "equal_opportunity"
	MetricCalibration       = "calibration"
)

// AllMetrics lists every metric in its fixed evaluation order
var AllMetrics = []string{
	MetricDemographicParity,
	MetricEqualizedOdds,
	MetricEqualOpportunity,
	MetricCalibration,
}

// Thresholds holds the policy constants fairness verdicts are judged against.
// The defaults are fixed design values; deployments may override them, but
// reports produced with other values are not comparable to historical ones.
type Thresholds struct {
	ParityViolation      float64 // demographic parity: max-min positive rate
	OddsViolation        float64 // equalized odds: max-min TPR and FPR
	OpportunityViolation float64 // equal opportunity: max-min TPR
	CalibrationError     float64 // calibration: max |expected-actual|
	BalanceRatio         float64 // representation: max/min proportion
	RepresentationAlert  float64 // recommender: rebalancing trigger
	LabelAlert           float64 // recommender: labeling-review trigger
}

// DefaultThresholds returns the standard policy constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		ParityViolation:      0.05,
		OddsViolation:        0.05,
		OpportunityViolation: 0.05,
		CalibrationError:     0.05,
		BalanceRatio:         1.5,
		RepresentationAlert:  2.0,
		LabelAlert:           1.5,
	}
}

// ConfusionCounts is a per-group 2x2 confusion matrix with label 1 as positive
type ConfusionCounts struct {
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TP int `json:"tp"`
}

// TPR returns the true positive rate, 0 when the group has no positives
func (c ConfusionCounts) TPR() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// FPR returns the false positive rate, 0 when the group has no negatives
func (c ConfusionCounts) FPR() float64 {
	if c.FP+c.TN == 0 {
		return 0
	}
	return float64(c.FP) / float64(c.FP+c.TN)
}

// Ratio is a max/min disparity ratio. It serializes +Inf as the string
// "inf" because JSON has no infinity literal; reports with a zero minimum
// rate must still encode.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// ParityResult reports demographic parity for one protected attribute
type ParityResult struct {
	PositiveRates map[string]float64 `json:"positive_rates"`
	ParityRatio   Ratio              `json:"parity_ratio"` // +Inf when the min rate is 0
	Violation     float64            `json:"violation"`
	PValue        float64            `json:"p_value"` // two-proportion z-test on the extreme groups, descriptive only
	IsFair        bool               `json:"is_fair"`
}

// GroupOdds holds per-group error rates alongside raw confusion counts
type GroupOdds struct {
	TPR       float64         `json:"tpr"`
	FPR       float64         `json:"fpr"`
	Confusion ConfusionCounts `json:"confusion"`
}

// OddsResult reports equalized odds for one protected attribute
type OddsResult struct {
	GroupMetrics map[string]GroupOdds `json:"group_metrics"`
	TPRViolation float64              `json:"tpr_violation"`
	FPRViolation float64              `json:"fpr_violation"`
	IsFair       bool                 `json:"is_fair"`
}

// OpportunityResult reports equal opportunity for one protected attribute
type OpportunityResult struct {
	TPRs      map[string]float64 `json:"tprs"`
	Violation float64            `json:"violation"`
	IsFair    bool               `json:"is_fair"`
}

// GroupCalibration compares predicted probability mass to observed outcomes
type GroupCalibration struct {
	ExpectedPositiveRate float64 `json:"expected_positive_rate"`
	ActualPositiveRate   float64 `json:"actual_positive_rate"`
	CalibrationError     float64 `json:"calibration_error"`
}

// CalibrationResult reports calibration for one protected attribute
type CalibrationResult struct {
	GroupCalibration    map[string]GroupCalibration `json:"group_calibration"`
	MaxCalibrationError float64                     `json:"max_calibration_error"`
	IsCalibrated        bool                        `json:"is_calibrated"`
}

// Result is the union of the four metric result records. Exactly one of the
// typed fields is populated, selected by Metric.
type Result struct {
	Metric      string             `json:"metric"`
	Parity      *ParityResult      `json:"demographic_parity,omitempty"`
	Odds        *OddsResult        `json:"equalized_odds,omitempty"`
	Opportunity *OpportunityResult `json:"equal_opportunity,omitempty"`
	Calibration *CalibrationResult `json:"calibration,omitempty"`
}

// Fair reports the verdict of whichever metric record is populated
func (r Result) Fair() bool {
	switch {
	case r.Parity != nil:
		return r.Parity.IsFair
	case r.Odds != nil:
		return r.Odds.IsFair
	case r.Opportunity != nil:
		return r.Opportunity.IsFair
	case r.Calibration != nil:
		return r.Calibration.IsCalibrated
	}
	return false
}

// Report maps attribute name -> metric name -> result, plus ordered recommendations
type Report struct {
	SampleSize      int                          `json:"sample_size"`
	Attributes      map[string]map[string]Result `json:"attributes"`
	Recommendations []string                     `json:"recommendations"`
}

// DisparityRatio returns max/min over rates, +Inf when the min is 0.
// Both the ratio and the raw violation are reported independently; verdicts
// are always derived from the violation, never from the ratio.
func DisparityRatio(max, min float64) Ratio {
	if min <= 0 {
		return Ratio(math.Inf(1))
	}
	return Ratio(max / min)
}
