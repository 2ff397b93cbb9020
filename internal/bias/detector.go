package bias

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"ethica/adapters/metrics"
	"ethica/domain/core"
	"ethica/domain/dataset"
	"ethica/domain/fairness"
	"ethica/ports"
)

// RepresentationBias summarizes how unevenly groups are represented
type RepresentationBias struct {
	MaxProportion  float64        `json:"max_proportion"`
	MinProportion  float64        `json:"min_proportion"`
	DisparityRatio fairness.Ratio `json:"disparity_ratio"` // +Inf when the min proportion is 0
	IsBalanced     bool           `json:"is_balanced"`
}

// GroupLabelStats holds per-group target statistics
type GroupLabelStats struct {
	GroupSize    int     `json:"group_size"`
	PositiveRate float64 `json:"positive_rate"` // mean of (target == 1) for binary targets
	MeanTarget   float64 `json:"mean_target"`
}

// LabelDisparity compares the extreme per-group rates
type LabelDisparity struct {
	MaxRate        float64        `json:"max_rate"`
	MinRate        float64        `json:"min_rate"`
	DisparityRatio fairness.Ratio `json:"disparity_ratio"`
}

// LabelBias is the optional target-column sub-report
type LabelBias struct {
	Groups    map[string]GroupLabelStats `json:"groups"`
	Disparity LabelDisparity             `json:"disparity"`
}

// AttributeReport is the bias analysis for one protected attribute
type AttributeReport struct {
	Attribute         string             `json:"attribute"`
	GroupCounts       map[string]int     `json:"group_counts"`
	GroupDistribution map[string]float64 `json:"group_distribution"`
	Representation    RepresentationBias `json:"representation_bias"`
	LabelBias         *LabelBias         `json:"label_bias,omitempty"`
}

// Report is the dataset-level bias analysis
type Report struct {
	DatasetSize         int                        `json:"dataset_size"`
	ProtectedAttributes []string                   `json:"protected_attributes"`
	Metrics             map[string]AttributeReport `json:"bias_metrics"`
	Recommendations     []string                   `json:"recommendations"`
}

// Detector analyzes representation and label bias in datasets. It keeps a
// history of produced reports; that list is the detector's only state and is
// append-only.
type Detector struct {
	thresholds fairness.Thresholds
	history    []*Report
}

// NewDetector creates a detector with the default policy thresholds
func NewDetector() *Detector {
	return NewDetectorWithThresholds(fairness.DefaultThresholds())
}

// NewDetectorWithThresholds creates a detector with overridden thresholds
func NewDetectorWithThresholds(thresholds fairness.Thresholds) *Detector {
	return &Detector{thresholds: thresholds}
}

// History returns every report this detector has produced, oldest first
func (d *Detector) History() []*Report {
	return d.history
}

// Analyze computes representation statistics for each protected attribute,
// plus label-bias statistics when a target column is named. targetColumn may
// be empty; a named target missing from the table is ignored, matching the
// representation-only path.
func (d *Detector) Analyze(table *dataset.Table, protectedAttrs []string, targetColumn string) (*Report, error) {
	if len(protectedAttrs) == 0 {
		return nil, core.ErrEmptyAttributes
	}
	if table.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}

	report := &Report{
		DatasetSize:         table.Len(),
		ProtectedAttributes: protectedAttrs,
		Metrics:             make(map[string]AttributeReport, len(protectedAttrs)),
	}

	for _, attr := range protectedAttrs {
		attrReport, err := d.analyzeAttribute(table, attr, targetColumn)
		if err != nil {
			return nil, err
		}
		report.Metrics[attr] = attrReport
	}

	report.Recommendations = d.recommend(protectedAttrs, report.Metrics)
	d.history = append(d.history, report)
	return report, nil
}

// analyzeAttribute computes the per-attribute representation report
func (d *Detector) analyzeAttribute(table *dataset.Table, attribute, targetColumn string) (AttributeReport, error) {
	if !table.HasColumn(attribute) {
		return AttributeReport{}, core.NewAttributeNotFoundError(attribute)
	}
	values, err := table.Column(attribute)
	if err != nil {
		return AttributeReport{}, err
	}

	groups, indexes, err := metrics.Partition(values)
	if err != nil {
		return AttributeReport{}, err
	}

	total := float64(table.Len())
	counts := make(map[string]int, len(groups))
	distribution := make(map[string]float64, len(groups))
	minProp, maxProp := 1.0, 0.0
	for _, g := range groups {
		counts[g] = len(indexes[g])
		prop := float64(len(indexes[g])) / total
		distribution[g] = prop
		if prop < minProp {
			minProp = prop
		}
		if prop > maxProp {
			maxProp = prop
		}
	}

	ratio := fairness.DisparityRatio(maxProp, minProp)
	attrReport := AttributeReport{
		Attribute:         attribute,
		GroupCounts:       counts,
		GroupDistribution: distribution,
		Representation: RepresentationBias{
			MaxProportion:  maxProp,
			MinProportion:  minProp,
			DisparityRatio: ratio,
			IsBalanced:     float64(ratio) < d.thresholds.BalanceRatio,
		},
	}

	if targetColumn != "" && table.HasColumn(targetColumn) {
		labelBias, err := d.analyzeLabels(table, targetColumn, groups, indexes)
		if err != nil {
			return AttributeReport{}, err
		}
		attrReport.LabelBias = labelBias
	}

	return attrReport, nil
}

// analyzeLabels computes per-group target means and their disparity
func (d *Detector) analyzeLabels(table *dataset.Table, targetColumn string, groups []string, indexes map[string][]int) (*LabelBias, error) {
	target, err := table.NumericColumn(targetColumn)
	if err != nil {
		return nil, err
	}

	binary := true
	for _, v := range target {
		if v != 0 && v != 1 {
			binary = false
			break
		}
	}

	labelBias := &LabelBias{Groups: make(map[string]GroupLabelStats, len(groups))}
	minRate, maxRate := 0.0, 0.0
	for i, g := range groups {
		groupTarget := make([]float64, 0, len(indexes[g]))
		positives := 0
		for _, idx := range indexes[g] {
			groupTarget = append(groupTarget, target[idx])
			if target[idx] == 1 {
				positives++
			}
		}

		meanTarget, _ := stats.Mean(groupTarget)
		rate := meanTarget
		if binary {
			rate = float64(positives) / float64(len(groupTarget))
		}

		labelBias.Groups[g] = GroupLabelStats{
			GroupSize:    len(groupTarget),
			PositiveRate: rate,
			MeanTarget:   meanTarget,
		}
		if i == 0 || rate < minRate {
			minRate = rate
		}
		if i == 0 || rate > maxRate {
			maxRate = rate
		}
	}

	labelBias.Disparity = LabelDisparity{
		MaxRate:        maxRate,
		MinRate:        minRate,
		DisparityRatio: fairness.DisparityRatio(maxRate, minRate),
	}
	return labelBias, nil
}

// recommend walks the fixed rule table in attribute order. Matched messages
// accumulate in rule order; the default message appears only when nothing
// matched.
func (d *Detector) recommend(attrs []string, reports map[string]AttributeReport) []string {
	var out []string

	for _, attr := range attrs {
		report := reports[attr]

		if float64(report.Representation.DisparityRatio) > d.thresholds.RepresentationAlert {
			out = append(out, fmt.Sprintf(
				"High representation disparity detected in '%s'. Consider data collection strategies to improve balance.", attr))
		}
		if report.LabelBias != nil && float64(report.LabelBias.Disparity.DisparityRatio) > d.thresholds.LabelAlert {
			out = append(out, fmt.Sprintf(
				"Label bias detected in '%s'. Review labeling process and consider fairness constraints.", attr))
		}
	}

	if len(out) == 0 {
		out = append(out, "No significant bias detected. Continue monitoring.")
	}
	return out
}

// GroupPerformance holds per-group prediction quality for model bias checks
type GroupPerformance struct {
	Size                   int     `json:"size"`
	Accuracy               float64 `json:"accuracy"`
	PositivePredictionRate float64 `json:"positive_prediction_rate"`
}

// ModelBiasReport summarizes live-model behavior across protected groups
type ModelBiasReport struct {
	ProtectedAttributes []string                               `json:"protected_attributes"`
	GroupPerformance    map[string]map[string]GroupPerformance `json:"group_performance"`
}

// DetectModelBias queries a prediction source and compares its behavior per
// protected group. Attributes absent from the feature table are skipped, and
// any prediction error is returned to the caller unmodified.
func (d *Detector) DetectModelBias(ctx context.Context, model ports.PredictionSource, features *dataset.Table, yTrue []float64, protectedAttrs []string) (*ModelBiasReport, error) {
	if len(protectedAttrs) == 0 {
		return nil, core.ErrEmptyAttributes
	}
	if len(yTrue) != features.Len() {
		return nil, core.NewLengthMismatchError("y_true", features.Len(), len(yTrue))
	}

	predictions, err := model.Predict(ctx, features)
	if err != nil {
		return nil, err
	}
	if len(predictions) != features.Len() {
		return nil, core.NewLengthMismatchError("predictions", features.Len(), len(predictions))
	}

	report := &ModelBiasReport{
		ProtectedAttributes: protectedAttrs,
		GroupPerformance:    make(map[string]map[string]GroupPerformance, len(protectedAttrs)),
	}

	for _, attr := range protectedAttrs {
		if !features.HasColumn(attr) {
			continue
		}
		values, err := features.Column(attr)
		if err != nil {
			return nil, err
		}
		groups, indexes, err := metrics.Partition(values)
		if err != nil {
			return nil, err
		}

		perf := make(map[string]GroupPerformance, len(groups))
		for _, g := range groups {
			correct, positive := 0, 0
			for _, idx := range indexes[g] {
				if predictions[idx] == yTrue[idx] {
					correct++
				}
				if predictions[idx] == 1 {
					positive++
				}
			}
			size := len(indexes[g])
			perf[g] = GroupPerformance{
				Size:                   size,
				Accuracy:               float64(correct) / float64(size),
				PositivePredictionRate: float64(positive) / float64(size),
			}
		}
		report.GroupPerformance[attr] = perf
	}

	return report, nil
}
