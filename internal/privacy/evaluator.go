package privacy

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"ethica/domain/core"
	"ethica/domain/dataset"
)

// Risk levels for re-identification
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// Options describes the privacy controls the caller has in place
type Options struct {
	SensitiveColumns       []string
	HasAnonymization       bool
	HasDifferentialPrivacy bool
	HasAccessControls      bool
}

// ReidentificationRisk scores how easily individual samples can be re-identified
type ReidentificationRisk struct {
	Score       float64  `json:"score"` // 1 - risk; higher is safer
	RiskLevel   string   `json:"risk_level"`
	RiskFactors []string `json:"risk_factors"`
}

// DataMinimization scores adherence to data-minimization principles
type DataMinimization struct {
	Score          float64  `json:"score"`
	Issues         []string `json:"issues"`
	Recommendation string   `json:"recommendation"`
}

// Measure is a boolean privacy control with its contribution score
type Measure struct {
	Implemented bool    `json:"implemented"`
	Score       float64 `json:"score"`
}

// Evaluation is the complete privacy assessment for one dataset
type Evaluation struct {
	DatasetSize          int                  `json:"dataset_size"`
	NumFeatures          int                  `json:"num_features"`
	PrivacyScore         float64              `json:"privacy_score"`
	Reidentification     ReidentificationRisk `json:"reidentification_risk"`
	Minimization         DataMinimization     `json:"data_minimization"`
	Anonymization        Measure              `json:"anonymization"`
	DifferentialPrivacy  Measure              `json:"differential_privacy"`
	AccessControls       Measure              `json:"access_controls"`
	Risks                []string             `json:"risks"`
	Recommendations      []string             `json:"recommendations"`
}

// Evaluator scores the privacy posture of a dataset plus its declared controls
type Evaluator struct{}

// NewEvaluator creates a privacy evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs every privacy check and folds the scores into one assessment.
// The overall score is the plain mean of the five component scores.
func (e *Evaluator) Evaluate(table *dataset.Table, opts Options) (*Evaluation, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}

	eval := &Evaluation{
		DatasetSize:         table.Len(),
		NumFeatures:         len(table.Headers),
		Reidentification:    e.reidentificationRisk(table, opts.SensitiveColumns),
		Minimization:        e.dataMinimization(table, opts.SensitiveColumns),
		Anonymization:       boolMeasure(opts.HasAnonymization),
		DifferentialPrivacy: boolMeasure(opts.HasDifferentialPrivacy),
		AccessControls:      boolMeasure(opts.HasAccessControls),
	}

	score, _ := stats.Mean([]float64{
		eval.Reidentification.Score,
		eval.Minimization.Score,
		eval.Anonymization.Score,
		eval.DifferentialPrivacy.Score,
		eval.AccessControls.Score,
	})
	eval.PrivacyScore = score

	eval.Risks = e.identifyRisks(eval)
	eval.Recommendations = e.recommend(eval)
	return eval, nil
}

// reidentificationRisk accumulates risk weights for identifying columns,
// quasi-identifiers, and small sample counts, capped at 1.0. A unique-ID
// column scores under both rules, matching the established weighting.
func (e *Evaluator) reidentificationRisk(table *dataset.Table, sensitiveColumns []string) ReidentificationRisk {
	sensitive := make(map[string]bool, len(sensitiveColumns))
	for _, c := range sensitiveColumns {
		sensitive[c] = true
	}

	var factors []string
	risk := 0.0
	n := table.Len()

	for _, col := range table.Headers {
		if table.UniqueCount(col) == n {
			factors = append(factors, fmt.Sprintf("Column '%s' contains unique identifiers", col))
			risk += 0.3
		}
	}

	for _, col := range table.Headers {
		uniqueness := float64(table.UniqueCount(col)) / float64(n)
		if uniqueness > 0.9 && !sensitive[col] {
			factors = append(factors, fmt.Sprintf("Column '%s' is highly unique (quasi-identifier)", col))
			risk += 0.2
		}
	}

	if n < 100 {
		factors = append(factors, "Small dataset size increases re-identification risk")
		risk += 0.2
	} else if n < 1000 {
		risk += 0.1
	}

	if risk > 1.0 {
		risk = 1.0
	}

	level := RiskLow
	if risk > 0.7 {
		level = RiskHigh
	} else if risk > 0.4 {
		level = RiskMedium
	}

	return ReidentificationRisk{
		Score:       1.0 - risk,
		RiskLevel:   level,
		RiskFactors: factors,
	}
}

// dataMinimization penalizes columns that carry no information
func (e *Evaluator) dataMinimization(table *dataset.Table, sensitiveColumns []string) DataMinimization {
	var issues []string
	score := 1.0

	var missing []string
	for _, col := range sensitiveColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("Sensitive columns specified but not in data: %v", missing))
	}

	for _, col := range table.Headers {
		if table.MissingRate(col) == 1.0 {
			issues = append(issues, fmt.Sprintf("Column '%s' contains only null values", col))
			score -= 0.1
		} else if table.UniqueCount(col) == 1 {
			issues = append(issues, fmt.Sprintf("Column '%s' contains only constant values", col))
			score -= 0.05
		}
	}

	if score < 0 {
		score = 0
	}

	recommendation := "Data minimization looks good"
	if len(issues) > 0 {
		recommendation = "Remove unnecessary columns and null-only columns"
	}

	return DataMinimization{Score: score, Issues: issues, Recommendation: recommendation}
}

func (e *Evaluator) identifyRisks(eval *Evaluation) []string {
	var risks []string

	if eval.Reidentification.RiskLevel == RiskHigh {
		risks = append(risks, "High re-identification risk detected")
	}
	if !eval.Anonymization.Implemented {
		risks = append(risks, "No anonymization measures in place")
	}
	if !eval.DifferentialPrivacy.Implemented {
		risks = append(risks, "Differential privacy not implemented")
	}
	if !eval.AccessControls.Implemented {
		risks = append(risks, "Access controls not implemented")
	}
	if eval.Minimization.Score < 0.7 {
		risks = append(risks, "Data minimization principles not fully followed")
	}

	if len(risks) == 0 {
		risks = append(risks, "No major privacy risks identified")
	}
	return risks
}

func (e *Evaluator) recommend(eval *Evaluation) []string {
	var out []string

	if eval.PrivacyScore < 0.5 {
		out = append(out, "Privacy score is low. Implement comprehensive privacy measures.")
	}
	if !eval.Anonymization.Implemented {
		out = append(out, "Implement data anonymization techniques (k-anonymity, l-diversity, t-closeness)")
	}
	if !eval.DifferentialPrivacy.Implemented {
		out = append(out, "Consider implementing differential privacy for statistical queries")
	}
	if eval.Reidentification.RiskLevel == RiskHigh || eval.Reidentification.RiskLevel == RiskMedium {
		out = append(out, "Reduce re-identification risk by removing or generalizing quasi-identifiers")
	}
	if !eval.AccessControls.Implemented {
		out = append(out, "Implement access controls and audit logging for data access")
	}

	if len(out) == 0 {
		out = append(out, "Privacy measures are adequate. Continue monitoring and updating.")
	}
	return out
}

func boolMeasure(implemented bool) Measure {
	score := 0.0
	if implemented {
		score = 1.0
	}
	return Measure{Implemented: implemented, Score: score}
}
