package transparency

import (
	"github.com/montanaflynn/stats"

	"ethica/ports"
)

// Interpretability levels
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Interpretability scores how readable the model's decision process is
type Interpretability struct {
	Score  float64 `json:"score"`
	Level  string  `json:"level"`
	Reason string  `json:"reason"`
}

// FeatureImportance reports whether per-feature attributions are available
type FeatureImportance struct {
	Available bool      `json:"available"`
	Score     float64   `json:"score"`
	Method    string    `json:"method,omitempty"`
	Values    []float64 `json:"values,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// Factor is a simple availability check contributing to the overall score
type Factor struct {
	Available bool    `json:"available"`
	Score     float64 `json:"score"`
}

// Assessment is the complete transparency evaluation of one model
type Assessment struct {
	InterpretabilityScore float64           `json:"interpretability_score"`
	TransparencyScore     float64           `json:"transparency_score"`
	Interpretability      Interpretability  `json:"interpretability"`
	FeatureImportance     FeatureImportance `json:"feature_importance"`
	Documentation         Factor            `json:"documentation"`
	Explanations          Factor            `json:"explanations"`
	Recommendations       []string          `json:"recommendations"`
}

// Options carries the process-level transparency declarations
type Options struct {
	HasDocumentation bool
	HasExplanations  bool
}

// Analyzer assesses model transparency from declared capabilities.
// Models are judged by the interfaces they implement, never by type names:
// a model that cannot say how it decides scores as a black box regardless of
// what it is called.
type Analyzer struct{}

// NewAnalyzer creates a transparency analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Assess scores a model's transparency. The overall score is the mean of the
// interpretability, feature-importance, documentation, and explanation scores.
func (a *Analyzer) Assess(model any, opts Options) *Assessment {
	assessment := &Assessment{
		Interpretability:  a.assessInterpretability(model),
		FeatureImportance: a.assessFeatureImportance(model),
		Documentation:     factor(opts.HasDocumentation),
		Explanations:      factor(opts.HasExplanations),
	}
	assessment.InterpretabilityScore = assessment.Interpretability.Score

	score, _ := stats.Mean([]float64{
		assessment.Interpretability.Score,
		assessment.FeatureImportance.Score,
		assessment.Documentation.Score,
		assessment.Explanations.Score,
	})
	assessment.TransparencyScore = score

	assessment.Recommendations = a.recommend(assessment)
	return assessment
}

// assessInterpretability checks the SelfExplainer capability
func (a *Analyzer) assessInterpretability(model any) Interpretability {
	explainer, ok := model.(ports.SelfExplainer)
	if !ok {
		return Interpretability{
			Score:  0.5,
			Level:  LevelMedium,
			Reason: "Model declares no interpretability capability, transparency unclear",
		}
	}
	if explainer.Interpretable() {
		return Interpretability{
			Score:  1.0,
			Level:  LevelHigh,
			Reason: "Model declares its decision process as inherently interpretable",
		}
	}
	return Interpretability{
		Score:  0.3,
		Level:  LevelLow,
		Reason: "Model is a black box, requires post-hoc explanations",
	}
}

// assessFeatureImportance checks the attribution capabilities in preference
// order: built-in importances first, then linear coefficients
func (a *Analyzer) assessFeatureImportance(model any) FeatureImportance {
	if importer, ok := model.(ports.FeatureImporter); ok {
		return FeatureImportance{
			Available: true,
			Score:     1.0,
			Method:    "built-in",
			Values:    importer.FeatureImportances(),
		}
	}
	if linear, ok := model.(ports.CoefficientModel); ok {
		return FeatureImportance{
			Available: true,
			Score:     0.8,
			Method:    "coefficients",
			Values:    linear.Coefficients(),
		}
	}
	return FeatureImportance{
		Available: false,
		Score:     0.0,
		Note:      "Model exposes no feature attribution capability",
	}
}

func (a *Analyzer) recommend(assessment *Assessment) []string {
	var out []string

	if assessment.Interpretability.Level == LevelLow {
		out = append(out, "Consider using an interpretable model or adding post-hoc explanation tooling (SHAP, LIME)")
	}
	if !assessment.FeatureImportance.Available {
		out = append(out, "Expose feature importance or coefficients so decisions can be attributed to inputs")
	}
	if !assessment.Documentation.Available {
		out = append(out, "Document the model: purpose, training data, limitations, intended use")
	}
	if !assessment.Explanations.Available {
		out = append(out, "Provide per-decision explanations to affected users")
	}

	if len(out) == 0 {
		out = append(out, "Transparency measures are adequate. Keep documentation current.")
	}
	return out
}

func factor(available bool) Factor {
	score := 0.0
	if available {
		score = 1.0
	}
	return Factor{Available: available, Score: score}
}
