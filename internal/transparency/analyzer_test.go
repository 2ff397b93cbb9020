package transparency

import (
	"math"
	"testing"
)

// glassBox declares interpretability and exposes importances
type glassBox struct{}

func (glassBox) Interpretable() bool           { return true }
func (glassBox) FeatureImportances() []float64 { return []float64{0.7, 0.2, 0.1} }

// blackBox declares itself opaque and exposes nothing
type blackBox struct{}

func (blackBox) Interpretable() bool { return false }

// linearModel exposes coefficients but no self-declaration
type linearModel struct{}

func (linearModel) Coefficients() []float64 { return []float64{1.5, -0.3} }

// TestAssess_GlassBox covers the fully transparent path
func TestAssess_GlassBox(t *testing.T) {
	assessment := NewAnalyzer().Assess(glassBox{}, Options{
		HasDocumentation: true,
		HasExplanations:  true,
	})

	if assessment.Interpretability.Level != LevelHigh {
		t.Errorf("Expected high interpretability, got %s", assessment.Interpretability.Level)
	}
	if !assessment.FeatureImportance.Available || assessment.FeatureImportance.Method != "built-in" {
		t.Errorf("Expected built-in feature importance, got %+v", assessment.FeatureImportance)
	}
	if assessment.TransparencyScore != 1.0 {
		t.Errorf("Expected transparency score 1.0, got %f", assessment.TransparencyScore)
	}
	if len(assessment.Recommendations) != 1 {
		t.Errorf("Expected only the default recommendation, got %v", assessment.Recommendations)
	}
}

// TestAssess_BlackBox covers the opaque path
func TestAssess_BlackBox(t *testing.T) {
	assessment := NewAnalyzer().Assess(blackBox{}, Options{})

	if assessment.Interpretability.Level != LevelLow {
		t.Errorf("Expected low interpretability, got %s", assessment.Interpretability.Level)
	}
	if assessment.Interpretability.Score != 0.3 {
		t.Errorf("Expected interpretability score 0.3, got %f", assessment.Interpretability.Score)
	}
	if assessment.FeatureImportance.Available {
		t.Error("Black box should expose no feature importance")
	}

	// (0.3 + 0 + 0 + 0) / 4
	if math.Abs(assessment.TransparencyScore-0.075) > 1e-12 {
		t.Errorf("Expected transparency score 0.075, got %f", assessment.TransparencyScore)
	}
	if len(assessment.Recommendations) != 4 {
		t.Errorf("Expected 4 recommendations, got %v", assessment.Recommendations)
	}
}

// TestAssess_UnknownModel covers a model with no declared capabilities
func TestAssess_UnknownModel(t *testing.T) {
	assessment := NewAnalyzer().Assess(struct{}{}, Options{})

	if assessment.Interpretability.Level != LevelMedium {
		t.Errorf("Expected medium interpretability for undeclared model, got %s",
			assessment.Interpretability.Level)
	}
	if assessment.Interpretability.Score != 0.5 {
		t.Errorf("Expected interpretability score 0.5, got %f", assessment.Interpretability.Score)
	}
}

// TestAssess_CoefficientFallback covers linear models without importances
func TestAssess_CoefficientFallback(t *testing.T) {
	assessment := NewAnalyzer().Assess(linearModel{}, Options{})

	if !assessment.FeatureImportance.Available {
		t.Fatal("Expected coefficients to count as feature importance")
	}
	if assessment.FeatureImportance.Method != "coefficients" {
		t.Errorf("Expected method 'coefficients', got %s", assessment.FeatureImportance.Method)
	}
	if assessment.FeatureImportance.Score != 0.8 {
		t.Errorf("Expected score 0.8, got %f", assessment.FeatureImportance.Score)
	}
}
