package ports

// Transparency capability interfaces. Models declare what they can explain
// by implementing these; the analyzer checks capabilities, never class names.

// FeatureImporter is implemented by models that expose per-feature importance
type FeatureImporter interface {
	FeatureImportances() []float64
}

// CoefficientModel is implemented by linear-family models that expose coefficients
type CoefficientModel interface {
	Coefficients() []float64
}

// SelfExplainer lets a model declare whether its decisions are inherently
// human-readable (rule lists, shallow trees, linear scores).
type SelfExplainer interface {
	Interpretable() bool
}
