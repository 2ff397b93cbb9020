package metrics

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"ethica/domain/core"
	"ethica/domain/fairness"
)

// EvalInput is the full evaluation request: shared label vectors plus one or
// more named protected-attribute vectors, all aligned by sample index.
// Metrics optionally narrows the run to a subset of metric names.
type EvalInput struct {
	YTrue         []float64
	YPred         []float64
	Probabilities []float64
	Attributes    map[string][]string
	Metrics       []string
}

// Engine orchestrates the fairness metric calculators over every requested
// protected attribute and assembles the combined report
type Engine struct {
	metrics    []Metric
	thresholds fairness.Thresholds
}

// NewEngine creates an engine with the default policy thresholds
func NewEngine() *Engine {
	return NewEngineWithThresholds(fairness.DefaultThresholds())
}

// NewEngineWithThresholds creates an engine with overridden policy thresholds
func NewEngineWithThresholds(thresholds fairness.Thresholds) *Engine {
	return &Engine{
		thresholds: thresholds,
		metrics: []Metric{
			NewDemographicParityMetric(thresholds),
			NewEqualizedOddsMetric(thresholds),
			NewEqualOpportunityMetric(thresholds),
			NewCalibrationMetric(thresholds),
		},
	}
}

// ListMetrics returns every registered metric name in evaluation order
func (e *Engine) ListMetrics() []string {
	names := make([]string, len(e.metrics))
	for i, m := range e.metrics {
		names[i] = m.Name()
	}
	return names
}

// Evaluate runs the requested metrics for every protected attribute.
// Attributes are evaluated concurrently; each calculator is a pure function
// of its inputs, so no shared state crosses goroutines besides the result
// map, which is guarded. Input validation failures abort the whole run.
func (e *Engine) Evaluate(ctx context.Context, in EvalInput) (*fairness.Report, error) {
	if len(in.Attributes) == 0 {
		return nil, core.ErrEmptyAttributes
	}

	selected, err := e.selectMetrics(in.Metrics)
	if err != nil {
		return nil, err
	}

	report := &fairness.Report{
		SampleSize: sampleSize(in),
		Attributes: make(map[string]map[string]fairness.Result, len(in.Attributes)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for name, values := range in.Attributes {
		name, values := name, values
		g.Go(func() error {
			attrResults := make(map[string]fairness.Result, len(selected))
			for _, metric := range selected {
				result, err := metric.Evaluate(gctx, Input{
					YTrue:         in.YTrue,
					YPred:         in.YPred,
					Probabilities: in.Probabilities,
					Attribute:     values,
				})
				if err != nil {
					return err
				}
				attrResults[metric.Name()] = result
			}

			mu.Lock()
			report.Attributes[name] = attrResults
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Recommendations = recommend(report, e.thresholds)
	return report, nil
}

// sampleSize prefers the prediction vector, falling back to probabilities
// and then labels for runs that carry no predictions (calibration-only)
func sampleSize(in EvalInput) int {
	if len(in.YPred) > 0 {
		return len(in.YPred)
	}
	if len(in.Probabilities) > 0 {
		return len(in.Probabilities)
	}
	return len(in.YTrue)
}

// selectMetrics resolves the requested names against the registry, keeping
// the fixed evaluation order. A nil or empty filter selects everything.
func (e *Engine) selectMetrics(names []string) ([]Metric, error) {
	if len(names) == 0 {
		return e.metrics, nil
	}

	requested := make(map[string]bool, len(names))
	for _, n := range names {
		known := false
		for _, m := range e.metrics {
			if m.Name() == n {
				known = true
				break
			}
		}
		if !known {
			return nil, core.NewUnknownMetricError(n)
		}
		requested[n] = true
	}

	selected := make([]Metric, 0, len(requested))
	for _, m := range e.metrics {
		if requested[m.Name()] {
			selected = append(selected, m)
		}
	}
	return selected, nil
}
