// Package report renders evaluation results as markdown documents and
// converts them to HTML for the web surfaces.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ethica/domain/core"
	"ethica/domain/fairness"
	"ethica/internal/accountability"
	"ethica/internal/bias"
	"ethica/internal/privacy"
	"ethica/internal/transparency"
)

// Renderer builds markdown ethics reports. The zero value is usable.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// HTML converts a markdown document to an HTML fragment
func (r *Renderer) HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

// Fairness renders a fairness evaluation report as markdown
func (r *Renderer) Fairness(rep *fairness.Report) []byte {
	var b strings.Builder
	b.WriteString("# Fairness Evaluation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", core.Now().ISO8601())
	fmt.Fprintf(&b, "Sample size: %d\n\n", rep.SampleSize)

	for _, attr := range sortedKeys(rep.Attributes) {
		fmt.Fprintf(&b, "## Attribute: %s\n\n", attr)
		b.WriteString("| Metric | Verdict | Detail |\n")
		b.WriteString("|---|---|---|\n")
		results := rep.Attributes[attr]
		for _, name := range fairness.AllMetrics {
			res, ok := results[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, verdict(res.Fair()), metricDetail(res))
		}
		b.WriteString("\n")
	}

	writeRecommendations(&b, rep.Recommendations)
	return []byte(b.String())
}

// Bias renders a dataset bias report as markdown
func (r *Renderer) Bias(rep *bias.Report) []byte {
	var b strings.Builder
	b.WriteString("# Dataset Bias Report\n\n")
	fmt.Fprintf(&b, "Dataset size: %d\n\n", rep.DatasetSize)

	for _, attr := range rep.ProtectedAttributes {
		ar, ok := rep.Metrics[attr]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## Attribute: %s\n\n", attr)
		b.WriteString("| Group | Count | Proportion |\n")
		b.WriteString("|---|---|---|\n")
		for _, group := range sortedKeys(ar.GroupCounts) {
			fmt.Fprintf(&b, "| %s | %d | %s |\n",
				group, ar.GroupCounts[group], ratio(ar.GroupDistribution[group]))
		}
		fmt.Fprintf(&b, "\nRepresentation disparity: %s (%s)\n\n",
			ratio(ar.Representation.DisparityRatio), balance(ar.Representation.IsBalanced))

		if ar.LabelBias != nil {
			fmt.Fprintf(&b, "Label rate disparity: %s (max %s, min %s)\n\n",
				ratio(ar.LabelBias.Disparity.DisparityRatio),
				ratio(ar.LabelBias.Disparity.MaxRate),
				ratio(ar.LabelBias.Disparity.MinRate))
		}
	}

	writeRecommendations(&b, rep.Recommendations)
	return []byte(b.String())
}

// Privacy renders a privacy evaluation as markdown
func (r *Renderer) Privacy(eval *privacy.Evaluation) []byte {
	var b strings.Builder
	b.WriteString("# Privacy Evaluation Report\n\n")
	fmt.Fprintf(&b, "Overall privacy score: %s\n\n", ratio(eval.PrivacyScore))
	fmt.Fprintf(&b, "Re-identification score: %s (risk level: %s)\n\n",
		ratio(eval.Reidentification.Score), eval.Reidentification.RiskLevel)

	if len(eval.Risks) > 0 {
		b.WriteString("## Risks\n\n")
		for _, risk := range eval.Risks {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
		b.WriteString("\n")
	}

	writeRecommendations(&b, eval.Recommendations)
	return []byte(b.String())
}

// Transparency renders a model transparency assessment as markdown
func (r *Renderer) Transparency(a *transparency.Assessment) []byte {
	var b strings.Builder
	b.WriteString("# Transparency Assessment Report\n\n")
	fmt.Fprintf(&b, "Overall transparency score: %s\n\n", ratio(a.TransparencyScore))
	fmt.Fprintf(&b, "Interpretability: %s (level: %s). %s\n\n",
		ratio(a.Interpretability.Score), a.Interpretability.Level, a.Interpretability.Reason)

	b.WriteString("| Factor | Available | Score |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| Feature importance | %s | %s |\n",
		availability(a.FeatureImportance.Available), ratio(a.FeatureImportance.Score))
	fmt.Fprintf(&b, "| Documentation | %s | %s |\n",
		availability(a.Documentation.Available), ratio(a.Documentation.Score))
	fmt.Fprintf(&b, "| Explanations | %s | %s |\n\n",
		availability(a.Explanations.Available), ratio(a.Explanations.Score))

	if a.FeatureImportance.Method != "" {
		fmt.Fprintf(&b, "Feature attribution method: %s\n\n", a.FeatureImportance.Method)
	}

	writeRecommendations(&b, a.Recommendations)
	return []byte(b.String())
}

// Accountability renders a periodic accountability summary as markdown
func (r *Renderer) Accountability(rep *accountability.Report) []byte {
	var b strings.Builder
	b.WriteString("# Accountability Report\n\n")
	fmt.Fprintf(&b, "Model: %s\n\n", rep.ModelID)
	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n\n",
		rep.Period.Start.Format("2006-01-02"), rep.Period.End.Format("2006-01-02"), rep.Period.Days)

	b.WriteString("| Measure | Count |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Decisions | %d |\n", rep.Summary.TotalDecisions)
	fmt.Fprintf(&b, "| Incidents | %d |\n", rep.Summary.TotalIncidents)
	fmt.Fprintf(&b, "| Open incidents | %d |\n", rep.Summary.OpenIncidents)
	fmt.Fprintf(&b, "| Critical incidents | %d |\n\n", rep.Summary.CriticalIncidents)

	if len(rep.IncidentsBySeverity) > 0 {
		b.WriteString("## Incidents by Severity\n\n")
		for _, sev := range sortedKeys(rep.IncidentsBySeverity) {
			fmt.Fprintf(&b, "- %s: %d\n", sev, rep.IncidentsBySeverity[sev])
		}
		b.WriteString("\n")
	}

	writeRecommendations(&b, rep.Recommendations)
	return []byte(b.String())
}

func metricDetail(res fairness.Result) string {
	switch {
	case res.Parity != nil:
		return fmt.Sprintf("violation %s, ratio %s", ratio(res.Parity.Violation), ratio(res.Parity.ParityRatio))
	case res.Odds != nil:
		return fmt.Sprintf("TPR violation %s, FPR violation %s", ratio(res.Odds.TPRViolation), ratio(res.Odds.FPRViolation))
	case res.Opportunity != nil:
		return fmt.Sprintf("TPR violation %s", ratio(res.Opportunity.Violation))
	case res.Calibration != nil:
		return fmt.Sprintf("max calibration error %s", ratio(res.Calibration.MaxCalibrationError))
	}
	return ""
}

func verdict(fair bool) string {
	if fair {
		return "fair"
	}
	return "unfair"
}

func availability(available bool) string {
	if available {
		return "yes"
	}
	return "no"
}

func balance(balanced bool) string {
	if balanced {
		return "balanced"
	}
	return "unbalanced"
}

func ratio[F ~float64](v F) string {
	if math.IsInf(float64(v), 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4f", float64(v))
}

func writeRecommendations(b *strings.Builder, recs []string) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("## Recommendations\n\n")
	for _, rec := range recs {
		fmt.Fprintf(b, "- %s\n", rec)
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
