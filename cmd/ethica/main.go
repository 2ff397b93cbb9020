package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ethica/adapters/auditstore"
	"ethica/adapters/excel"
	"ethica/adapters/metrics"
	"ethica/domain/core"
	"ethica/internal/bias"
	"ethica/internal/config"
	"ethica/internal/report"
	"ethica/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "ethica",
		Short: "Ethica CLI for fairness evaluation, bias detection and audit queries",
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newBiasCmd(),
		newAuditCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEvaluateCmd() *cobra.Command {
	var truthColumn string
	var predColumn string
	var probColumn string
	var attributes []string
	var metricNames []string
	var format string

	cmd := &cobra.Command{
		Use:   "evaluate [dataset-file]",
		Short: "Run fairness metrics over a CSV or Excel dataset",
		Long: `Evaluate fairness metrics over a dataset file.

The truth and prediction columns must hold binary labels (0/1). Protected
attribute columns are treated as categorical group labels.

Example: ethica evaluate data.csv --truth outcome --pred decision --attributes gender,region`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), args[0], truthColumn, predColumn, probColumn, attributes, metricNames, format)
		},
	}

	cmd.Flags().StringVar(&truthColumn, "truth", "", "Column holding ground-truth labels")
	cmd.Flags().StringVar(&predColumn, "pred", "", "Column holding predicted labels")
	cmd.Flags().StringVar(&probColumn, "prob", "", "Column holding predicted probabilities (optional)")
	cmd.Flags().StringSliceVar(&attributes, "attributes", nil, "Protected attribute columns")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "Metrics to run (default: all)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")
	cmd.MarkFlagRequired("truth")
	cmd.MarkFlagRequired("pred")
	cmd.MarkFlagRequired("attributes")

	return cmd
}

func runEvaluate(ctx context.Context, path, truthColumn, predColumn, probColumn string, attributes, metricNames []string, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table, err := excel.NewDataReader().Read(ctx, path)
	if err != nil {
		return err
	}

	yTrue, err := table.NumericColumn(truthColumn)
	if err != nil {
		return err
	}
	yPred, err := table.NumericColumn(predColumn)
	if err != nil {
		return err
	}
	var probs []float64
	if probColumn != "" {
		if probs, err = table.NumericColumn(probColumn); err != nil {
			return err
		}
	}

	attrValues := make(map[string][]string, len(attributes))
	for _, attr := range attributes {
		values, err := table.Column(attr)
		if err != nil {
			return err
		}
		attrValues[attr] = values
	}

	engine := metrics.NewEngineWithThresholds(cfg.Thresholds)
	rep, err := engine.Evaluate(ctx, metrics.EvalInput{
		YTrue:         yTrue,
		YPred:         yPred,
		Probabilities: probs,
		Attributes:    attrValues,
		Metrics:       metricNames,
	})
	if err != nil {
		return err
	}

	renderer := report.NewRenderer()
	switch format {
	case "markdown":
		os.Stdout.Write(renderer.Fairness(rep))
	case "html":
		os.Stdout.Write(renderer.HTML(renderer.Fairness(rep)))
	default:
		return printJSON(rep)
	}
	return nil
}

func newBiasCmd() *cobra.Command {
	var attributes []string
	var targetColumn string
	var format string

	cmd := &cobra.Command{
		Use:   "bias [dataset-file]",
		Short: "Detect representation and label bias in a dataset",
		Long: `Analyze group representation balance, and label-rate disparity when a
target column is given.

Example: ethica bias data.csv --attributes gender,age_group --target approved`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBias(cmd.Context(), args[0], attributes, targetColumn, format)
		},
	}

	cmd.Flags().StringSliceVar(&attributes, "attributes", nil, "Protected attribute columns")
	cmd.Flags().StringVar(&targetColumn, "target", "", "Target column for label bias analysis (optional)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")
	cmd.MarkFlagRequired("attributes")

	return cmd
}

func runBias(ctx context.Context, path string, attributes []string, targetColumn, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table, err := excel.NewDataReader().Read(ctx, path)
	if err != nil {
		return err
	}

	detector := bias.NewDetectorWithThresholds(cfg.Thresholds)
	rep, err := detector.Analyze(table, attributes, targetColumn)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer()
	switch format {
	case "markdown":
		os.Stdout.Write(renderer.Bias(rep))
	case "html":
		os.Stdout.Write(renderer.HTML(renderer.Bias(rep)))
	default:
		return printJSON(rep)
	}
	return nil
}

func newAuditCmd() *cobra.Command {
	var modelID string
	var severity string
	var status string
	var since string

	cmd := &cobra.Command{
		Use:   "audit [decisions|incidents]",
		Short: "Query the local audit trail",
		Long: `Query audit records from the configured store (JSONL files under
AUDIT_LOG_DIR unless DATABASE_URL selects postgres).

Example: ethica audit incidents --severity critical --since 2026-01-01T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind ports.RecordKind
			switch args[0] {
			case "decisions":
				kind = ports.KindDecision
			case "incidents":
				kind = ports.KindIncident
			default:
				return fmt.Errorf("unknown record type %q (use decisions or incidents)", args[0])
			}
			return runAudit(cmd.Context(), kind, modelID, severity, status, since)
		},
	}

	cmd.Flags().StringVar(&modelID, "model-id", "", "Filter by model identifier")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter incidents by severity")
	cmd.Flags().StringVar(&status, "status", "", "Filter incidents by status")
	cmd.Flags().StringVar(&since, "since", "", "Only records at or after this RFC3339 time")

	return cmd
}

func runAudit(ctx context.Context, kind ports.RecordKind, modelID, severity, status, since string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, cleanup, err := auditstore.Open(ctx, cfg.Audit.DatabaseURL, cfg.Audit.LogDir)
	if err != nil {
		return err
	}
	defer cleanup()

	filters := ports.AuditFilters{
		Kind:     kind,
		Severity: severity,
		Status:   status,
	}
	if modelID != "" {
		id, err := core.ParseModelID(modelID)
		if err != nil {
			return err
		}
		filters.ModelID = id
	}
	if since != "" {
		from, err := core.ParseISO8601(since)
		if err != nil {
			return fmt.Errorf("invalid --since format (use RFC3339): %w", err)
		}
		filters.From = from.Time()
	}

	records, err := store.Query(ctx, filters)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"count": len(records), "records": records})
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
