package privacy

import (
	"fmt"
	"strings"
	"testing"

	"ethica/domain/dataset"
)

func tableWithIDs(n int) *dataset.Table {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{
			"user_id": fmt.Sprintf("u-%d", i),
			"group":   "A",
			"age":     fmt.Sprintf("%d", 20+i%5),
		}
	}
	return dataset.New([]string{"user_id", "group", "age"}, rows)
}

// TestEvaluate_UniqueIdentifierRisk verifies ID columns drive risk up
func TestEvaluate_UniqueIdentifierRisk(t *testing.T) {
	eval, err := NewEvaluator().Evaluate(tableWithIDs(500), Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// user_id is a unique identifier (+0.3) and a quasi-identifier (+0.2),
	// and the dataset is mid-sized (+0.1): risk 0.6, score 0.4
	if diff := eval.Reidentification.Score - 0.4; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected reidentification score 0.4, got %f", eval.Reidentification.Score)
	}
	if eval.Reidentification.RiskLevel != RiskMedium {
		t.Errorf("Expected medium risk, got %s", eval.Reidentification.RiskLevel)
	}

	found := false
	for _, f := range eval.Reidentification.RiskFactors {
		if strings.Contains(f, "user_id") && strings.Contains(f, "unique identifiers") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected user_id flagged as unique identifier, got %v", eval.Reidentification.RiskFactors)
	}
}

// TestEvaluate_AllControlsRaiseScore verifies the boolean measures
func TestEvaluate_AllControlsRaiseScore(t *testing.T) {
	table := tableWithIDs(50)

	bare, err := NewEvaluator().Evaluate(table, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	hardened, err := NewEvaluator().Evaluate(table, Options{
		HasAnonymization:       true,
		HasDifferentialPrivacy: true,
		HasAccessControls:      true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if hardened.PrivacyScore <= bare.PrivacyScore {
		t.Errorf("Expected controls to raise the score: bare=%f hardened=%f",
			bare.PrivacyScore, hardened.PrivacyScore)
	}
	if !hardened.Anonymization.Implemented || hardened.Anonymization.Score != 1.0 {
		t.Error("Anonymization measure not recorded")
	}
}

// TestEvaluate_DataMinimizationPenalties verifies constant and null columns
func TestEvaluate_DataMinimizationPenalties(t *testing.T) {
	rows := make([]dataset.Row, 10)
	for i := range rows {
		rows[i] = dataset.Row{"value": fmt.Sprintf("%d", i), "constant": "x", "empty": ""}
	}
	table := dataset.New([]string{"value", "constant", "empty"}, rows)

	eval, err := NewEvaluator().Evaluate(table, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// -0.1 for the null column, -0.05 for the constant column
	want := 1.0 - 0.1 - 0.05
	if diff := eval.Minimization.Score - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Expected minimization score %f, got %f", want, eval.Minimization.Score)
	}
	if len(eval.Minimization.Issues) != 2 {
		t.Errorf("Expected 2 minimization issues, got %v", eval.Minimization.Issues)
	}
}

// TestEvaluate_DefaultRecommendations verifies messages for a bare dataset
func TestEvaluate_DefaultRecommendations(t *testing.T) {
	eval, err := NewEvaluator().Evaluate(tableWithIDs(50), Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(eval.Recommendations) == 0 {
		t.Fatal("Expected recommendations for an unprotected dataset")
	}
	if len(eval.Risks) == 0 {
		t.Fatal("Expected identified risks for an unprotected dataset")
	}
}

// TestEvaluate_EmptyDataset rejects empty input
func TestEvaluate_EmptyDataset(t *testing.T) {
	table := dataset.New([]string{"a"}, nil)
	if _, err := NewEvaluator().Evaluate(table, Options{}); err == nil {
		t.Error("Expected error for empty dataset")
	}
}
