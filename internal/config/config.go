package config

import (
	"os"
	"strconv"

	"ethica/domain/fairness"
	"ethica/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Audit      AuditConfig
	Thresholds fairness.Thresholds
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port      string
	AuditPort string
}

// AuditConfig selects and parameterizes the audit store backend.
// When DatabaseURL is set, records go to postgres; otherwise JSONL files
// under LogDir.
type AuditConfig struct {
	DatabaseURL string
	LogDir      string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	thresholds, err := loadThresholds()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load threshold configuration")
	}

	return &Config{
		Server: ServerConfig{
			Port:      getEnvOrDefault("PORT", "8080"),
			AuditPort: getEnvOrDefault("AUDIT_PORT", "8081"),
		},
		Audit: AuditConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			LogDir:      getEnvOrDefault("AUDIT_LOG_DIR", "audit_logs"),
		},
		Thresholds: thresholds,
	}, nil
}

// loadThresholds starts from the standard policy defaults and applies any
// environment overrides. Overridden reports are not comparable to reports
// produced with the defaults.
func loadThresholds() (fairness.Thresholds, error) {
	t := fairness.DefaultThresholds()

	overrides := []struct {
		env    string
		target *float64
	}{
		{"ETHICA_PARITY_THRESHOLD", &t.ParityViolation},
		{"ETHICA_ODDS_THRESHOLD", &t.OddsViolation},
		{"ETHICA_OPPORTUNITY_THRESHOLD", &t.OpportunityViolation},
		{"ETHICA_CALIBRATION_THRESHOLD", &t.CalibrationError},
		{"ETHICA_BALANCE_RATIO", &t.BalanceRatio},
		{"ETHICA_REPRESENTATION_ALERT", &t.RepresentationAlert},
		{"ETHICA_LABEL_ALERT", &t.LabelAlert},
	}

	for _, o := range overrides {
		raw := os.Getenv(o.env)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return t, errors.ConfigInvalid(o.env + " must be a positive number")
		}
		*o.target = v
	}

	return t, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
