package accountability

import (
	"fmt"
	"time"

	"ethica/domain/core"
)

// ReportPeriod bounds an accountability report
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// ReportSummary holds the headline counts
type ReportSummary struct {
	TotalDecisions    int `json:"total_decisions"`
	TotalIncidents    int `json:"total_incidents"`
	OpenIncidents     int `json:"open_incidents"`
	CriticalIncidents int `json:"critical_incidents"`
}

// Report is a periodic accountability summary for one model, or all models
// when ModelID is "all_models"
type Report struct {
	Period              ReportPeriod   `json:"report_period"`
	ModelID             string         `json:"model_id"`
	Summary             ReportSummary  `json:"summary"`
	IncidentsBySeverity map[string]int `json:"incidents_by_severity"`
	Recommendations     []string       `json:"recommendations"`
}

// GenerateReport summarizes decisions and incidents over the trailing period
func (t *Tracker) GenerateReport(modelID core.ModelID, periodDays int) *Report {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -periodDays)

	decisions := t.AuditTrail(modelID, start, end)
	incidents := t.Incidents("", "", modelID)

	summary := ReportSummary{
		TotalDecisions: len(decisions),
		TotalIncidents: len(incidents),
	}
	bySeverity := make(map[string]int)
	for _, inc := range incidents {
		bySeverity[inc.Severity]++
		if inc.Status == StatusOpen {
			summary.OpenIncidents++
		}
		if inc.Severity == SeverityCritical {
			summary.CriticalIncidents++
		}
	}

	name := modelID.String()
	if name == "" {
		name = "all_models"
	}

	report := &Report{
		Period:              ReportPeriod{Start: start, End: end, Days: periodDays},
		ModelID:             name,
		Summary:             summary,
		IncidentsBySeverity: bySeverity,
	}

	if summary.CriticalIncidents > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Address %d critical incident(s) immediately", summary.CriticalIncidents))
	}
	if summary.OpenIncidents > 5 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Review and resolve %d open incidents", summary.OpenIncidents))
	}
	if len(report.Recommendations) == 0 {
		report.Recommendations = append(report.Recommendations, "No immediate action required")
	}

	return report
}
