package healthanalyzer

import "time"

type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityNoData   Severity = "no_data"
)

// GlobalLocation - сводка по всем измерениям окна
const GlobalLocation = "global"

type ParameterAssessment struct {
	Parameter string   `json:"parameter"`
	Average   *float64 `json:"average"`
	Samples   int      `json:"samples"`
	Deviation string   `json:"deviation,omitempty"`
}

type LocationAssessment struct {
	Location     string                `json:"location"`
	HealthScore  *int                  `json:"health_score"`
	HealthStatus string                `json:"health_status"`
	Severity     Severity              `json:"severity"`
	DataPoints   int                   `json:"data_points"`
	Parameters   []ParameterAssessment `json:"parameters"`
}

type CycleSummary struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	WindowStart    time.Time            `json:"window_start"`
	WindowEnd      time.Time            `json:"window_end"`
	DataPoints     int                  `json:"data_points"`
	LocationsTotal int                  `json:"locations_total"`
	CriticalCount  int                  `json:"critical_count"`
	WarningCount   int                  `json:"warning_count"`
	Assessments    []LocationAssessment `json:"assessments"`
}

type Snapshot struct {
	StartedAt   time.Time     `json:"started_at"`
	Interval    time.Duration `json:"interval"`
	LastRunAt   time.Time     `json:"last_run_at"`
	LastError   string        `json:"last_error,omitempty"`
	LastSummary *CycleSummary `json:"last_summary,omitempty"`
}
