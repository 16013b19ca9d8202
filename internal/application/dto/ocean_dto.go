package dto

import "time"

// Общий статус по индексу здоровья океана
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"
	HealthStatusNoData   = "no_data"
)

// ParameterSummaryDTO - агрегаты одного параметра за окно.
// Average = nil и Available = false означают отсутствие данных.
type ParameterSummaryDTO struct {
	Parameter      string   `json:"parameter"`
	Label          string   `json:"label"`
	Unit           string   `json:"unit"`
	Average        *float64 `json:"average"`
	Available      bool     `json:"available"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Samples        int      `json:"samples"`
	Deviation      string   `json:"deviation,omitempty"`
	DeviationColor string   `json:"deviation_color,omitempty"`
}

// OceanConditionsDTO представляет состояние океана за окно наблюдения
type OceanConditionsDTO struct {
	Timestamp   time.Time `json:"timestamp"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	DataPoints  int       `json:"data_points"`
	// HealthScore = nil, если нет ни температуры, ни pH, ни солености
	HealthScore  *int                   `json:"health_score"`
	HealthStatus string                 `json:"health_status"`
	Parameters   []*ParameterSummaryDTO `json:"parameters"`
}

// Parameter возвращает сводку параметра по имени или nil
func (c *OceanConditionsDTO) Parameter(name string) *ParameterSummaryDTO {
	for _, p := range c.Parameters {
		if p.Parameter == name {
			return p
		}
	}
	return nil
}

// HealthStatusFor определяет статус по индексу здоровья
func HealthStatusFor(score *int) string {
	switch {
	case score == nil:
		return HealthStatusNoData
	case *score >= 80:
		return HealthStatusHealthy
	case *score >= 60:
		return HealthStatusWarning
	default:
		return HealthStatusCritical
	}
}

// DailyAverageDTO - точка ряда среднесуточных значений
type DailyAverageDTO struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Samples int     `json:"samples"`
}

// ParameterTrendDTO - ряд среднесуточных значений параметра
type ParameterTrendDTO struct {
	Parameter string             `json:"parameter"`
	Unit      string             `json:"unit"`
	Days      int                `json:"days"`
	Series    []*DailyAverageDTO `json:"series"`
}
