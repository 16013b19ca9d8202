package dto

// DashboardOverviewDTO - данные главной страницы
type DashboardOverviewDTO struct {
	Conditions     *OceanConditionsDTO        `json:"conditions"`
	Sustainability *SustainabilitySnapshotDTO `json:"sustainability"`
	RecentAlerts   []*AlertDTO                `json:"recent_alerts"`
	// Degraded перечисляет секции, которые не удалось загрузить
	Degraded []string `json:"degraded,omitempty"`
}
