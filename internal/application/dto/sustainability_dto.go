package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// TrendDTO - направление и величина изменения показателя устойчивости
type TrendDTO struct {
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// CategoryCountDTO - количество записей в категории с атрибутами отображения
type CategoryCountDTO struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Count    int    `json:"count"`
}

// SustainabilitySnapshotDTO представляет снимок показателей устойчивости
type SustainabilitySnapshotDTO struct {
	Timestamp           time.Time `json:"timestamp"`
	SustainabilityScore *float64  `json:"sustainability_score"`
	ScoreAvailable      bool      `json:"score_available"`
	TotalSpecies        int       `json:"total_species"`
	ThreatenedSpecies   int       `json:"threatened_species"`
	ThreatPercentage    float64   `json:"threat_percentage"`
	RecentObservations  int       `json:"recent_observations"`
	TotalActiveAlerts   int       `json:"total_active_alerts"`
	AverageBiodiversity *float64  `json:"average_biodiversity"`
	Trend               TrendDTO  `json:"trend"`

	EcosystemHealthDistribution    []CategoryCountDTO `json:"ecosystem_health_distribution"`
	ConservationStatusDistribution []CategoryCountDTO `json:"conservation_status_distribution"`
}

// NewSustainabilitySnapshotDTO конвертирует доменный снимок в DTO
func NewSustainabilitySnapshotDTO(snap service.SustainabilitySnapshot, at time.Time) *SustainabilitySnapshotDTO {
	return &SustainabilitySnapshotDTO{
		Timestamp:           at,
		SustainabilityScore: snap.SustainabilityScore.Ptr(),
		ScoreAvailable:      !snap.SustainabilityScore.IsNoData(),
		TotalSpecies:        snap.TotalSpecies,
		ThreatenedSpecies:   snap.ThreatenedSpecies,
		ThreatPercentage:    snap.ThreatPercentage,
		RecentObservations:  snap.RecentObservations,
		TotalActiveAlerts:   snap.TotalActiveAlerts,
		Trend: TrendDTO{
			Status:     snap.Trend.Status.String(),
			Percentage: snap.Trend.Percentage,
			Color:      snap.Trend.Status.Display().Color,
		},
	}
}

// EcosystemDistributionDTOs упорядочивает распределение по перечислению
func EcosystemDistributionDTOs(dist map[valueobject.EcosystemHealth]int) []CategoryCountDTO {
	out := make([]CategoryCountDTO, 0, len(dist))
	for _, h := range valueobject.AllEcosystemHealth() {
		d := h.Display()
		out = append(out, CategoryCountDTO{Category: h.String(), Label: d.Label, Color: d.Color, Count: dist[h]})
	}
	return out
}

// ConservationDistributionDTOs упорядочивает распределение по перечислению
func ConservationDistributionDTOs(dist map[valueobject.ConservationStatus]int) []CategoryCountDTO {
	out := make([]CategoryCountDTO, 0, len(dist))
	for _, s := range valueobject.AllConservationStatuses() {
		d := s.Display()
		out = append(out, CategoryCountDTO{Category: s.String(), Label: d.Label, Color: d.Color, Count: dist[s]})
	}
	return out
}
