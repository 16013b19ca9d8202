package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// BiodiversityIndexDTO представляет оценку биоразнообразия региона
type BiodiversityIndexDTO struct {
	ID                string    `json:"id"`
	RegionName        string    `json:"region_name"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	SpeciesCount      int       `json:"species_count"`
	EndemicSpecies    int       `json:"endemic_species"`
	ThreatenedSpecies int       `json:"threatened_species"`
	BiodiversityScore float64   `json:"biodiversity_score"`
	EcosystemHealth   string    `json:"ecosystem_health"`
	HealthColor       string    `json:"health_color"`
	AssessedAt        time.Time `json:"assessment_date"`
}

// FromAssessment конвертирует Domain Entity в DTO
func FromAssessment(b *entity.BiodiversityAssessment) *BiodiversityIndexDTO {
	lat, lng := coordinates(b.Location())
	return &BiodiversityIndexDTO{
		ID:                b.ID(),
		RegionName:        b.RegionName(),
		Latitude:          lat,
		Longitude:         lng,
		SpeciesCount:      b.SpeciesCount(),
		EndemicSpecies:    b.EndemicSpecies(),
		ThreatenedSpecies: b.ThreatenedSpecies(),
		BiodiversityScore: b.BiodiversityScore(),
		EcosystemHealth:   b.EcosystemHealth().String(),
		HealthColor:       b.EcosystemHealth().Display().Color,
		AssessedAt:        b.AssessedAt(),
	}
}

func ToBiodiversityIndexDTOs(items []*entity.BiodiversityAssessment) []*BiodiversityIndexDTO {
	dtos := make([]*BiodiversityIndexDTO, len(items))
	for i, b := range items {
		dtos[i] = FromAssessment(b)
	}
	return dtos
}
