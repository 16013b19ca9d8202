package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// SpeciesDTO представляет вид каталога с атрибутами отображения категорий
type SpeciesDTO struct {
	ID                 string    `json:"id"`
	ScientificName     string    `json:"scientific_name"`
	CommonName         string    `json:"common_name"`
	SpeciesType        string    `json:"species_type"`
	ConservationStatus string    `json:"conservation_status"`
	ConservationLabel  string    `json:"conservation_label"`
	ConservationColor  string    `json:"conservation_color"`
	ThreatLevel        string    `json:"threat_level"`
	ThreatColor        string    `json:"threat_color"`
	PopulationTrend    string    `json:"population_trend"`
	Habitat            string    `json:"habitat,omitempty"`
	DepthRange         string    `json:"depth_range,omitempty"`
	GeographicRange    string    `json:"geographic_range,omitempty"`
	Description        string    `json:"description,omitempty"`
	IsThreatened       bool      `json:"is_threatened"`
	CreatedAt          time.Time `json:"created_at"`
}

// FromSpecies конвертирует Domain Entity в DTO
func FromSpecies(s *entity.Species) *SpeciesDTO {
	cs := s.ConservationStatus().Display()
	return &SpeciesDTO{
		ID:                 s.ID(),
		ScientificName:     s.ScientificName(),
		CommonName:         s.CommonName(),
		SpeciesType:        s.SpeciesType(),
		ConservationStatus: s.ConservationStatus().String(),
		ConservationLabel:  cs.Label,
		ConservationColor:  cs.Color,
		ThreatLevel:        s.ThreatLevel().String(),
		ThreatColor:        s.ThreatLevel().Display().Color,
		PopulationTrend:    s.PopulationTrend().String(),
		Habitat:            s.Habitat(),
		DepthRange:         s.DepthRange(),
		GeographicRange:    s.GeographicRange(),
		Description:        s.Description(),
		IsThreatened:       s.IsThreatened(),
		CreatedAt:          s.CreatedAt(),
	}
}

func ToSpeciesDTOs(species []*entity.Species) []*SpeciesDTO {
	dtos := make([]*SpeciesDTO, len(species))
	for i, s := range species {
		dtos[i] = FromSpecies(s)
	}
	return dtos
}
