package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
)

// CatchDTO представляет запись о вылове
type CatchDTO struct {
	ID                  string    `json:"id"`
	SpeciesID           string    `json:"species_id"`
	SpeciesName         string    `json:"species_name,omitempty"`
	CatchAmount         float64   `json:"catch_amount"`
	FishingArea         string    `json:"fishing_area,omitempty"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	FishingMethod       string    `json:"fishing_method,omitempty"`
	VesselType          string    `json:"vessel_type,omitempty"`
	CatchDate           time.Time `json:"catch_date"`
	QuotaLimit          *float64  `json:"quota_limit,omitempty"`
	SustainabilityScore *float64  `json:"sustainability_score,omitempty"`
	ExceedsQuota        bool      `json:"exceeds_quota"`
}

// FromCatch конвертирует Domain Entity в DTO
func FromCatch(c *entity.FisheriesCatch) *CatchDTO {
	lat, lng := coordinates(c.Location())
	dto := &CatchDTO{
		ID:            c.ID(),
		SpeciesID:     c.SpeciesID(),
		SpeciesName:   c.SpeciesName(),
		CatchAmount:   c.CatchAmount(),
		FishingArea:   c.FishingArea(),
		Latitude:      lat,
		Longitude:     lng,
		FishingMethod: c.FishingMethod(),
		VesselType:    c.VesselType(),
		CatchDate:     c.CatchDate(),
		ExceedsQuota:  c.ExceedsQuota(),
	}
	if q, ok := c.QuotaLimit(); ok {
		dto.QuotaLimit = &q
	}
	if s, ok := c.SustainabilityScore(); ok {
		dto.SustainabilityScore = &s
	}
	return dto
}

func ToCatchDTOs(catches []*entity.FisheriesCatch) []*CatchDTO {
	dtos := make([]*CatchDTO, len(catches))
	for i, c := range catches {
		dtos[i] = FromCatch(c)
	}
	return dtos
}

// SpeciesCatchDTO - суммарный вылов вида
type SpeciesCatchDTO struct {
	SpeciesID   string  `json:"species_id"`
	SpeciesName string  `json:"species_name"`
	TotalCatch  float64 `json:"total_catch"`
	CatchCount  int     `json:"catch_count"`
}

// FisheriesSummaryDTO - сводка по промыслу
type FisheriesSummaryDTO struct {
	AverageSustainabilityScore *float64           `json:"average_sustainability_score"`
	QuotaViolations            int                `json:"quota_violations"`
	RecentCatchTotal           float64            `json:"recent_catch_total"`
	SpeciesAtRisk              int                `json:"species_at_risk"`
	CatchBySpecies             []*SpeciesCatchDTO `json:"catch_by_species"`
}

// NewFisheriesSummaryDTO конвертирует доменную сводку в DTO
func NewFisheriesSummaryDTO(s service.FisheriesSummary) *FisheriesSummaryDTO {
	bySpecies := make([]*SpeciesCatchDTO, len(s.CatchBySpecies))
	for i, c := range s.CatchBySpecies {
		bySpecies[i] = &SpeciesCatchDTO{
			SpeciesID:   c.SpeciesID,
			SpeciesName: c.SpeciesName,
			TotalCatch:  c.TotalCatch,
			CatchCount:  c.CatchCount,
		}
	}
	return &FisheriesSummaryDTO{
		AverageSustainabilityScore: s.AverageSustainability.Ptr(),
		QuotaViolations:            s.QuotaViolations,
		RecentCatchTotal:           s.RecentCatchTotal,
		SpeciesAtRisk:              s.AtRiskSpecies,
		CatchBySpecies:             bySpecies,
	}
}
