package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// MeasurementDTO представляет измерение для передачи между слоями
type MeasurementDTO struct {
	ID           string    `json:"id"`
	Parameter    string    `json:"parameter"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	RecordedAt   time.Time `json:"timestamp"`
}

// MeasurementInputDTO - входное измерение от источника данных (HTTP или Kafka)
type MeasurementInputDTO struct {
	Parameter    string    `json:"parameter"`
	Value        float64   `json:"value"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// FromMeasurement конвертирует Domain Entity в DTO
func FromMeasurement(p *entity.MeasurementPoint) *MeasurementDTO {
	lat, lng := coordinates(p.Location())
	return &MeasurementDTO{
		ID:           p.ID(),
		Parameter:    p.Parameter().String(),
		Value:        p.Value(),
		Unit:         p.Parameter().Unit(),
		Latitude:     lat,
		Longitude:    lng,
		LocationName: p.LocationName(),
		RecordedAt:   p.RecordedAt(),
	}
}

// ToMeasurementDTOs конвертирует слайс Entity в слайс DTO
func ToMeasurementDTOs(points []*entity.MeasurementPoint) []*MeasurementDTO {
	dtos := make([]*MeasurementDTO, len(points))
	for i, p := range points {
		dtos[i] = FromMeasurement(p)
	}
	return dtos
}

// coordinates раскладывает опциональную точку на пару указателей для JSON
func coordinates(loc valueobject.Location, ok bool) (*float64, *float64) {
	if !ok {
		return nil, nil
	}
	lat, lng := loc.Latitude(), loc.Longitude()
	return &lat, &lng
}
