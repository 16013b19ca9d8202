package dto

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// AlertDTO представляет алерт для API и рассылки клиентам
type AlertDTO struct {
	ID            string     `json:"id"`
	Type          string     `json:"alert_type"`
	Severity      string     `json:"severity"`
	SeverityLabel string     `json:"severity_label"`
	Color         string     `json:"color"`
	Priority      int        `json:"priority"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	LocationName  string     `json:"location,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	Active        bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// FromAlert конвертирует Domain Entity в DTO
func FromAlert(a *entity.Alert) *AlertDTO {
	lat, lng := coordinates(a.Location())
	display := a.Severity().Display()

	dto := &AlertDTO{
		ID:            a.ID(),
		Type:          a.Type(),
		Severity:      a.Severity().String(),
		SeverityLabel: display.Label,
		Color:         display.Color,
		Priority:      display.Priority,
		Title:         a.Title(),
		Description:   a.Description(),
		LocationName:  a.LocationName(),
		Latitude:      lat,
		Longitude:     lng,
		Active:        a.IsActive(),
		CreatedAt:     a.CreatedAt(),
	}
	if at, ok := a.ResolvedAt(); ok {
		dto.ResolvedAt = &at
	}
	return dto
}

// ToAlertDTOs конвертирует слайс Entity в слайс DTO с сохранением порядка
func ToAlertDTOs(alerts []*entity.Alert) []*AlertDTO {
	dtos := make([]*AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = FromAlert(a)
	}
	return dtos
}
