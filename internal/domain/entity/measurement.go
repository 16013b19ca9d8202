package entity

import (
	"errors"
	"math"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// MeasurementPoint представляет одно измерение океанографического параметра.
// Иммутабелен после создания.
type MeasurementPoint struct {
	id           string
	parameter    valueobject.Parameter
	value        float64
	location     *valueobject.Location
	locationName string
	recordedAt   time.Time
	createdAt    time.Time
}

// NewMeasurementPoint создает новое измерение (Factory Method)
func NewMeasurementPoint(
	parameter valueobject.Parameter,
	value float64,
	location *valueobject.Location,
	locationName string,
	recordedAt time.Time,
) (*MeasurementPoint, error) {
	if err := parameter.Validate(); err != nil {
		return nil, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.New("measurement value must be a finite number")
	}

	if recordedAt.IsZero() {
		return nil, errors.New("measurement timestamp cannot be zero")
	}

	return &MeasurementPoint{
		id:           uuid.New().String(),
		parameter:    parameter,
		value:        value,
		location:     copyLocation(location),
		locationName: locationName,
		recordedAt:   recordedAt.UTC(),
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructMeasurementPoint восстанавливает измерение из хранилища
func ReconstructMeasurementPoint(
	id string,
	parameter valueobject.Parameter,
	value float64,
	location *valueobject.Location,
	locationName string,
	recordedAt, createdAt time.Time,
) *MeasurementPoint {
	return &MeasurementPoint{
		id:           id,
		parameter:    parameter,
		value:        value,
		location:     copyLocation(location),
		locationName: locationName,
		recordedAt:   recordedAt,
		createdAt:    createdAt,
	}
}

func (m *MeasurementPoint) ID() string {
	return m.id
}

func (m *MeasurementPoint) Parameter() valueobject.Parameter {
	return m.parameter
}

func (m *MeasurementPoint) Value() float64 {
	return m.value
}

// Location возвращает координаты измерения, если они известны
func (m *MeasurementPoint) Location() (valueobject.Location, bool) {
	if m.location == nil {
		return valueobject.Location{}, false
	}
	return *m.location, true
}

func (m *MeasurementPoint) LocationName() string {
	return m.locationName
}

func (m *MeasurementPoint) RecordedAt() time.Time {
	return m.recordedAt
}

func (m *MeasurementPoint) CreatedAt() time.Time {
	return m.createdAt
}

// Domain Methods

// IsStale проверяет, устарело ли измерение относительно now
func (m *MeasurementPoint) IsStale(now time.Time, threshold time.Duration) bool {
	return now.Sub(m.recordedAt) > threshold
}

func copyLocation(l *valueobject.Location) *valueobject.Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
