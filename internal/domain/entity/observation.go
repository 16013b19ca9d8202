package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// ObservationAttributes описывает полевое наблюдение вида
type ObservationAttributes struct {
	SpeciesID         string
	Location          *valueobject.Location
	ObservationCount  int
	ConfidenceLevel   float64 // 0..1
	ObservationMethod string
	ObserverType      string
	ObservedAt        time.Time
	Notes             string
}

// SpeciesObservation представляет наблюдение вида в точке
type SpeciesObservation struct {
	id    string
	attrs ObservationAttributes
}

func NewSpeciesObservation(attrs ObservationAttributes) (*SpeciesObservation, error) {
	if attrs.SpeciesID == "" {
		return nil, errors.New("observation must reference a species")
	}
	if attrs.ObservationCount <= 0 {
		attrs.ObservationCount = 1
	}
	if attrs.ConfidenceLevel < 0 || attrs.ConfidenceLevel > 1 {
		return nil, errors.New("confidence level must be between 0 and 1")
	}
	if attrs.ObservedAt.IsZero() {
		attrs.ObservedAt = time.Now().UTC()
	}
	return &SpeciesObservation{id: uuid.New().String(), attrs: attrs}, nil
}

func ReconstructSpeciesObservation(id string, attrs ObservationAttributes) *SpeciesObservation {
	return &SpeciesObservation{id: id, attrs: attrs}
}

func (o *SpeciesObservation) ID() string { return o.id }
func (o *SpeciesObservation) SpeciesID() string { return o.attrs.SpeciesID }
func (o *SpeciesObservation) ObservationCount() int { return o.attrs.ObservationCount }
func (o *SpeciesObservation) ConfidenceLevel() float64 { return o.attrs.ConfidenceLevel }
func (o *SpeciesObservation) ObservationMethod() string { return o.attrs.ObservationMethod }
func (o *SpeciesObservation) ObserverType() string { return o.attrs.ObserverType }
func (o *SpeciesObservation) ObservedAt() time.Time { return o.attrs.ObservedAt }
func (o *SpeciesObservation) Notes() string { return o.attrs.Notes }

func (o *SpeciesObservation) Location() (valueobject.Location, bool) {
	if o.attrs.Location == nil {
		return valueobject.Location{}, false
	}
	return *o.attrs.Location, true
}
