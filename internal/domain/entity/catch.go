package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// CatchAttributes описывает запись о вылове
type CatchAttributes struct {
	SpeciesID     string
	SpeciesName   string
	CatchAmount   float64 // кг
	FishingArea   string
	Location      *valueobject.Location
	FishingMethod string
	VesselType    string
	CatchDate     time.Time

	// QuotaLimit и SustainabilityScore могут отсутствовать
	QuotaLimit          *float64
	SustainabilityScore *float64
}

// FisheriesCatch представляет запись промыслового вылова
type FisheriesCatch struct {
	id        string
	attrs     CatchAttributes
	createdAt time.Time
}

// NewFisheriesCatch создает запись о вылове с валидацией
func NewFisheriesCatch(attrs CatchAttributes) (*FisheriesCatch, error) {
	if attrs.SpeciesID == "" {
		return nil, errors.New("catch must reference a species")
	}
	if attrs.CatchAmount < 0 {
		return nil, errors.New("catch amount cannot be negative")
	}
	if attrs.CatchDate.IsZero() {
		return nil, errors.New("catch date cannot be zero")
	}
	if s := attrs.SustainabilityScore; s != nil && (*s < 0 || *s > 100) {
		return nil, errors.New("sustainability score must be between 0 and 100")
	}

	return &FisheriesCatch{
		id:        uuid.New().String(),
		attrs:     attrs,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructFisheriesCatch восстанавливает запись из хранилища
func ReconstructFisheriesCatch(id string, attrs CatchAttributes, createdAt time.Time) *FisheriesCatch {
	return &FisheriesCatch{id: id, attrs: attrs, createdAt: createdAt}
}

func (c *FisheriesCatch) ID() string { return c.id }
func (c *FisheriesCatch) SpeciesID() string { return c.attrs.SpeciesID }
func (c *FisheriesCatch) SpeciesName() string { return c.attrs.SpeciesName }
func (c *FisheriesCatch) CatchAmount() float64 { return c.attrs.CatchAmount }
func (c *FisheriesCatch) FishingArea() string { return c.attrs.FishingArea }
func (c *FisheriesCatch) FishingMethod() string { return c.attrs.FishingMethod }
func (c *FisheriesCatch) VesselType() string { return c.attrs.VesselType }
func (c *FisheriesCatch) CatchDate() time.Time { return c.attrs.CatchDate }
func (c *FisheriesCatch) CreatedAt() time.Time { return c.createdAt }

func (c *FisheriesCatch) Location() (valueobject.Location, bool) {
	if c.attrs.Location == nil {
		return valueobject.Location{}, false
	}
	return *c.attrs.Location, true
}

func (c *FisheriesCatch) QuotaLimit() (float64, bool) {
	if c.attrs.QuotaLimit == nil {
		return 0, false
	}
	return *c.attrs.QuotaLimit, true
}

func (c *FisheriesCatch) SustainabilityScore() (float64, bool) {
	if c.attrs.SustainabilityScore == nil {
		return 0, false
	}
	return *c.attrs.SustainabilityScore, true
}

// ExceedsQuota сообщает о нарушении квоты (вылов больше лимита)
func (c *FisheriesCatch) ExceedsQuota() bool {
	quota, ok := c.QuotaLimit()
	return ok && c.attrs.CatchAmount > quota
}
