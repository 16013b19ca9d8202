package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// AssessmentAttributes описывает оценку биоразнообразия региона
type AssessmentAttributes struct {
	RegionName        string
	Location          *valueobject.Location
	SpeciesCount      int
	EndemicSpecies    int
	ThreatenedSpecies int
	BiodiversityScore float64
	EcosystemHealth   valueobject.EcosystemHealth
	AssessedAt        time.Time
}

// BiodiversityAssessment представляет оценку биоразнообразия региона на дату
type BiodiversityAssessment struct {
	id    string
	attrs AssessmentAttributes
}

// NewBiodiversityAssessment создает оценку с проверкой инвариантов
func NewBiodiversityAssessment(attrs AssessmentAttributes) (*BiodiversityAssessment, error) {
	attrs.RegionName = strings.TrimSpace(attrs.RegionName)
	if attrs.RegionName == "" {
		return nil, errors.New("region name cannot be empty")
	}
	if attrs.SpeciesCount < 0 || attrs.EndemicSpecies < 0 || attrs.ThreatenedSpecies < 0 {
		return nil, errors.New("species counts cannot be negative")
	}
	if attrs.ThreatenedSpecies > attrs.SpeciesCount || attrs.EndemicSpecies > attrs.SpeciesCount {
		return nil, errors.New("threatened and endemic counts cannot exceed species count")
	}
	if attrs.BiodiversityScore < 0 || attrs.BiodiversityScore > 100 {
		return nil, errors.New("biodiversity score must be between 0 and 100")
	}
	if err := attrs.EcosystemHealth.Validate(); err != nil {
		return nil, err
	}
	if attrs.AssessedAt.IsZero() {
		attrs.AssessedAt = time.Now().UTC()
	}

	return &BiodiversityAssessment{id: uuid.New().String(), attrs: attrs}, nil
}

// ReconstructBiodiversityAssessment восстанавливает оценку из хранилища
func ReconstructBiodiversityAssessment(id string, attrs AssessmentAttributes) *BiodiversityAssessment {
	return &BiodiversityAssessment{id: id, attrs: attrs}
}

func (b *BiodiversityAssessment) ID() string { return b.id }
func (b *BiodiversityAssessment) RegionName() string { return b.attrs.RegionName }
func (b *BiodiversityAssessment) SpeciesCount() int { return b.attrs.SpeciesCount }
func (b *BiodiversityAssessment) EndemicSpecies() int { return b.attrs.EndemicSpecies }
func (b *BiodiversityAssessment) ThreatenedSpecies() int { return b.attrs.ThreatenedSpecies }
func (b *BiodiversityAssessment) BiodiversityScore() float64 { return b.attrs.BiodiversityScore }
func (b *BiodiversityAssessment) EcosystemHealth() valueobject.EcosystemHealth {
	return b.attrs.EcosystemHealth
}
func (b *BiodiversityAssessment) AssessedAt() time.Time { return b.attrs.AssessedAt }

func (b *BiodiversityAssessment) Location() (valueobject.Location, bool) {
	if b.attrs.Location == nil {
		return valueobject.Location{}, false
	}
	return *b.attrs.Location, true
}
