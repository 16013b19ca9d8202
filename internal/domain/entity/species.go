package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// SpeciesAttributes описывает изменяемые атрибуты вида каталога
type SpeciesAttributes struct {
	ScientificName     string
	CommonName         string
	SpeciesType        string
	ConservationStatus valueobject.ConservationStatus
	ThreatLevel        valueobject.ThreatLevel
	PopulationTrend    valueobject.PopulationTrend
	Habitat            string
	DepthRange         string
	GeographicRange    string
	Description        string
}

// Species представляет вид морской фауны в каталоге (Aggregate Root)
type Species struct {
	id        string
	attrs     SpeciesAttributes
	createdAt time.Time
}

// NewSpecies создает новый вид каталога с валидацией категорий
func NewSpecies(attrs SpeciesAttributes) (*Species, error) {
	attrs.ScientificName = strings.TrimSpace(attrs.ScientificName)
	if attrs.ScientificName == "" {
		return nil, errors.New("scientific name cannot be empty")
	}

	if attrs.ConservationStatus == "" {
		attrs.ConservationStatus = valueobject.DataDeficient
	}
	if attrs.ThreatLevel == "" {
		attrs.ThreatLevel = valueobject.ThreatMedium
	}
	if attrs.PopulationTrend == "" {
		attrs.PopulationTrend = valueobject.PopulationUnknown
	}

	if err := attrs.ConservationStatus.Validate(); err != nil {
		return nil, err
	}
	if err := attrs.ThreatLevel.Validate(); err != nil {
		return nil, err
	}
	if err := attrs.PopulationTrend.Validate(); err != nil {
		return nil, err
	}

	return &Species{
		id:        uuid.New().String(),
		attrs:     attrs,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructSpecies восстанавливает вид из хранилища
func ReconstructSpecies(id string, attrs SpeciesAttributes, createdAt time.Time) *Species {
	return &Species{id: id, attrs: attrs, createdAt: createdAt}
}

func (s *Species) ID() string { return s.id }
func (s *Species) ScientificName() string { return s.attrs.ScientificName }
func (s *Species) CommonName() string { return s.attrs.CommonName }
func (s *Species) SpeciesType() string { return s.attrs.SpeciesType }
func (s *Species) ConservationStatus() valueobject.ConservationStatus { return s.attrs.ConservationStatus }
func (s *Species) ThreatLevel() valueobject.ThreatLevel { return s.attrs.ThreatLevel }
func (s *Species) PopulationTrend() valueobject.PopulationTrend { return s.attrs.PopulationTrend }
func (s *Species) Habitat() string { return s.attrs.Habitat }
func (s *Species) DepthRange() string { return s.attrs.DepthRange }
func (s *Species) GeographicRange() string { return s.attrs.GeographicRange }
func (s *Species) Description() string { return s.attrs.Description }
func (s *Species) CreatedAt() time.Time { return s.createdAt }

// Attributes возвращает копию атрибутов
func (s *Species) Attributes() SpeciesAttributes {
	return s.attrs
}

// IsThreatened сообщает, что вид находится под высокой или критической угрозой
func (s *Species) IsThreatened() bool {
	return s.attrs.ThreatLevel.IsThreatened()
}
