package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/google/uuid"
)

// Типы алертов
const (
	AlertTypeOverfishing        = "overfishing"
	AlertTypeTemperatureAnomaly = "temperature_anomaly"
	AlertTypePHAnomaly          = "ph_anomaly"
	AlertTypeSalinityAnomaly    = "salinity_anomaly"
	AlertTypeBiodiversityRisk   = "biodiversity_risk"
	AlertTypePollution          = "pollution"
)

// Alert представляет экологическое предупреждение (Aggregate Root)
type Alert struct {
	id           string
	alertType    string
	severity     valueobject.Severity
	title        string
	description  string
	locationName string
	location     *valueobject.Location
	active       bool
	createdAt    time.Time
	resolvedAt   *time.Time
}

// NewAlert создает новый активный алерт
func NewAlert(
	alertType string,
	severity valueobject.Severity,
	title, description, locationName string,
	location *valueobject.Location,
) (*Alert, error) {
	if err := severity.Validate(); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("alert title cannot be empty")
	}
	if alertType == "" {
		return nil, errors.New("alert type cannot be empty")
	}

	return &Alert{
		id:           uuid.New().String(),
		alertType:    alertType,
		severity:     severity,
		title:        title,
		description:  description,
		locationName: locationName,
		location:     copyLocation(location),
		active:       true,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructAlert восстанавливает алерт из хранилища
func ReconstructAlert(
	id, alertType string,
	severity valueobject.Severity,
	title, description, locationName string,
	location *valueobject.Location,
	active bool,
	createdAt time.Time,
	resolvedAt *time.Time,
) *Alert {
	return &Alert{
		id:           id,
		alertType:    alertType,
		severity:     severity,
		title:        title,
		description:  description,
		locationName: locationName,
		location:     copyLocation(location),
		active:       active,
		createdAt:    createdAt,
		resolvedAt:   resolvedAt,
	}
}

func (a *Alert) ID() string { return a.id }
func (a *Alert) Type() string { return a.alertType }
func (a *Alert) Severity() valueobject.Severity { return a.severity }
func (a *Alert) Title() string { return a.title }
func (a *Alert) Description() string { return a.description }
func (a *Alert) LocationName() string { return a.locationName }
func (a *Alert) IsActive() bool { return a.active }
func (a *Alert) CreatedAt() time.Time { return a.createdAt }

func (a *Alert) Location() (valueobject.Location, bool) {
	if a.location == nil {
		return valueobject.Location{}, false
	}
	return *a.location, true
}

func (a *Alert) ResolvedAt() (time.Time, bool) {
	if a.resolvedAt == nil {
		return time.Time{}, false
	}
	return *a.resolvedAt, true
}

// Resolve закрывает алерт
func (a *Alert) Resolve(at time.Time) {
	if !a.active {
		return
	}
	a.active = false
	t := at.UTC()
	a.resolvedAt = &t
}
