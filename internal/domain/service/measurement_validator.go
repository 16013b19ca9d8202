package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// ErrInvalidMeasurement оборачивает все ошибки валидации измерений
var ErrInvalidMeasurement = errors.New("invalid measurement")

// MaxClockSkew - допустимое опережение времени измерения относительно сервера
const MaxClockSkew = 5 * time.Minute

// plausibleRange - физически правдоподобный диапазон параметра.
// Для current_direction верхняя граница не включается.
type plausibleRange struct {
	min, max     float64
	maxExclusive bool
}

var plausibleRanges = map[valueobject.Parameter]plausibleRange{
	valueobject.Temperature:      {min: -5, max: 45},
	valueobject.Salinity:         {min: 0, max: 50},
	valueobject.PH:               {min: 0, max: 14},
	valueobject.CurrentSpeed:     {min: 0, max: 10},
	valueobject.CurrentDirection: {min: 0, max: 360, maxExclusive: true},
}

// MeasurementValidator проверяет измерения на границе приема данных (Domain Service)
type MeasurementValidator struct {
	now func() time.Time
}

// NewMeasurementValidator создает новый MeasurementValidator
func NewMeasurementValidator() *MeasurementValidator {
	return &MeasurementValidator{now: time.Now}
}

// Validate выполняет полную валидацию измерения
func (v *MeasurementValidator) Validate(point *entity.MeasurementPoint) error {
	if point == nil {
		return fmt.Errorf("%w: point cannot be nil", ErrInvalidMeasurement)
	}

	if err := point.Parameter().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}

	if !v.IsReasonable(point.Parameter(), point.Value()) {
		return fmt.Errorf("%w: %s value %.4f is outside the plausible range",
			ErrInvalidMeasurement, point.Parameter(), point.Value())
	}

	if loc, ok := point.Location(); ok {
		if _, err := valueobject.NewLocation(loc.Latitude(), loc.Longitude()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
		}
	}

	if point.RecordedAt().IsZero() {
		return fmt.Errorf("%w: timestamp cannot be zero", ErrInvalidMeasurement)
	}

	if point.RecordedAt().After(v.now().Add(MaxClockSkew)) {
		return fmt.Errorf("%w: timestamp cannot be in the future", ErrInvalidMeasurement)
	}

	return nil
}

// ValidateBatch валидирует группу измерений и возвращает первую ошибку с индексом точки
func (v *MeasurementValidator) ValidateBatch(points []*entity.MeasurementPoint) error {
	for i, p := range points {
		if err := v.Validate(p); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

// IsReasonable проверяет, что значение конечно и физически правдоподобно
func (v *MeasurementValidator) IsReasonable(parameter valueobject.Parameter, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}

	r, ok := plausibleRanges[parameter]
	if !ok {
		return false
	}

	if value < r.min {
		return false
	}
	if r.maxExclusive {
		return value < r.max
	}
	return value <= r.max
}
