package valueobject

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory возвращается при разборе значения, не входящего в перечисление
var ErrUnknownCategory = errors.New("unknown category")

// Parameter представляет измеряемый океанографический параметр (Value Object)
type Parameter string

const (
	Temperature      Parameter = "temperature"
	Salinity         Parameter = "salinity"
	PH               Parameter = "ph"
	CurrentSpeed     Parameter = "current_speed"
	CurrentDirection Parameter = "current_direction"
)

// Validate проверяет, что параметр входит в перечисление
func (p Parameter) Validate() error {
	switch p {
	case Temperature, Salinity, PH, CurrentSpeed, CurrentDirection:
		return nil
	default:
		return fmt.Errorf("parameter %q: %w", string(p), ErrUnknownCategory)
	}
}

// String возвращает строковое представление параметра
func (p Parameter) String() string {
	return string(p)
}

// Unit возвращает единицу измерения параметра
func (p Parameter) Unit() string {
	switch p {
	case Temperature:
		return "°C"
	case Salinity:
		return "PSU"
	case PH:
		return "pH"
	case CurrentSpeed:
		return "m/s"
	case CurrentDirection:
		return "deg"
	default:
		return ""
	}
}

// Label возвращает человекочитаемое название параметра
func (p Parameter) Label() string {
	switch p {
	case Temperature:
		return "Temperature"
	case Salinity:
		return "Salinity"
	case PH:
		return "pH"
	case CurrentSpeed:
		return "Current speed"
	case CurrentDirection:
		return "Current direction"
	default:
		return string(p)
	}
}

// ParseParameter разбирает строку в Parameter
func ParseParameter(s string) (Parameter, error) {
	p := Parameter(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// AllParameters возвращает список всех параметров
func AllParameters() []Parameter {
	return []Parameter{Temperature, Salinity, PH, CurrentSpeed, CurrentDirection}
}
