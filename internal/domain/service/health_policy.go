package service

import (
	"errors"
	"fmt"

	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// BaselineHealthScore - исходное значение индекса здоровья океана до штрафов
const BaselineHealthScore = 100

// PenaltyBand описывает штрафные пороги одного параметра.
// Значение внутри [IdealMin, IdealMax] не штрафуется, внутри [MildMin, MildMax]
// штрафуется на MildPenalty, за пределами - на SeverePenalty. Границы включительно.
type PenaltyBand struct {
	IdealMin      float64
	IdealMax      float64
	MildMin       float64
	MildMax       float64
	MildPenalty   float64
	SeverePenalty float64
}

// Validate проверяет вложенность диапазонов и неотрицательность штрафов
func (b PenaltyBand) Validate() error {
	if b.IdealMin > b.IdealMax {
		return errors.New("ideal minimum exceeds ideal maximum")
	}
	if b.MildMin > b.IdealMin || b.MildMax < b.IdealMax {
		return errors.New("mild band must enclose the ideal range")
	}
	if b.MildPenalty < 0 || b.SeverePenalty < 0 {
		return errors.New("penalties cannot be negative")
	}
	if b.MildPenalty > b.SeverePenalty {
		return errors.New("mild penalty exceeds severe penalty")
	}
	return nil
}

// Classify определяет отклонение значения
func (b PenaltyBand) Classify(value float64) valueobject.Deviation {
	switch {
	case value >= b.IdealMin && value <= b.IdealMax:
		return valueobject.DeviationIdeal
	case value >= b.MildMin && value <= b.MildMax:
		return valueobject.DeviationMild
	default:
		return valueobject.DeviationSevere
	}
}

// Penalty возвращает штраф для значения
func (b PenaltyBand) Penalty(value float64) float64 {
	switch b.Classify(value) {
	case valueobject.DeviationMild:
		return b.MildPenalty
	case valueobject.DeviationSevere:
		return b.SeverePenalty
	default:
		return 0
	}
}

// HealthPolicy - набор штрафных порогов индекса здоровья океана.
// Пороги эвристические и настраиваются через конфигурацию.
type HealthPolicy struct {
	Temperature PenaltyBand
	PH          PenaltyBand
	Salinity    PenaltyBand
}

// DefaultHealthPolicy возвращает пороги по умолчанию.
// Температура в °C, соленость в ‰.
func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{
		Temperature: PenaltyBand{IdealMin: 18, IdealMax: 27, MildMin: 15, MildMax: 30, MildPenalty: 10, SeverePenalty: 20},
		PH:          PenaltyBand{IdealMin: 7.8, IdealMax: 8.3, MildMin: 7.5, MildMax: 8.5, MildPenalty: 10, SeverePenalty: 20},
		Salinity:    PenaltyBand{IdealMin: 32, IdealMax: 38, MildMin: 30, MildMax: 40, MildPenalty: 5, SeverePenalty: 15},
	}
}

// Validate проверяет все пороги политики
func (p HealthPolicy) Validate() error {
	for _, param := range ScoredParameters() {
		band, _ := p.Band(param)
		if err := band.Validate(); err != nil {
			return fmt.Errorf("%s band: %w", param, err)
		}
	}
	return nil
}

// Band возвращает пороги параметра; false для параметров, не участвующих в индексе
func (p HealthPolicy) Band(param valueobject.Parameter) (PenaltyBand, bool) {
	switch param {
	case valueobject.Temperature:
		return p.Temperature, true
	case valueobject.PH:
		return p.PH, true
	case valueobject.Salinity:
		return p.Salinity, true
	default:
		return PenaltyBand{}, false
	}
}

// ScoredParameters возвращает параметры, участвующие в индексе здоровья
func ScoredParameters() []valueobject.Parameter {
	return []valueobject.Parameter{valueobject.Temperature, valueobject.PH, valueobject.Salinity}
}
