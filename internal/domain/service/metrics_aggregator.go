package service

import (
	"math"
	"sort"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// MetricsAggregator вычисляет производные показатели по измерениям (Domain Service).
// Не хранит изменяемого состояния и безопасен для конкурентного использования.
type MetricsAggregator struct {
	policy HealthPolicy
}

// NewMetricsAggregator создает агрегатор с указанной политикой штрафов
func NewMetricsAggregator(policy HealthPolicy) (*MetricsAggregator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &MetricsAggregator{policy: policy}, nil
}

// NewDefaultMetricsAggregator создает агрегатор с политикой по умолчанию
func NewDefaultMetricsAggregator() *MetricsAggregator {
	return &MetricsAggregator{policy: DefaultHealthPolicy()}
}

// Policy возвращает действующую политику штрафов
func (a *MetricsAggregator) Policy() HealthPolicy {
	return a.policy
}

// HealthInput - средние значения параметров для расчета индекса здоровья.
// NoData означает, что параметр отсутствует и не штрафуется.
type HealthInput struct {
	Temperature valueobject.Average
	PH          valueobject.Average
	Salinity    valueobject.Average
}

// HasData сообщает, есть ли хотя бы один параметр
func (in HealthInput) HasData() bool {
	return !in.Temperature.IsNoData() || !in.PH.IsNoData() || !in.Salinity.IsNoData()
}

// ComputeParameterAverage вычисляет среднее значение параметра.
// Точки других параметров игнорируются; пустая выборка дает NoData.
func (a *MetricsAggregator) ComputeParameterAverage(
	points []*entity.MeasurementPoint,
	parameter valueobject.Parameter,
) valueobject.Average {
	var m runningMean
	for _, p := range points {
		if p == nil || p.Parameter() != parameter {
			continue
		}
		m.add(p.Value())
	}

	return m.result()
}

// ComputeParameterAverages вычисляет средние по всем параметрам за один проход
func (a *MetricsAggregator) ComputeParameterAverages(
	points []*entity.MeasurementPoint,
) map[valueobject.Parameter]valueobject.Average {
	means := make(map[valueobject.Parameter]*runningMean)
	for _, p := range points {
		if p == nil {
			continue
		}
		m := means[p.Parameter()]
		if m == nil {
			m = &runningMean{}
			means[p.Parameter()] = m
		}
		m.add(p.Value())
	}

	result := make(map[valueobject.Parameter]valueobject.Average, len(valueobject.AllParameters()))
	for _, param := range valueobject.AllParameters() {
		if m := means[param]; m != nil {
			result[param] = m.result()
		} else {
			result[param] = valueobject.NoData()
		}
	}
	return result
}

// runningMean накапливает среднее инкрементально: для одинаковых значений
// результат совпадает со значением без ошибки округления.
type runningMean struct {
	mean  float64
	count int
}

func (m *runningMean) add(v float64) {
	m.count++
	m.mean += (v - m.mean) / float64(m.count)
}

func (m *runningMean) result() valueobject.Average {
	if m.count == 0 {
		return valueobject.NoData()
	}
	return valueobject.NewAverage(m.mean)
}

// HealthInputFrom собирает HealthInput из карты средних
func HealthInputFrom(averages map[valueobject.Parameter]valueobject.Average) HealthInput {
	return HealthInput{
		Temperature: averages[valueobject.Temperature],
		PH:          averages[valueobject.PH],
		Salinity:    averages[valueobject.Salinity],
	}
}

// ComputeOceanHealthScore вычисляет индекс здоровья океана в диапазоне [0,100].
// От базового значения 100 вычитаются штрафы присутствующих параметров;
// результат ограничивается снизу нулем и округляется до целого.
func (a *MetricsAggregator) ComputeOceanHealthScore(in HealthInput) int {
	score := float64(BaselineHealthScore)

	for _, item := range []struct {
		avg  valueobject.Average
		band PenaltyBand
	}{
		{in.Temperature, a.policy.Temperature},
		{in.PH, a.policy.PH},
		{in.Salinity, a.policy.Salinity},
	} {
		if v, ok := item.avg.Value(); ok {
			score -= item.band.Penalty(v)
		}
	}

	score = math.Max(0, math.Min(BaselineHealthScore, score))
	return int(math.Round(score))
}

// ClassifyDeviation определяет отклонение значения параметра по политике.
// Для параметров вне индекса возвращает false.
func (a *MetricsAggregator) ClassifyDeviation(
	parameter valueobject.Parameter,
	value float64,
) (valueobject.Deviation, bool) {
	band, ok := a.policy.Band(parameter)
	if !ok {
		return "", false
	}
	return band.Classify(value), true
}

// ComputeSustainabilityTrend сравнивает текущее и предыдущее значения показателя устойчивости.
// При нулевом предыдущем значении процент равен 0, направление определяется сравнением.
func (a *MetricsAggregator) ComputeSustainabilityTrend(current, previous float64) valueobject.Trend {
	status := valueobject.TrendStable
	switch {
	case current > previous:
		status = valueobject.TrendImproving
	case current < previous:
		status = valueobject.TrendDeclining
	}

	var percentage float64
	if previous != 0 {
		percentage = math.Abs(current-previous) / math.Abs(previous) * 100
		percentage = math.Round(percentage*100) / 100
	}

	return valueobject.Trend{Status: status, Percentage: percentage}
}

// ParameterRange - минимум и максимум параметра в выборке.
// Available = false для пустой выборки.
type ParameterRange struct {
	Min       float64
	Max       float64
	Available bool
}

// ComputeParameterRange находит минимум и максимум параметра
func (a *MetricsAggregator) ComputeParameterRange(
	points []*entity.MeasurementPoint,
	parameter valueobject.Parameter,
) ParameterRange {
	var (
		min, max float64
		found    bool
	)
	for _, p := range points {
		if p == nil || p.Parameter() != parameter {
			continue
		}
		v := p.Value()
		if !found {
			min, max, found = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if !found {
		return ParameterRange{}
	}
	return ParameterRange{Min: min, Max: max, Available: true}
}

// DailyAverage - среднее значение параметра за календарные сутки (UTC)
type DailyAverage struct {
	Day     time.Time
	Average float64
	Samples int
}

// ComputeDailyAverages группирует измерения параметра по суткам, по возрастанию даты
func (a *MetricsAggregator) ComputeDailyAverages(
	points []*entity.MeasurementPoint,
	parameter valueobject.Parameter,
) []DailyAverage {
	byDay := make(map[time.Time]*runningMean)
	for _, p := range points {
		if p == nil || p.Parameter() != parameter {
			continue
		}
		day := p.RecordedAt().UTC().Truncate(24 * time.Hour)
		if byDay[day] == nil {
			byDay[day] = &runningMean{}
		}
		byDay[day].add(p.Value())
	}

	result := make([]DailyAverage, 0, len(byDay))
	for day, m := range byDay {
		result = append(result, DailyAverage{Day: day, Average: m.mean, Samples: m.count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})
	return result
}

// SortAlertsNewestFirst возвращает копию алертов, отсортированную по убыванию времени создания
// и усеченную до limit элементов. limit <= 0 означает без усечения.
func SortAlertsNewestFirst(alerts []*entity.Alert, limit int) []*entity.Alert {
	sorted := make([]*entity.Alert, len(alerts))
	copy(sorted, alerts)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
