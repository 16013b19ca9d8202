package service

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// ErrInconsistentCounts возвращается, если видов под угрозой больше, чем видов всего
var ErrInconsistentCounts = errors.New("threatened species exceed total species")

// SustainabilityInput - исходные данные снимка устойчивости
type SustainabilityInput struct {
	TotalSpecies       int
	ThreatenedSpecies  int
	RecentObservations int
	ActiveAlerts       int
	CurrentScore       valueobject.Average
	PreviousScore      valueobject.Average
}

// SustainabilitySnapshot - производный снимок показателей устойчивости
type SustainabilitySnapshot struct {
	SustainabilityScore valueobject.Average
	TotalSpecies        int
	ThreatenedSpecies   int
	RecentObservations  int
	TotalActiveAlerts   int
	ThreatPercentage    float64
	Trend               valueobject.Trend
}

// ComputeSustainabilitySnapshot собирает снимок и проверяет инвариант threatened <= total.
// Тренд считается только при наличии обоих значений, иначе stable с 0%.
func (a *MetricsAggregator) ComputeSustainabilitySnapshot(in SustainabilityInput) (SustainabilitySnapshot, error) {
	if in.ThreatenedSpecies > in.TotalSpecies {
		return SustainabilitySnapshot{}, ErrInconsistentCounts
	}

	trend := valueobject.Trend{Status: valueobject.TrendStable}
	cur, curOK := in.CurrentScore.Value()
	prev, prevOK := in.PreviousScore.Value()
	if curOK && prevOK {
		trend = a.ComputeSustainabilityTrend(cur, prev)
	}

	var threatPct float64
	if in.TotalSpecies > 0 {
		threatPct = roundTo(float64(in.ThreatenedSpecies)/float64(in.TotalSpecies)*100, 1)
	}

	return SustainabilitySnapshot{
		SustainabilityScore: in.CurrentScore,
		TotalSpecies:        in.TotalSpecies,
		ThreatenedSpecies:   in.ThreatenedSpecies,
		RecentObservations:  in.RecentObservations,
		TotalActiveAlerts:   in.ActiveAlerts,
		ThreatPercentage:    threatPct,
		Trend:               trend,
	}, nil
}

// AverageSustainabilityScore - средний показатель устойчивости уловов.
// Уловы без оценки пропускаются.
func (a *MetricsAggregator) AverageSustainabilityScore(catches []*entity.FisheriesCatch) valueobject.Average {
	var (
		sum   float64
		count int
	)
	for _, c := range catches {
		if s, ok := c.SustainabilityScore(); ok {
			sum += s
			count++
		}
	}
	if count == 0 {
		return valueobject.NoData()
	}
	return valueobject.NewAverage(roundTo(sum/float64(count), 1))
}

// SpeciesCatchTotal - суммарный вылов вида
type SpeciesCatchTotal struct {
	SpeciesID   string
	SpeciesName string
	TotalCatch  float64
	CatchCount  int
}

// FisheriesSummary - сводка по промыслу
type FisheriesSummary struct {
	AverageSustainability valueobject.Average
	QuotaViolations       int
	RecentCatchTotal      float64
	AtRiskSpecies         int
	CatchBySpecies        []SpeciesCatchTotal
}

// ComputeFisheriesSummary строит сводку по уловам.
// recentSince задает начало окна для суммарного недавнего вылова.
func (a *MetricsAggregator) ComputeFisheriesSummary(
	catches []*entity.FisheriesCatch,
	recentSince time.Time,
	atRiskSpecies int,
	topSpecies int,
) FisheriesSummary {
	summary := FisheriesSummary{
		AverageSustainability: a.AverageSustainabilityScore(catches),
		AtRiskSpecies:         atRiskSpecies,
		CatchBySpecies:        a.CatchBySpecies(catches, topSpecies),
	}

	for _, c := range catches {
		if c.ExceedsQuota() {
			summary.QuotaViolations++
		}
		if !c.CatchDate().Before(recentSince) {
			summary.RecentCatchTotal += c.CatchAmount()
		}
	}
	summary.RecentCatchTotal = roundTo(summary.RecentCatchTotal, 2)

	return summary
}

// CatchBySpecies суммирует вылов по видам, по убыванию объема, не более top записей
func (a *MetricsAggregator) CatchBySpecies(catches []*entity.FisheriesCatch, top int) []SpeciesCatchTotal {
	index := make(map[string]int)
	var totals []SpeciesCatchTotal
	for _, c := range catches {
		i, ok := index[c.SpeciesID()]
		if !ok {
			i = len(totals)
			index[c.SpeciesID()] = i
			totals = append(totals, SpeciesCatchTotal{SpeciesID: c.SpeciesID(), SpeciesName: c.SpeciesName()})
		}
		totals[i].TotalCatch += c.CatchAmount()
		totals[i].CatchCount++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalCatch > totals[j].TotalCatch
	})

	if top > 0 && len(totals) > top {
		totals = totals[:top]
	}
	return totals
}

// AverageBiodiversityScore - средний индекс биоразнообразия по оценкам
func (a *MetricsAggregator) AverageBiodiversityScore(assessments []*entity.BiodiversityAssessment) valueobject.Average {
	if len(assessments) == 0 {
		return valueobject.NoData()
	}
	var sum float64
	for _, b := range assessments {
		sum += b.BiodiversityScore()
	}
	return valueobject.NewAverage(roundTo(sum/float64(len(assessments)), 1))
}

// EcosystemHealthDistribution считает оценки по состоянию экосистемы.
// Все категории присутствуют в результате, в том числе с нулем.
func (a *MetricsAggregator) EcosystemHealthDistribution(
	assessments []*entity.BiodiversityAssessment,
) map[valueobject.EcosystemHealth]int {
	dist := make(map[valueobject.EcosystemHealth]int, len(valueobject.AllEcosystemHealth()))
	for _, h := range valueobject.AllEcosystemHealth() {
		dist[h] = 0
	}
	for _, b := range assessments {
		dist[b.EcosystemHealth()]++
	}
	return dist
}

// ConservationDistribution считает виды по статусу охраны
func (a *MetricsAggregator) ConservationDistribution(
	species []*entity.Species,
) map[valueobject.ConservationStatus]int {
	dist := make(map[valueobject.ConservationStatus]int, len(valueobject.AllConservationStatuses()))
	for _, s := range valueobject.AllConservationStatuses() {
		dist[s] = 0
	}
	for _, s := range species {
		dist[s.ConservationStatus()]++
	}
	return dist
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
