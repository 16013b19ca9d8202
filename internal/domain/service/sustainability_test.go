package service

import (
	"testing"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func catch(t *testing.T, speciesID, name string, amount float64, quota, score *float64, at time.Time) *entity.FisheriesCatch {
	t.Helper()
	c, err := entity.NewFisheriesCatch(entity.CatchAttributes{
		SpeciesID:           speciesID,
		SpeciesName:         name,
		CatchAmount:         amount,
		CatchDate:           at,
		QuotaLimit:          quota,
		SustainabilityScore: score,
	})
	require.NoError(t, err)
	return c
}

func TestComputeSustainabilitySnapshot(t *testing.T) {
	agg := NewDefaultMetricsAggregator()

	t.Run("with trend", func(t *testing.T) {
		snap, err := agg.ComputeSustainabilitySnapshot(SustainabilityInput{
			TotalSpecies:       8,
			ThreatenedSpecies:  3,
			RecentObservations: 12,
			ActiveAlerts:       2,
			CurrentScore:       avg(80),
			PreviousScore:      avg(60),
		})
		require.NoError(t, err)
		assert.Equal(t, valueobject.TrendImproving, snap.Trend.Status)
		assert.InDelta(t, 33.33, snap.Trend.Percentage, 0.01)
		assert.Equal(t, 37.5, snap.ThreatPercentage)
		assert.Equal(t, 2, snap.TotalActiveAlerts)
		assert.LessOrEqual(t, snap.ThreatenedSpecies, snap.TotalSpecies)
	})

	t.Run("missing previous score is stable", func(t *testing.T) {
		snap, err := agg.ComputeSustainabilitySnapshot(SustainabilityInput{
			TotalSpecies:  1,
			CurrentScore:  avg(70),
			PreviousScore: valueobject.NoData(),
		})
		require.NoError(t, err)
		assert.Equal(t, valueobject.TrendStable, snap.Trend.Status)
		assert.Equal(t, 0.0, snap.Trend.Percentage)
	})

	t.Run("no species", func(t *testing.T) {
		snap, err := agg.ComputeSustainabilitySnapshot(SustainabilityInput{})
		require.NoError(t, err)
		assert.Equal(t, 0.0, snap.ThreatPercentage)
		assert.True(t, snap.SustainabilityScore.IsNoData())
	})

	t.Run("threatened above total is rejected", func(t *testing.T) {
		_, err := agg.ComputeSustainabilitySnapshot(SustainabilityInput{TotalSpecies: 2, ThreatenedSpecies: 3})
		assert.ErrorIs(t, err, ErrInconsistentCounts)
	})
}

func TestComputeFisheriesSummary(t *testing.T) {
	agg := NewDefaultMetricsAggregator()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -30)

	catches := []*entity.FisheriesCatch{
		catch(t, "tuna", "Atlantic bluefin tuna", 1200, ptr(1000), ptr(40), now.AddDate(0, 0, -2)),
		catch(t, "cod", "Atlantic cod", 300, ptr(500), ptr(70), now.AddDate(0, 0, -10)),
		catch(t, "tuna", "Atlantic bluefin tuna", 500, nil, nil, now.AddDate(0, 0, -60)),
		catch(t, "hake", "European hake", 900, ptr(900), ptr(85), now.AddDate(0, 0, -45)),
	}

	summary := agg.ComputeFisheriesSummary(catches, recent, 2, 2)

	score, ok := summary.AverageSustainability.Value()
	require.True(t, ok)
	assert.InDelta(t, 65.0, score, 0.05)
	assert.Equal(t, 1, summary.QuotaViolations, "catch equal to quota is not a violation")
	assert.Equal(t, 1500.0, summary.RecentCatchTotal)
	assert.Equal(t, 2, summary.AtRiskSpecies)

	require.Len(t, summary.CatchBySpecies, 2)
	assert.Equal(t, "tuna", summary.CatchBySpecies[0].SpeciesID)
	assert.Equal(t, 1700.0, summary.CatchBySpecies[0].TotalCatch)
	assert.Equal(t, 2, summary.CatchBySpecies[0].CatchCount)
	assert.Equal(t, "hake", summary.CatchBySpecies[1].SpeciesID)
}

func TestAverageSustainabilityScoreNoData(t *testing.T) {
	agg := NewDefaultMetricsAggregator()
	c := catch(t, "cod", "Atlantic cod", 10, nil, nil, time.Now())
	assert.True(t, agg.AverageSustainabilityScore([]*entity.FisheriesCatch{c}).IsNoData())
	assert.True(t, agg.AverageSustainabilityScore(nil).IsNoData())
}

func TestDistributions(t *testing.T) {
	agg := NewDefaultMetricsAggregator()

	reef, err := entity.NewBiodiversityAssessment(entity.AssessmentAttributes{
		RegionName: "Great Barrier Reef", SpeciesCount: 100, ThreatenedSpecies: 10,
		BiodiversityScore: 60, EcosystemHealth: valueobject.EcosystemFair,
	})
	require.NoError(t, err)
	sargasso, err := entity.NewBiodiversityAssessment(entity.AssessmentAttributes{
		RegionName: "Sargasso Sea", SpeciesCount: 40, BiodiversityScore: 80,
		EcosystemHealth: valueobject.EcosystemGood,
	})
	require.NoError(t, err)

	dist := agg.EcosystemHealthDistribution([]*entity.BiodiversityAssessment{reef, sargasso})
	assert.Len(t, dist, len(valueobject.AllEcosystemHealth()))
	assert.Equal(t, 1, dist[valueobject.EcosystemFair])
	assert.Equal(t, 0, dist[valueobject.EcosystemCritical])

	score, ok := agg.AverageBiodiversityScore([]*entity.BiodiversityAssessment{reef, sargasso}).Value()
	require.True(t, ok)
	assert.Equal(t, 70.0, score)

	turtle, err := entity.NewSpecies(entity.SpeciesAttributes{
		ScientificName: "Chelonia mydas", ConservationStatus: valueobject.Endangered,
	})
	require.NoError(t, err)
	cs := agg.ConservationDistribution([]*entity.Species{turtle})
	assert.Equal(t, 1, cs[valueobject.Endangered])
	assert.Equal(t, 0, cs[valueobject.LeastConcern])
}
