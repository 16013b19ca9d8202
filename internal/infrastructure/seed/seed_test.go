package seed

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

func newMemoryRepositories() Repositories {
	return Repositories{
		Species:      memory.NewSpeciesRepository(),
		Observations: memory.NewObservationRepository(),
		Measurements: memory.NewMeasurementRepository(),
		Fisheries:    memory.NewFisheriesRepository(),
		Biodiversity: memory.NewBiodiversityRepository(),
		Alerts:       memory.NewAlertRepository(),
	}
}

func TestSeeder_SeedFillsEmptyStore(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepositories()
	log := logger.NewWithWriter("error", io.Discard)

	res, err := New(repos, 1, log).Seed(ctx)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, len(catalogue), res.Species)
	assert.Equal(t, 3*len(biodiversityRegions), res.Assessments)
	assert.Equal(t, len(sampleAlerts), res.Alerts)
	assert.Positive(t, res.Measurements)
	assert.Positive(t, res.Observations)
	assert.Positive(t, res.Catches)

	speciesCount, err := repos.Species.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, speciesCount)

	measurementCount, err := repos.Measurements.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(res.Measurements), measurementCount)

	active, err := repos.Alerts.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, active)

	latest, err := repos.Biodiversity.LatestByRegion(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, len(biodiversityRegions))
}

func TestSeeder_SustainabilitySnapshotHasScore(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepositories()
	log := logger.NewWithWriter("error", io.Discard)

	_, err := New(repos, 42, log).Seed(ctx)
	require.NoError(t, err)

	uc := usecase.NewGetSustainabilityMetricsUseCase(
		usecase.SustainabilityRepositories{
			Species:      repos.Species,
			Observations: repos.Observations,
			Alerts:       repos.Alerts,
			Fisheries:    repos.Fisheries,
			Biodiversity: repos.Biodiversity,
		},
		service.NewDefaultMetricsAggregator(),
		nil,
		usecase.SustainabilityConfig{},
		log,
	)

	snapshot, err := uc.Execute(ctx)
	require.NoError(t, err)

	assert.True(t, snapshot.ScoreAvailable)
	require.NotNil(t, snapshot.SustainabilityScore)
	assert.InDelta(t, 50.0, *snapshot.SustainabilityScore, 35.0)
	assert.Equal(t, 12, snapshot.TotalSpecies)
	assert.Positive(t, snapshot.ThreatenedSpecies)
	assert.Positive(t, snapshot.RecentObservations)
	assert.Equal(t, 6, snapshot.TotalActiveAlerts)
	require.NotNil(t, snapshot.AverageBiodiversity)
	assert.NotEmpty(t, snapshot.EcosystemHealthDistribution)
	assert.NotEmpty(t, snapshot.ConservationStatusDistribution)
}

func TestSeeder_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepositories()
	log := logger.NewWithWriter("error", io.Discard)

	_, err := New(repos, 7, log).Seed(ctx)
	require.NoError(t, err)

	before, err := repos.Measurements.Count(ctx)
	require.NoError(t, err)

	res, err := New(repos, 8, log).Seed(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, res.Species)

	speciesCount, err := repos.Species.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, speciesCount)

	after, err := repos.Measurements.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSeeder_SameSeedSameDataset(t *testing.T) {
	ctx := context.Background()
	log := logger.NewWithWriter("error", io.Discard)

	first, err := New(newMemoryRepositories(), 99, log).Seed(ctx)
	require.NoError(t, err)
	second, err := New(newMemoryRepositories(), 99, log).Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
