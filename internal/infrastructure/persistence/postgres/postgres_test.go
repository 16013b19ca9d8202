package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// setupTestDB поднимает PostgreSQL в контейнере и применяет миграции
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("marine"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, dsn, PoolConfig{MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	// Повторное применение не должно падать
	require.NoError(t, Migrate(ctx, db))

	return db
}

func mustLocation(t *testing.T, lat, lng float64) *valueobject.Location {
	t.Helper()
	loc, err := valueobject.NewLocation(lat, lng)
	require.NoError(t, err)
	return &loc
}

func TestLocationColumns_RoundTrip(t *testing.T) {
	lat, lng := locationColumns(valueobject.Location{}, false)
	assert.False(t, lat.Valid)
	assert.False(t, lng.Valid)
	assert.Nil(t, locationFromColumns(lat, lng))

	loc := mustLocation(t, -16.3, 145.8)
	lat, lng = locationColumns(*loc, true)
	restored := locationFromColumns(lat, lng)
	require.NotNil(t, restored)
	assert.Equal(t, -16.3, restored.Latitude())
	assert.Equal(t, 145.8, restored.Longitude())

	assert.Nil(t, locationFromColumns(sql.NullFloat64{Float64: 1, Valid: true}, sql.NullFloat64{}))
}

func TestMeasurementRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMeasurementRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reef := mustLocation(t, -18.2, 147.7)
	arctic := mustLocation(t, 78.0, 15.0)

	var points []*entity.MeasurementPoint
	for i, tc := range []struct {
		parameter valueobject.Parameter
		value     float64
		location  *valueobject.Location
		name      string
		age       time.Duration
	}{
		{valueobject.Temperature, 26.5, reef, "Great Barrier Reef", time.Hour},
		{valueobject.PH, 8.05, reef, "Great Barrier Reef", 2 * time.Hour},
		{valueobject.Temperature, 2.1, arctic, "Svalbard", 3 * time.Hour},
		{valueobject.Salinity, 34.9, nil, "", 40 * 24 * time.Hour},
	} {
		p, err := entity.NewMeasurementPoint(tc.parameter, tc.value, tc.location, tc.name, now.Add(-tc.age))
		require.NoError(t, err, "point %d", i)
		points = append(points, p)
	}
	require.NoError(t, repo.SaveBatch(ctx, points))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	lastMonth, err := valueobject.NewTimeRangeEndingAt(now, 30*24*time.Hour)
	require.NoError(t, err)

	all, err := repo.Find(ctx, repository.MeasurementQuery{TimeRange: lastMonth})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, valueobject.Temperature, all[0].Parameter(), "newest first")

	temps, err := repo.Find(ctx, repository.MeasurementQuery{
		TimeRange:  lastMonth,
		Parameters: []valueobject.Parameter{valueobject.Temperature},
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, temps, 1)
	assert.Equal(t, 26.5, temps[0].Value())

	box, err := valueobject.NewBoundingBox(-30, 0, 140, 160)
	require.NoError(t, err)
	inBox, err := repo.Find(ctx, repository.MeasurementQuery{TimeRange: lastMonth, Bounds: &box})
	require.NoError(t, err)
	require.Len(t, inBox, 2)
	for _, p := range inBox {
		assert.Equal(t, "Great Barrier Reef", p.LocationName())
	}

	lastQuarter, err := valueobject.NewTimeRangeEndingAt(now, 90*24*time.Hour)
	require.NoError(t, err)
	salinity, err := repo.Find(ctx, repository.MeasurementQuery{
		TimeRange:  lastQuarter,
		Parameters: []valueobject.Parameter{valueobject.Salinity},
	})
	require.NoError(t, err)
	require.Len(t, salinity, 1)
	_, hasLocation := salinity[0].Location()
	assert.False(t, hasLocation)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestCatalogRepositories_Integration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	species := NewSpeciesRepository(db)
	turtle, err := entity.NewSpecies(entity.SpeciesAttributes{
		ScientificName:     "Chelonia mydas",
		CommonName:         "Green Sea Turtle",
		SpeciesType:        "Reptile",
		ConservationStatus: valueobject.Endangered,
		ThreatLevel:        valueobject.ThreatHigh,
	})
	require.NoError(t, err)
	tuna, err := entity.NewSpecies(entity.SpeciesAttributes{
		ScientificName: "Thunnus thynnus",
		SpeciesType:    "Fish",
		ThreatLevel:    valueobject.ThreatMedium,
	})
	require.NoError(t, err)
	require.NoError(t, species.Save(ctx, turtle))
	require.NoError(t, species.Save(ctx, tuna))

	found, err := species.FindByScientificName(ctx, "chelonia MYDAS")
	require.NoError(t, err)
	assert.Equal(t, turtle.ID(), found.ID())

	_, err = species.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	fish, err := species.List(ctx, repository.SpeciesFilter{SpeciesType: "fish"})
	require.NoError(t, err)
	require.Len(t, fish, 1)
	assert.Equal(t, valueobject.DataDeficient, fish[0].ConservationStatus())

	threatened, err := species.CountThreatened(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, threatened)

	observations := NewObservationRepository(db)
	obs, err := entity.NewSpeciesObservation(entity.ObservationAttributes{
		SpeciesID:       turtle.ID(),
		ConfidenceLevel: 0.9,
		ObservedAt:      now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, observations.Save(ctx, obs))

	seen, err := observations.CountSince(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)

	fisheries := NewFisheriesRepository(db)
	quota, score := 100.0, 72.5
	catch, err := entity.NewFisheriesCatch(entity.CatchAttributes{
		SpeciesID:           tuna.ID(),
		CatchAmount:         120,
		FishingArea:         "Mediterranean",
		CatchDate:           now.Add(-48 * time.Hour),
		QuotaLimit:          &quota,
		SustainabilityScore: &score,
	})
	require.NoError(t, err)
	require.NoError(t, fisheries.Save(ctx, catch))

	window, err := valueobject.NewTimeRangeEndingAt(now, 30*24*time.Hour)
	require.NoError(t, err)
	catches, err := fisheries.FindByTimeRange(ctx, window, 10)
	require.NoError(t, err)
	require.Len(t, catches, 1)
	assert.Equal(t, "Thunnus thynnus", catches[0].SpeciesName(), "falls back to scientific name")
	assert.True(t, catches[0].ExceedsQuota())

	biodiversity := NewBiodiversityRepository(db)
	for _, a := range []entity.AssessmentAttributes{
		{RegionName: "Coral Triangle", SpeciesCount: 500, BiodiversityScore: 70, EcosystemHealth: valueobject.EcosystemFair, AssessedAt: now.Add(-60 * 24 * time.Hour)},
		{RegionName: "Coral Triangle", SpeciesCount: 520, BiodiversityScore: 76, EcosystemHealth: valueobject.EcosystemGood, AssessedAt: now.Add(-24 * time.Hour)},
		{RegionName: "Baltic Sea", SpeciesCount: 80, BiodiversityScore: 41, EcosystemHealth: valueobject.EcosystemPoor, AssessedAt: now.Add(-10 * 24 * time.Hour)},
	} {
		assessment, err := entity.NewBiodiversityAssessment(a)
		require.NoError(t, err)
		require.NoError(t, biodiversity.Save(ctx, assessment))
	}

	latest, err := biodiversity.LatestByRegion(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Baltic Sea", latest[0].RegionName())
	assert.Equal(t, 76.0, latest[1].BiodiversityScore())

	listed, err := biodiversity.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Coral Triangle", listed[0].RegionName())
}

func TestAlertRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlertRepository(db)
	ctx := context.Background()

	loc := mustLocation(t, 25.0, -80.0)
	first, err := entity.NewAlert(entity.AlertTypeTemperatureAnomaly, valueobject.SeverityHigh,
		"Temperature anomaly at Florida Keys", "", "Florida Keys", loc)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := entity.NewAlert(entity.AlertTypeOverfishing, valueobject.SeverityMedium,
		"Quota exceeded", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	require.NoError(t, repo.Resolve(ctx, first.ID(), time.Now()))
	assert.ErrorIs(t, repo.Resolve(ctx, first.ID(), time.Now()), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Resolve(ctx, "missing", time.Now()), repository.ErrNotFound)

	alerts, err := repo.FindActive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, second.ID(), alerts[0].ID())
	_, hasLocation := alerts[0].Location()
	assert.False(t, hasLocation)
}
