//go:build integration
// +build integration

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/postgres"
)

// startPostgres поднимает PostgreSQL в контейнере и применяет миграции
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres e2e test in short mode")
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

	db, err := postgres.Open(ctx, dsn, postgres.PoolConfig{MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db))
	return db
}

// postgresRepos собирает репозитории на PostgreSQL. История распознаваний живет в DynamoDB,
// поэтому здесь она в памяти.
func postgresRepos(db *sqlx.DB) testRepos {
	return testRepos{
		measurements:    postgres.NewMeasurementRepository(db),
		alerts:          postgres.NewAlertRepository(db),
		species:         postgres.NewSpeciesRepository(db),
		observations:    postgres.NewObservationRepository(db),
		fisheries:       postgres.NewFisheriesRepository(db),
		biodiversity:    postgres.NewBiodiversityRepository(db),
		identifications: memory.NewIdentificationRecordRepository(),
	}
}

func TestE2EIntegration_MeasurementsToAlerts(t *testing.T) {
	db := startPostgres(t)
	srv := newTestServerWithRepos(t, postgresRepos(db), true, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})

	resp := srv.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	now := time.Now().UTC().Add(-time.Minute)
	lat, lng := -18.29, 147.70
	body := measurementsPayload(t,
		dto.MeasurementInputDTO{Parameter: "temperature", Value: 24, Latitude: &lat, Longitude: &lng, LocationName: "Great Barrier Reef", Timestamp: now},
		dto.MeasurementInputDTO{Parameter: "ph", Value: 7.2, Latitude: &lat, Longitude: &lng, LocationName: "Great Barrier Reef", Timestamp: now},
		dto.MeasurementInputDTO{Parameter: "salinity", Value: 35, Latitude: &lat, Longitude: &lng, LocationName: "Great Barrier Reef", Timestamp: now},
	)
	resp = srv.do(t, http.MethodPost, "/api/v1/measurements", body, authHeaders())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result usecase.RecordMeasurementsResult
	decodeJSON(t, resp, &result)
	assert.Equal(t, 3, result.Recorded)
	require.Equal(t, 1, result.AlertsRaised, "pH 7.2 is outside the tolerated band")

	resp = srv.do(t, http.MethodGet, "/api/ocean/conditions?lat_min=-20&lat_max=-15&lng_min=145&lng_max=150", nil, authHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conditions dto.OceanConditionsDTO
	decodeJSON(t, resp, &conditions)
	require.NotNil(t, conditions.HealthScore)
	assert.Equal(t, 80, *conditions.HealthScore)
	assert.Equal(t, 3, conditions.DataPoints)

	resp = srv.do(t, http.MethodGet, "/api/alerts", nil, authHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts []*dto.AlertDTO
	decodeJSON(t, resp, &alerts)
	require.Len(t, alerts, 1)

	resp = srv.do(t, http.MethodPost, "/api/alerts/"+alerts[0].ID+"/resolve", nil, authHeaders())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/sustainability-metrics", nil, authHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot dto.SustainabilitySnapshotDTO
	decodeJSON(t, resp, &snapshot)
	assert.Zero(t, snapshot.TotalActiveAlerts)
}

func TestE2EIntegration_ReadinessFailsWhenDatabaseClosed(t *testing.T) {
	db := startPostgres(t)
	srv := newTestServerWithRepos(t, postgresRepos(db), false, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})

	require.NoError(t, db.Close())

	resp := srv.do(t, http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
