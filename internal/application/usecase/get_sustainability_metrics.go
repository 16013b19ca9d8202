package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// SustainabilityConfig - настройки расчета снимка устойчивости
type SustainabilityConfig struct {
	// Period - длина текущего периода, тренд сравнивается с предыдущим периодом той же длины
	Period            time.Duration
	ObservationWindow time.Duration
	MaxCatches        int
	CacheTTL          time.Duration
}

// SustainabilityRepositories объединяет хранилища, из которых собирается снимок
type SustainabilityRepositories struct {
	Species      repository.SpeciesRepository
	Observations repository.ObservationRepository
	Alerts       repository.AlertRepository
	Fisheries    repository.FisheriesRepository
	Biodiversity repository.BiodiversityRepository
}

// GetSustainabilityMetricsUseCase собирает снимок показателей устойчивости
type GetSustainabilityMetricsUseCase struct {
	repos      SustainabilityRepositories
	aggregator *service.MetricsAggregator
	cache      port.Cache
	config     SustainabilityConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewGetSustainabilityMetricsUseCase создает новый use case
func NewGetSustainabilityMetricsUseCase(
	repos SustainabilityRepositories,
	aggregator *service.MetricsAggregator,
	cache port.Cache, // Can be nil if Redis disabled
	config SustainabilityConfig,
	logger *logger.Logger,
) *GetSustainabilityMetricsUseCase {
	if config.Period <= 0 {
		config.Period = 30 * 24 * time.Hour
	}
	if config.ObservationWindow <= 0 {
		config.ObservationWindow = 30 * 24 * time.Hour
	}
	if config.MaxCatches <= 0 {
		config.MaxCatches = 10000
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &GetSustainabilityMetricsUseCase{
		repos:      repos,
		aggregator: aggregator,
		cache:      cache,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute возвращает текущий снимок устойчивости
func (uc *GetSustainabilityMetricsUseCase) Execute(ctx context.Context) (*dto.SustainabilitySnapshotDTO, error) {
	now := uc.now().UTC()

	if uc.cache == nil {
		return uc.compute(ctx, now)
	}

	cacheKey := bucketedCacheKey(cacheKeySustainability, now, uc.config.Period.String())

	var cached dto.SustainabilitySnapshotDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
		uc.logger.Debug("Cache hit for sustainability snapshot")
		return &cached, nil
	}

	snapshot, err := uc.compute(ctx, now)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := uc.cache.SetWithTTL(context.Background(), cacheKey, snapshot, uc.config.CacheTTL); err != nil {
			uc.logger.Warn("Failed to cache sustainability snapshot", "error", err.Error())
		}
	}()

	return snapshot, nil
}

func (uc *GetSustainabilityMetricsUseCase) compute(ctx context.Context, now time.Time) (*dto.SustainabilitySnapshotDTO, error) {
	current, err := valueobject.NewTimeRangeEndingAt(now, uc.config.Period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	previous := current.Previous()

	species, err := uc.repos.Species.List(ctx, repository.SpeciesFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}

	threatened, err := uc.repos.Species.CountThreatened(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count threatened species: %w", err)
	}

	observations, err := uc.repos.Observations.CountSince(ctx, now.Add(-uc.config.ObservationWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count observations: %w", err)
	}

	activeAlerts, err := uc.repos.Alerts.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active alerts: %w", err)
	}

	currentCatches, err := uc.repos.Fisheries.FindByTimeRange(ctx, current, uc.config.MaxCatches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current catches: %w", err)
	}

	previousCatches, err := uc.repos.Fisheries.FindByTimeRange(ctx, previous, uc.config.MaxCatches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch previous catches: %w", err)
	}

	regional, err := uc.repos.Biodiversity.LatestByRegion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch biodiversity assessments: %w", err)
	}

	snap, err := uc.aggregator.ComputeSustainabilitySnapshot(service.SustainabilityInput{
		TotalSpecies:       len(species),
		ThreatenedSpecies:  threatened,
		RecentObservations: observations,
		ActiveAlerts:       activeAlerts,
		CurrentScore:       uc.aggregator.AverageSustainabilityScore(currentCatches),
		PreviousScore:      uc.aggregator.AverageSustainabilityScore(previousCatches),
	})
	if err != nil {
		uc.logger.Error("Inconsistent species counts", err, "total", len(species), "threatened", threatened)
		return nil, err
	}

	result := dto.NewSustainabilitySnapshotDTO(snap, now)
	result.AverageBiodiversity = uc.aggregator.AverageBiodiversityScore(regional).Ptr()
	result.EcosystemHealthDistribution = dto.EcosystemDistributionDTOs(uc.aggregator.EcosystemHealthDistribution(regional))
	result.ConservationStatusDistribution = dto.ConservationDistributionDTOs(uc.aggregator.ConservationDistribution(species))

	uc.logger.Debug("Computed sustainability snapshot",
		"species", len(species),
		"threatened", threatened,
		"trend", snap.Trend.Status.String(),
	)

	return result, nil
}
