package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// FisheriesConfig - окна выборки промысловых данных
type FisheriesConfig struct {
	DataWindow    time.Duration
	DataLimit     int
	SummaryWindow time.Duration
	RecentWindow  time.Duration
	SummaryLimit  int
	TopSpecies    int
}

// FisheriesQuery - период выборки. Нулевые границы заменяются окном по умолчанию.
type FisheriesQuery struct {
	Start time.Time
	End   time.Time
}

// GetFisheriesUseCase возвращает данные о вылове и сводку по промыслу
type GetFisheriesUseCase struct {
	catches    repository.FisheriesRepository
	species    repository.SpeciesRepository
	aggregator *service.MetricsAggregator
	config     FisheriesConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewGetFisheriesUseCase создает новый use case
func NewGetFisheriesUseCase(
	catches repository.FisheriesRepository,
	species repository.SpeciesRepository,
	aggregator *service.MetricsAggregator,
	config FisheriesConfig,
	logger *logger.Logger,
) *GetFisheriesUseCase {
	if config.DataWindow <= 0 {
		config.DataWindow = 90 * 24 * time.Hour
	}
	if config.DataLimit <= 0 {
		config.DataLimit = 500
	}
	if config.SummaryWindow <= 0 {
		config.SummaryWindow = 365 * 24 * time.Hour
	}
	if config.RecentWindow <= 0 {
		config.RecentWindow = 30 * 24 * time.Hour
	}
	if config.SummaryLimit <= 0 {
		config.SummaryLimit = 10000
	}
	if config.TopSpecies <= 0 {
		config.TopSpecies = 15
	}
	return &GetFisheriesUseCase{
		catches:    catches,
		species:    species,
		aggregator: aggregator,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute возвращает уловы за период, новые первыми
func (uc *GetFisheriesUseCase) Execute(ctx context.Context, query FisheriesQuery) ([]*dto.CatchDTO, error) {
	end := query.End
	if end.IsZero() {
		end = uc.now().UTC()
	}
	start := query.Start
	if start.IsZero() {
		start = end.Add(-uc.config.DataWindow)
	}

	timeRange, err := valueobject.NewTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	catches, err := uc.catches.FindByTimeRange(ctx, timeRange, uc.config.DataLimit)
	if err != nil {
		uc.logger.Error("Failed to fetch catches", err)
		return nil, fmt.Errorf("failed to fetch catches: %w", err)
	}

	return dto.ToCatchDTOs(catches), nil
}

// ExecuteSummary возвращает сводку по промыслу
func (uc *GetFisheriesUseCase) ExecuteSummary(ctx context.Context) (*dto.FisheriesSummaryDTO, error) {
	now := uc.now().UTC()

	timeRange, err := valueobject.NewTimeRangeEndingAt(now, uc.config.SummaryWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	catches, err := uc.catches.FindByTimeRange(ctx, timeRange, uc.config.SummaryLimit)
	if err != nil {
		uc.logger.Error("Failed to fetch catches for summary", err)
		return nil, fmt.Errorf("failed to fetch catches: %w", err)
	}

	atRisk, err := uc.species.CountThreatened(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count threatened species: %w", err)
	}

	summary := uc.aggregator.ComputeFisheriesSummary(
		catches,
		now.Add(-uc.config.RecentWindow),
		atRisk,
		uc.config.TopSpecies,
	)

	return dto.NewFisheriesSummaryDTO(summary), nil
}
