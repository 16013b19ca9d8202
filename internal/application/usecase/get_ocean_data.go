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

// OceanDataConfig - настройки выборки сырых измерений
type OceanDataConfig struct {
	Window       time.Duration
	MaxPoints    int
	MaxTrendDays int
}

// GetOceanDataUseCase возвращает сырые измерения региона и ряды среднесуточных значений
type GetOceanDataUseCase struct {
	repository repository.MeasurementRepository
	aggregator *service.MetricsAggregator
	config     OceanDataConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewGetOceanDataUseCase создает новый use case
func NewGetOceanDataUseCase(
	repository repository.MeasurementRepository,
	aggregator *service.MetricsAggregator,
	config OceanDataConfig,
	logger *logger.Logger,
) *GetOceanDataUseCase {
	if config.Window <= 0 {
		config.Window = 30 * 24 * time.Hour
	}
	if config.MaxPoints <= 0 {
		config.MaxPoints = 1000
	}
	if config.MaxTrendDays <= 0 {
		config.MaxTrendDays = 365
	}
	return &GetOceanDataUseCase{
		repository: repository,
		aggregator: aggregator,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute возвращает измерения за окно в границах области, новые первыми
func (uc *GetOceanDataUseCase) Execute(
	ctx context.Context,
	bounds *valueobject.BoundingBox,
) ([]*dto.MeasurementDTO, error) {
	timeRange, err := valueobject.NewTimeRangeEndingAt(uc.now().UTC(), uc.config.Window)
	if err != nil {
		return nil, err
	}

	points, err := uc.repository.Find(ctx, repository.MeasurementQuery{
		TimeRange: timeRange,
		Bounds:    bounds,
		Limit:     uc.config.MaxPoints,
	})
	if err != nil {
		uc.logger.Error("Failed to fetch ocean data", err)
		return nil, fmt.Errorf("failed to fetch ocean data: %w", err)
	}

	return dto.ToMeasurementDTOs(points), nil
}

// ExecuteTrend возвращает среднесуточные значения параметра за последние days суток
func (uc *GetOceanDataUseCase) ExecuteTrend(
	ctx context.Context,
	parameter valueobject.Parameter,
	days int,
) (*dto.ParameterTrendDTO, error) {
	if err := parameter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if days <= 0 || days > uc.config.MaxTrendDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidQuery, uc.config.MaxTrendDays)
	}

	timeRange, err := valueobject.NewTimeRangeEndingAt(uc.now().UTC(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return nil, err
	}

	points, err := uc.repository.Find(ctx, repository.MeasurementQuery{
		TimeRange:  timeRange,
		Parameters: []valueobject.Parameter{parameter},
	})
	if err != nil {
		uc.logger.Error("Failed to fetch trend data", err, "parameter", parameter.String())
		return nil, fmt.Errorf("failed to fetch trend data: %w", err)
	}

	daily := uc.aggregator.ComputeDailyAverages(points, parameter)
	series := make([]*dto.DailyAverageDTO, len(daily))
	for i, d := range daily {
		series[i] = &dto.DailyAverageDTO{
			Date:    d.Day.Format("2006-01-02"),
			Average: d.Average,
			Samples: d.Samples,
		}
	}

	return &dto.ParameterTrendDTO{
		Parameter: parameter.String(),
		Unit:      parameter.Unit(),
		Days:      days,
		Series:    series,
	}, nil
}
