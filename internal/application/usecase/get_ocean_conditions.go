package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// OceanConditionsQuery - параметры расчета состояния океана
type OceanConditionsQuery struct {
	// Window = 0 означает окно по умолчанию
	Window time.Duration
	Bounds *valueobject.BoundingBox
}

// OceanConditionsConfig - настройки use case
type OceanConditionsConfig struct {
	DefaultWindow time.Duration
	MaxWindow     time.Duration
	CacheTTL      time.Duration
}

// GetOceanConditionsUseCase вычисляет средние значения параметров и индекс здоровья океана
// по измерениям окна наблюдения. Результат кешируется, если кеш настроен.
type GetOceanConditionsUseCase struct {
	repository repository.MeasurementRepository
	aggregator *service.MetricsAggregator
	cache      port.Cache
	config     OceanConditionsConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewGetOceanConditionsUseCase создает новый use case
func NewGetOceanConditionsUseCase(
	repository repository.MeasurementRepository,
	aggregator *service.MetricsAggregator,
	cache port.Cache, // Can be nil if Redis disabled
	config OceanConditionsConfig,
	logger *logger.Logger,
) *GetOceanConditionsUseCase {
	if config.DefaultWindow <= 0 {
		config.DefaultWindow = 24 * time.Hour
	}
	if config.MaxWindow <= 0 {
		config.MaxWindow = 365 * 24 * time.Hour
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Minute
	}
	return &GetOceanConditionsUseCase{
		repository: repository,
		aggregator: aggregator,
		cache:      cache,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// DefaultWindow возвращает окно наблюдения по умолчанию
func (uc *GetOceanConditionsUseCase) DefaultWindow() time.Duration {
	return uc.config.DefaultWindow
}

// Execute возвращает состояние океана за окно наблюдения
func (uc *GetOceanConditionsUseCase) Execute(
	ctx context.Context,
	query OceanConditionsQuery,
) (*dto.OceanConditionsDTO, error) {
	window := query.Window
	if window == 0 {
		window = uc.config.DefaultWindow
	}
	if window < 0 || window > uc.config.MaxWindow {
		return nil, fmt.Errorf("%w: window must be between 0 and %s", ErrInvalidQuery, uc.config.MaxWindow)
	}

	now := uc.now().UTC()
	timeRange, err := valueobject.NewTimeRangeEndingAt(now, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	if uc.cache == nil {
		return uc.compute(ctx, timeRange, query.Bounds)
	}

	region := "global"
	if query.Bounds != nil {
		region = query.Bounds.String()
	}
	cacheKey := bucketedCacheKey(cacheKeyConditions, now, window.String(), region)

	var cached dto.OceanConditionsDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
		uc.logger.Debug("Cache hit for ocean conditions", "window", window.String(), "region", region)
		return &cached, nil
	}

	conditions, err := uc.compute(ctx, timeRange, query.Bounds)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш асинхронно, не блокируем ответ
	go func() {
		if err := uc.cache.SetWithTTL(context.Background(), cacheKey, conditions, uc.config.CacheTTL); err != nil {
			uc.logger.Warn("Failed to cache ocean conditions", "error", err.Error())
		}
	}()

	return conditions, nil
}

func (uc *GetOceanConditionsUseCase) compute(
	ctx context.Context,
	timeRange valueobject.TimeRange,
	bounds *valueobject.BoundingBox,
) (*dto.OceanConditionsDTO, error) {
	points, err := uc.repository.Find(ctx, repository.MeasurementQuery{
		TimeRange: timeRange,
		Bounds:    bounds,
	})
	if err != nil {
		uc.logger.Error("Failed to fetch measurements", err)
		return nil, fmt.Errorf("failed to fetch measurements: %w", err)
	}

	uc.logger.Debug("Fetched measurements for conditions", "count", len(points))

	return BuildOceanConditions(uc.aggregator, points, timeRange, uc.now().UTC()), nil
}

// BuildOceanConditions собирает DTO состояния океана из выборки измерений.
// Индекс здоровья не вычисляется, если нет ни одного параметра индекса:
// "нет данных" не должно отображаться как 100.
func BuildOceanConditions(
	aggregator *service.MetricsAggregator,
	points []*entity.MeasurementPoint,
	timeRange valueobject.TimeRange,
	now time.Time,
) *dto.OceanConditionsDTO {
	averages := aggregator.ComputeParameterAverages(points)

	samples := make(map[valueobject.Parameter]int)
	for _, p := range points {
		samples[p.Parameter()]++
	}

	conditions := &dto.OceanConditionsDTO{
		Timestamp:   now,
		WindowStart: timeRange.Start(),
		WindowEnd:   timeRange.End(),
		DataPoints:  len(points),
		Parameters:  make([]*dto.ParameterSummaryDTO, 0, len(averages)),
	}

	input := service.HealthInputFrom(averages)
	if input.HasData() {
		score := aggregator.ComputeOceanHealthScore(input)
		conditions.HealthScore = &score
	}
	conditions.HealthStatus = dto.HealthStatusFor(conditions.HealthScore)

	for _, param := range valueobject.AllParameters() {
		avg := averages[param]
		summary := &dto.ParameterSummaryDTO{
			Parameter: param.String(),
			Label:     param.Label(),
			Unit:      param.Unit(),
			Average:   avg.Ptr(),
			Available: !avg.IsNoData(),
			Samples:   samples[param],
		}

		if r := aggregator.ComputeParameterRange(points, param); r.Available {
			min, max := r.Min, r.Max
			summary.Min = &min
			summary.Max = &max
		}

		if v, ok := avg.Value(); ok {
			if deviation, scored := aggregator.ClassifyDeviation(param, v); scored {
				summary.Deviation = deviation.String()
				summary.DeviationColor = deviation.Display().Color
			}
		}

		conditions.Parameters = append(conditions.Parameters, summary)
	}

	return conditions
}
