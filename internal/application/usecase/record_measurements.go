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

// MaxMeasurementBatch - максимальный размер пакета измерений
const MaxMeasurementBatch = 5000

// MeasurementsRecordedEvent публикуется после сохранения пакета измерений
type MeasurementsRecordedEvent struct {
	Count      int       `json:"count"`
	Parameters []string  `json:"parameters"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordMeasurementsResult - итог приема пакета
type RecordMeasurementsResult struct {
	Recorded     int             `json:"recorded"`
	AlertsRaised int             `json:"alerts_raised"`
	Alerts       []*dto.AlertDTO `json:"alerts,omitempty"`
}

// RecordMeasurementsUseCase координирует прием, валидацию, сохранение и рассылку измерений
type RecordMeasurementsUseCase struct {
	repository repository.MeasurementRepository
	alerts     repository.AlertRepository
	validator  *service.MeasurementValidator
	aggregator *service.MetricsAggregator
	notifier   port.NotificationService
	conditions *GetOceanConditionsUseCase
	metrics    port.MetricsPublisher
	events     port.EventPublisher
	timeseries port.TimeSeriesWriter
	cache      port.Cache
	logger     *logger.Logger
}

// NewRecordMeasurementsUseCase создает новый use case
func NewRecordMeasurementsUseCase(
	repository repository.MeasurementRepository,
	alerts repository.AlertRepository,
	validator *service.MeasurementValidator,
	aggregator *service.MetricsAggregator,
	notifier port.NotificationService,
	conditions *GetOceanConditionsUseCase,
	metrics port.MetricsPublisher, // Can be nil if CloudWatch disabled
	events port.EventPublisher, // Can be nil if NATS disabled
	timeseries port.TimeSeriesWriter, // Can be nil if InfluxDB disabled
	cache port.Cache, // Can be nil if Redis disabled
	logger *logger.Logger,
) *RecordMeasurementsUseCase {
	return &RecordMeasurementsUseCase{
		repository: repository,
		alerts:     alerts,
		validator:  validator,
		aggregator: aggregator,
		notifier:   notifier,
		conditions: conditions,
		metrics:    metrics,
		events:     events,
		timeseries: timeseries,
		cache:      cache,
		logger:     logger,
	}
}

// Execute принимает пакет измерений. Пакет отклоняется целиком при первой невалидной точке.
func (uc *RecordMeasurementsUseCase) Execute(
	ctx context.Context,
	inputs []dto.MeasurementInputDTO,
) (*RecordMeasurementsResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", service.ErrInvalidMeasurement)
	}
	if len(inputs) > MaxMeasurementBatch {
		return nil, fmt.Errorf("%w: batch exceeds %d points", service.ErrInvalidMeasurement, MaxMeasurementBatch)
	}

	// 1. Конвертируем в Domain Entities
	points, err := uc.toEntities(inputs)
	if err != nil {
		return nil, err
	}

	// 2. Валидация на границе приема
	if err := uc.validator.ValidateBatch(points); err != nil {
		uc.logger.Warn("Measurement batch rejected", "size", len(points), "error", err.Error())
		return nil, err
	}

	// 3. Сохраняем (batch insert)
	if err := uc.repository.SaveBatch(ctx, points); err != nil {
		uc.logger.Error("Failed to save measurements batch", err)
		return nil, fmt.Errorf("failed to save measurements: %w", err)
	}

	uc.logger.Debug("Measurements saved to repository", "count", len(points))

	// 4. Вторичные приемники, ошибки не прерывают прием
	uc.mirror(ctx, points)

	// 5. Инвалидируем кеш и рассылаем клиентам
	uc.invalidateCache(ctx)
	uc.notifier.BroadcastMeasurements(dto.ToMeasurementDTOs(points))
	if uc.conditions != nil {
		if conditions, err := uc.conditions.Execute(ctx, OceanConditionsQuery{}); err == nil {
			uc.notifier.BroadcastConditions(conditions)
		} else {
			uc.logger.Warn("Failed to recompute ocean conditions", "error", err.Error())
		}
	}

	// 6. Алерты на сильные отклонения
	raised := uc.raiseAnomalyAlerts(ctx, points)

	uc.publish(ctx, port.SubjectMeasurementsRecorded, newRecordedEvent(points))

	return &RecordMeasurementsResult{
		Recorded:     len(points),
		AlertsRaised: len(raised),
		Alerts:       raised,
	}, nil
}

func (uc *RecordMeasurementsUseCase) toEntities(inputs []dto.MeasurementInputDTO) ([]*entity.MeasurementPoint, error) {
	now := time.Now().UTC()
	points := make([]*entity.MeasurementPoint, 0, len(inputs))

	for i, in := range inputs {
		parameter, err := valueobject.ParseParameter(in.Parameter)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w: %v", i, service.ErrInvalidMeasurement, err)
		}

		var location *valueobject.Location
		switch {
		case in.Latitude != nil && in.Longitude != nil:
			loc, err := valueobject.NewLocation(*in.Latitude, *in.Longitude)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w: %v", i, service.ErrInvalidMeasurement, err)
			}
			location = &loc
		case in.Latitude != nil || in.Longitude != nil:
			return nil, fmt.Errorf("point %d: %w: latitude and longitude must be set together", i, service.ErrInvalidMeasurement)
		}

		recordedAt := in.Timestamp
		if recordedAt.IsZero() {
			recordedAt = now
		}

		point, err := entity.NewMeasurementPoint(parameter, in.Value, location, in.LocationName, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w: %v", i, service.ErrInvalidMeasurement, err)
		}
		points = append(points, point)
	}

	return points, nil
}

func (uc *RecordMeasurementsUseCase) mirror(ctx context.Context, points []*entity.MeasurementPoint) {
	if uc.timeseries != nil {
		if err := uc.timeseries.WriteMeasurements(ctx, points); err != nil {
			uc.logger.Warn("Failed to mirror measurements to time-series store", "error", err.Error())
		}
	}

	if uc.metrics != nil {
		if err := uc.metrics.PublishBatch(ctx, points); err != nil {
			uc.logger.Warn("Failed to publish measurements to CloudWatch", "error", err.Error())
		}
	}
}

func (uc *RecordMeasurementsUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	for _, prefix := range []string{cacheKeyConditions, cacheKeySustainability} {
		if err := uc.cache.DeletePattern(ctx, prefix+":*"); err != nil {
			uc.logger.Warn("Failed to invalidate cache", "prefix", prefix, "error", err.Error())
		}
	}
}

// raiseAnomalyAlerts создает алерт на каждую пару (параметр, локация) с сильным отклонением.
// Внутри пакета одна пара дает не более одного алерта.
func (uc *RecordMeasurementsUseCase) raiseAnomalyAlerts(
	ctx context.Context,
	points []*entity.MeasurementPoint,
) []*dto.AlertDTO {
	if uc.alerts == nil {
		return nil
	}

	seen := make(map[string]bool)
	var raised []*dto.AlertDTO

	for _, p := range points {
		deviation, scored := uc.aggregator.ClassifyDeviation(p.Parameter(), p.Value())
		if !scored || deviation != valueobject.DeviationSevere {
			continue
		}

		key := p.Parameter().String() + "|" + p.LocationName()
		if seen[key] {
			continue
		}
		seen[key] = true

		alert, err := uc.newAnomalyAlert(p)
		if err != nil {
			uc.logger.Warn("Failed to build anomaly alert", "error", err.Error())
			continue
		}

		if err := uc.alerts.Save(ctx, alert); err != nil {
			uc.logger.Error("Failed to save anomaly alert", err, "parameter", p.Parameter().String())
			continue
		}

		alertDTO := dto.FromAlert(alert)
		raised = append(raised, alertDTO)
		uc.notifier.BroadcastAlert(alertDTO)
		uc.publish(ctx, port.SubjectAlertRaised, alertDTO)
		uc.logger.Warn("Severe ocean parameter deviation detected",
			"parameter", p.Parameter().String(),
			"value", p.Value(),
			"location", p.LocationName(),
		)
	}

	return raised
}

func (uc *RecordMeasurementsUseCase) newAnomalyAlert(p *entity.MeasurementPoint) (*entity.Alert, error) {
	band, _ := uc.aggregator.Policy().Band(p.Parameter())

	alertType := entity.AlertTypeTemperatureAnomaly
	switch p.Parameter() {
	case valueobject.PH:
		alertType = entity.AlertTypePHAnomaly
	case valueobject.Salinity:
		alertType = entity.AlertTypeSalinityAnomaly
	}

	where := p.LocationName()
	if where == "" {
		if loc, ok := p.Location(); ok {
			where = loc.String()
		} else {
			where = "unknown location"
		}
	}

	title := fmt.Sprintf("%s anomaly at %s", p.Parameter().Label(), where)
	description := fmt.Sprintf("%s of %.2f %s is outside the tolerated range [%.2f, %.2f]",
		p.Parameter().Label(), p.Value(), p.Parameter().Unit(), band.MildMin, band.MildMax)

	var location *valueobject.Location
	if loc, ok := p.Location(); ok {
		location = &loc
	}

	return entity.NewAlert(alertType, valueobject.SeverityHigh, title, description, p.LocationName(), location)
}

func (uc *RecordMeasurementsUseCase) publish(ctx context.Context, subject string, event interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishEvent(ctx, subject, event); err != nil {
		uc.logger.Warn("Failed to publish event", "subject", subject, "error", err.Error())
	}
}

func newRecordedEvent(points []*entity.MeasurementPoint) MeasurementsRecordedEvent {
	event := MeasurementsRecordedEvent{Count: len(points), RecordedAt: time.Now().UTC()}
	seen := make(map[valueobject.Parameter]bool)
	for i, p := range points {
		if !seen[p.Parameter()] {
			seen[p.Parameter()] = true
			event.Parameters = append(event.Parameters, p.Parameter().String())
		}
		if i == 0 || p.RecordedAt().Before(event.From) {
			event.From = p.RecordedAt()
		}
		if i == 0 || p.RecordedAt().After(event.To) {
			event.To = p.RecordedAt()
		}
	}
	return event
}
