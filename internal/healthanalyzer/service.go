package healthanalyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

type Service struct {
	repository repository.MeasurementRepository
	aggregator *service.MetricsAggregator
	window     time.Duration
	locations  []string
	retention  time.Duration // 0 отключает очистку старых измерений
	now        func() time.Time
}

func NewService(
	repository repository.MeasurementRepository,
	aggregator *service.MetricsAggregator,
	window time.Duration,
	locations []string,
	retention time.Duration,
) *Service {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Service{
		repository: repository,
		aggregator: aggregator,
		window:     window,
		locations:  locations,
		retention:  retention,
		now:        time.Now,
	}
}

// PruneExpired удаляет измерения старше срока хранения
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().UTC().Add(-s.retention)
	deleted, err := s.repository.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete measurements before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return deleted, nil
}

// EvaluateLatest оценивает здоровье океана за окно по каждой локации и по всем данным сразу
func (s *Service) EvaluateLatest(ctx context.Context) (*CycleSummary, error) {
	now := s.now().UTC()
	timeRange, err := valueobject.NewTimeRangeEndingAt(now, s.window)
	if err != nil {
		return nil, fmt.Errorf("build analyzer window: %w", err)
	}

	points, err := s.repository.Find(ctx, repository.MeasurementQuery{TimeRange: timeRange})
	if err != nil {
		return nil, fmt.Errorf("query window measurements: %w", err)
	}

	byLocation := make(map[string][]*entity.MeasurementPoint)
	for _, p := range points {
		if p.LocationName() != "" {
			byLocation[p.LocationName()] = append(byLocation[p.LocationName()], p)
		}
	}

	names := s.locations
	if len(names) == 0 {
		names = make([]string, 0, len(byLocation))
		for name := range byLocation {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	summary := &CycleSummary{
		GeneratedAt: now,
		WindowStart: timeRange.Start(),
		WindowEnd:   timeRange.End(),
		DataPoints:  len(points),
		Assessments: make([]LocationAssessment, 0, len(names)+1),
	}

	summary.add(s.assess(GlobalLocation, points, timeRange, now))
	for _, name := range names {
		summary.add(s.assess(name, byLocation[name], timeRange, now))
	}

	return summary, nil
}

func (s *Service) assess(
	location string,
	points []*entity.MeasurementPoint,
	timeRange valueobject.TimeRange,
	now time.Time,
) LocationAssessment {
	conditions := usecase.BuildOceanConditions(s.aggregator, points, timeRange, now)

	assessment := LocationAssessment{
		Location:     location,
		HealthScore:  conditions.HealthScore,
		HealthStatus: conditions.HealthStatus,
		DataPoints:   conditions.DataPoints,
		Parameters:   make([]ParameterAssessment, 0, len(conditions.Parameters)),
	}

	severe, mild := false, false
	for _, p := range conditions.Parameters {
		assessment.Parameters = append(assessment.Parameters, ParameterAssessment{
			Parameter: p.Parameter,
			Average:   p.Average,
			Samples:   p.Samples,
			Deviation: p.Deviation,
		})
		switch valueobject.Deviation(p.Deviation) {
		case valueobject.DeviationSevere:
			severe = true
		case valueobject.DeviationMild:
			mild = true
		}
	}

	assessment.Severity = severityFor(conditions.HealthStatus, severe, mild)
	return assessment
}

// severityFor: сильное отклонение любого параметра критично даже при высоком индексе
func severityFor(status string, severe, mild bool) Severity {
	switch {
	case status == dto.HealthStatusNoData:
		return SeverityNoData
	case severe || status == dto.HealthStatusCritical:
		return SeverityCritical
	case mild || status == dto.HealthStatusWarning:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

func (s *CycleSummary) add(a LocationAssessment) {
	s.Assessments = append(s.Assessments, a)
	s.LocationsTotal++
	switch a.Severity {
	case SeverityCritical:
		s.CriticalCount++
	case SeverityWarning:
		s.WarningCount++
	}
}
