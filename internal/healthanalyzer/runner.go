package healthanalyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

type Runner struct {
	service   *Service
	log       *logger.Logger
	interval  time.Duration
	metrics   *metrics.Metrics
	publisher port.MetricsPublisher

	runMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	lastError   string
	lastSummary *CycleSummary
}

func NewRunner(
	service *Service,
	log *logger.Logger,
	interval time.Duration,
	m *metrics.Metrics, // Can be nil if Prometheus disabled
	publisher port.MetricsPublisher, // Can be nil if CloudWatch disabled
) *Runner {
	return &Runner{
		service:   service,
		log:       log,
		interval:  interval,
		metrics:   m,
		publisher: publisher,
		startedAt: time.Now(),
	}
}

func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				// RunOnce сохраняет ошибку и логирует ее
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) RunOnce(ctx context.Context) (*CycleSummary, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	summary, err := r.service.EvaluateLatest(queryCtx)
	runAt := time.Now()

	if err != nil {
		wrappedErr := fmt.Errorf("analyzer cycle failed: %w", err)
		r.updateFailure(runAt, wrappedErr)
		r.countCycle("error")
		r.log.Error("Ocean health analyzer cycle failed", wrappedErr)
		return nil, wrappedErr
	}

	r.updateSuccess(runAt, summary)
	r.countCycle("ok")
	r.exportScores(ctx, summary)
	r.pruneExpired(ctx)

	if summary.DataPoints == 0 {
		r.log.Warn("Ocean health analyzer cycle completed without measurements in window")
		return summary, nil
	}

	r.log.Info(
		"Ocean health analyzer cycle completed",
		"data_points", summary.DataPoints,
		"locations_total", summary.LocationsTotal,
		"critical_count", summary.CriticalCount,
		"warning_count", summary.WarningCount,
	)

	return summary, nil
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := Snapshot{
		StartedAt: r.startedAt,
		Interval:  r.interval,
		LastRunAt: r.lastRunAt,
		LastError: r.lastError,
	}

	if r.lastSummary != nil {
		copiedSummary := *r.lastSummary
		copiedSummary.Assessments = append([]LocationAssessment(nil), r.lastSummary.Assessments...)
		snapshot.LastSummary = &copiedSummary
	}

	return snapshot
}

// exportScores отправляет индексы в Prometheus и CloudWatch; локации без данных пропускаются
func (r *Runner) exportScores(ctx context.Context, summary *CycleSummary) {
	for _, a := range summary.Assessments {
		if a.HealthScore == nil {
			if r.metrics != nil {
				r.metrics.OceanHealthScore.DeleteLabelValues(a.Location)
			}
			continue
		}

		if r.metrics != nil {
			r.metrics.OceanHealthScore.WithLabelValues(a.Location).Set(float64(*a.HealthScore))
		}
		if r.publisher != nil {
			if err := r.publisher.PublishHealthScore(ctx, a.Location, *a.HealthScore); err != nil {
				r.log.Warn("Failed to publish health score", "location", a.Location, "error", err.Error())
			}
		}
	}
}

// pruneExpired удаляет устаревшие измерения; ошибка не проваливает цикл
func (r *Runner) pruneExpired(ctx context.Context) {
	deleted, err := r.service.PruneExpired(ctx)
	if err != nil {
		r.log.Warn("Measurement retention sweep failed", "error", err.Error())
		return
	}
	if deleted > 0 {
		r.log.Info("Expired measurements deleted", "count", deleted)
	}
}

func (r *Runner) countCycle(result string) {
	if r.metrics != nil {
		r.metrics.AnalyzerCycles.WithLabelValues(result).Inc()
	}
}

func (r *Runner) updateFailure(runAt time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = err.Error()
}

func (r *Runner) updateSuccess(runAt time.Time, summary *CycleSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRunAt = runAt
	r.lastError = ""
	r.lastSummary = summary
}
