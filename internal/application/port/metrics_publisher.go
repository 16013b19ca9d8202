package port

import (
	"context"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// MetricsPublisher publishes ocean telemetry to an external observability platform.
type MetricsPublisher interface {
	// PublishBatch publishes recorded measurement points.
	// Implementations handle the backend's per-request limit.
	PublishBatch(ctx context.Context, points []*entity.MeasurementPoint) error

	// PublishHealthScore publishes a computed ocean health score for a location.
	PublishHealthScore(ctx context.Context, location string, score int) error

	// Flush publishes buffered data. Called on shutdown.
	Flush(ctx context.Context) error
}
