package port

import (
	"context"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// TimeSeriesWriter mirrors measurement points into a time-series database.
type TimeSeriesWriter interface {
	WriteMeasurements(ctx context.Context, points []*entity.MeasurementPoint) error
	Flush()
	Close()
}
