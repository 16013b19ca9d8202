// Package memory contains in-process repository implementations used when
// PostgreSQL is not configured and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// MeasurementRepository keeps measurement points in memory.
type MeasurementRepository struct {
	mu     sync.RWMutex
	points []*entity.MeasurementPoint
}

func NewMeasurementRepository() *MeasurementRepository {
	return &MeasurementRepository{}
}

func (r *MeasurementRepository) SaveBatch(_ context.Context, points []*entity.MeasurementPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, points...)
	return nil
}

func (r *MeasurementRepository) Find(_ context.Context, query repository.MeasurementQuery) ([]*entity.MeasurementPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[valueobject.Parameter]bool, len(query.Parameters))
	for _, p := range query.Parameters {
		wanted[p] = true
	}

	result := make([]*entity.MeasurementPoint, 0)
	for _, p := range r.points {
		if !query.TimeRange.Contains(p.RecordedAt()) {
			continue
		}
		if len(wanted) > 0 && !wanted[p.Parameter()] {
			continue
		}
		if query.Bounds != nil {
			loc, ok := p.Location()
			if !ok || !query.Bounds.Contains(loc) {
				continue
			}
		}
		result = append(result, p)
	}

	sortNewestFirst(result)
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func (r *MeasurementRepository) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.points[:0]
	var deleted int64
	for _, p := range r.points {
		if p.RecordedAt().Before(before) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	r.points = kept
	return deleted, nil
}

func (r *MeasurementRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.points)), nil
}

func sortNewestFirst(points []*entity.MeasurementPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].RecordedAt().After(points[j].RecordedAt())
	})
}
