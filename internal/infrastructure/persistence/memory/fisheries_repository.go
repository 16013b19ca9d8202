package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// FisheriesRepository keeps catch records in memory.
type FisheriesRepository struct {
	mu      sync.RWMutex
	catches []*entity.FisheriesCatch
}

func NewFisheriesRepository() *FisheriesRepository {
	return &FisheriesRepository{}
}

func (r *FisheriesRepository) Save(_ context.Context, c *entity.FisheriesCatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catches = append(r.catches, c)
	return nil
}

func (r *FisheriesRepository) FindByTimeRange(_ context.Context, timeRange valueobject.TimeRange, limit int) ([]*entity.FisheriesCatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.FisheriesCatch, 0)
	for _, c := range r.catches {
		if timeRange.Contains(c.CatchDate()) {
			result = append(result, c)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CatchDate().After(result[j].CatchDate())
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// BiodiversityRepository keeps biodiversity assessments in memory.
type BiodiversityRepository struct {
	mu          sync.RWMutex
	assessments []*entity.BiodiversityAssessment
}

func NewBiodiversityRepository() *BiodiversityRepository {
	return &BiodiversityRepository{}
}

func (r *BiodiversityRepository) Save(_ context.Context, a *entity.BiodiversityAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments = append(r.assessments, a)
	return nil
}

func (r *BiodiversityRepository) List(_ context.Context, limit int) ([]*entity.BiodiversityAssessment, error) {
	r.mu.RLock()
	result := append([]*entity.BiodiversityAssessment(nil), r.assessments...)
	r.mu.RUnlock()

	sortAssessments(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *BiodiversityRepository) LatestByRegion(_ context.Context) ([]*entity.BiodiversityAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[string]*entity.BiodiversityAssessment)
	for _, a := range r.assessments {
		if cur, ok := latest[a.RegionName()]; !ok || a.AssessedAt().After(cur.AssessedAt()) {
			latest[a.RegionName()] = a
		}
	}

	result := make([]*entity.BiodiversityAssessment, 0, len(latest))
	for _, a := range latest {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RegionName() < result[j].RegionName()
	})
	return result, nil
}

func sortAssessments(items []*entity.BiodiversityAssessment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AssessedAt().After(items[j].AssessedAt())
	})
}
