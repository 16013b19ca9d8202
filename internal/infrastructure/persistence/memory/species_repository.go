package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
)

// SpeciesRepository keeps the species catalogue in memory.
type SpeciesRepository struct {
	mu      sync.RWMutex
	species map[string]*entity.Species
}

func NewSpeciesRepository() *SpeciesRepository {
	return &SpeciesRepository{species: make(map[string]*entity.Species)}
}

func (r *SpeciesRepository) Save(_ context.Context, species *entity.Species) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.species[species.ID()] = species
	return nil
}

func (r *SpeciesRepository) FindByID(_ context.Context, id string) (*entity.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.species[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (r *SpeciesRepository) FindByScientificName(_ context.Context, name string) (*entity.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.species {
		if strings.EqualFold(s.ScientificName(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SpeciesRepository) List(_ context.Context, filter repository.SpeciesFilter) ([]*entity.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Species, 0, len(r.species))
	for _, s := range r.species {
		if filter.SpeciesType != "" && !strings.EqualFold(s.SpeciesType(), filter.SpeciesType) {
			continue
		}
		if filter.ConservationStatus != "" && s.ConservationStatus() != filter.ConservationStatus {
			continue
		}
		if filter.ThreatLevel != "" && s.ThreatLevel() != filter.ThreatLevel {
			continue
		}
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScientificName() < result[j].ScientificName()
	})
	return result, nil
}

func (r *SpeciesRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.species), nil
}

func (r *SpeciesRepository) CountThreatened(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, s := range r.species {
		if s.IsThreatened() {
			count++
		}
	}
	return count, nil
}

// ObservationRepository keeps species observations in memory.
type ObservationRepository struct {
	mu           sync.RWMutex
	observations []*entity.SpeciesObservation
}

func NewObservationRepository() *ObservationRepository {
	return &ObservationRepository{}
}

func (r *ObservationRepository) Save(_ context.Context, observation *entity.SpeciesObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations = append(r.observations, observation)
	return nil
}

func (r *ObservationRepository) CountSince(_ context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, o := range r.observations {
		if !o.ObservedAt().Before(since) {
			count++
		}
	}
	return count, nil
}
