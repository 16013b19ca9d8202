package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
)

// AlertRepository keeps alerts in memory.
type AlertRepository struct {
	mu     sync.RWMutex
	alerts []*entity.Alert
}

func NewAlertRepository() *AlertRepository {
	return &AlertRepository{}
}

func (r *AlertRepository) Save(_ context.Context, alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *AlertRepository) FindActive(_ context.Context, limit int) ([]*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]*entity.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return service.SortAlertsNewestFirst(active, limit), nil
}

func (r *AlertRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, a := range r.alerts {
		if a.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *AlertRepository) Resolve(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID() == id && a.IsActive() {
			a.Resolve(at)
			return nil
		}
	}
	return repository.ErrNotFound
}
