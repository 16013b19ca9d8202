package repository

import (
	"context"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

// AlertRepository определяет интерфейс хранилища алертов (Port)
type AlertRepository interface {
	Save(ctx context.Context, alert *entity.Alert) error

	// FindActive возвращает активные алерты, новые первыми
	FindActive(ctx context.Context, limit int) ([]*entity.Alert, error)

	CountActive(ctx context.Context) (int, error)

	// Resolve закрывает алерт, ErrNotFound если активного алерта нет
	Resolve(ctx context.Context, id string, at time.Time) error
}
