package repository

import (
	"context"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// MeasurementQuery задает выборку измерений
type MeasurementQuery struct {
	TimeRange valueobject.TimeRange
	// Parameters пустой означает все параметры
	Parameters []valueobject.Parameter
	// Bounds nil означает отсутствие географического фильтра
	Bounds *valueobject.BoundingBox
	// Limit <= 0 означает без ограничения
	Limit int
}

// MeasurementRepository определяет интерфейс хранилища измерений (Port)
type MeasurementRepository interface {
	// SaveBatch сохраняет измерения одной транзакцией
	SaveBatch(ctx context.Context, points []*entity.MeasurementPoint) error

	// Find возвращает измерения по запросу, новые первыми
	Find(ctx context.Context, query MeasurementQuery) ([]*entity.MeasurementPoint, error)

	// DeleteOlderThan удаляет измерения старше указанного момента
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)

	// Count возвращает общее количество измерений
	Count(ctx context.Context) (int64, error)
}
