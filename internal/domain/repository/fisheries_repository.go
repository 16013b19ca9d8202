package repository

import (
	"context"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// FisheriesRepository определяет интерфейс хранилища промысловых данных (Port)
type FisheriesRepository interface {
	Save(ctx context.Context, c *entity.FisheriesCatch) error

	// FindByTimeRange возвращает выловы за период, новые первыми.
	// Имя вида заполняется из каталога.
	FindByTimeRange(ctx context.Context, timeRange valueobject.TimeRange, limit int) ([]*entity.FisheriesCatch, error)
}

// BiodiversityRepository определяет интерфейс хранилища оценок биоразнообразия (Port)
type BiodiversityRepository interface {
	Save(ctx context.Context, a *entity.BiodiversityAssessment) error

	// List возвращает оценки, новые первыми
	List(ctx context.Context, limit int) ([]*entity.BiodiversityAssessment, error)

	// LatestByRegion возвращает последнюю оценку каждого региона
	LatestByRegion(ctx context.Context) ([]*entity.BiodiversityAssessment, error)
}
