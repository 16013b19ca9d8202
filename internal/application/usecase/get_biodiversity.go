package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// DefaultBiodiversityLimit - сколько оценок возвращает индекс по умолчанию
const DefaultBiodiversityLimit = 200

// GetBiodiversityUseCase возвращает оценки биоразнообразия
type GetBiodiversityUseCase struct {
	repository repository.BiodiversityRepository
	logger     *logger.Logger
}

// NewGetBiodiversityUseCase создает новый use case
func NewGetBiodiversityUseCase(repository repository.BiodiversityRepository, logger *logger.Logger) *GetBiodiversityUseCase {
	return &GetBiodiversityUseCase{
		repository: repository,
		logger:     logger,
	}
}

// Execute возвращает оценки, новые первыми
func (uc *GetBiodiversityUseCase) Execute(ctx context.Context, limit int) ([]*dto.BiodiversityIndexDTO, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	if limit == 0 {
		limit = DefaultBiodiversityLimit
	}

	items, err := uc.repository.List(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to list biodiversity assessments", err)
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	return dto.ToBiodiversityIndexDTOs(items), nil
}

// ExecuteRegionalTrends возвращает последнюю оценку каждого региона
func (uc *GetBiodiversityUseCase) ExecuteRegionalTrends(ctx context.Context) ([]*dto.BiodiversityIndexDTO, error) {
	items, err := uc.repository.LatestByRegion(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch regional assessments", err)
		return nil, fmt.Errorf("failed to fetch regional assessments: %w", err)
	}

	return dto.ToBiodiversityIndexDTOs(items), nil
}
