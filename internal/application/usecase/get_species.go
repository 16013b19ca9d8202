package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// SpeciesQuery - фильтр каталога видов в исходном строковом виде
type SpeciesQuery struct {
	SpeciesType        string
	ConservationStatus string
	ThreatLevel        string
}

// GetSpeciesUseCase возвращает каталог видов
type GetSpeciesUseCase struct {
	repository repository.SpeciesRepository
	logger     *logger.Logger
}

// NewGetSpeciesUseCase создает новый use case
func NewGetSpeciesUseCase(repository repository.SpeciesRepository, logger *logger.Logger) *GetSpeciesUseCase {
	return &GetSpeciesUseCase{
		repository: repository,
		logger:     logger,
	}
}

// Execute возвращает виды по фильтру. Неизвестная категория - ошибка запроса.
func (uc *GetSpeciesUseCase) Execute(ctx context.Context, query SpeciesQuery) ([]*dto.SpeciesDTO, error) {
	filter := repository.SpeciesFilter{SpeciesType: query.SpeciesType}

	if query.ConservationStatus != "" {
		status, err := valueobject.ParseConservationStatus(query.ConservationStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		filter.ConservationStatus = status
	}

	if query.ThreatLevel != "" {
		level, err := valueobject.ParseThreatLevel(query.ThreatLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		filter.ThreatLevel = level
	}

	species, err := uc.repository.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list species", err)
		return nil, fmt.Errorf("failed to list species: %w", err)
	}

	return dto.ToSpeciesDTOs(species), nil
}
