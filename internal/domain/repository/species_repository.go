package repository

import (
	"context"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// SpeciesFilter задает фильтр каталога видов. Пустые поля не фильтруют.
type SpeciesFilter struct {
	SpeciesType        string
	ConservationStatus valueobject.ConservationStatus
	ThreatLevel        valueobject.ThreatLevel
}

// SpeciesRepository определяет интерфейс каталога видов (Port)
type SpeciesRepository interface {
	Save(ctx context.Context, species *entity.Species) error

	FindByID(ctx context.Context, id string) (*entity.Species, error)

	// FindByScientificName ищет вид без учета регистра, ErrNotFound если нет
	FindByScientificName(ctx context.Context, name string) (*entity.Species, error)

	// List возвращает виды, отсортированные по научному названию
	List(ctx context.Context, filter SpeciesFilter) ([]*entity.Species, error)

	Count(ctx context.Context) (int, error)

	// CountThreatened возвращает количество видов с угрозой high или critical
	CountThreatened(ctx context.Context) (int, error)
}

// ObservationRepository определяет интерфейс хранилища наблюдений (Port)
type ObservationRepository interface {
	Save(ctx context.Context, observation *entity.SpeciesObservation) error

	// CountSince возвращает количество наблюдений начиная с момента since
	CountSince(ctx context.Context, since time.Time) (int, error)
}
