package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

const speciesColumns = `id, scientific_name, common_name, species_type, conservation_status, threat_level,
	population_trend, habitat, depth_range, geographic_range, description, created_at`

// SpeciesRepository реализует repository.SpeciesRepository для PostgreSQL
type SpeciesRepository struct {
	db *sqlx.DB
}

// NewSpeciesRepository создает новый PostgreSQL repository каталога видов
func NewSpeciesRepository(db *sqlx.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

// Save сохраняет вид; существующая запись с тем же id обновляется
func (r *SpeciesRepository) Save(ctx context.Context, species *entity.Species) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO species (`+speciesColumns+`)
		VALUES (:id, :scientific_name, :common_name, :species_type, :conservation_status, :threat_level,
			:population_trend, :habitat, :depth_range, :geographic_range, :description, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			scientific_name = EXCLUDED.scientific_name,
			common_name = EXCLUDED.common_name,
			species_type = EXCLUDED.species_type,
			conservation_status = EXCLUDED.conservation_status,
			threat_level = EXCLUDED.threat_level,
			population_trend = EXCLUDED.population_trend,
			habitat = EXCLUDED.habitat,
			depth_range = EXCLUDED.depth_range,
			geographic_range = EXCLUDED.geographic_range,
			description = EXCLUDED.description
	`, toSpeciesRow(species))
	if err != nil {
		return fmt.Errorf("failed to save species: %w", err)
	}
	return nil
}

// FindByID ищет вид по идентификатору
func (r *SpeciesRepository) FindByID(ctx context.Context, id string) (*entity.Species, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, `SELECT `+speciesColumns+` FROM species WHERE id = $1`, id)
}

// FindByScientificName ищет вид без учета регистра
func (r *SpeciesRepository) FindByScientificName(ctx context.Context, name string) (*entity.Species, error) {
	return r.findOne(ctx,
		`SELECT `+speciesColumns+` FROM species WHERE LOWER(scientific_name) = LOWER($1)`,
		strings.TrimSpace(name))
}

func (r *SpeciesRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Species, error) {
	var row speciesRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	return row.toEntity(), nil
}

// List возвращает виды каталога по фильтру, отсортированные по научному названию
func (r *SpeciesRepository) List(ctx context.Context, filter repository.SpeciesFilter) ([]*entity.Species, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.SpeciesType != "" {
		args = append(args, filter.SpeciesType)
		conditions = append(conditions, fmt.Sprintf("LOWER(species_type) = LOWER($%d)", len(args)))
	}
	if filter.ConservationStatus != "" {
		args = append(args, filter.ConservationStatus.String())
		conditions = append(conditions, fmt.Sprintf("conservation_status = $%d", len(args)))
	}
	if filter.ThreatLevel != "" {
		args = append(args, filter.ThreatLevel.String())
		conditions = append(conditions, fmt.Sprintf("threat_level = $%d", len(args)))
	}

	query := `SELECT ` + speciesColumns + ` FROM species`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY scientific_name`

	var rows []speciesRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}

	result := make([]*entity.Species, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

// Count возвращает размер каталога
func (r *SpeciesRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM species`); err != nil {
		return 0, fmt.Errorf("failed to count species: %w", err)
	}
	return count, nil
}

// CountThreatened возвращает количество видов с угрозой high или critical
func (r *SpeciesRepository) CountThreatened(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM species WHERE threat_level IN ($1, $2)`,
		valueobject.ThreatHigh.String(), valueobject.ThreatCritical.String())
	if err != nil {
		return 0, fmt.Errorf("failed to count threatened species: %w", err)
	}
	return count, nil
}

// ObservationRepository реализует repository.ObservationRepository для PostgreSQL
type ObservationRepository struct {
	db *sqlx.DB
}

// NewObservationRepository создает новый PostgreSQL repository наблюдений
func NewObservationRepository(db *sqlx.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// Save сохраняет наблюдение
func (r *ObservationRepository) Save(ctx context.Context, observation *entity.SpeciesObservation) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO species_observations (id, species_id, latitude, longitude, observation_count,
			confidence_level, observation_method, observer_type, observed_at, notes)
		VALUES (:id, :species_id, :latitude, :longitude, :observation_count,
			:confidence_level, :observation_method, :observer_type, :observed_at, :notes)
	`, toObservationRow(observation))
	if err != nil {
		return fmt.Errorf("failed to save observation: %w", err)
	}
	return nil
}

// CountSince возвращает количество наблюдений начиная с момента since
func (r *ObservationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM species_observations WHERE observed_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}
