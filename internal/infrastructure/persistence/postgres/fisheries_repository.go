package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// FisheriesRepository реализует repository.FisheriesRepository для PostgreSQL
type FisheriesRepository struct {
	db *sqlx.DB
}

// NewFisheriesRepository создает новый PostgreSQL repository выловов
func NewFisheriesRepository(db *sqlx.DB) *FisheriesRepository {
	return &FisheriesRepository{db: db}
}

// Save сохраняет запись о вылове
func (r *FisheriesRepository) Save(ctx context.Context, c *entity.FisheriesCatch) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO fisheries_catches (id, species_id, catch_amount, fishing_area, latitude, longitude,
			fishing_method, vessel_type, catch_date, quota_limit, sustainability_score, created_at)
		VALUES (:id, :species_id, :catch_amount, :fishing_area, :latitude, :longitude,
			:fishing_method, :vessel_type, :catch_date, :quota_limit, :sustainability_score, :created_at)
	`, toCatchRow(c))
	if err != nil {
		return fmt.Errorf("failed to save catch: %w", err)
	}
	return nil
}

// FindByTimeRange возвращает выловы за период, новые первыми.
// Имя вида берется из каталога: общее название, иначе научное.
func (r *FisheriesRepository) FindByTimeRange(
	ctx context.Context,
	timeRange valueobject.TimeRange,
	limit int,
) ([]*entity.FisheriesCatch, error) {
	query := `
		SELECT c.id, c.species_id, COALESCE(NULLIF(s.common_name, ''), s.scientific_name, '') AS species_name,
			c.catch_amount, c.fishing_area, c.latitude, c.longitude, c.fishing_method, c.vessel_type,
			c.catch_date, c.quota_limit, c.sustainability_score, c.created_at
		FROM fisheries_catches c
		LEFT JOIN species s ON s.id = c.species_id
		WHERE c.catch_date >= $1 AND c.catch_date <= $2
		ORDER BY c.catch_date DESC`
	args := []interface{}{timeRange.Start(), timeRange.End()}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	var rows []catchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query catches: %w", err)
	}

	result := make([]*entity.FisheriesCatch, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

const assessmentColumns = `id, region_name, latitude, longitude, species_count, endemic_species,
	threatened_species, biodiversity_score, ecosystem_health, assessed_at`

// BiodiversityRepository реализует repository.BiodiversityRepository для PostgreSQL
type BiodiversityRepository struct {
	db *sqlx.DB
}

// NewBiodiversityRepository создает новый PostgreSQL repository оценок биоразнообразия
func NewBiodiversityRepository(db *sqlx.DB) *BiodiversityRepository {
	return &BiodiversityRepository{db: db}
}

// Save сохраняет оценку
func (r *BiodiversityRepository) Save(ctx context.Context, a *entity.BiodiversityAssessment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO biodiversity_assessments (`+assessmentColumns+`)
		VALUES (:id, :region_name, :latitude, :longitude, :species_count, :endemic_species,
			:threatened_species, :biodiversity_score, :ecosystem_health, :assessed_at)
	`, toAssessmentRow(a))
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// List возвращает оценки, новые первыми
func (r *BiodiversityRepository) List(ctx context.Context, limit int) ([]*entity.BiodiversityAssessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM biodiversity_assessments ORDER BY assessed_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []assessmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return toAssessments(rows), nil
}

// LatestByRegion возвращает последнюю оценку каждого региона, по имени региона
func (r *BiodiversityRepository) LatestByRegion(ctx context.Context) ([]*entity.BiodiversityAssessment, error) {
	var rows []assessmentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT DISTINCT ON (region_name) `+assessmentColumns+`
		FROM biodiversity_assessments
		ORDER BY region_name, assessed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest assessments: %w", err)
	}
	return toAssessments(rows), nil
}

func toAssessments(rows []assessmentRow) []*entity.BiodiversityAssessment {
	result := make([]*entity.BiodiversityAssessment, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result
}
