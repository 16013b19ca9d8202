package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
)

const measurementColumns = `id, parameter, value, latitude, longitude, location_name, recorded_at, created_at`

// MeasurementRepository реализует repository.MeasurementRepository для PostgreSQL
type MeasurementRepository struct {
	db *sqlx.DB
}

// NewMeasurementRepository создает новый PostgreSQL repository
func NewMeasurementRepository(db *sqlx.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// SaveBatch сохраняет измерения одной транзакцией (multi-row insert)
func (r *MeasurementRepository) SaveBatch(ctx context.Context, points []*entity.MeasurementPoint) error {
	if len(points) == 0 {
		return nil
	}

	rows := make([]measurementRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, toMeasurementRow(p))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO measurements (`+measurementColumns+`)
		VALUES (:id, :parameter, :value, :latitude, :longitude, :location_name, :recorded_at, :created_at)
	`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert measurements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Find возвращает измерения по запросу, новые первыми
func (r *MeasurementRepository) Find(ctx context.Context, query repository.MeasurementQuery) ([]*entity.MeasurementPoint, error) {
	conditions := []string{"recorded_at >= $1", "recorded_at <= $2"}
	args := []interface{}{query.TimeRange.Start(), query.TimeRange.End()}

	if len(query.Parameters) > 0 {
		names := make([]string, 0, len(query.Parameters))
		for _, p := range query.Parameters {
			names = append(names, p.String())
		}
		args = append(args, pq.Array(names))
		conditions = append(conditions, fmt.Sprintf("parameter = ANY($%d)", len(args)))
	}

	if b := query.Bounds; b != nil {
		args = append(args, b.MinLat(), b.MaxLat(), b.MinLng(), b.MaxLng())
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("latitude BETWEEN $%d AND $%d", n-3, n-2),
			fmt.Sprintf("longitude BETWEEN $%d AND $%d", n-1, n),
		)
	}

	sqlQuery := `SELECT ` + measurementColumns + ` FROM measurements WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY recorded_at DESC`
	if query.Limit > 0 {
		args = append(args, query.Limit)
		sqlQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []measurementRow
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	return toMeasurements(rows), nil
}

// DeleteOlderThan удаляет измерения старше указанного момента (retention)
func (r *MeasurementRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM measurements WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old measurements: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return deleted, nil
}

// Count возвращает общее количество измерений
func (r *MeasurementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM measurements`); err != nil {
		return 0, fmt.Errorf("failed to count measurements: %w", err)
	}
	return count, nil
}

func toMeasurements(rows []measurementRow) []*entity.MeasurementPoint {
	points := make([]*entity.MeasurementPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, row.toEntity())
	}
	return points
}
