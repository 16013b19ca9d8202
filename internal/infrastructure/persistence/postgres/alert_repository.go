package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
)

const alertColumns = `id, alert_type, severity, title, description, location_name,
	latitude, longitude, is_active, created_at, resolved_at`

// AlertRepository реализует repository.AlertRepository для PostgreSQL
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository создает новый PostgreSQL repository алертов
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Save сохраняет алерт
func (r *AlertRepository) Save(ctx context.Context, alert *entity.Alert) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES (:id, :alert_type, :severity, :title, :description, :location_name,
			:latitude, :longitude, :is_active, :created_at, :resolved_at)
	`, toAlertRow(alert))
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// FindActive возвращает активные алерты, новые первыми
func (r *AlertRepository) FindActive(ctx context.Context, limit int) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE is_active ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []alertRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}

	result := make([]*entity.Alert, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

// CountActive возвращает количество активных алертов
func (r *AlertRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM alerts WHERE is_active`); err != nil {
		return 0, fmt.Errorf("failed to count active alerts: %w", err)
	}
	return count, nil
}

// Resolve закрывает активный алерт
func (r *AlertRepository) Resolve(ctx context.Context, id string, at time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET is_active = FALSE, resolved_at = $2 WHERE id = $1 AND is_active`,
		id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if updated == 0 {
		return repository.ErrNotFound
	}
	return nil
}
