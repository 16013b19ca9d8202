package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// AlertsConfig - ограничения выдачи алертов
type AlertsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// GetAlertsUseCase возвращает активные алерты, новые первыми
type GetAlertsUseCase struct {
	repository repository.AlertRepository
	config     AlertsConfig
	logger     *logger.Logger
}

// NewGetAlertsUseCase создает новый use case
func NewGetAlertsUseCase(
	repository repository.AlertRepository,
	config AlertsConfig,
	logger *logger.Logger,
) *GetAlertsUseCase {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 10
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	if config.MaxLimit < config.DefaultLimit {
		config.MaxLimit = config.DefaultLimit
	}
	return &GetAlertsUseCase{
		repository: repository,
		config:     config,
		logger:     logger,
	}
}

// Execute возвращает не более limit активных алертов. limit = 0 означает значение по умолчанию.
func (uc *GetAlertsUseCase) Execute(ctx context.Context, limit int) ([]*dto.AlertDTO, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	if limit == 0 {
		limit = uc.config.DefaultLimit
	}
	if limit > uc.config.MaxLimit {
		limit = uc.config.MaxLimit
	}

	alerts, err := uc.repository.FindActive(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to fetch active alerts", err)
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	// Хранилище уже сортирует, но порядок выдачи гарантируется здесь
	return dto.ToAlertDTOs(service.SortAlertsNewestFirst(alerts, limit)), nil
}

// ResolveAlertUseCase закрывает активный алерт
type ResolveAlertUseCase struct {
	repository repository.AlertRepository
	events     port.EventPublisher
	logger     *logger.Logger
	now        func() time.Time
}

// NewResolveAlertUseCase создает новый use case
func NewResolveAlertUseCase(
	repository repository.AlertRepository,
	events port.EventPublisher, // Can be nil if NATS disabled
	logger *logger.Logger,
) *ResolveAlertUseCase {
	return &ResolveAlertUseCase{
		repository: repository,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// AlertResolvedEvent публикуется после закрытия алерта
type AlertResolvedEvent struct {
	ID         string    `json:"id"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Execute закрывает алерт. Возвращает repository.ErrNotFound, если активного алерта нет.
func (uc *ResolveAlertUseCase) Execute(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: alert id is required", ErrInvalidQuery)
	}

	at := uc.now().UTC()
	if err := uc.repository.Resolve(ctx, id, at); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		uc.logger.Error("Failed to resolve alert", err, "id", id)
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	uc.logger.Info("Alert resolved", "id", id)

	if uc.events != nil {
		event := AlertResolvedEvent{ID: id, ResolvedAt: at}
		if err := uc.events.PublishEvent(ctx, port.SubjectAlertResolved, event); err != nil {
			uc.logger.Warn("Failed to publish alert resolved event", "error", err.Error())
		}
	}

	return nil
}
