package usecase

import (
	"context"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// DashboardAlertLimit - сколько алертов показывает главная страница
const DashboardAlertLimit = 5

// GetDashboardOverviewUseCase собирает данные главной страницы из отдельных use case.
// Ошибка одной секции не скрывает остальные.
type GetDashboardOverviewUseCase struct {
	conditions     *GetOceanConditionsUseCase
	sustainability *GetSustainabilityMetricsUseCase
	alerts         *GetAlertsUseCase
	logger         *logger.Logger
}

// NewGetDashboardOverviewUseCase создает новый use case
func NewGetDashboardOverviewUseCase(
	conditions *GetOceanConditionsUseCase,
	sustainability *GetSustainabilityMetricsUseCase,
	alerts *GetAlertsUseCase,
	logger *logger.Logger,
) *GetDashboardOverviewUseCase {
	return &GetDashboardOverviewUseCase{
		conditions:     conditions,
		sustainability: sustainability,
		alerts:         alerts,
		logger:         logger,
	}
}

// Execute возвращает обзор. Ошибка возвращается, только если не загрузилась ни одна секция.
func (uc *GetDashboardOverviewUseCase) Execute(ctx context.Context) (*dto.DashboardOverviewDTO, error) {
	overview := &dto.DashboardOverviewDTO{RecentAlerts: []*dto.AlertDTO{}}
	var firstErr error

	fail := func(section string, err error) {
		uc.logger.Warn("Dashboard section unavailable", "section", section, "error", err.Error())
		overview.Degraded = append(overview.Degraded, section)
		if firstErr == nil {
			firstErr = err
		}
	}

	if conditions, err := uc.conditions.Execute(ctx, OceanConditionsQuery{}); err != nil {
		fail("conditions", err)
	} else {
		overview.Conditions = conditions
	}

	if snapshot, err := uc.sustainability.Execute(ctx); err != nil {
		fail("sustainability", err)
	} else {
		overview.Sustainability = snapshot
	}

	if alerts, err := uc.alerts.Execute(ctx, DashboardAlertLimit); err != nil {
		fail("alerts", err)
	} else {
		overview.RecentAlerts = alerts
	}

	if len(overview.Degraded) == 3 {
		return nil, firstErr
	}
	return overview, nil
}
