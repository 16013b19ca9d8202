package handler

import (
	"net/http"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// AlertsAPIHandler обрабатывает запросы алертов и показателей устойчивости
type AlertsAPIHandler struct {
	getAlertsUC         *usecase.GetAlertsUseCase
	resolveAlertUC      *usecase.ResolveAlertUseCase
	getSustainabilityUC *usecase.GetSustainabilityMetricsUseCase
	logger              *logger.Logger
}

// NewAlertsAPIHandler создает новый handler
func NewAlertsAPIHandler(
	getAlertsUC *usecase.GetAlertsUseCase,
	resolveAlertUC *usecase.ResolveAlertUseCase,
	getSustainabilityUC *usecase.GetSustainabilityMetricsUseCase,
	logger *logger.Logger,
) *AlertsAPIHandler {
	return &AlertsAPIHandler{
		getAlertsUC:         getAlertsUC,
		resolveAlertUC:      resolveAlertUC,
		getSustainabilityUC: getSustainabilityUC,
		logger:              logger,
	}
}

// GetAlerts возвращает активные алерты, новые первыми
func (h *AlertsAPIHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	alerts, err := h.getAlertsUC.Execute(r.Context(), limit)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch alerts")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, alerts)
}

// ResolveAlert закрывает алерт: POST /api/alerts/{id}/resolve
func (h *AlertsAPIHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	id := r.PathValue("id")
	if err := h.resolveAlertUC.Execute(r.Context(), id); err != nil {
		writeJSONError(w, h.logger, err, "failed to resolve alert")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"resolved": true,
	})
}

func (h *AlertsAPIHandler) GetSustainabilityMetrics(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := h.getSustainabilityUC.Execute(r.Context())
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to compute sustainability metrics")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, snapshot)
}
