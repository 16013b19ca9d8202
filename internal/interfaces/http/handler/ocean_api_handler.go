package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// OceanAPIHandler обрабатывает API запросы океанографических данных
type OceanAPIHandler struct {
	getOceanDataUC       *usecase.GetOceanDataUseCase
	getOceanConditionsUC *usecase.GetOceanConditionsUseCase
	logger               *logger.Logger
}

// NewOceanAPIHandler создает новый handler
func NewOceanAPIHandler(
	getOceanDataUC *usecase.GetOceanDataUseCase,
	getOceanConditionsUC *usecase.GetOceanConditionsUseCase,
	logger *logger.Logger,
) *OceanAPIHandler {
	return &OceanAPIHandler{
		getOceanDataUC:       getOceanDataUC,
		getOceanConditionsUC: getOceanConditionsUC,
		logger:               logger,
	}
}

// GetOceanData возвращает измерения последних 30 дней в границах области
func (h *OceanAPIHandler) GetOceanData(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	bounds, err := queryBounds(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := h.getOceanDataUC.Execute(r.Context(), bounds)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch ocean data")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, points)
}

// GetConditions возвращает средние значения параметров и индекс здоровья за окно
func (h *OceanAPIHandler) GetConditions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := usecase.OceanConditionsQuery{}

	if raw := strings.TrimSpace(r.URL.Query().Get("window")); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil || window <= 0 {
			writeBadRequest(w, "window must be a positive duration such as 24h")
			return
		}
		query.Window = window
	}

	bounds, err := queryBounds(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	query.Bounds = bounds

	conditions, err := h.getOceanConditionsUC.Execute(r.Context(), query)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to compute ocean conditions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, conditions)
}

// GetTemperatureTrends возвращает среднесуточную температуру.
// ?parameter= позволяет запросить ряд другого параметра.
func (h *OceanAPIHandler) GetTemperatureTrends(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	days, err := queryInt(r, "days", 30)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	parameter := valueobject.Temperature
	if raw := r.URL.Query().Get("parameter"); raw != "" {
		parameter, err = valueobject.ParseParameter(raw)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	trend, err := h.getOceanDataUC.ExecuteTrend(r.Context(), parameter, days)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to compute trend")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, trend)
}
