package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/view"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// DashboardHandler отображает HTML страницы дашборда
type DashboardHandler struct {
	getOverviewUC  *usecase.GetDashboardOverviewUseCase
	getSpeciesUC   *usecase.GetSpeciesUseCase
	getFisheriesUC *usecase.GetFisheriesUseCase
	getAlertsUC    *usecase.GetAlertsUseCase
	refreshSeconds int
	logger         *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	getOverviewUC *usecase.GetDashboardOverviewUseCase,
	getSpeciesUC *usecase.GetSpeciesUseCase,
	getFisheriesUC *usecase.GetFisheriesUseCase,
	getAlertsUC *usecase.GetAlertsUseCase,
	refreshInterval time.Duration,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		getOverviewUC:  getOverviewUC,
		getSpeciesUC:   getSpeciesUC,
		getFisheriesUC: getFisheriesUC,
		getAlertsUC:    getAlertsUC,
		refreshSeconds: int(refreshInterval / time.Second),
		logger:         logger,
	}
}

// ShowDashboard отображает главную страницу. "/" обслуживает только корень, остальное - 404.
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/dashboard" {
		h.render(w, r, http.StatusNotFound, view.ErrorPage("Page not found", "The requested page does not exist."))
		return
	}
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	// Overview деградирует по секциям и ошибку не возвращает при частичных данных
	overview, err := h.getOverviewUC.Execute(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.Dashboard(view.DashboardPage{
		Overview:       overview,
		RefreshSeconds: h.refreshSeconds,
	}))
}

func (h *DashboardHandler) ShowSpecies(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	species, err := h.getSpeciesUC.Execute(r.Context(), usecase.SpeciesQuery{
		SpeciesType:        strings.TrimSpace(q.Get("type")),
		ConservationStatus: strings.TrimSpace(q.Get("status")),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.Species(view.SpeciesPage{
		Species:        species,
		RefreshSeconds: h.refreshSeconds,
	}))
}

func (h *DashboardHandler) ShowFisheries(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	catches, err := h.getFisheriesUC.Execute(r.Context(), usecase.FisheriesQuery{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	// Сводка необязательна: страница показывается и без нее
	var summary *dto.FisheriesSummaryDTO
	if s, err := h.getFisheriesUC.ExecuteSummary(r.Context()); err == nil {
		summary = s
	} else {
		h.logger.Warn("Fisheries summary unavailable", "error", err.Error())
	}

	h.render(w, r, http.StatusOK, view.Fisheries(view.FisheriesPage{
		Summary:        summary,
		Catches:        catches,
		RefreshSeconds: h.refreshSeconds,
	}))
}

func (h *DashboardHandler) ShowAlerts(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	alerts, err := h.getAlertsUC.Execute(r.Context(), 0)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.Alerts(view.AlertsPage{
		Alerts:         alerts,
		RefreshSeconds: h.refreshSeconds,
	}))
}

func (h *DashboardHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Failed to load page data", err, "path", r.URL.Path)
		message = "The page could not be loaded. Please try again later."
	}
	h.render(w, r, status, view.ErrorPage(http.StatusText(status), message))
}

// render рендерит Templ компонент с указанным статусом
func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render page", err, "path", r.URL.Path)
	}
}
