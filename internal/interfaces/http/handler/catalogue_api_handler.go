package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const dateLayout = "2006-01-02"

// CatalogueAPIHandler обрабатывает справочные данные: виды, промысел, биоразнообразие
type CatalogueAPIHandler struct {
	getSpeciesUC      *usecase.GetSpeciesUseCase
	getFisheriesUC    *usecase.GetFisheriesUseCase
	getBiodiversityUC *usecase.GetBiodiversityUseCase
	logger            *logger.Logger
}

// NewCatalogueAPIHandler создает новый handler
func NewCatalogueAPIHandler(
	getSpeciesUC *usecase.GetSpeciesUseCase,
	getFisheriesUC *usecase.GetFisheriesUseCase,
	getBiodiversityUC *usecase.GetBiodiversityUseCase,
	logger *logger.Logger,
) *CatalogueAPIHandler {
	return &CatalogueAPIHandler{
		getSpeciesUC:      getSpeciesUC,
		getFisheriesUC:    getFisheriesUC,
		getBiodiversityUC: getBiodiversityUC,
		logger:            logger,
	}
}

// GetSpecies возвращает каталог видов; фильтры type, status, threat
func (h *CatalogueAPIHandler) GetSpecies(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	species, err := h.getSpeciesUC.Execute(r.Context(), usecase.SpeciesQuery{
		SpeciesType:        strings.TrimSpace(q.Get("type")),
		ConservationStatus: strings.TrimSpace(q.Get("status")),
		ThreatLevel:        strings.TrimSpace(q.Get("threat")),
	})
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch species")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, species)
}

// GetFisheries возвращает записи о вылове за период start_date..end_date (YYYY-MM-DD)
func (h *CatalogueAPIHandler) GetFisheries(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var query usecase.FisheriesQuery
	for _, param := range []struct {
		name   string
		target *time.Time
		endDay bool
	}{
		{"start_date", &query.Start, false},
		{"end_date", &query.End, true},
	} {
		raw := strings.TrimSpace(r.URL.Query().Get(param.name))
		if raw == "" {
			continue
		}
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeBadRequest(w, param.name+" must be a date in YYYY-MM-DD format")
			return
		}
		// end_date включает весь указанный день
		if param.endDay {
			day = day.Add(24*time.Hour - time.Nanosecond)
		}
		*param.target = day
	}

	catches, err := h.getFisheriesUC.Execute(r.Context(), query)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch fisheries data")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, catches)
}

func (h *CatalogueAPIHandler) GetFisheriesSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := h.getFisheriesUC.ExecuteSummary(r.Context())
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to compute fisheries summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, summary)
}

// GetBiodiversityIndex возвращает оценки биоразнообразия, новые первыми
func (h *CatalogueAPIHandler) GetBiodiversityIndex(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	items, err := h.getBiodiversityUC.Execute(r.Context(), limit)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch biodiversity index")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, items)
}

func (h *CatalogueAPIHandler) GetRegionalTrends(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	items, err := h.getBiodiversityUC.ExecuteRegionalTrends(r.Context())
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to fetch regional trends")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, items)
}
