package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor переводит ошибку use case в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery),
		errors.Is(err, usecase.ErrInvalidImage),
		errors.Is(err, service.ErrInvalidMeasurement):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrIdentificationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError пишет ошибку в формате {"error": "..."}.
// Текст внутренних ошибок клиенту не отдается.
func writeJSONError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(fallback, err)
		message = fallback
	}

	middleware.WriteJSON(w, status, errorResponse{Error: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// allowMethod отвечает 405, если метод запроса не совпадает
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}

	w.Header().Set("Allow", method)
	middleware.WriteJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	return false
}

// queryInt читает целочисленный параметр; пустое значение дает fallback
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return value, nil
}

// queryBounds читает lat_min, lat_max, lng_min, lng_max.
// Область задается всеми четырьмя параметрами или не задается вовсе.
func queryBounds(r *http.Request) (*valueobject.BoundingBox, error) {
	names := [4]string{"lat_min", "lat_max", "lng_min", "lng_max"}
	q := r.URL.Query()

	var (
		values [4]float64
		given  int
	)
	for i, name := range names {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New(name + " must be a number")
		}
		values[i] = v
		given++
	}

	switch given {
	case 0:
		return nil, nil
	case len(names):
		box, err := valueobject.NewBoundingBox(values[0], values[1], values[2], values[3])
		if err != nil {
			return nil, err
		}
		return &box, nil
	default:
		return nil, errors.New("lat_min, lat_max, lng_min and lng_max must be given together")
	}
}
