package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const (
	// MaxIdentificationImageBytes - предел размера изображения после декодирования
	MaxIdentificationImageBytes = 10 * 1024 * 1024

	// base64 увеличивает размер на треть, плюс поля формы
	maxIdentificationPayload = MaxIdentificationImageBytes*4/3 + 64*1024
)

var errImageTooLarge = errors.New("image exceeds 10 MiB")

// IdentificationAPIHandler обрабатывает распознавание видов и историю распознаваний
type IdentificationAPIHandler struct {
	identifySpeciesUC     *usecase.IdentifySpeciesUseCase
	listIdentificationsUC *usecase.ListIdentificationsUseCase
	metrics               *metrics.Metrics
	logger                *logger.Logger
}

type identifyRequest struct {
	ImageData string `json:"image_data"`
	Location  string `json:"location"`
}

// NewIdentificationAPIHandler создает новый handler
func NewIdentificationAPIHandler(
	identifySpeciesUC *usecase.IdentifySpeciesUseCase,
	listIdentificationsUC *usecase.ListIdentificationsUseCase,
	m *metrics.Metrics, // Can be nil if Prometheus disabled
	logger *logger.Logger,
) *IdentificationAPIHandler {
	return &IdentificationAPIHandler{
		identifySpeciesUC:     identifySpeciesUC,
		listIdentificationsUC: listIdentificationsUC,
		metrics:               m,
		logger:                logger,
	}
}

// Identify принимает multipart поле image (+ location) или JSON {image_data, location}
func (h *IdentificationAPIHandler) Identify(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxIdentificationPayload)
	defer r.Body.Close()

	cmd, err := readIdentifyCommand(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, errImageTooLarge) {
			middleware.WriteJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: errImageTooLarge.Error()})
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.identifySpeciesUC.Execute(r.Context(), cmd)
	if err != nil {
		h.observe("unknown", "error")
		writeJSONError(w, h.logger, err, "failed to identify species")
		return
	}

	outcome := "identified"
	if result.Error != "" {
		outcome = "unidentified"
	}
	h.observe(result.Source, outcome)

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ListIdentifications возвращает историю: ?limit&cursor&from&to (RFC3339)
func (h *IdentificationAPIHandler) ListIdentifications(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cmd := usecase.ListIdentificationsCommand{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}
	for _, param := range []struct {
		name   string
		target *time.Time
	}{
		{"from", &cmd.From},
		{"to", &cmd.To},
	} {
		raw := strings.TrimSpace(r.URL.Query().Get(param.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, param.name+" must be an RFC3339 timestamp")
			return
		}
		*param.target = t
	}

	history, err := h.listIdentificationsUC.Execute(r.Context(), cmd)
	if err != nil {
		writeJSONError(w, h.logger, err, "failed to list identifications")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, history)
}

func (h *IdentificationAPIHandler) observe(source, outcome string) {
	if h.metrics != nil {
		h.metrics.Identifications.WithLabelValues(source, outcome).Inc()
	}
}

func readIdentifyCommand(r *http.Request) (usecase.IdentifySpeciesCommand, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(MaxIdentificationImageBytes); err != nil {
			return usecase.IdentifySpeciesCommand{}, err
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return usecase.IdentifySpeciesCommand{}, errors.New("multipart field image is required")
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, MaxIdentificationImageBytes+1))
		if err != nil {
			return usecase.IdentifySpeciesCommand{}, fmt.Errorf("failed to read image: %w", err)
		}
		if len(image) > MaxIdentificationImageBytes {
			return usecase.IdentifySpeciesCommand{}, errImageTooLarge
		}

		return usecase.IdentifySpeciesCommand{Image: image, Location: r.FormValue("location")}, nil
	}

	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return usecase.IdentifySpeciesCommand{}, err
		}
		return usecase.IdentifySpeciesCommand{}, errors.New("invalid request body")
	}

	image, err := decodeBase64Image(req.ImageData)
	if err != nil {
		return usecase.IdentifySpeciesCommand{}, err
	}

	return usecase.IdentifySpeciesCommand{Image: image, Location: req.Location}, nil
}

// decodeBase64Image декодирует base64 с необязательным префиксом data URL
func decodeBase64Image(raw string) ([]byte, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, errors.New("image_data is required")
	}

	if strings.HasPrefix(value, "data:") {
		_, payload, ok := strings.Cut(value, ",")
		if !ok {
			return nil, errors.New("invalid data URL")
		}
		value = payload
	}

	if base64.StdEncoding.DecodedLen(len(value)) > MaxIdentificationImageBytes+3 {
		return nil, errImageTooLarge
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.New("image_data must be valid base64")
	}
	if len(decoded) > MaxIdentificationImageBytes {
		return nil, errImageTooLarge
	}

	return decoded, nil
}
