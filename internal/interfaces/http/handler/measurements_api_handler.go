package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/usecase"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const (
	defaultMaxMeasurementPayload = 8 * 1024 * 1024
	ingestSourceHTTP             = "http"
)

// MeasurementsAPIHandler принимает пакеты измерений от датчиков
type MeasurementsAPIHandler struct {
	recordMeasurementsUC *usecase.RecordMeasurementsUseCase
	metrics              *metrics.Metrics
	maxPayloadBytes      int64
	logger               *logger.Logger
}

type measurementsEnvelope struct {
	Points []dto.MeasurementInputDTO `json:"points"`
}

// NewMeasurementsAPIHandler создает новый handler
func NewMeasurementsAPIHandler(
	recordMeasurementsUC *usecase.RecordMeasurementsUseCase,
	m *metrics.Metrics, // Can be nil if Prometheus disabled
	maxPayloadBytes int64,
	logger *logger.Logger,
) *MeasurementsAPIHandler {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = defaultMaxMeasurementPayload
	}

	return &MeasurementsAPIHandler{
		recordMeasurementsUC: recordMeasurementsUC,
		metrics:              m,
		maxPayloadBytes:      maxPayloadBytes,
		logger:               logger,
	}
}

// RecordMeasurements принимает JSON массив точек или объект {"points": [...]}
func (h *MeasurementsAPIHandler) RecordMeasurements(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPayloadBytes)
	defer r.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(r.Body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload too large"})
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}

	inputs, err := decodeMeasurements(body.Bytes())
	if err != nil {
		h.observeRejected()
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.recordMeasurementsUC.Execute(r.Context(), inputs)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			h.observeRejected()
		}
		writeJSONError(w, h.logger, err, "failed to record measurements")
		return
	}

	if h.metrics != nil {
		h.metrics.MeasurementsRecorded.WithLabelValues(ingestSourceHTTP).Add(float64(result.Recorded))
		h.metrics.AlertsRaised.Add(float64(result.AlertsRaised))
	}

	middleware.WriteJSON(w, http.StatusCreated, result)
}

func (h *MeasurementsAPIHandler) observeRejected() {
	if h.metrics != nil {
		h.metrics.MeasurementsRejected.WithLabelValues(ingestSourceHTTP).Inc()
	}
}

func decodeMeasurements(body []byte) ([]dto.MeasurementInputDTO, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("request body is empty")
	}

	var inputs []dto.MeasurementInputDTO
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, errors.New("invalid JSON array of measurements")
		}
		return inputs, nil
	}

	var envelope measurementsEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, errors.New("invalid JSON body: expected an array or {\"points\": [...]}")
	}
	return envelope.Points, nil
}
