package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const maxHealthAnalyzerResponseBytes = 2 * 1024 * 1024

// HealthAnalyzerAPIHandler проксирует запросы к сервису ocean-health-analyzer
type HealthAnalyzerAPIHandler struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewHealthAnalyzerAPIHandler(baseURL string, timeout time.Duration, log *logger.Logger) *HealthAnalyzerAPIHandler {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}

	return &HealthAnalyzerAPIHandler{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Enabled сообщает, задан ли адрес анализатора
func (h *HealthAnalyzerAPIHandler) Enabled() bool {
	return h.baseURL != ""
}

func (h *HealthAnalyzerAPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	h.forward(r.Context(), w, http.MethodGet, "/api/v1/health-analyzer/summary")
}

func (h *HealthAnalyzerAPIHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	h.forward(r.Context(), w, http.MethodPost, "/api/v1/health-analyzer/run")
}

func (h *HealthAnalyzerAPIHandler) forward(ctx context.Context, w http.ResponseWriter, method, path string) {
	if !h.Enabled() {
		middleware.WriteJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "health analyzer URL is not configured",
		})
		return
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, nil)
	if err != nil {
		h.logger.Error("Failed to build health analyzer request", err, "path", path)
		middleware.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to build health analyzer request"})
		return
	}
	req.Header.Set("Accept", "application/json")
	if requestID := middleware.RequestID(ctx); requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("Health analyzer request failed", "path", path, "error", err.Error())
		middleware.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: "health analyzer is unavailable"})
		return
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, maxHealthAnalyzerResponseBytes)
	if err != nil {
		h.logger.Error("Failed to read health analyzer response", err, "path", path)
		middleware.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to read health analyzer response"})
		return
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = "application/json"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("Failed to write health analyzer response", "path", path, "error", err.Error())
	}
}

// readLimited читает не более limit байт; более длинное тело считается ошибкой
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}
