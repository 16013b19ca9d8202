package healthanalyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type Handler struct {
	runner  *Runner
	metrics http.Handler
}

// NewHandler создает handler; metricsHandler может быть nil
func NewHandler(runner *Runner, metricsHandler http.Handler) *Handler {
	return &Handler{runner: runner, metrics: metricsHandler}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", h.healthz)
	mux.HandleFunc("/readyz", h.readyz)
	mux.HandleFunc("/api/v1/health-analyzer/summary", h.summary)
	mux.HandleFunc("/api/v1/health-analyzer/run", h.runNow)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics)
	}

	return mux
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := h.runner.Snapshot()

	response := map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(snapshot.StartedAt).Round(time.Second).String(),
		"last_error": snapshot.LastError,
	}
	if !snapshot.LastRunAt.IsZero() {
		response["last_run"] = snapshot.LastRunAt.UTC().Format(time.RFC3339)
	}
	if snapshot.LastSummary != nil {
		response["locations"] = snapshot.LastSummary.LocationsTotal
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if reason := notReadyReason(h.runner.Snapshot(), time.Now()); reason != "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": reason,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// notReadyReason: готов, если последний цикл успешен и не старше трех интервалов
func notReadyReason(snapshot Snapshot, now time.Time) string {
	switch {
	case snapshot.LastRunAt.IsZero():
		return "no analyzer cycle yet"
	case snapshot.LastError != "":
		return "last cycle failed"
	case now.Sub(snapshot.LastRunAt) > snapshot.Interval*3:
		return "stale analyzer cycle"
	default:
		return ""
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, h.runner.Snapshot())
}

func (h *Handler) runNow(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	summary, err := h.runner.RunOnce(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(data)
}
