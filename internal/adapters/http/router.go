package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
	"contextlab/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	scheduler ports.ExperimentScheduler
	advisor   ports.Advisor
	reader    ports.RunReader
	metrics   *metrics.HTTPServerMetrics
	logger    *slog.Logger
}

func NewRouter(
	scheduler ports.ExperimentScheduler,
	advisor ports.Advisor,
	reader ports.RunReader,
	m *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		scheduler: scheduler,
		advisor:   advisor,
		reader:    reader,
		metrics:   m,
		logger:    logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/predict", rt.predictStrategy)
	mux.HandleFunc("/v1/classify", rt.classifyTask)
	mux.HandleFunc("/v1/score", rt.scoreOutput)
	mux.HandleFunc("/v1/experiments", rt.scheduleExperiment)
	mux.HandleFunc("/v1/experiments/", rt.getExperimentByID)

	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) predictStrategy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	prediction := rt.advisor.PredictStrategy(req.Text)
	if rt.metrics != nil {
		rt.metrics.RecordPrediction(serviceName, string(prediction.Strategy), prediction.Confidence)
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (rt *Router) classifyTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	recommendation := rt.advisor.ClassifyTask(req.Prompt)
	if rt.metrics != nil {
		rt.metrics.RecordTaskClassification(serviceName, string(recommendation.TaskType))
	}
	writeJSON(w, http.StatusOK, recommendation)
}

func (rt *Router) scoreOutput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Output) == "" {
		writeError(w, http.StatusBadRequest, "output is required")
		return
	}

	points, extraction, reason := rt.advisor.ScoreOutput(req.Output)
	if rt.metrics != nil {
		rt.metrics.RecordScoreCheck(serviceName, points == 1)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"score":      points,
		"extraction": extraction,
		"reason":     reason,
	})
}

func (rt *Router) scheduleExperiment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Name    string `json:"name"`
		Mode    string `json:"mode"`
		Dataset string `json:"dataset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	run, err := rt.scheduler.Schedule(r.Context(), req.Name, domain.RunMode(req.Mode), req.Dataset)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRunScheduled(serviceName, string(run.Mode))
	}
	writeJSON(w, http.StatusAccepted, run)
}

func (rt *Router) getExperimentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/experiments/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	if r.URL.Query().Get("include") != "cases" {
		writeJSON(w, http.StatusOK, run)
		return
	}

	cases, err := rt.reader.ListCases(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run":   run,
		"cases": cases,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
