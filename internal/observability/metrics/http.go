package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	predictionsTotal     *prometheus.CounterVec
	predictionConfidence *prometheus.HistogramVec
	taskClassTotal       *prometheus.CounterVec
	scoreChecksTotal     *prometheus.CounterVec
	runsScheduledTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clab",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clab",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "predictor",
			Name:      "predictions_total",
			Help:      "Total strategy predictions by selected strategy.",
		},
		[]string{"service", "strategy"},
	)
	predictionConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clab",
			Subsystem: "predictor",
			Name:      "prediction_confidence",
			Help:      "Distribution of prediction confidence values.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
		},
		[]string{"service", "strategy"},
	)
	taskClassTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "predictor",
			Name:      "task_classifications_total",
			Help:      "Total task classifications by detected task type.",
		},
		[]string{"service", "task_type"},
	)
	scoreChecksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "scoring",
			Name:      "checks_total",
			Help:      "Total schema checks by result.",
		},
		[]string{"service", "result"},
	)
	runsScheduledTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "runs",
			Name:      "scheduled_total",
			Help:      "Total experiment runs accepted for execution.",
		},
		[]string{"service", "mode"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		predictionsTotal,
		predictionConfidence,
		taskClassTotal,
		scoreChecksTotal,
		runsScheduledTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		predictionsTotal:     predictionsTotal,
		predictionConfidence: predictionConfidence,
		taskClassTotal:       taskClassTotal,
		scoreChecksTotal:     scoreChecksTotal,
		runsScheduledTotal:   runsScheduledTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/experiments/"):
		return "/v1/experiments/{run_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordPrediction(service, strategy string, confidence float64) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.predictionsTotal.WithLabelValues(service, strategy).Inc()
	m.predictionConfidence.WithLabelValues(service, strategy).Observe(confidence)
}

func (m *HTTPServerMetrics) RecordTaskClassification(service, taskType string) {
	if taskType == "" {
		taskType = "unknown"
	}
	m.taskClassTotal.WithLabelValues(service, taskType).Inc()
}

func (m *HTTPServerMetrics) RecordScoreCheck(service string, passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	m.scoreChecksTotal.WithLabelValues(service, result).Inc()
}

func (m *HTTPServerMetrics) RecordRunScheduled(service, mode string) {
	if mode == "" {
		mode = "unknown"
	}
	m.runsScheduledTotal.WithLabelValues(service, mode).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
