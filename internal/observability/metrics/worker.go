package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	runTotal         *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	runInFlight      prometheus.Gauge
	queueLag         *prometheus.HistogramVec
	casesTotal       *prometheus.CounterVec
	tokensSavedTotal *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	runTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "run_total",
			Help:      "Total executed experiment runs by status.",
		},
		[]string{"service", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "run_duration_seconds",
			Help:      "Experiment run duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	runInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "run_in_flight",
			Help:      "Number of in-flight experiment runs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between run scheduling and execution start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	casesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "cases_total",
			Help:      "Total evaluated sentences by schema check result.",
		},
		[]string{"service", "result"},
	)
	tokensSavedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clab",
			Subsystem: "worker",
			Name:      "tokens_saved_total",
			Help:      "Approximate prompt tokens avoided by adaptive selection.",
		},
		[]string{"service"},
	)

	registry.MustRegister(runTotal, runDuration, runInFlight, queueLag, casesTotal, tokensSavedTotal)

	return &WorkerMetrics{
		registry:         registry,
		runTotal:         runTotal,
		runDuration:      runDuration,
		runInFlight:      runInFlight,
		queueLag:         queueLag,
		casesTotal:       casesTotal,
		tokensSavedTotal: tokensSavedTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRun() {
	m.runInFlight.Inc()
}

func (m *WorkerMetrics) FinishRun(service string, duration time.Duration, err error) {
	m.runInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.runTotal.WithLabelValues(service, status).Inc()
	m.runDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordCase(service string, passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	m.casesTotal.WithLabelValues(service, result).Inc()
}

func (m *WorkerMetrics) AddTokensSaved(service string, tokens int) {
	if tokens <= 0 {
		return
	}
	m.tokensSavedTotal.WithLabelValues(service).Add(float64(tokens))
}
