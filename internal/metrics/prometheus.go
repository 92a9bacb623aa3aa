package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// VitalsIngested counts persisted health records by source.
	VitalsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitals_ingested_total",
			Help: "Total number of health records ingested",
		},
		[]string{"source"},
	)

	// AnomaliesDetected counts flagged records by detection path.
	AnomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomalies_detected_total",
			Help: "Total number of anomalies detected",
		},
		[]string{"method"},
	)

	// ModelsTrained counts completed training runs by model type.
	ModelsTrained = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "models_trained_total",
			Help: "Total number of anomaly model training runs",
		},
		[]string{"model_type"},
	)

	// TrainingDuration observes synchronous in-request training time.
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Anomaly model training duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// AlertsCreated counts alerts by severity.
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"severity"},
	)
)
