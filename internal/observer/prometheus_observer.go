package observer

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver turns prediction events into Prometheus metrics
type PrometheusObserver struct {
	predictions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	confidence  *prometheus.HistogramVec
	modelLoaded prometheus.Gauge
}

// NewPrometheusObserver creates the collectors and registers them with registry.
func NewPrometheusObserver(registry prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teeth_predictions_total",
				Help: "Total number of successful predictions by label",
			},
			[]string{"label"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teeth_prediction_failures_total",
				Help: "Total number of failed predictions by error type",
			},
			[]string{"error_type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teeth_prediction_duration_seconds",
				Help:    "Time from upload to label, including decode and inference",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
			},
			[]string{"outcome"},
		),
		confidence: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teeth_prediction_confidence_percent",
				Help:    "Confidence of the winning label",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"label"},
		),
		modelLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "teeth_model_loaded",
				Help: "Whether the classifier model is loaded (1) or not (0)",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		o.predictions, o.failures, o.duration, o.confidence, o.modelLoaded,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register prediction metrics: %w", err)
		}
	}
	return o, nil
}

// OnEvent records the event in the matching collectors
func (o *PrometheusObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	switch event.EventType {
	case PredictionCompleted:
		label := string(event.Label)
		o.predictions.WithLabelValues(label).Inc()
		o.confidence.WithLabelValues(label).Observe(event.ConfidencePercent)
		o.duration.WithLabelValues("success").Observe(event.ProcessingTime.Seconds())
	case PredictionFailed:
		errorType := event.ErrorType
		if errorType == "" {
			errorType = "unknown"
		}
		o.failures.WithLabelValues(errorType).Inc()
		o.duration.WithLabelValues("error").Observe(event.ProcessingTime.Seconds())
	case ModelLoaded:
		o.modelLoaded.Set(1)
	case ModelLoadFailed:
		o.modelLoaded.Set(0)
	}
}

// GetObserverName returns the observer name
func (o *PrometheusObserver) GetObserverName() string {
	return "prometheus_observer"
}
