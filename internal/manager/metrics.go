package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motiond",
			Subsystem: "manager",
			Name:      "generations_total",
			Help:      "Total generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	generationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "motiond",
			Subsystem: "manager",
			Name:      "generation_duration_seconds",
			Help:      "Duration of successful generation calls in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	runtimeLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "motiond",
			Subsystem: "manager",
			Name:      "runtime_loaded",
			Help:      "1 when the runtime handle has been constructed",
		},
	)

	weightsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "motiond",
			Subsystem: "manager",
			Name:      "weights_loaded",
			Help:      "1 when checkpoint weights were actually loaded",
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, generationSeconds, runtimeLoaded, weightsLoaded)
}
