package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onemax/internal/model"
)

// Metrics exposes the latest generation as gauges. It satisfies
// evo.StatsSink.
type Metrics struct {
	generation  prometheus.Gauge
	maxFitness  prometheus.Gauge
	meanFitness prometheus.Gauge
	generations prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onemax_generation",
			Help: "Index of the most recently completed generation.",
		}),
		maxFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onemax_max_fitness",
			Help: "Best fitness in the most recent generation.",
		}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onemax_mean_fitness",
			Help: "Mean fitness in the most recent generation.",
		}),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onemax_generations_total",
			Help: "Generations completed across all runs.",
		}),
	}
	for _, c := range []prometheus.Collector{m.generation, m.maxFitness, m.meanFitness, m.generations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Publish(_ context.Context, stats model.GenerationStats) error {
	m.generation.Set(float64(stats.Generation))
	m.maxFitness.Set(float64(stats.MaxFitness))
	m.meanFitness.Set(stats.MeanFitness)
	m.generations.Inc()
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
