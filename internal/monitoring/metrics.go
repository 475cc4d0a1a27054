package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/pkg/incubator"
)

var (
	// Generation metrics
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incubator_generations_total",
			Help: "Total number of committed generation-advances",
		},
		[]string{"trial", "crossover"},
	)

	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incubator_mutations_total",
			Help: "Total number of specimens mutated",
		},
		[]string{"trial", "mutation"},
	)

	childrenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incubator_children_total",
			Help: "Total number of children produced by crossover",
		},
		[]string{"trial"},
	)

	// Population metrics
	populationSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "incubator_population_size",
			Help: "Size of the current population",
		},
		[]string{"trial"},
	)

	specimenLength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "incubator_mean_specimen_length",
			Help:    "Distribution of mean specimen length per generation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"trial"},
	)

	bestScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "incubator_best_score",
			Help: "Best score seen in the last imprinted generation",
		},
		[]string{"trial"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incubator_errors_total",
			Help: "Total number of failed generation-advances",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(generationsTotal)
	prometheus.MustRegister(mutationsTotal)
	prometheus.MustRegister(childrenTotal)
	prometheus.MustRegister(populationSize)
	prometheus.MustRegister(specimenLength)
	prometheus.MustRegister(bestScore)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordGeneration records the metrics of one committed generation
func RecordGeneration(trial string, report incubator.GenerationReport) {
	generationsTotal.WithLabelValues(trial, string(report.CrossoverType)).Inc()
	mutationsTotal.WithLabelValues(trial, string(report.MutationType)).Add(float64(report.Mutations))
	childrenTotal.WithLabelValues(trial).Add(float64(report.PopulationSize))
	populationSize.WithLabelValues(trial).Set(float64(report.PopulationSize))
	specimenLength.WithLabelValues(trial).Observe(report.MeanLength)
}

// UpdateBestScore updates the best score metric
func UpdateBestScore(trial string, score float64) {
	bestScore.WithLabelValues(trial).Set(score)
}

// RecordError records an error metric labelled by its category
func RecordError(err error) {
	category := string(errs.CategoryOf(err))
	if category == "" {
		category = "UNKNOWN"
	}
	errorsTotal.WithLabelValues(category).Inc()
}

// Recorder forwards engine notifications for one trial to the package metrics
// and to an optional health checker
type Recorder struct {
	trial  string
	health *HealthChecker
}

// NewRecorder creates an observer for the named trial
func NewRecorder(trial string, health *HealthChecker) *Recorder {
	return &Recorder{trial: trial, health: health}
}

// ObserveGeneration implements incubator.Observer
func (r *Recorder) ObserveGeneration(report incubator.GenerationReport) {
	RecordGeneration(r.trial, report)
	if r.health != nil {
		r.health.RecordGeneration(r.trial, report.Generation)
	}
}

// ObserveFailure implements incubator.Observer
func (r *Recorder) ObserveFailure(err error) {
	RecordError(err)
	if r.health != nil {
		r.health.RecordError(err)
	}
}
