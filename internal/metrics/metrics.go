// Package metrics exposes Prometheus metrics for plugin installation and
// validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for validation runs.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeFault   = "fault"
	OutcomeNone    = "no_validators"
)

// Metrics provides observability for the validator registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Validation outcomes by concrete type
	Validations *prometheus.CounterVec

	// Per-validator call latency by plugin
	ValidatorLatency *prometheus.HistogramVec

	// Number of installed plugins
	PluginsInstalled prometheus.Gauge

	// Records folded into the registry by plugin
	RecordsInstalled *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qval_validations_total",
			Help: "Total validation runs by concrete type and outcome",
		}, []string{"type", "outcome"}),

		ValidatorLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qval_validator_duration_seconds",
			Help:    "Duration of individual validator calls by plugin",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"plugin"}),

		PluginsInstalled: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qval_plugins_installed",
			Help: "Number of currently installed plugins",
		}),

		RecordsInstalled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qval_validator_records_installed_total",
			Help: "Validator records folded into the registry by plugin",
		}, []string{"plugin"}),
	}
}

// IncrementValidation records the outcome of one validation run.
func (m *Metrics) IncrementValidation(typ, outcome string) {
	if m != nil {
		m.Validations.WithLabelValues(typ, outcome).Inc()
	}
}

// ObserveValidator records the duration of one validator call.
func (m *Metrics) ObserveValidator(plugin string, d time.Duration) {
	if m != nil {
		m.ValidatorLatency.WithLabelValues(plugin).Observe(d.Seconds())
	}
}

// SetPlugins records the number of installed plugins.
func (m *Metrics) SetPlugins(n int) {
	if m != nil {
		m.PluginsInstalled.Set(float64(n))
	}
}

// AddRecords records validator records installed by a plugin.
func (m *Metrics) AddRecords(plugin string, n int) {
	if m != nil {
		m.RecordsInstalled.WithLabelValues(plugin).Add(float64(n))
	}
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
