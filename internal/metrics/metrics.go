// Package metrics provides Prometheus metrics collection for crcstream.
//
// A Collector is handed to the engine and harness through their options;
// passing a Noop collector (or nil) disables collection entirely.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crcstream"

// Collector tracks engine and harness metrics backed by Prometheus.
type Collector struct {
	stepsTotal      prometheus.Counter
	wordsTotal      prometheus.Counter
	framesTotal     prometheus.Counter
	validTotal      prometheus.Counter
	resetsTotal     prometheus.Counter
	violationsTotal *prometheus.CounterVec
	mismatchesTotal prometheus.Counter
	scoreboardDepth prometheus.Gauge
	stepDuration    prometheus.Histogram
}

// NewCollector creates a collector registered against reg. Each engine
// instance should get its own engine_id label.
func NewCollector(engineID string, reg prometheus.Registerer) *Collector {
	labels := prometheus.Labels{"engine_id": engineID}
	factory := promauto.With(reg)

	return &Collector{
		stepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "steps_total",
			Help:        "Total number of clock steps processed",
			ConstLabels: labels,
		}),
		wordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "words_total",
			Help:        "Total number of enabled words folded into the accumulator",
			ConstLabels: labels,
		}),
		framesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "frames_total",
			Help:        "Total number of completed frames",
			ConstLabels: labels,
		}),
		validTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "valid_results_total",
			Help:        "Total number of steps with the valid flag asserted",
			ConstLabels: labels,
		}),
		resetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "resets_total",
			Help:        "Total number of engine resets",
			ConstLabels: labels,
		}),
		violationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "sequencing_violations_total",
			Help:        "Total number of sequencing violations by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		mismatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "harness",
			Name:        "result_mismatches_total",
			Help:        "Total number of results disagreeing with the reference model",
			ConstLabels: labels,
		}),
		scoreboardDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "harness",
			Name:        "scoreboard_depth",
			Help:        "Number of expected results outstanding in the scoreboard",
			ConstLabels: labels,
		}),
		stepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "engine",
			Name:        "step_duration_seconds",
			Help:        "Histogram of step durations",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
}

// RecordStep records one processed step.
func (c *Collector) RecordStep(valid bool) {
	c.stepsTotal.Inc()
	if valid {
		c.validTotal.Inc()
	}
}

// RecordWord records one word folded into the accumulator.
func (c *Collector) RecordWord() {
	c.wordsTotal.Inc()
}

// RecordFrame records one completed frame.
func (c *Collector) RecordFrame() {
	c.framesTotal.Inc()
}

// RecordViolation records a sequencing violation by kind.
func (c *Collector) RecordViolation(kind string) {
	c.violationsTotal.WithLabelValues(kind).Inc()
}

// RecordReset records an engine reset.
func (c *Collector) RecordReset() {
	c.resetsTotal.Inc()
}

// RecordMismatch records a result that disagreed with the reference model.
func (c *Collector) RecordMismatch() {
	c.mismatchesTotal.Inc()
}

// SetScoreboardDepth updates the outstanding-expectation gauge.
func (c *Collector) SetScoreboardDepth(depth int) {
	c.scoreboardDepth.Set(float64(depth))
}

// ObserveStepDuration records the wall time of one step.
func (c *Collector) ObserveStepDuration(d time.Duration) {
	c.stepDuration.Observe(d.Seconds())
}

// NoopCollector is a metrics collector that does nothing.
// Useful when metrics are disabled.
type NoopCollector struct{}

func (NoopCollector) RecordStep(bool)                   {}
func (NoopCollector) RecordWord()                       {}
func (NoopCollector) RecordFrame()                      {}
func (NoopCollector) RecordViolation(string)            {}
func (NoopCollector) RecordReset()                      {}
func (NoopCollector) RecordMismatch()                   {}
func (NoopCollector) SetScoreboardDepth(int)            {}
func (NoopCollector) ObserveStepDuration(time.Duration) {}
