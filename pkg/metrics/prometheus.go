// Package metrics exposes solver runs to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arnavshah/guard-roster-go/pkg/models"
	"github.com/arnavshah/guard-roster-go/pkg/scheduler"
)

// Collector records one observation per scheduler run
type Collector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runs          *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	unfilledSlots *prometheus.HistogramVec
}

var _ scheduler.Recorder = (*Collector)(nil)

// NewPrometheus creates a collector. reg defaults to prometheus.DefaultRegisterer
// and namespace to "roster".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}
	return &Collector{reg: reg, namespace: namespace}
}

func (c *Collector) ensureRegistered() {
	c.once.Do(func() {
		c.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "solver",
			Name:      "runs_total",
			Help:      "Scheduler runs by mode and status.",
		}, []string{"mode", "status"})

		c.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "solver",
			Name:      "run_duration_seconds",
			Help:      "Wall time of scheduler runs by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 12),
		}, []string{"mode"})

		c.unfilledSlots = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "solver",
			Name:      "unfilled_slots",
			Help:      "Slots left unfilled per run by mode.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		}, []string{"mode"})

		c.reg.MustRegister(c.runs, c.duration, c.unfilledSlots)
	})
}

// ObserveRun implements scheduler.Recorder
func (c *Collector) ObserveRun(mode string, status models.Status, unfilled int, elapsed time.Duration) {
	c.ensureRegistered()
	c.runs.WithLabelValues(mode, string(status)).Inc()
	c.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	c.unfilledSlots.WithLabelValues(mode).Observe(float64(unfilled))
}
