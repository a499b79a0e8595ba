package report

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage names used as the "stage" label of the duration histogram.
const (
	StageLoad     = "load"
	StageAssemble = "assemble"
	StageQuery    = "query"
	StageRender   = "render"
)

// Metrics collects the figures of pipeline runs.
type Metrics struct {
	sourceTriples *prometheus.GaugeVec
	inferredFacts prometheus.Gauge
	droppedFacts  prometheus.Gauge
	rules         prometheus.Gauge
	components    prometheus.Gauge
	stageDuration *prometheus.HistogramVec
	runs          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. Use a
// fresh registry per run; registering twice on the same one fails.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sourceTriples: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "semdoc",
				Subsystem: "source",
				Name:      "triples",
				Help:      "Triples loaded per input source.",
			},
			[]string{"role", "source"},
		),
		inferredFacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semdoc",
			Subsystem: "reasoner",
			Name:      "inferred_facts",
			Help:      "Facts derived by the reasoner and not asserted in any input.",
		}),
		droppedFacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semdoc",
			Subsystem: "reasoner",
			Name:      "dropped_facts",
			Help:      "Derived triples discarded because they are not valid RDF.",
		}),
		rules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semdoc",
			Subsystem: "reasoner",
			Name:      "rules",
			Help:      "Rules compiled from the schema.",
		}),
		components: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semdoc",
			Subsystem: "report",
			Name:      "components",
			Help:      "Component sections in the rendered report.",
		}),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semdoc",
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semdoc",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Pipeline runs by outcome.",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.sourceTriples, m.inferredFacts, m.droppedFacts, m.rules,
		m.components, m.stageDuration, m.runs,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observeStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) recordSource(role, name string, triples int) {
	if m == nil {
		return
	}
	m.sourceTriples.WithLabelValues(role, name).Set(float64(triples))
}

func (m *Metrics) recordAssembly(a *Assembly) {
	if m == nil {
		return
	}
	m.inferredFacts.Set(float64(a.Summary.Inferred))
	m.droppedFacts.Set(float64(a.Facts.Dropped))
	m.rules.Set(float64(len(a.Facts.Rules)))
}

func (m *Metrics) recordComponents(n int) {
	if m == nil {
		return
	}
	m.components.Set(float64(n))
}

func (m *Metrics) recordRun(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.runs.WithLabelValues(outcome).Inc()
}
