package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	turnsTotal    *prometheus.CounterVec
	resumesTotal  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics creates engine metrics registered against reg. Pass
// prometheus.DefaultRegisterer in production wiring.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "workflow",
			Name:      "turns_total",
			Help:      "Turns processed, by outcome (completed, suspended, error).",
		}, []string{"outcome"}),
		resumesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "workflow",
			Name:      "resumes_total",
			Help:      "Resume calls processed, by outcome (approved, declined, error).",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coach",
			Subsystem: "workflow",
			Name:      "stage_duration_seconds",
			Help:      "Specialist stage execution duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) countTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) countResume(outcome string) {
	if m == nil {
		return
	}
	m.resumesTotal.WithLabelValues(outcome).Inc()
}
