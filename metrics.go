package sharedlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const metricsNamespace = "sharedlog"

// Metrics holds the logger's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	Records   *prometheus.CounterVec
	Dropped   *prometheus.CounterVec
	Rotations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_total",
			Help:      "Records emitted, by level.",
		}, []string{"level"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dropped_records_total",
			Help:      "Records discarded because an asynchronous sink fell behind.",
		}, []string{"transport"}),
		Rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rotations_total",
			Help:      "Hourly file rollovers, by transport.",
		}, []string{"transport"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Records, m.Dropped, m.Rotations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) record(level zerolog.Level) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(level.String()).Inc()
}

func (m *Metrics) dropped(transport string, missed int) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(transport).Add(float64(missed))
}

func (m *Metrics) rotated(transport string) {
	if m == nil {
		return
	}
	m.Rotations.WithLabelValues(transport).Inc()
}

// hook counts every record that reaches the writers.
func (m *Metrics) hook() zerolog.Hook {
	return zerolog.HookFunc(func(_ *zerolog.Event, level zerolog.Level, _ string) {
		m.record(level)
	})
}
