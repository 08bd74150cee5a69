package observability

import (
	"context"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "framesync"

// Metrics holds the controller's prometheus collectors.
type Metrics struct {
	probes         *prometheus.CounterVec
	actions        *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	ticks          *prometheus.CounterVec
	companionWasOn prometheus.Gauge
	sleeping       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probe_attempts_total",
				Help:      "Probe attempts by probe and observed value.",
			},
			[]string{"probe", "value"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Commands sent to the display by action and result.",
			},
			[]string{"action", "result"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_duration_seconds",
				Help:      "Duration of display commands.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Completed reconciliation ticks by branch.",
			},
			[]string{"branch"},
		),
		companionWasOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "companion_was_on",
			Help:      "1 while the controller remembers the companion as on.",
		}),
		sleeping: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "display_has_been_sleeping",
			Help:      "1 once the display has been seen sleeping.",
		}),
	}
	reg.MustRegister(m.probes, m.actions, m.actionDuration, m.ticks, m.companionWasOn, m.sleeping)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProbe: func(_ context.Context, e *domain.ProbeEvent) {
			value := e.Value
			if e.Err != nil {
				value = "error"
			}
			m.probes.WithLabelValues(e.Probe, value).Inc()
		},
		OnAction: func(_ context.Context, e *domain.ActionEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.actions.WithLabelValues(string(e.Action), result).Inc()
			m.actionDuration.WithLabelValues(string(e.Action)).Observe(e.Duration.Seconds())
		},
		OnTick: func(_ context.Context, e *domain.TickEvent) {
			m.ticks.WithLabelValues(string(e.Report.Branch)).Inc()
			m.companionWasOn.Set(boolGauge(e.Report.State.CompanionWasOn))
			m.sleeping.Set(boolGauge(e.Report.State.DisplayHasBeenSleeping))
		},
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
