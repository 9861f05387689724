// Package promhooks exports shift fanout activity as Prometheus metrics.
package promhooks

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomasbasham/shiftfanout"
)

// Ensure Collector implements [shiftfanout.MetricsHook].
var _ shiftfanout.MetricsHook = (*Collector)(nil)

const namespace = "shiftfanout"

// Collector is a [shiftfanout.MetricsHook] backed by Prometheus counters.
type Collector struct {
	FanoutsStarted   prometheus.Counter
	Notifications    *prometheus.CounterVec
	Claims           *prometheus.CounterVec
	Escalations      prometheus.Counter
	DeliveryFailures *prometheus.CounterVec
}

// New creates a [Collector] and registers its metrics with reg. Metrics that
// are already registered are reused, so New may be called more than once
// against the same registry.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		FanoutsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanouts_started_total",
			Help:      "Number of shifts whose SMS round was sent.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Number of caregiver notifications delivered, by tier.",
		}, []string{"tier"}),
		Claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Number of claim attempts, by result.",
		}, []string{"result"}),
		Escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Number of shifts escalated to the voice tier.",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Number of aborted notification rounds, by tier.",
		}, []string{"tier"}),
	}

	if err := register(reg, &c.FanoutsStarted); err != nil {
		return nil, err
	}
	if err := register(reg, &c.Notifications); err != nil {
		return nil, err
	}
	if err := register(reg, &c.Claims); err != nil {
		return nil, err
	}
	if err := register(reg, &c.Escalations); err != nil {
		return nil, err
	}
	if err := register(reg, &c.DeliveryFailures); err != nil {
		return nil, err
	}
	return c, nil
}

// register registers *collector, swapping in the existing collector when an
// identical one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, collector *C) error {
	err := reg.Register(*collector)
	if err == nil {
		return nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			*collector = existing
			return nil
		}
	}
	return err
}

func (c *Collector) OnFanout(_ shiftfanout.Shift, contacted []string) {
	c.FanoutsStarted.Inc()
	c.Notifications.WithLabelValues(shiftfanout.Tiers.SMS.String()).Add(float64(len(contacted)))
}

func (c *Collector) OnClaim(_ shiftfanout.Shift, _ string, won bool) {
	result := "rejected"
	if won {
		result = "won"
	}
	c.Claims.WithLabelValues(result).Inc()
}

func (c *Collector) OnEscalate(_ shiftfanout.Shift, _, to shiftfanout.Tier, contacted []string) {
	c.Escalations.Inc()
	c.Notifications.WithLabelValues(to.String()).Add(float64(len(contacted)))
}

func (c *Collector) OnDeliveryFailure(_ shiftfanout.Shift, err *shiftfanout.DeliveryError) {
	c.DeliveryFailures.WithLabelValues(err.Tier.String()).Inc()
}
