// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PollTicks      prometheus.Counter
	PollFailures   prometheus.Counter
	StaleDiscarded prometheus.Counter
	Scans          *prometheus.CounterVec
	AttachedUIs    prometheus.Gauge
	TradeActive    prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		PollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "Total room status poll attempts",
		}),
		PollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_failures_total",
			Help:      "Poll ticks that failed and were skipped",
		}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_discarded_total",
			Help:      "Poll responses dropped by the sequence guard",
		}),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scan resolutions by outcome",
		}, []string{"outcome"}),
		AttachedUIs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attached_uis",
			Help:      "UI surfaces connected to the local gateway",
		}),
		TradeActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trade_active",
			Help:      "1 while the local player has an open trade",
		}),
	}

	prometheus.MustRegister(
		m.PollTicks,
		m.PollFailures,
		m.StaleDiscarded,
		m.Scans,
		m.AttachedUIs,
		m.TradeActive,
	)

	return m
}

// Monitor wraps the metric set. A nil *Monitor is valid and drops every
// observation, which keeps tests free of registry collisions.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncPollTick() {
	if m == nil {
		return
	}
	m.metrics.PollTicks.Inc()
}

func (m *Monitor) IncPollFailure() {
	if m == nil {
		return
	}
	m.metrics.PollFailures.Inc()
}

func (m *Monitor) IncStaleDiscarded() {
	if m == nil {
		return
	}
	m.metrics.StaleDiscarded.Inc()
}

func (m *Monitor) IncScan(outcome string) {
	if m == nil {
		return
	}
	m.metrics.Scans.WithLabelValues(outcome).Inc()
}

func (m *Monitor) SetAttachedUIs(count int) {
	if m == nil {
		return
	}
	m.metrics.AttachedUIs.Set(float64(count))
}

func (m *Monitor) SetTradeActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.metrics.TradeActive.Set(1)
	} else {
		m.metrics.TradeActive.Set(0)
	}
}
