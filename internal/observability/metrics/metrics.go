package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamLatencyMetric is the registered name of the upstream request
// histogram; the admin dashboard snapshots it by this name.
const UpstreamLatencyMetric = "portal_upstream_request_seconds"

// PortalMetrics exposes counters/histograms for the booking portal.
type PortalMetrics struct {
	loginTotal      *prometheus.CounterVec
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "login_steps_total",
			Help:      "Login flow steps by role, step and outcome",
		}, []string{"role", "step", "status"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests to the clinic backend",
		}, []string{"op", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "upstream",
			Name:      "request_seconds",
			Help:      "Latency of clinic backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loginTotal, m.upstreamTotal, m.upstreamLatency)
	return m
}

func (m *PortalMetrics) ObserveLogin(role, step, status string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(role, step, status).Inc()
}

func (m *PortalMetrics) ObserveUpstream(op, status string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(op, status).Inc()
	m.upstreamLatency.WithLabelValues(op).Observe(seconds)
}
