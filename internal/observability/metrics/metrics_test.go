package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPortalMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)
	m.ObserveLogin("patient", "verify", "ok")
	m.ObserveUpstream("list_appointments", "ok", 0.25)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == UpstreamLatencyMetric {
			found = true
		}
	}
	if !found {
		t.Errorf("histogram %s not registered", UpstreamLatencyMetric)
	}
}

func TestPortalMetricsNilSafe(t *testing.T) {
	var m *PortalMetrics
	m.ObserveLogin("admin", "request", "rejected")
	m.ObserveUpstream("reports", "error", 0.1)
}
