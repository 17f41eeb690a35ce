package otel

import (
	"context"
	"sync"
	"testing"

	eventauth "github.com/eventra/eventauth"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot eventauth.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() eventauth.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := eventauth.MetricsSnapshot{
		Counters:   make(map[eventauth.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[eventauth.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("eventauth-test")

	src := &fakeSource{
		snapshot: eventauth.MetricsSnapshot{
			Counters: map[eventauth.MetricID]uint64{
				eventauth.MetricLoginSuccess: 3,
			},
			Histograms: map[eventauth.MetricID][]uint64{
				eventauth.MetricValidateLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	defer func() { _ = exp.Close() }()

	var data metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &data); err != nil {
		t.Fatalf("collect: %v", err)
	}

	found := make(map[string]int64)
	for _, scope := range data.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch v := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range v.DataPoints {
					found[m.Name] = dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range v.DataPoints {
					found[m.Name] = dp.Value
				}
			}
		}
	}

	if got := found["eventauth_login_success_total"]; got != 3 {
		t.Fatalf("login_success: got %d want 3", got)
	}
	if got := found["eventauth_validate_latency_seconds_count"]; got != 8 {
		t.Fatalf("latency count: got %d want 8", got)
	}
	if got := found["eventauth_validate_latency_seconds_bucket_le_inf"]; got != 8 {
		t.Fatalf("latency +Inf bucket: got %d want 8", got)
	}
	if got := found["eventauth_audit_dropped_total"]; got != 1 {
		t.Fatalf("audit dropped: got %d want 1", got)
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("eventauth-test")

	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}
