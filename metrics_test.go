package eventauth

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricRefreshSuccess)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("login success = %d, want 2", got)
	}
	if got := m.Value(MetricRefreshSuccess); got != 1 {
		t.Fatalf("refresh success = %d, want 1", got)
	}
	if got := m.Value(MetricLogout); got != 0 {
		t.Fatalf("logout = %d, want 0", got)
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricValidateLatency, 10*time.Millisecond)

	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("disabled metrics counted: %d", got)
	}
	snap := m.Snapshot()
	if len(snap.Histograms) != 0 {
		t.Fatal("disabled metrics produced histograms")
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricValidateLatency, time.Millisecond)

	if m.Enabled() {
		t.Fatal("nil metrics reports enabled")
	}
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("nil metrics value = %d", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatal("nil metrics snapshot not empty")
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	samples := []time.Duration{
		2 * time.Millisecond,   // bucket 0
		8 * time.Millisecond,   // bucket 1
		40 * time.Millisecond,  // bucket 3
		40 * time.Millisecond,  // bucket 3
		900 * time.Millisecond, // bucket 7
	}
	for _, d := range samples {
		m.Observe(MetricValidateLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricValidateLatency]
	want := []uint64{1, 1, 0, 2, 0, 0, 0, 1}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d = %d, want %d (all: %v)", i, buckets[i], want[i], buckets)
		}
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricValidateSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricValidateSuccess); got != workers*perWorker {
		t.Fatalf("concurrent total = %d, want %d", got, workers*perWorker)
	}
}
