package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSensorSetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.ObserveSensor(7, 1024, 256)

	if got := testutil.ToFloat64(collector.BitsBuffered.WithLabelValues("7")); got != 1024 {
		t.Fatalf("bentpipe_sat_bits_buffered = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(collector.BitsLostTotal.WithLabelValues("7")); got != 256 {
		t.Fatalf("bentpipe_sat_bits_lost_total = %v, want 256", got)
	}
}

func TestRecordTriggerAndConnectionSwitch(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.RecordTrigger()
	collector.RecordTrigger()
	collector.RecordConnectionSwitch(3)

	if got := testutil.ToFloat64(collector.TriggersTotal); got != 2 {
		t.Fatalf("bentpipe_triggers_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ConnSwitchesTotal.WithLabelValues("3")); got != 1 {
		t.Fatalf("bentpipe_connection_switches_total{gnd_id=3} = %v, want 1", got)
	}
}

func TestNilCollectorMethodsAreNoops(t *testing.T) {
	var c *SimCollector
	c.ObserveSensor(1, 1, 1)
	c.RecordTrigger()
	c.RecordConnectionSwitch(1)
	c.RecordStep()
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.ObserveSensor(1, 500, 0)
	collector.RecordStep()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"bentpipe_sat_bits_buffered",
		"bentpipe_sat_bits_lost_total",
		"bentpipe_steps_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}
