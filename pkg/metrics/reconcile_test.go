package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestReconcileMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewReconcileMetrics(reg)
	op := "add_selection"
	metrics.ObserveDuration(op, 250*time.Millisecond)
	metrics.ObserveLockWait(op, 10*time.Millisecond)
	metrics.IncFailure(op, "CART_LOCK_TIMEOUT")
	metrics.IncCompensationFailure(op)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_reconcile_failure", "operation", op); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_compensation_failure", "operation", op); err != nil {
		t.Fatalf("fetch compensation: %v", err)
	} else if got != 1 {
		t.Fatalf("expected compensation=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "cart_reconcile_duration_seconds", "operation", op); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "cart_lock_wait_seconds", "operation", op); err != nil {
		t.Fatalf("fetch lock wait: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected lock wait sum > 0, got %f", got)
	}
}

func TestReconcileMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewReconcileMetrics(nil)
	metrics.ObserveDuration("add_selection", time.Second)
	metrics.IncFailure("add_selection", "VALIDATION_ERROR")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
