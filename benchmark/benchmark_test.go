package benchmark

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestAnalyzeGaussianConvergesAndFlagsOutliers(t *testing.T) {
	target := newTarget(time.Microsecond, time.Nanosecond)
	target.Count = 50
	target.Samples = make([]Sample, target.Count)
	for i := range target.Samples {
		target.Samples[i].Elapsed = 10 * time.Microsecond
	}
	// Inject a handful of wild outliers.
	target.Samples[0].Elapsed = 10 * time.Millisecond
	target.Samples[1].Elapsed = 9 * time.Millisecond

	target.analyzeGaussian()

	if target.Samples[0].Outlier != true || target.Samples[1].Outlier != true {
		t.Fatalf("expected the injected outliers to be flagged")
	}
	if target.Valid < 45 {
		t.Fatalf("valid = %d, want most of the 48 clean samples counted", target.Valid)
	}
}

func TestCalibrateGrowsIterationsUntilBudgetMet(t *testing.T) {
	target := newTarget(5*time.Millisecond, time.Microsecond)
	calls := 0
	target.calibrate(func() { calls++ }, nil)

	if target.Iterations < 1 {
		t.Fatalf("Iterations = %d, want >= 1", target.Iterations)
	}
	if target.Estimate < target.Budget {
		t.Fatalf("Estimate %s should meet or exceed Budget %s", target.Estimate, target.Budget)
	}
	if target.Count < 100 || target.Count > 10000 {
		t.Fatalf("Count = %d, want within [100, 10000]", target.Count)
	}
}

func TestBenchmarkMeasureAndReport(t *testing.T) {
	b := New()
	b.Measure("noop", func() {}, nil)

	target := b.Target("noop")
	if target == nil {
		t.Fatalf("expected a measured target named noop")
	}

	var buf bytes.Buffer
	if err := b.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("report did not round-trip through JSON: %v", err)
	}
	if report.RunID == "" {
		t.Fatalf("report missing run_id")
	}
	if _, ok := report.Targets["noop"]; !ok {
		t.Fatalf("report missing noop target")
	}
	if _, ok := report.Targets["<baseline>"]; !ok {
		t.Fatalf("report missing baseline target")
	}
}

func TestBenchmarkTargetUnknownNameReturnsNil(t *testing.T) {
	b := New()
	if b.Target("never-measured") != nil {
		t.Fatalf("expected nil for an unmeasured target name")
	}
}
