// Package benchmark is a small micro-benchmarking harness: it runs a
// callable a calibrated number of times per observation, collects a batch
// of observations, and rejects outliers with an iterative Gaussian cutoff
// rather than reporting a raw mean skewed by GC pauses or scheduler
// noise.
package benchmark

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Sample is a single timed observation: the elapsed time for one batch of
// Target.Iterations calls, and whether analyzeGaussian classified it as an
// outlier.
type Sample struct {
	Elapsed time.Duration
	Outlier bool
}

// Target accumulates samples for one named measurement and reduces them to
// a mean/stdev estimate with outliers excluded.
type Target struct {
	Budget      time.Duration
	Uncertainty time.Duration
	Estimate    time.Duration
	Upper       time.Duration
	Lower       time.Duration
	Mean        time.Duration
	Stdev       time.Duration
	Iterations  int
	Count       int
	Valid       int
	Samples     []Sample
}

func newBaselineTarget() *Target {
	return &Target{Iterations: 10000, Count: 10000}
}

func newTarget(budget, uncertainty time.Duration) *Target {
	return &Target{Budget: budget, Uncertainty: uncertainty}
}

// time runs callable Iterations times, then condition once, and returns
// the wall-clock duration of the whole batch.
func (t *Target) time(callable, condition func()) time.Duration {
	begin := time.Now()
	for i := 0; i < t.Iterations; i++ {
		callable()
	}
	if condition != nil {
		condition()
	}
	return time.Since(begin)
}

// calibrate doubles Iterations until a single batch takes at least Budget,
// then sizes Count so the resulting uncertainty roughly matches
// Uncertainty, clamped to [100, 10000].
func (t *Target) calibrate(callable, condition func()) {
	for t.Iterations = 1; ; t.Iterations *= 2 {
		t.Estimate = t.time(callable, condition)
		if t.Estimate >= t.Budget {
			break
		}
	}
	count := int64(10000) * int64(t.Iterations) * int64(t.Uncertainty)
	if t.Estimate > 0 {
		count /= int64(t.Estimate)
	}
	if count < 100 {
		count = 100
	}
	if count > 10000 {
		count = 10000
	}
	t.Count = int(count)
}

// collect runs Count batches, each of Iterations calls, recording each
// batch's elapsed time as a Sample.
func (t *Target) collect(callable, condition func()) {
	t.Samples = make([]Sample, t.Count)
	for i := range t.Samples {
		t.Samples[i].Elapsed = t.time(callable, condition)
	}
}

// analyzeGaussian iteratively computes the mean and standard deviation of
// the non-outlier samples, marks anything more than 2 standard deviations
// away as an outlier, and repeats until either a pass keeps at least 95% of
// the samples it started from or the valid count stops changing.
func (t *Target) analyzeGaussian() {
	prior := len(t.Samples)
	for {
		var sum time.Duration
		total := 0
		for _, s := range t.Samples {
			if !s.Outlier {
				sum += s.Elapsed
				total++
			}
		}
		if total == 0 {
			t.Mean, t.Stdev, t.Valid = 0, 0, 0
			return
		}
		t.Mean = sum / time.Duration(total)

		var accum float64
		for _, s := range t.Samples {
			if !s.Outlier {
				delta := float64(s.Elapsed - t.Mean)
				accum += delta * delta
			}
		}
		t.Stdev = time.Duration(math.Sqrt(accum / float64(total)))

		t.Upper = t.Mean + 2*t.Stdev
		t.Lower = t.Mean - 2*t.Stdev

		valid := 0
		for i := range t.Samples {
			outlier := t.Samples[i].Elapsed > t.Upper || t.Samples[i].Elapsed < t.Lower
			t.Samples[i].Outlier = outlier
			if !outlier {
				valid++
			}
		}
		t.Valid = valid

		if valid*100 >= total*95 || valid == prior {
			return
		}
		prior = valid
	}
}

// Benchmark runs and reports on a set of named measurements, each
// calibrated against a shared baseline (the cost of measuring a no-op).
type Benchmark struct {
	budget      time.Duration
	uncertainty time.Duration
	targets     map[string]*Target
	order       []string
	runID       uuid.UUID
}

// New constructs a Benchmark, measuring its own timing overhead as a
// baseline for every subsequent Measure call's budget/uncertainty.
func New() *Benchmark {
	b := &Benchmark{targets: make(map[string]*Target), runID: uuid.New()}

	baseline := newBaselineTarget()
	baseline.collect(func() { time.Now() }, func() {})
	baseline.analyzeGaussian()
	b.targets["<baseline>"] = baseline
	b.order = append(b.order, "<baseline>")

	b.budget = baseline.Mean
	if baseline.Iterations > 0 {
		b.uncertainty = baseline.Mean / time.Duration(baseline.Iterations)
	}
	return b
}

// RunID returns the identifier stamped on this benchmark's JSON report,
// stable for the lifetime of the Benchmark.
func (b *Benchmark) RunID() uuid.UUID { return b.runID }

// Measure calibrates, collects, and analyzes callable under name, subject
// to a postcondition run once per batch (e.g. draining a channel). A nil
// condition is treated as a no-op.
func (b *Benchmark) Measure(name string, callable func(), condition func()) {
	t := newTarget(b.budget, b.uncertainty)
	t.calibrate(callable, condition)
	t.collect(callable, condition)
	t.analyzeGaussian()
	if _, exists := b.targets[name]; !exists {
		b.order = append(b.order, name)
	}
	b.targets[name] = t
}

// Target returns the named measurement's result, or nil if Measure was
// never called with that name.
func (b *Benchmark) Target(name string) *Target { return b.targets[name] }
