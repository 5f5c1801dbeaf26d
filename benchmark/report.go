package benchmark

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

type sampleJSON struct {
	ElapsedUsec float64 `json:"elapsed"`
	Outlier     bool    `json:"outlier"`
}

type targetJSON struct {
	MeanUsec     float64      `json:"mean(usec)"`
	StdevUsec    float64      `json:"stdev(usec)"`
	EstimateUsec float64      `json:"estimate(usec)"`
	BudgetUsec   float64      `json:"budget(usec)"`
	Iterations   int          `json:"iterations"`
	Count        int          `json:"count"`
	Valid        int          `json:"valid"`
	Samples      []sampleJSON `json:"samples"`
}

func usec(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func (t *Target) toJSON() targetJSON {
	out := targetJSON{
		MeanUsec:     usec(t.Mean),
		StdevUsec:    usec(t.Stdev),
		EstimateUsec: usec(t.Estimate),
		BudgetUsec:   usec(t.Budget),
		Iterations:   t.Iterations,
		Count:        t.Count,
		Valid:        t.Valid,
		Samples:      make([]sampleJSON, len(t.Samples)),
	}
	for i, s := range t.Samples {
		out.Samples[i] = sampleJSON{ElapsedUsec: usec(s.Elapsed), Outlier: s.Outlier}
	}
	return out
}

// Report is the JSON-serializable shape of an entire Benchmark run: one
// target entry per Measure call (plus the implicit "<baseline>"), stamped
// with a run identifier so repeated runs can be told apart once written to
// disk.
type Report struct {
	RunID   string                `json:"run_id"`
	Targets map[string]targetJSON `json:"targets"`
}

// Report snapshots every measured target into a Report.
func (b *Benchmark) Report() Report {
	r := Report{RunID: b.runID.String(), Targets: make(map[string]targetJSON, len(b.targets))}
	for name, t := range b.targets {
		r.Targets[name] = t.toJSON()
	}
	return r
}

// WriteJSON encodes the benchmark's report as indented JSON to w.
func (b *Benchmark) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b.Report())
}

// WriteJSONFile writes the report to path, transparently zstd-compressing
// it when path ends in ".zst".
func (b *Benchmark) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		defer zw.Close()
		w = zw
	}
	return b.WriteJSON(w)
}
