// Command loglatchctl runs the benchmark harness against a live
// SinkEmitter and writes two artifacts: a benchmark JSON report and a
// plain-text (or pty-colourized) sink transcript.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/loglatch"
	"pkt.systems/loglatch/benchmark"
)

func main() {
	var jsonOut string
	var sinkOut string
	var iterations int

	root := &cobra.Command{
		Use:   "loglatchctl",
		Short: "Run the loglatch sink benchmark and write its reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(jsonOut, sinkOut, iterations)
		},
	}
	root.Flags().StringVar(&jsonOut, "json-out", "benchmark.json", "path to write the benchmark JSON report (.zst suffix compresses with zstd)")
	root.Flags().StringVar(&sinkOut, "sink-out", "sink.log", "path to write the SinkEmitter's transcript")
	root.Flags().IntVar(&iterations, "messages", 5000, "number of additional messages to log through the sink after the benchmark")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(jsonOut, sinkOut string, messages int) error {
	sink, err := loglatch.NewSinkEmitterToFile(sinkOut)
	if err != nil {
		return fmt.Errorf("opening sink output: %w", err)
	}
	defer sink.Close()

	mgr := loglatch.NewConfigManager()
	mgr.InsertPolicy(0, loglatch.NewMatchAllPolicy(sink, loglatch.All()))
	site := loglatch.NewSite("loglatchctl")
	mgr.InsertSite(site)

	b := benchmark.New()
	b.Measure("sink_emit", func() {
		site.Log(loglatch.InfoLevel, func(m *loglatch.Message) {
			m.Format("probe", time.Now().UnixNano())
		})
	}, nil)

	for i := 0; i < messages; i++ {
		site.Log(loglatch.InfoLevel, func(m *loglatch.Message) {
			m.Format("message", i)
		})
	}

	if err := b.WriteJSONFile(jsonOut); err != nil {
		return fmt.Errorf("writing benchmark report: %w", err)
	}

	fmt.Printf("loglatchctl: wrote %s and %s (run %s)\n", jsonOut, sinkOut, b.RunID())
	return nil
}
