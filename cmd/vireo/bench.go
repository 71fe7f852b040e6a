package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vireo-dev/vireo/pkg/engine"
	"github.com/vireo-dev/vireo/pkg/metrics"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// benchCmd runs CreateEngine once and DiffEngine N times against the
// demo counter template, reporting the bytes each pass wrote (spec
// §A.5's "vireo bench").
func benchCmd() *cobra.Command {
	var iterations int
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark CreateEngine/DiffEngine against a synthetic counter",
		Long: `bench mounts a counter component once, then diffs it iterations times
with an incrementing count, reporting the mutation bytes each pass wrote.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, iterations, withMetrics)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "number of diff passes to run")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "record and print Prometheus counters")

	return cmd
}

func runBench(cmd *cobra.Command, iterations int, withMetrics bool) error {
	reg := template.NewRegistry()
	tmplID := reg.Register(demoCounterTemplate())
	alloc := vnode.NewAllocator()

	var observer *metrics.Observer
	if withMetrics {
		observer = metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	}

	store := vnode.NewStore()
	ix := demoCounterVNode(store, tmplID, "Count: 0")

	w := newDemoWriter()
	mountBytes, err := engine.Mount(w, alloc, reg, store, ix)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if observer != nil {
		observer.RecordMutation(w.Len())
	}
	info("mount: %d root(s), %d bytes", mountBytes, w.Len())

	oldStore, oldIx := store, ix
	totalBytes := 0
	maxBytes := 0
	for n := 1; n <= iterations; n++ {
		newStore := vnode.NewStore()
		newIx := demoCounterVNode(newStore, tmplID, fmt.Sprintf("Count: %d", n))

		dw := newDemoWriter()
		if err := engine.Diff(dw, alloc, reg, oldStore, oldIx, newStore, newIx); err != nil {
			return fmt.Errorf("diff %d: %w", n, err)
		}
		if _, err := dw.Finalize(); err != nil {
			return fmt.Errorf("finalize %d: %w", n, err)
		}

		if observer != nil {
			observer.RecordMutation(dw.Len())
		}
		totalBytes += dw.Len()
		if dw.Len() > maxBytes {
			maxBytes = dw.Len()
		}

		oldStore, oldIx = newStore, newIx
	}

	if iterations > 0 {
		info("diff: %d passes, %d bytes total, %.1f bytes/pass avg, %d bytes max",
			iterations, totalBytes, float64(totalBytes)/float64(iterations), maxBytes)
	}
	return nil
}
