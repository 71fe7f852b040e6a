// Package metrics provides an optional Prometheus observer for the
// reactive runtime and mutation engine. Grounded on the teacher's
// pkg/middleware.Prometheus (same promauto factory + namespace/const-label
// options pattern), adapted from per-HTTP-event metrics to per-frame
// reactive metrics: scheduler queue depth, mutation bytes emitted, signal
// write counts. Wired as an optional observer (spec.md §1 excludes
// observability from the reactive core itself) so pkg/reactive and
// pkg/engine have zero hard dependency on this package; cmd/vireo bench
// is the only caller that constructs one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config mirrors the teacher's MetricsConfig: namespace/subsystem/const
// labels/registry, all optional.
type Config struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Registry    prometheus.Registerer
}

// Option configures Config.
type Option func(*Config)

// WithNamespace sets the metrics namespace (default "vireo").
func WithNamespace(ns string) Option { return func(c *Config) { c.Namespace = ns } }

// WithRegistry sets the Prometheus registry (default the global one).
func WithRegistry(r prometheus.Registerer) Option { return func(c *Config) { c.Registry = r } }

func defaultConfig() Config {
	return Config{Namespace: "vireo", Registry: prometheus.DefaultRegisterer}
}

// Observer collects runtime metrics. Construct with New and pass to
// Scheduler.SetMetrics / Writer instrumentation call sites.
type Observer struct {
	schedulerDepth    prometheus.Gauge
	scopesDrained     prometheus.Counter
	mutationBytes     prometheus.Histogram
	mutationFlushes   prometheus.Counter
	signalWrites      prometheus.Counter
	signalsSuppressed prometheus.Counter
}

// New constructs an Observer, registering its metrics against opts'
// registry (the global registerer by default).
func New(opts ...Option) *Observer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Observer{
		schedulerDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "scheduler_depth",
			Help:        "Number of dirty scopes currently queued in the scheduler.",
			ConstLabels: cfg.ConstLabels,
		}),
		scopesDrained: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "scopes_drained_total",
			Help:        "Total scopes popped from the scheduler and re-rendered.",
			ConstLabels: cfg.ConstLabels,
		}),
		mutationBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "mutation_bytes",
			Help:        "Bytes written into the mutation buffer per mount/flush.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     []float64{16, 64, 256, 1024, 4096, 16384, 65536},
		}),
		mutationFlushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "mutation_flushes_total",
			Help:        "Total CreateEngine/DiffEngine passes that produced a buffer.",
			ConstLabels: cfg.ConstLabels,
		}),
		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Total signal writes that changed the value and notified subscribers.",
			ConstLabels: cfg.ConstLabels,
		}),
		signalsSuppressed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "signal_writes_suppressed_total",
			Help:        "Total signal writes suppressed by equality (spec §7 silently-tolerated case).",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// SetSchedulerDepth records the scheduler's current queued-scope count.
func (o *Observer) SetSchedulerDepth(n int) {
	if o == nil {
		return
	}
	o.schedulerDepth.Set(float64(n))
}

// RecordScopeDrained records one scope popped off the scheduler.
func (o *Observer) RecordScopeDrained() {
	if o == nil {
		return
	}
	o.scopesDrained.Inc()
}

// RecordMutation records one mount/flush's byte count.
func (o *Observer) RecordMutation(bytes int) {
	if o == nil {
		return
	}
	o.mutationFlushes.Inc()
	o.mutationBytes.Observe(float64(bytes))
}

// RecordSignalWrite records a write that changed value and notified
// subscribers, or one suppressed by equality (spec §8's universal
// signal invariant).
func (o *Observer) RecordSignalWrite(changed bool) {
	if o == nil {
		return
	}
	if changed {
		o.signalWrites.Inc()
		return
	}
	o.signalsSuppressed.Inc()
}
