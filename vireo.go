// Package vireo is the module root: ComponentContext/Shell (spec §4.13).
// A Shell owns a Runtime (reactive stores, dirty queue, scheduler), a
// template registry, an ElementId allocator, a string store, a root ScopeId, and
// the handler table routing dispatched events back to signal mutations.
// Grounded on the teacher's pkg/vango package, which plays the identical
// role (a single importable package gluing the reactive core to a
// component's render/event lifecycle) — adapted from vango's
// goroutine-safe Owner/Signal[T] machinery to the single-threaded,
// arena-indexed reactive package this module already built (spec §5).
package vireo

import (
	"github.com/google/uuid"

	"github.com/vireo-dev/vireo/internal/vireocfg"
	"github.com/vireo-dev/vireo/pkg/metrics"
	"github.com/vireo-dev/vireo/pkg/reactive"
	"github.com/vireo-dev/vireo/pkg/strings"
	"github.com/vireo-dev/vireo/pkg/template"
	"github.com/vireo-dev/vireo/pkg/trace"
	"github.com/vireo-dev/vireo/pkg/vnode"
)

// Shell is the runtime handle a host embeds: one per independent
// component tree (one per browser tab session, in a server-driven
// deployment — spec §5 explicitly scopes each Runtime to a single logical
// session).
type Shell struct {
	id  uuid.UUID
	cfg vireocfg.RuntimeConfig

	rt        *reactive.Runtime
	strs      *strings.Store
	templates *template.Registry
	alloc     *vnode.Allocator
	root      reactive.ScopeID

	handlers handlerTable

	lastStore  *vnode.Store
	lastIx     int
	hasMounted bool

	metrics *metrics.Observer
	tracer  *trace.Tracer
}

// Option configures a Shell at construction.
type Option func(*Shell)

// WithConfig overrides the default RuntimeConfig.
func WithConfig(cfg vireocfg.RuntimeConfig) Option { return func(s *Shell) { s.cfg = cfg } }

// WithMetrics installs an optional Prometheus observer (spec B, optional
// domain-stack wiring — the reactive core has zero hard dependency on
// pkg/metrics; only this root package and cmd/vireo know the concrete type).
func WithMetrics(o *metrics.Observer) Option {
	return func(s *Shell) {
		s.metrics = o
		s.rt.Dirty.SetMetrics(o)
	}
}

// WithTracer installs an optional OTel tracer wrapping mount/flush spans.
func WithTracer(t *trace.Tracer) Option { return func(s *Shell) { s.tracer = t } }

// NewShell constructs a Shell with a fresh Runtime and root scope, and
// begins the root scope's render so the hook surface (hooks.go) can be
// called immediately; call EndSetup once the initial hooks are declared.
func NewShell(opts ...Option) *Shell {
	s := &Shell{
		id:        uuid.New(),
		cfg:       vireocfg.DefaultRuntimeConfig(),
		rt:        reactive.NewRuntime(),
		strs:      strings.New(),
		templates: template.NewRegistry(),
		alloc:     vnode.NewAllocator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rt.SetDrainBudget(s.cfg.MaxDrainPerFrame)
	s.templates.SetMaxDepth(s.cfg.MaxTemplateDepth)
	s.root = s.rt.Scopes.Create(0, reactive.NoScope)
	s.rt.BeginRender(s.root)
	return s
}

// ID returns the Shell's session identifier.
func (s *Shell) ID() uuid.UUID { return s.id }

// Root returns the root component scope.
func (s *Shell) Root() reactive.ScopeID { return s.root }

// Runtime exposes the underlying reactive Runtime for advanced callers
// (e.g. child-scope management beyond the root, §4.3).
func (s *Shell) Runtime() *reactive.Runtime { return s.rt }

// Templates exposes the template registry.
func (s *Shell) Templates() *template.Registry { return s.templates }

// Allocator exposes the ElementId allocator.
func (s *Shell) Allocator() *vnode.Allocator { return s.alloc }
