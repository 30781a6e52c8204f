// Package module wires the analysis service into the API using modkit
package module

import (
	"net/http"

	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	str "lectern/internal/platform/strings"
	"lectern/internal/services/analysis/domain"
	anhttp "lectern/internal/services/analysis/http"
	ansvc "lectern/internal/services/analysis/service"
)

// Ports exposed by the analysis module
type Ports struct {
	Watcher domain.WatcherPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	rec *ansvc.Reconciler
}

// New constructs an analysis module over the given fetcher.
// main wires the fetcher to the library service or a remote API client
func New(deps modkit.Deps, fetch domain.Fetcher, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("analysis"), modkit.WithPrefix("")}, opts...)...)

	o := FromConfig(deps.Cfg)
	rec := ansvc.NewReconciler(fetch, ansvc.ReconcilerConfig{
		PollInterval: o.PollInterval,
		PollCeiling:  o.PollCeiling,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		rec:       rec,
	}
	m.ports = Ports{Watcher: rec}

	external := b.Register
	m.register = func(r httpkit.Router) {
		anhttp.Register(r, m.rec)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Reconciler exposes the concrete reconciler for sibling wiring in main
func (m *Module) Reconciler() *ansvc.Reconciler { return m.rec }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	}
	if m.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(m.prefix, mount)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }
