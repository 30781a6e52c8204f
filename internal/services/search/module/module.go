// Package module wires the search service into the API using modkit
package module

import (
	"net/http"

	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	str "lectern/internal/platform/strings"
	"lectern/internal/services/search/domain"
	shttp "lectern/internal/services/search/http"
	srepo "lectern/internal/services/search/repo"
	ssvc "lectern/internal/services/search/service"
)

// Ports exposed by the search module
type Ports struct {
	Searcher domain.SearcherPort
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

	svc *ssvc.Service
}

// New constructs a search module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("search"), modkit.WithPrefix("")}, opts...)...)

	o := FromConfig(deps.Cfg)
	var engine ssvc.Engine
	if o.MeiliURL != "" {
		engine = ssvc.NewMeili(o.MeiliURL, o.MeiliAPIKey)
	}
	svc := ssvc.New(engine, deps.PG, srepo.NewPG(), ssvc.Config{
		DefaultLimit: o.DefaultLimit,
		MaxLimit:     o.MaxLimit,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Searcher: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the concrete service for sibling wiring in main
func (m *Module) Service() *ssvc.Service { return m.svc }

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
