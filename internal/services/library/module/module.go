// Package module wires the library service into the API using modkit
package module

import (
	"net/http"

	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	str "lectern/internal/platform/strings"
	"lectern/internal/services/library/domain"
	libhttp "lectern/internal/services/library/http"
	librepo "lectern/internal/services/library/repo"
	libsvc "lectern/internal/services/library/service"
)

// Ports exposed by the library module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
	Tagger domain.TaggerPort
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

	svc *libsvc.Service
}

// New constructs a library module with the provided dependencies and options
// the indexer is injected by main via WithPorts from the search module
func New(deps modkit.Deps, indexer libsvc.Indexer, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("library"), modkit.WithPrefix("")}, opts...)...)

	o := FromConfig(deps.Cfg)
	svc := libsvc.New(deps.PG, librepo.NewPG(), indexer, libsvc.Config{
		ListHardLimit: o.ListHardLimit,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Reader: svc, Writer: svc, Tagger: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		libhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the concrete service for sibling wiring in main
func (m *Module) Service() *libsvc.Service { return m.svc }

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
