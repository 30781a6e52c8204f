// Package module wires the stash service into the API using modkit
package module

import (
	"net/http"
	"time"

	modkit "lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/platform/config"
	str "lectern/internal/platform/strings"
	"lectern/internal/services/stash/domain"
	sthttp "lectern/internal/services/stash/http"
	stsvc "lectern/internal/services/stash/service"
)

// Options for the stash module
type Options struct {
	DraftTTL time.Duration
}

// FromConfig loads stash options from the environment
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LECTERN_STASH_")
	return Options{
		DraftTTL: c.MayDuration("DRAFT_TTL", 72*time.Hour),
	}
}

// Ports exposed by the stash module
type Ports struct {
	Stash domain.StashPort
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

	svc *stsvc.Service
}

// New constructs a stash module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("stash"), modkit.WithPrefix("")}, opts...)...)

	o := FromConfig(deps.Cfg)
	svc := stsvc.New(deps.KV, stsvc.Config{DraftTTL: o.DraftTTL})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Stash: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		sthttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the concrete service for sibling wiring in main
func (m *Module) Service() *stsvc.Service { return m.svc }

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
