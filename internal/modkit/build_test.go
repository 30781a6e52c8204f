package modkit

import (
	"net/http"
	"testing"

	"lectern/internal/modkit/httpkit"
)

func TestBuildDefaults(t *testing.T) {
	b := Build()
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("Build must default hooks")
	}
	// default subrouter is identity
	var r httpkit.Router
	if got := b.Subrouter(r); got != r {
		t.Fatalf("default subrouter should be identity")
	}
}

func TestBuildAppliesOptions(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	called := false
	b := Build(
		WithName("library"),
		WithPrefix("/library"),
		WithMiddlewares(mw),
		WithSwagger(true),
		WithRegister(func(httpkit.Router) { called = true }),
	)
	if b.Name != "library" || b.Prefix != "/library" || !b.SwaggerOn {
		t.Fatalf("options not applied: %+v", b)
	}
	if len(b.Mw) != 1 {
		t.Fatalf("middleware not captured")
	}
	b.Register(nil)
	if !called {
		t.Fatalf("register hook not wired")
	}
}

func TestWithPorts(t *testing.T) {
	type ports struct{ A int }
	b := Build(WithPorts(ports{A: 7}))
	p, ok := b.Ports.(ports)
	if !ok || p.A != 7 {
		t.Fatalf("ports not carried: %+v", b.Ports)
	}
}
