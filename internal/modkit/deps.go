// Package modkit provides module wiring and core deps
package modkit

import (
	"lectern/internal/modkit/repokit"
	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	"lectern/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	KV  store.KV
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
