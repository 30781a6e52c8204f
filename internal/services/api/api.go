// Package api provides the HTTP API for the application
package api

import (
	"context"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	phttp "lectern/internal/platform/net/http"
	"lectern/internal/platform/store"

	"lectern/internal/modkit"
	"lectern/internal/modkit/httpkit"
	"lectern/internal/modkit/module"
	"lectern/internal/modkit/swaggerkit"

	"lectern/internal/adapters/contentapi"
	andomain "lectern/internal/services/analysis/domain"
	analysismod "lectern/internal/services/analysis/module"
	metamod "lectern/internal/services/api/meta/module"
	librarymod "lectern/internal/services/library/module"
	searchmod "lectern/internal/services/search/module"
	stashmod "lectern/internal/services/stash/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		KV:  opt.Store.RDS,
	}

	// search first so the library can feed its index
	search := searchmod.New(deps)
	library := librarymod.New(deps, search.Service())

	// the watcher reads through a remote content API when one is
	// configured, otherwise through the local library service
	fetch, remote := remoteFetcher(opt.Config)
	if !remote {
		fetch = localFetcher(library)
	}
	analysis := analysismod.New(deps, fetch)

	mods := []module.Module{
		metamod.New(deps),
		search,
		library,
		analysis,
	}
	if opt.Store.RDS != nil {
		mods = append(mods, stashmod.New(deps))
	}

	swaggerkit.Mount(r, opt.EnableSwagger)

	httpkit.MountUnder(r, "/api/v1", httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

// remoteFetcher builds a content API fetcher when CONTENT_API_URL is
// set on the service config
func remoteFetcher(cfg config.Conf) (andomain.Fetcher, bool) {
	base := cfg.MayString("CONTENT_API_URL", "")
	if base == "" {
		return nil, false
	}
	return contentapi.NewClient(contentapi.Options{BaseURL: base}), true
}

// localFetcher adapts the library reader into the analysis fetcher
func localFetcher(library *librarymod.Module) andomain.Fetcher {
	svc := library.Service()
	return andomain.FetcherFunc(func(ctx context.Context, id string) (andomain.Snapshot, error) {
		it, err := svc.Get(ctx, id)
		if err != nil {
			return andomain.Snapshot{}, err
		}
		return andomain.Snapshot{
			ID:               it.ID,
			Title:            it.Title,
			Category:         it.Category,
			Body:             it.Body,
			Tags:             it.Tags,
			ProcessingStatus: it.ProcessingStatus,
			KeyThemes:        it.KeyThemes,
			ThoughtQuestions: it.ThoughtQuestions,
			LastError:        it.LastError,
		}, nil
	})
}
