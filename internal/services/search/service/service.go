package service

import (
	"context"

	"lectern/internal/modkit/repokit"
	"lectern/internal/platform/logger"
	libdomain "lectern/internal/services/library/domain"
	"lectern/internal/services/search/domain"
	"lectern/internal/services/search/repo"
)

// Engine is the primary search backend seam
type Engine interface {
	Healthy() bool
	Search(q domain.Query) ([]domain.Result, int, error)
	IndexContent(doc ContentDoc) error
	DeleteContent(id string) error
}

// Config for the search service
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

func (c *Config) defaults() {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 20
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 50
	}
}

// Service searches the primary engine and falls back to Postgres.
// It also feeds the engine on library writes, fire and forget
type Service struct {
	engine Engine
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	log    *logger.Logger
}

// New constructs a search service. engine may be nil when the primary
// backend is not configured
func New(engine Engine, db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	cfg.defaults()
	return &Service{
		engine: engine,
		db:     db,
		binder: binder,
		cfg:    cfg,
		log:    logger.Named("search"),
	}
}

// Search implements domain.SearcherPort
func (s *Service) Search(ctx context.Context, q domain.Query) domain.Response {
	if q.Limit <= 0 || q.Limit > s.cfg.MaxLimit {
		q.Limit = s.cfg.DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if s.engine != nil && s.engine.Healthy() {
		results, total, err := s.engine.Search(q)
		if err == nil {
			return domain.Response{Query: q.Text, Results: nonNil(results), Total: total}
		}
		s.log.Warn().Err(err).Msg("primary search failed, falling back")
	}

	results, total, err := s.binder.Bind(s.db).Search(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("fallback search failed")
		return domain.Response{Query: q.Text, Results: []domain.Result{}}
	}
	return domain.Response{Query: q.Text, Results: nonNil(results), Total: total}
}

// Index implements the library indexer seam, fire and forget
func (s *Service) Index(_ context.Context, it libdomain.ContentItem) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	doc := toDoc(it)
	go func() {
		if err := s.engine.IndexContent(doc); err != nil {
			s.log.Warn().Str("content_id", doc.ID).Err(err).Msg("index content")
		}
	}()
}

// Remove implements the library indexer seam, fire and forget
func (s *Service) Remove(_ context.Context, id string) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	go func() {
		if err := s.engine.DeleteContent(id); err != nil {
			s.log.Warn().Str("content_id", id).Err(err).Msg("remove content")
		}
	}()
}

func toDoc(it libdomain.ContentItem) ContentDoc {
	return ContentDoc{
		ID:        it.ID,
		Title:     it.Title,
		Category:  it.Category,
		Body:      it.Body,
		Tags:      it.Tags,
		KeyThemes: it.KeyThemes,
		UpdatedAt: it.UpdatedAt.Unix(),
	}
}

func nonNil(r []domain.Result) []domain.Result {
	if r == nil {
		return []domain.Result{}
	}
	return r
}
