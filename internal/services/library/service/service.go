// Package service provides the library service implementation
package service

import (
	"context"
	"strings"
	"time"

	"lectern/internal/core/tagslot"
	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/services/library/domain"
	"lectern/internal/services/library/repo"

	"github.com/google/uuid"
)

// Config for the library service
type Config struct {
	ListHardLimit int
}

// Indexer receives saved items for search indexing, fire and forget
type Indexer interface {
	Index(ctx context.Context, it domain.ContentItem)
	Remove(ctx context.Context, id string)
}

// Service implements the library ports against a bound Postgres repo
type Service struct {
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Storage]
	caps    tagslot.CapacityTable
	vocab   tagslot.Vocabularies
	indexer Indexer
	cfg     Config

	now func() time.Time
}

// New constructs the library service
// indexer may be nil when search is disabled
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], indexer Indexer, cfg Config) *Service {
	if cfg.ListHardLimit <= 0 {
		cfg.ListHardLimit = 100
	}
	return &Service{
		db:      db,
		binder:  binder,
		caps:    tagslot.DefaultCapacities(),
		vocab:   tagslot.DefaultVocabularies(),
		indexer: indexer,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) storage() repo.Storage { return s.binder.Bind(s.db) }

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]domain.ContentItem, error) {
	if f.Limit <= 0 || f.Limit > s.cfg.ListHardLimit {
		f.Limit = s.cfg.ListHardLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Category != "" && !domain.ValidCategory(f.Category) {
		return nil, perr.InvalidArgf("unknown category %q", f.Category)
	}
	return s.storage().List(ctx, f)
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, id string) (domain.ContentItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ContentItem{}, perr.InvalidArgf("invalid content id %q", id)
	}
	return s.storage().Get(ctx, id)
}

// Create implements domain.WriterPort
// substantial bodies enter analysis as pending, everything else completes empty
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.ContentItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.ContentItem{}, perr.InvalidArgf("title is required")
	}
	if !domain.ValidCategory(in.Category) {
		return domain.ContentItem{}, perr.InvalidArgf("unknown category %q", in.Category)
	}

	status := domain.StatusCompleted
	if domain.Substantial(in.Body) {
		status = domain.StatusPending
	}

	now := s.now().UTC()
	it := domain.ContentItem{
		ID:               uuid.NewString(),
		Title:            title,
		Category:         in.Category,
		Body:             in.Body,
		Tags:             s.capTags(cleanTags(in.Tags)),
		WordCount:        domain.WordCount(in.Body),
		SizeBytes:        len(in.Body),
		ProcessingStatus: status.String(),
		KeyThemes:        []string{},
		ThoughtQuestions: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.storage().Insert(ctx, it); err != nil {
		return domain.ContentItem{}, err
	}
	s.index(ctx, it)
	return it, nil
}

// Update implements domain.WriterPort
// a substantial body change re-queues analysis and clears stale derived fields
func (s *Service) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.ContentItem, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return domain.ContentItem{}, err
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return domain.ContentItem{}, perr.InvalidArgf("title cannot be empty")
		}
		it.Title = t
	}
	if in.Tags != nil {
		it.Tags = s.capTags(cleanTags(in.Tags))
	}

	bodyChanged := in.Body != nil && *in.Body != it.Body
	if bodyChanged {
		it.Body = *in.Body
		it.WordCount = domain.WordCount(it.Body)
		it.SizeBytes = len(it.Body)
		if domain.Substantial(it.Body) {
			it.ProcessingStatus = domain.StatusPending.String()
			it.KeyThemes = []string{}
			it.ThoughtQuestions = []string{}
		}
	}
	it.UpdatedAt = s.now().UTC()

	if err := s.storage().Update(ctx, it); err != nil {
		return domain.ContentItem{}, err
	}
	s.index(ctx, it)
	return it, nil
}

// Delete implements domain.WriterPort
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return perr.InvalidArgf("invalid content id %q", id)
	}
	if err := s.storage().Delete(ctx, id); err != nil {
		return err
	}
	if s.indexer != nil {
		s.indexer.Remove(ctx, id)
	}
	return nil
}

// ReplaceTags implements domain.TaggerPort
func (s *Service) ReplaceTags(ctx context.Context, id string, tags []string) (domain.ContentItem, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return domain.ContentItem{}, err
	}
	it.Tags = s.capTags(cleanTags(tags))
	if err := s.storage().ReplaceTags(ctx, id, it.Tags); err != nil {
		return domain.ContentItem{}, err
	}
	s.index(ctx, it)
	return it, nil
}

// EditSlot implements domain.TaggerPort
// the slot layout is rebuilt from the stored flat list, the one slot is
// edited, and the flattened result becomes the new authoritative tag list
func (s *Service) EditSlot(ctx context.Context, id string, edit domain.SlotEdit) (domain.ContentItem, error) {
	cat, ok := parseCategory(edit.Category)
	if !ok {
		return domain.ContentItem{}, perr.InvalidArgf("unknown tag category %q", edit.Category)
	}
	if edit.Ordinal < 0 || edit.Ordinal >= s.caps[cat] {
		return domain.ContentItem{}, perr.InvalidArgf("slot ordinal %d out of range for %s", edit.Ordinal, cat)
	}

	it, err := s.Get(ctx, id)
	if err != nil {
		return domain.ContentItem{}, err
	}

	layout := tagslot.BuildLayout(it.Tags, s.caps, s.vocab)
	it.Tags = tagslot.ApplySlotEdit(layout, cat, edit.Ordinal, strings.TrimSpace(edit.Tag))
	if err := s.storage().ReplaceTags(ctx, id, it.Tags); err != nil {
		return domain.ContentItem{}, err
	}
	s.index(ctx, it)
	return it, nil
}

// Layout exposes the slot projection of an item's tags for the view layer
func (s *Service) Layout(ctx context.Context, id string) (tagslot.Layout, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return tagslot.BuildLayout(it.Tags, s.caps, s.vocab), nil
}

// index hands a saved item to the search indexer without blocking the save
func (s *Service) index(ctx context.Context, it domain.ContentItem) {
	if s.indexer == nil {
		return
	}
	s.indexer.Index(ctx, it)
}

// capTags trims the flat list to the fixed layout size
func (s *Service) capTags(tags []string) []string {
	if max := s.caps.Total(); len(tags) > max {
		return tags[:max]
	}
	return tags
}

// cleanTags drops empty and whitespace-only entries before classification
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseCategory(s string) (tagslot.Category, bool) {
	switch s {
	case "area_of_focus":
		return tagslot.CategoryAreaOfFocus, true
	case "content_purpose":
		return tagslot.CategoryContentPurpose, true
	case "tone_style":
		return tagslot.CategoryToneStyle, true
	case "custom":
		return tagslot.CategoryCustom, true
	default:
		return 0, false
	}
}
