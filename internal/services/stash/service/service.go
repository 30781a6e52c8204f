// Package service implements the stash over the shared KV store
package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"lectern/internal/platform/store"

	perr "lectern/internal/platform/errors"
	"lectern/internal/services/stash/domain"
)

const (
	draftKeyPrefix = "stash:draft:"
	customTagsKey  = "stash:custom_tags"
)

// Config for the stash service
type Config struct {
	// DraftTTL is how long a parked draft survives untouched
	DraftTTL time.Duration
}

func (c *Config) defaults() {
	if c.DraftTTL <= 0 {
		c.DraftTTL = 72 * time.Hour
	}
}

// Service parks drafts and the custom tag vocabulary in Redis
type Service struct {
	kv  store.KV
	cfg Config
	now func() time.Time
}

// New constructs a stash service over the given KV
func New(kv store.KV, cfg Config) *Service {
	cfg.defaults()
	return &Service{kv: kv, cfg: cfg, now: time.Now}
}

// SaveDraft parks editor state for id, refreshing the TTL
func (s *Service) SaveDraft(ctx context.Context, id string, d domain.Draft) error {
	d.ContentID = id
	d.SavedAt = s.now().UTC()
	raw, err := json.Marshal(d)
	if err != nil {
		return perr.JSONErrf("encode draft: %v", err)
	}
	return s.kv.Set(ctx, draftKeyPrefix+id, string(raw), s.cfg.DraftTTL)
}

// LoadDraft returns the parked draft for id, not-found when none exists
func (s *Service) LoadDraft(ctx context.Context, id string) (domain.Draft, error) {
	raw, err := s.kv.Get(ctx, draftKeyPrefix+id)
	if err != nil {
		return domain.Draft{}, err
	}
	var d domain.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return domain.Draft{}, perr.JSONErrf("decode draft: %v", err)
	}
	return d, nil
}

// DropDraft discards the parked draft for id
func (s *Service) DropDraft(ctx context.Context, id string) error {
	return s.kv.Del(ctx, draftKeyPrefix+id)
}

// CustomTags lists the user-defined tag vocabulary, sorted
func (s *Service) CustomTags(ctx context.Context) ([]string, error) {
	tags, err := s.kv.SMembers(ctx, customTagsKey)
	if err != nil {
		return nil, err
	}
	sort.Strings(tags)
	return tags, nil
}

// AddCustomTag records a user-defined tag
func (s *Service) AddCustomTag(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return perr.InvalidArgf("tag cannot be empty")
	}
	return s.kv.SAdd(ctx, customTagsKey, tag)
}

// RemoveCustomTag drops a user-defined tag from the vocabulary
func (s *Service) RemoveCustomTag(ctx context.Context, tag string) error {
	return s.kv.SRem(ctx, customTagsKey, strings.TrimSpace(tag))
}
