// Package service implements search over Meilisearch with a Postgres
// fallback
package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"

	meili "github.com/meilisearch/meilisearch-go"

	"lectern/internal/platform/logger"
	"lectern/internal/services/search/domain"
)

const idxContent = "lectern_content"

// ContentDoc is the shape indexed per content item
type ContentDoc struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	KeyThemes []string `json:"key_themes"`
	UpdatedAt int64    `json:"updated_at"`
}

// Meili wraps the primary search engine.
// An unreachable engine flips healthy off and callers fall back
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	log     *logger.Logger
}

// NewMeili connects to Meilisearch and configures the content index.
// The returned engine starts unhealthy when the instance is unreachable
func NewMeili(url, apiKey string) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    logger.Named("search.meili"),
	}
	if _, err := m.client.Health(); err != nil {
		m.log.Warn().Str("url", url).Err(err).Msg("meilisearch unavailable, fallback search active")
		return m
	}
	m.healthy.Store(true)
	m.configureIndex()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: idxContent, PrimaryKey: "id"}); err != nil {
		m.log.Debug().Err(err).Msg("create index (may already exist)")
	}
	idx := m.client.Index(idxContent)

	filterable := []any{"category"}
	if _, err := idx.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Warn().Err(err).Msg("update filterable attributes")
	}
	searchable := []string{"title", "body", "tags", "key_themes"}
	if _, err := idx.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warn().Err(err).Msg("update searchable attributes")
	}
}

// Healthy reports whether the engine is usable
func (m *Meili) Healthy() bool { return m.healthy.Load() }

// Search queries the content index
func (m *Meili) Search(q domain.Query) ([]domain.Result, int, error) {
	req := &meili.SearchRequest{
		Limit:  int64(q.Limit),
		Offset: int64(q.Offset),
	}
	if q.Category != "" {
		req.Filter = "category = " + strconv.Quote(q.Category)
	}

	resp, err := m.client.Index(idxContent).Search(q.Text, req)
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, err
	}

	out := make([]domain.Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		out = append(out, hitToResult(hit))
	}
	return out, int(resp.EstimatedTotalHits), nil
}

// IndexContent adds or updates one document
func (m *Meili) IndexContent(doc ContentDoc) error {
	_, err := m.client.Index(idxContent).AddDocuments([]ContentDoc{doc}, nil)
	if err != nil {
		m.healthy.Store(false)
	}
	return err
}

// DeleteContent removes one document
func (m *Meili) DeleteContent(id string) error {
	_, err := m.client.Index(idxContent).DeleteDocument(id, nil)
	if err != nil {
		m.healthy.Store(false)
	}
	return err
}

func hitToResult(hit meili.Hit) domain.Result {
	return domain.Result{
		ID:       decodeString(hit, "id"),
		Title:    decodeString(hit, "title"),
		Category: decodeString(hit, "category"),
		Snippet:  snippet(decodeString(hit, "body")),
		Tags:     decodeStrings(hit, "tags"),
	}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeStrings(hit meili.Hit, key string) []string {
	raw, ok := hit[key]
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// snippet trims a body down to list-preview length
func snippet(body string) string {
	const maxLen = 240
	body = strings.TrimSpace(body)
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen]
}
