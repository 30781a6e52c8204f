// Package repo provides the library repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/store"
	"lectern/internal/services/library/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the library repository
type Storage interface {
	List(ctx context.Context, f domain.ListFilter) ([]domain.ContentItem, error)
	Get(ctx context.Context, id string) (domain.ContentItem, error)
	Insert(ctx context.Context, it domain.ContentItem) error
	Update(ctx context.Context, it domain.ContentItem) error
	Delete(ctx context.Context, id string) error
	ReplaceTags(ctx context.Context, id string, tags []string) error
	SetProcessing(ctx context.Context, id, status string) error
}

const contentColumns = `
	id::text, title, category, body, tags, word_count, size_bytes,
	processing_status, key_themes, thought_questions,
	COALESCE(last_error, ''), created_at, updated_at`

func scanContent(r store.Row) (domain.ContentItem, error) {
	var it domain.ContentItem
	err := r.Scan(
		&it.ID, &it.Title, &it.Category, &it.Body, &it.Tags,
		&it.WordCount, &it.SizeBytes, &it.ProcessingStatus,
		&it.KeyThemes, &it.ThoughtQuestions, &it.LastError,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

// List implements Storage
func (s *pg) List(ctx context.Context, f domain.ListFilter) ([]domain.ContentItem, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`SELECT ` + contentColumns + ` FROM content_items`)
	if f.Category != "" {
		sb.WriteString(` WHERE category = ` + arg(f.Category))
	}
	sb.WriteString(` ORDER BY updated_at DESC, id`)
	sb.WriteString(` LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset))

	out, err := store.Many(ctx, s.q, scanContent, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list content")
	}
	return out, nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.ContentItem, error) {
	it, err := store.One(ctx, s.q, scanContent,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return it, perr.NotFoundf("content %q not found", id)
		}
		return it, perr.FromPostgres(err, "get content")
	}
	return it, nil
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, it domain.ContentItem) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO content_items
			(id, title, category, body, tags, word_count, size_bytes,
			processing_status, key_themes, thought_questions, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		it.ID, it.Title, it.Category, it.Body, it.Tags, it.WordCount, it.SizeBytes,
		it.ProcessingStatus, it.KeyThemes, it.ThoughtQuestions, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "insert content")
	}
	return nil
}

// Update implements Storage
func (s *pg) Update(ctx context.Context, it domain.ContentItem) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE content_items SET
			title = $2, body = $3, tags = $4, word_count = $5, size_bytes = $6,
			processing_status = $7, key_themes = $8, thought_questions = $9,
			updated_at = $10
		WHERE id = $1`,
		it.ID, it.Title, it.Body, it.Tags, it.WordCount, it.SizeBytes,
		it.ProcessingStatus, it.KeyThemes, it.ThoughtQuestions, it.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "update content")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("content %q not found", it.ID)
	}
	return nil
}

// Delete implements Storage
func (s *pg) Delete(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgres(err, "delete content")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("content %q not found", id)
	}
	return nil
}

// ReplaceTags implements Storage
func (s *pg) ReplaceTags(ctx context.Context, id string, tags []string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE content_items SET tags = $2, updated_at = now() WHERE id = $1`,
		id, tags,
	)
	if err != nil {
		return perr.FromPostgres(err, "replace tags")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("content %q not found", id)
	}
	return nil
}

// SetProcessing implements Storage
func (s *pg) SetProcessing(ctx context.Context, id, status string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE content_items SET processing_status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return perr.FromPostgres(err, "set processing status")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("content %q not found", id)
	}
	return nil
}
