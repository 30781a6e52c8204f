// Package repo provides the Postgres fallback search
package repo

import (
	"context"

	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/services/search/domain"
)

// Storage is the fallback search surface
type Storage interface {
	Search(ctx context.Context, q domain.Query) ([]domain.Result, int, error)
}

type pg struct{ q repokit.Queryer }

// NewPG returns a binder for the fallback search storage
func NewPG() repokit.Binder[Storage] {
	return repokit.BindFunc[Storage](func(q repokit.Queryer) Storage { return &pg{q: q} })
}

// Search runs a plain ILIKE match over title and body.
// It is deliberately simple: the primary engine handles ranking
func (p *pg) Search(ctx context.Context, q domain.Query) ([]domain.Result, int, error) {
	sql := `
		SELECT id::text, title, category, LEFT(body, 240), tags,
		       COUNT(*) OVER() AS total
		FROM content_items
		WHERE (title ILIKE '%' || $1 || '%' OR body ILIKE '%' || $1 || '%')`
	args := []any{q.Text}

	if q.Category != "" {
		args = append(args, q.Category)
		sql += ` AND category = $2`
	}
	args = append(args, q.Limit, q.Offset)
	sql += ` ORDER BY updated_at DESC`
	if q.Category != "" {
		sql += ` LIMIT $3 OFFSET $4`
	} else {
		sql += ` LIMIT $2 OFFSET $3`
	}

	rows, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "fallback search")
	}
	defer rows.Close()

	var (
		out   []domain.Result
		total int
	)
	for rows.Next() {
		var r domain.Result
		if err := rows.Scan(&r.ID, &r.Title, &r.Category, &r.Snippet, &r.Tags, &total); err != nil {
			return nil, 0, perr.FromPostgres(err, "scan search hit")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, perr.FromPostgres(err, "iterate search hits")
	}
	return out, total, nil
}
