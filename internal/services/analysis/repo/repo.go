// Package repo provides Postgres storage for the analysis worker
package repo

import (
	"context"

	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/services/analysis/domain"
)

// Job is one content row awaiting analysis
type Job struct {
	ID       string
	Title    string
	Category string
	Body     string
}

// Storage is the worker's persistence surface
type Storage interface {
	// LeasePending returns up to limit rows still marked pending,
	// oldest edits first
	LeasePending(ctx context.Context, limit int) ([]Job, error)
	// Complete writes the derived fields and flips the row to completed.
	// Rows no longer pending are left untouched
	Complete(ctx context.Context, id string, a domain.Analysis) error
	// Fail records the failure message and flips the row to failed
	Fail(ctx context.Context, id, lastError string) error
}

type pg struct{ q repokit.Queryer }

// NewPG returns a binder for the analysis storage
func NewPG() repokit.Binder[Storage] {
	return repokit.BindFunc[Storage](func(q repokit.Queryer) Storage { return &pg{q: q} })
}

func (p *pg) LeasePending(ctx context.Context, limit int) ([]Job, error) {
	const sql = `
		SELECT id::text, title, category, body
		FROM content_items
		WHERE processing_status = 'pending'
		ORDER BY updated_at ASC
		LIMIT $1`

	rows, err := p.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "lease pending analysis jobs")
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Category, &j.Body); err != nil {
			return nil, perr.FromPostgres(err, "scan analysis job")
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "iterate analysis jobs")
	}
	return out, nil
}

func (p *pg) Complete(ctx context.Context, id string, a domain.Analysis) error {
	const sql = `
		UPDATE content_items
		SET processing_status = 'completed',
		    key_themes = $2,
		    thought_questions = $3,
		    last_error = NULL,
		    updated_at = now()
		WHERE id = $1 AND processing_status = 'pending'`

	if _, err := p.q.Exec(ctx, sql, id, a.KeyThemes, a.ThoughtQuestions); err != nil {
		return perr.FromPostgresf(err, "complete analysis for %s", id)
	}
	return nil
}

func (p *pg) Fail(ctx context.Context, id, lastError string) error {
	const sql = `
		UPDATE content_items
		SET processing_status = 'failed',
		    last_error = $2,
		    updated_at = now()
		WHERE id = $1 AND processing_status = 'pending'`

	if _, err := p.q.Exec(ctx, sql, id, lastError); err != nil {
		return perr.FromPostgresf(err, "fail analysis for %s", id)
	}
	return nil
}
