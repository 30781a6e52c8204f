//go:build integration_pg
// +build integration_pg

package store

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"lectern/internal/platform/logger"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func newTestStoreLogger() logger.Logger {
	// quiet, deterministic logs
	return zerolog.New(io.Discard)
}

// regular table, not TEMP: the pool hands statements to whichever
// connection is free and TEMP tables are session scoped
const contentItemsDDL = `
	CREATE TABLE content_items (
		id                UUID PRIMARY KEY,
		title             TEXT NOT NULL,
		category          TEXT NOT NULL,
		body              TEXT NOT NULL DEFAULT '',
		tags              TEXT[] NOT NULL DEFAULT '{}',
		word_count        INT NOT NULL DEFAULT 0,
		size_bytes        INT NOT NULL DEFAULT 0,
		processing_status TEXT NOT NULL DEFAULT 'completed',
		key_themes        TEXT[] NOT NULL DEFAULT '{}',
		thought_questions TEXT[] NOT NULL DEFAULT '{}',
		last_error        TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

func TestSQLAdapter_Integration_ContentItems(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s := &Store{Log: newTestStoreLogger()}
	cfg := Config{
		PG: PGConfig{
			URL:         dsn,
			MaxConns:    2,
			SlowQueryMs: 0,
			LogSQL:      true, // hit tracer wiring path
		},
	}
	txr, err := openPG(ctx, cfg, s)
	if err != nil {
		t.Fatalf("openPG failed: %v", err)
	}
	a, ok := txr.(*pgAdapter)
	if !ok {
		t.Fatalf("openPG did not return *pgAdapter, got %T", txr)
	}
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.Exec(ctx, contentItemsDDL); err != nil {
		t.Fatalf("create temp table: %v", err)
	}

	const id = "0b6f4a1e-9a6e-4d2c-8f3a-2c1d5e7b9a01"
	if _, err := a.Exec(ctx, `
		INSERT INTO content_items (id, title, category, body, tags, processing_status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, "Grace and Gratitude", "sermon", "a short note",
		[]string{"Faith & Trust", "Teaching & Doctrine"}, "pending",
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// QueryRow flow with an array column round trip
	var title string
	var tags []string
	if err := a.QueryRow(ctx,
		`SELECT title, tags FROM content_items WHERE id = $1`, id,
	).Scan(&title, &tags); err != nil {
		t.Fatalf("queryrow scan: %v", err)
	}
	if title != "Grace and Gratitude" {
		t.Fatalf("unexpected title: %q", title)
	}
	if len(tags) != 2 || tags[0] != "Faith & Trust" {
		t.Fatalf("unexpected tags: %#v", tags)
	}

	// Query + Columns()
	rs, err := a.Query(ctx, `SELECT id::text, processing_status FROM content_items ORDER BY created_at`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rs.Close()

	cols := rs.Columns()
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "processing_status" {
		t.Fatalf("columns mismatch: %#v", cols)
	}

	var statuses []string
	for rs.Next() {
		var gotID, status string
		if err := rs.Scan(&gotID, &status); err != nil {
			t.Fatalf("rows scan: %v", err)
		}
		if gotID != id {
			t.Fatalf("id mismatch: got %q want %q", gotID, id)
		}
		statuses = append(statuses, status)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows err: %v", err)
	}
	if len(statuses) != 1 || statuses[0] != "pending" {
		t.Fatalf("statuses mismatch: %#v", statuses)
	}

	// Close is idempotent through PG.Close behavior
	if err := a.Close(); err != nil {
		t.Fatalf("adapter close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("adapter close second: %v", err)
	}
}

func TestSQLAdapter_Integration_TxCommitAndRollback(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s := &Store{Log: newTestStoreLogger()}
	cfg := Config{PG: PGConfig{URL: dsn, MaxConns: 2}}
	txr, err := openPG(ctx, cfg, s)
	if err != nil {
		t.Fatalf("openPG failed: %v", err)
	}
	a := txr.(*pgAdapter)
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.Exec(ctx, contentItemsDDL); err != nil {
		t.Fatalf("create temp table: %v", err)
	}

	const committed = "3c9d2b7a-1e4f-4a8b-9c0d-5f6e7a8b9c0d"
	const rolledBack = "7a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d"

	// Commit path mirrors the analysis sweep write: status flip plus derived fields
	if err := a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO content_items (id, title, category, processing_status)
			VALUES ($1, 'Psalms of Ascent', 'study_note', 'pending')`, committed); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `
			UPDATE content_items
			SET processing_status = 'completed', key_themes = $2
			WHERE id = $1`, committed, []string{"pilgrimage", "trust", "worship"})
		return err
	}); err != nil {
		t.Fatalf("tx commit: %v", err)
	}

	var status string
	var themes []string
	if err := a.QueryRow(ctx,
		`SELECT processing_status, key_themes FROM content_items WHERE id = $1`, committed,
	).Scan(&status, &themes); err != nil {
		t.Fatalf("read committed: %v", err)
	}
	if status != "completed" || len(themes) != 3 {
		t.Fatalf("commit failed status=%q themes=%v", status, themes)
	}

	// Rollback path leaves no row behind
	_ = a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO content_items (id, title, category)
			VALUES ($1, 'Abandoned Draft', 'devotional')`, rolledBack); err != nil {
			return err
		}
		return errRollback
	})

	var count int
	if err := a.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_items WHERE id = $1`, rolledBack,
	).Scan(&count); err != nil {
		t.Fatalf("count rolled back: %v", err)
	}
	if count != 0 {
		t.Fatalf("rollback failed count=%d want=0", count)
	}
}

var errRollback = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "rollback" }
