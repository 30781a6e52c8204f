package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "lectern/internal/platform/net/http"
	"lectern/internal/services/analysis/domain"
	svc "lectern/internal/services/analysis/service"
)

type stubFetcher struct {
	mu    sync.Mutex
	snap  domain.Snapshot
	calls int
}

func (f *stubFetcher) FetchContent(context.Context, string) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.snap, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestServer(t *testing.T, fetch domain.Fetcher) (*httptest.Server, *svc.Reconciler) {
	t.Helper()
	rec := svc.NewReconciler(fetch, svc.ReconcilerConfig{})
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), rec)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, rec
}

func postWatch(t *testing.T, ts *httptest.Server, id string) WatchResponse {
	t.Helper()
	resp, err := stdhttp.Post(ts.URL+"/content/"+id+"/analysis/watch", "application/json", nil)
	if err != nil {
		t.Fatalf("post watch: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("watch status = %d", resp.StatusCode)
	}
	var env struct {
		Data WatchResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode watch response: %v", err)
	}
	return env.Data
}

func TestWatchEndpointDeclinesShortCompletedItem(t *testing.T) {
	fetch := &stubFetcher{snap: domain.Snapshot{
		ID:               "c1",
		Body:             "brief note",
		ProcessingStatus: "completed",
	}}
	ts, rec := newTestServer(t, fetch)

	out := postWatch(t, ts, "c1")
	if out.Watching {
		t.Fatal("watch endpoint opened a session for a short completed item")
	}
	if out.State.Status != domain.StatusIdle {
		t.Fatalf("state = %v, want idle", out.State.Status)
	}
	if got := fetch.callCount(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	if got := rec.State("c1").Status; got != domain.StatusIdle {
		t.Fatalf("reconciler state = %v, want idle", got)
	}
}

func TestWatchEndpointStartsForSubstantialItem(t *testing.T) {
	fetch := &stubFetcher{snap: domain.Snapshot{
		ID:               "c2",
		Body:             strings.Repeat("word ", 40),
		ProcessingStatus: "pending",
	}}
	ts, rec := newTestServer(t, fetch)
	t.Cleanup(func() { rec.CancelSession("c2") })

	out := postWatch(t, ts, "c2")
	if !out.Watching {
		t.Fatal("watch endpoint declined a substantial unanalyzed item")
	}
	if out.State.Status != domain.StatusPending {
		t.Fatalf("state = %v, want pending", out.State.Status)
	}
}
