package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/testkit"
	"lectern/internal/services/analysis/domain"
)

func newFakeClock() *testkit.Clock {
	return testkit.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

// scriptFetcher returns its responses in order, repeating the last one
type scriptFetcher struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
	errs  []error
	calls int
}

func (f *scriptFetcher) FetchContent(context.Context, string) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.snaps) {
		i = len(f.snaps) - 1
	}
	f.calls++
	return f.snaps[i], f.errs[i]
}

func (f *scriptFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recorder collects every emitted state and signals on the first
// terminal one
type recorder struct {
	mu     sync.Mutex
	states []domain.State
	done   chan struct{}
	once   sync.Once
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{})} }

func (rec *recorder) cb(_ string, st domain.State) {
	rec.mu.Lock()
	rec.states = append(rec.states, st)
	rec.mu.Unlock()
	if st.Status.Terminal() {
		rec.once.Do(func() { close(rec.done) })
	}
}

func (rec *recorder) wait(t *testing.T) []domain.State {
	t.Helper()
	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("session never reached a terminal state")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]domain.State, len(rec.states))
	copy(out, rec.states)
	return out
}

func newTestReconciler(fetch domain.Fetcher, clk *testkit.Clock) *Reconciler {
	r := NewReconciler(fetch, ReconcilerConfig{})
	r.now = clk.Now
	r.sleep = clk.Sleep
	return r
}

func pendingSnap() domain.Snapshot {
	return domain.Snapshot{ID: "c1", ProcessingStatus: "pending"}
}

func TestSessionResolvesAfterPendingTicks(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{
			pendingSnap(), pendingSnap(), pendingSnap(),
			{ID: "c1", ProcessingStatus: "completed", KeyThemes: []string{"a", "b"}},
		},
		errs: []error{nil, nil, nil, nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	want := []domain.Status{
		domain.StatusPending, domain.StatusPending, domain.StatusPending,
		domain.StatusCompleted,
	}
	if len(states) != len(want) {
		t.Fatalf("got %d transitions, want %d: %+v", len(states), len(want), states)
	}
	for i, st := range states {
		if st.Status != want[i] {
			t.Fatalf("transition %d = %v, want %v", i, st.Status, want[i])
		}
	}
	final := states[len(states)-1]
	if final.Snapshot == nil || len(final.Snapshot.KeyThemes) != 2 ||
		final.Snapshot.KeyThemes[0] != "a" || final.Snapshot.KeyThemes[1] != "b" {
		t.Fatalf("final snapshot = %+v", final.Snapshot)
	}
}

func TestTerminalStateIsFinal(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{{ID: "c1", ProcessingStatus: "completed", KeyThemes: []string{"x"}}},
		errs:  []error{nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	rec.wait(t)

	if got := r.State("c1").Status; got != domain.StatusCompleted {
		t.Fatalf("state after completion = %v", got)
	}
	if n := fetch.callCount(); n != 1 {
		t.Fatalf("completed session kept fetching: %d calls", n)
	}
	// still completed later, no timer left behind
	time.Sleep(20 * time.Millisecond)
	if got := r.State("c1").Status; got != domain.StatusCompleted {
		t.Fatalf("terminal state changed to %v", got)
	}
}

func TestTransportFailureEndsSession(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{{}},
		errs:  []error{perr.Transportf("connection refused")},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	if len(states) != 1 || states[0].Status != domain.StatusFailed {
		t.Fatalf("states = %+v", states)
	}
	if states[0].Err == "" {
		t.Fatal("failure state should carry a message")
	}
	if n := fetch.callCount(); n != 1 {
		t.Fatalf("transport failure must not be retried: %d calls", n)
	}
}

func TestRemoteFailureCarriesLastError(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{{ID: "c1", ProcessingStatus: "failed", LastError: "model unavailable"}},
		errs:  []error{nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	final := states[len(states)-1]
	if final.Status != domain.StatusFailed || final.Err != "model unavailable" {
		t.Fatalf("final = %+v", final)
	}
}

func TestUnknownStatusIsTerminal(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{{ID: "c1", ProcessingStatus: "mystery"}},
		errs:  []error{nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	final := states[len(states)-1]
	if final.Status != domain.StatusFailed {
		t.Fatalf("final = %+v", final)
	}
	if final.Snapshot != nil {
		t.Fatal("unknown status must not publish a snapshot")
	}
	if n := fetch.callCount(); n != 1 {
		t.Fatalf("unknown status must stop polling: %d calls", n)
	}
}

func TestTimeoutBoundary(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	fetch := &scriptFetcher{snaps: []domain.Snapshot{pendingSnap()}, errs: []error{nil}}
	rec := newRecorder()
	r := newTestReconciler(fetch, clk)

	var timedOutAt time.Time
	r.OnChange(func(id string, st domain.State) {
		if st.Status == domain.StatusTimedOut {
			timedOutAt = clk.Now()
		}
		rec.cb(id, st)
	})

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	final := states[len(states)-1]
	if final.Status != domain.StatusTimedOut {
		t.Fatalf("final = %+v", final)
	}
	elapsed := timedOutAt.Sub(start)
	ceiling := 400 * time.Second
	interval := 3 * time.Second
	if elapsed < ceiling || elapsed > ceiling+interval {
		t.Fatalf("timed out at %v, want within [%v, %v]", elapsed, ceiling, ceiling+interval)
	}
}

func TestSupersessionMakesOldTickInert(t *testing.T) {
	gate := make(chan struct{})
	oldCalled := make(chan struct{})
	var calls atomic.Int32
	fetch := domain.FetcherFunc(func(context.Context, string) (domain.Snapshot, error) {
		if calls.Add(1) == 1 {
			close(oldCalled)
			<-gate
			return domain.Snapshot{ID: "c1", ProcessingStatus: "completed", KeyThemes: []string{"old"}}, nil
		}
		return domain.Snapshot{ID: "c1", ProcessingStatus: "completed", KeyThemes: []string{"new"}}, nil
	})
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	<-oldCalled

	// supersede while the old tick's fetch is still in flight
	r.StartSession(context.Background(), "c1")
	close(gate)

	states := rec.wait(t)
	time.Sleep(20 * time.Millisecond) // let the stale goroutine unwind

	for _, st := range states {
		if st.Snapshot != nil && len(st.Snapshot.KeyThemes) > 0 && st.Snapshot.KeyThemes[0] == "old" {
			t.Fatalf("superseded session wrote its snapshot: %+v", st)
		}
	}
	got := r.State("c1")
	if got.Status != domain.StatusCompleted || got.Snapshot.KeyThemes[0] != "new" {
		t.Fatalf("state = %+v", got)
	}
}

func TestCancelSessionReturnsToIdle(t *testing.T) {
	fetch := &scriptFetcher{snaps: []domain.Snapshot{pendingSnap()}, errs: []error{nil}}
	r := newTestReconciler(fetch, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.StartSession(ctx, "c1")
	r.CancelSession("c1")

	if got := r.State("c1").Status; got != domain.StatusIdle {
		t.Fatalf("state after cancel = %v", got)
	}
}

func TestCompletedWithoutThemesKeepsPolling(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{
			{ID: "c1", ProcessingStatus: "completed"},
			{ID: "c1", ProcessingStatus: "completed", KeyThemes: []string{"t"}},
		},
		errs: []error{nil, nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	r.StartSession(context.Background(), "c1")
	states := rec.wait(t)

	if states[0].Status != domain.StatusPending || states[len(states)-1].Status != domain.StatusCompleted {
		t.Fatalf("states = %+v", states)
	}
}

func TestWatchDeclinesShortCompletedBody(t *testing.T) {
	// the library stores short items as completed with no themes; a
	// watch on one must not open a session that polls to the ceiling
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{
			{ID: "c1", Body: "brief note", ProcessingStatus: "completed"},
		},
		errs: []error{nil},
	}
	r := newTestReconciler(fetch, newFakeClock())

	st, watching, err := r.Watch(context.Background(), "c1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if watching {
		t.Fatal("watch opened a session for a short completed item")
	}
	if st.Status != domain.StatusIdle {
		t.Fatalf("state = %v, want idle", st.Status)
	}
	if got := fetch.callCount(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestWatchStartsForSubstantialUnanalyzedBody(t *testing.T) {
	body := strings.Repeat("word ", 40)
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{
			{ID: "c1", Body: body, ProcessingStatus: "pending"},
			{ID: "c1", Body: body, ProcessingStatus: "completed", KeyThemes: []string{"t"}},
		},
		errs: []error{nil, nil},
	}
	rec := newRecorder()
	r := newTestReconciler(fetch, newFakeClock())
	r.OnChange(rec.cb)

	st, watching, err := r.Watch(context.Background(), "c1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !watching {
		t.Fatal("watch declined a substantial unanalyzed item")
	}
	if st.Status != domain.StatusPending {
		t.Fatalf("state = %v, want pending", st.Status)
	}

	states := rec.wait(t)
	if states[len(states)-1].Status != domain.StatusCompleted {
		t.Fatalf("final state = %+v", states[len(states)-1])
	}
}

func TestWatchSurfacesFetchError(t *testing.T) {
	fetch := &scriptFetcher{
		snaps: []domain.Snapshot{{}},
		errs:  []error{perr.Transportf("dial upstream: connection refused")},
	}
	r := newTestReconciler(fetch, newFakeClock())

	_, watching, err := r.Watch(context.Background(), "c1")
	if err == nil || watching {
		t.Fatalf("watch = (%v, %v), want error and no session", watching, err)
	}
	if got := r.State("c1").Status; got != domain.StatusIdle {
		t.Fatalf("state after failed watch = %v", got)
	}
}

func TestShouldWatch(t *testing.T) {
	long := make([]byte, 120)
	for i := range long {
		long[i] = 'x'
	}
	if !domain.ShouldWatch(string(long), nil) {
		t.Fatal("substantial body with no themes should watch")
	}
	if domain.ShouldWatch("short", nil) {
		t.Fatal("short body should not watch")
	}
	if domain.ShouldWatch(string(long), []string{"done"}) {
		t.Fatal("already-analyzed body should not watch")
	}
}
