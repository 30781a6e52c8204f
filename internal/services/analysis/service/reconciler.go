// Package service drives analysis watch sessions and the background worker
package service

import (
	"context"
	"sync"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	"lectern/internal/services/analysis/domain"
)

// ReconcilerConfig bounds the polling loop
type ReconcilerConfig struct {
	// PollInterval is the fixed backoff between fetches for one id
	PollInterval time.Duration
	// PollCeiling is the hard elapsed-time limit for one session
	PollCeiling time.Duration
}

func (c *ReconcilerConfig) defaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.PollCeiling <= 0 {
		c.PollCeiling = 400 * time.Second
	}
}

// session is the live watch state for one content id.
// The token makes stale ticks from a superseded session inert
type session struct {
	token  uint64
	state  domain.State
	cancel context.CancelFunc
}

// Reconciler runs at most one watch session per content id.
// Each session serializes its own fetches: the next tick is scheduled
// only after the previous fetch resolves
type Reconciler struct {
	fetch domain.Fetcher
	cfg   ReconcilerConfig
	log   *logger.Logger

	mu        sync.Mutex
	sessions  map[string]*session
	nextToken uint64
	onChange  func(id string, st domain.State)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewReconciler constructs a Reconciler over the given fetcher
func NewReconciler(fetch domain.Fetcher, cfg ReconcilerConfig) *Reconciler {
	cfg.defaults()
	return &Reconciler{
		fetch:    fetch,
		cfg:      cfg,
		log:      logger.Named("analysis"),
		sessions: map[string]*session{},
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// OnChange registers a callback invoked on every state transition,
// including pending self-loops. Set it before starting sessions
func (r *Reconciler) OnChange(fn func(id string, st domain.State)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// StartSession begins a watch session for id, superseding any live one.
// The superseded session's in-flight tick becomes a no-op
func (r *Reconciler) StartSession(ctx context.Context, id string) {
	r.mu.Lock()
	if old, ok := r.sessions[id]; ok {
		old.cancel()
	}
	r.nextToken++
	token := r.nextToken
	sctx, cancel := context.WithCancel(ctx)
	r.sessions[id] = &session{
		token:  token,
		state:  domain.State{Status: domain.StatusPending},
		cancel: cancel,
	}
	r.mu.Unlock()

	go r.run(sctx, id, token)
}

// MaybeStartSession starts a session only when the saved body warrants
// one: substantial content with no themes yet
func (r *Reconciler) MaybeStartSession(ctx context.Context, id, body string, themes []string) bool {
	if !domain.ShouldWatch(body, themes) {
		return false
	}
	r.StartSession(ctx, id)
	return true
}

// Watch fetches the item once and starts a session only when it needs
// one: substantial body with no derived themes yet. The bool reports
// whether a session is live for id after the call
func (r *Reconciler) Watch(ctx context.Context, id string) (domain.State, bool, error) {
	snap, err := r.fetch.FetchContent(ctx, id)
	if err != nil {
		return r.State(id), false, err
	}
	started := r.MaybeStartSession(ctx, id, snap.Body, snap.KeyThemes)
	return r.State(id), started, nil
}

// CancelSession tears down the session for id, if any.
// State(id) reports idle afterwards
func (r *Reconciler) CancelSession(id string) {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.cancel()
		delete(r.sessions, id)
	}
	r.mu.Unlock()
}

// State returns the current session state for id, idle when none exists
func (r *Reconciler) State(id string) domain.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.state
	}
	return domain.State{Status: domain.StatusIdle}
}

// run is the per-session polling loop
func (r *Reconciler) run(ctx context.Context, id string, token uint64) {
	start := r.now()
	for {
		snap, err := r.fetch.FetchContent(ctx, id)
		if ctx.Err() != nil || !r.alive(id, token) {
			return
		}
		if err != nil {
			r.log.Warn().Str("content_id", id).Err(err).Msg("analysis fetch failed")
			r.transition(id, token, domain.State{
				Status: domain.StatusFailed,
				Err:    perr.WireFrom(err).Message,
			})
			return
		}

		rs := domain.ParseRemoteStatus(snap.ProcessingStatus)
		if rs == domain.RemoteCompleted && len(snap.KeyThemes) == 0 {
			// completed without derived fields reads as still in flight
			rs = domain.RemotePending
		}

		switch rs {
		case domain.RemoteCompleted:
			r.transition(id, token, domain.State{
				Status:   domain.StatusCompleted,
				Snapshot: &snap,
			})
			return

		case domain.RemoteFailed:
			msg := snap.LastError
			if msg == "" {
				msg = "analysis failed"
			}
			r.transition(id, token, domain.State{
				Status:   domain.StatusFailed,
				Snapshot: &snap,
				Err:      msg,
			})
			return

		case domain.RemoteUnknown:
			r.log.Warn().
				Str("content_id", id).
				Str("processing_status", snap.ProcessingStatus).
				Msg("unknown processing status, stopping watch")
			r.transition(id, token, domain.State{
				Status: domain.StatusFailed,
				Err:    "unknown processing status " + snap.ProcessingStatus,
			})
			return
		}

		if r.now().Sub(start) >= r.cfg.PollCeiling {
			r.transition(id, token, domain.State{Status: domain.StatusTimedOut})
			return
		}

		r.transition(id, token, domain.State{Status: domain.StatusPending})
		if err := r.sleep(ctx, r.cfg.PollInterval); err != nil {
			return
		}
		if !r.alive(id, token) {
			return
		}
	}
}

// alive reports whether token still owns the session for id
func (r *Reconciler) alive(id string, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return ok && s.token == token
}

// transition writes the new state and notifies the subscriber.
// Stale tokens write nothing
func (r *Reconciler) transition(id string, token uint64, st domain.State) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.token != token {
		r.mu.Unlock()
		return
	}
	s.state = st
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(id, st)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
