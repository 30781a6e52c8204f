// Package http provides http transport for the analysis service
package http

import (
	"context"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/analysis/domain"
	svc "lectern/internal/services/analysis/service"
)

// Register mounts analysis endpoints on the given router
func Register(r httpkit.Router, rec *svc.Reconciler) {
	h := &handlers{rec: rec}

	httpkit.Get(r, "/content/{id}/analysis", h.state)
	httpkit.Post(r, "/content/{id}/analysis/watch", h.watch)
	httpkit.Delete(r, "/content/{id}/analysis/watch", h.cancel)
}

type handlers struct{ rec *svc.Reconciler }

// @Summary Current analysis session state for an item
// @Tags Analysis
// @Produce json
// @Param id path string true "Content id"
// @Success 200 {object} domain.State "ok"
// @Router /content/{id}/analysis [get]
func (h *handlers) state(r *stdhttp.Request) (any, error) {
	return h.rec.State(chi.URLParam(r, "id")), nil
}

// WatchResponse reports whether the request actually opened a session.
// Short or already-analyzed items decline the watch
type WatchResponse struct {
	Watching bool         `json:"watching"`
	State    domain.State `json:"state"`
}

// @Summary Start watching an item's analysis
// @Tags Analysis
// @Param id path string true "Content id"
// @Success 200 {object} WatchResponse "ok"
// @Router /content/{id}/analysis/watch [post]
func (h *handlers) watch(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	// sessions outlive the request
	st, watching, err := h.rec.Watch(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return WatchResponse{Watching: watching, State: st}, nil
}

// @Summary Stop watching an item's analysis
// @Tags Analysis
// @Param id path string true "Content id"
// @Success 200 {object} map[string]bool "ok"
// @Router /content/{id}/analysis/watch [delete]
func (h *handlers) cancel(r *stdhttp.Request) (any, error) {
	h.rec.CancelSession(chi.URLParam(r, "id"))
	return map[string]bool{"cancelled": true}, nil
}
