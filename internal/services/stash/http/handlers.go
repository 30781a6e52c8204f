// Package http provides http transport for the stash service
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/stash/domain"
	svc "lectern/internal/services/stash/service"
)

// Register mounts stash endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/drafts/{id}", h.load)
	httpkit.PutJSON[domain.DraftRequest](r, "/drafts/{id}", h.save)
	httpkit.Delete(r, "/drafts/{id}", h.drop)

	httpkit.Get(r, "/tags/custom", h.customTags)
	httpkit.PostJSON[domain.CustomTagRequest](r, "/tags/custom", h.addCustomTag)
	httpkit.Delete(r, "/tags/custom/{tag}", h.removeCustomTag)
}

type handlers struct{ svc *svc.Service }

// @Summary Load a parked draft
// @Tags Stash
// @Produce json
// @Param id path string true "Content id"
// @Success 200 {object} domain.Draft "ok"
// @Router /drafts/{id} [get]
func (h *handlers) load(r *stdhttp.Request) (any, error) {
	return h.svc.LoadDraft(r.Context(), chi.URLParam(r, "id"))
}

// @Summary Park editor state as a draft
// @Tags Stash
// @Accept json
// @Param id path string true "Content id"
// @Param payload body domain.DraftRequest true "Draft state"
// @Success 200 {object} map[string]bool "ok"
// @Router /drafts/{id} [put]
func (h *handlers) save(r *stdhttp.Request, in domain.DraftRequest) (any, error) {
	err := h.svc.SaveDraft(r.Context(), chi.URLParam(r, "id"), domain.Draft{
		Title: in.Title,
		Body:  in.Body,
		Tags:  in.Tags,
	})
	if err != nil {
		return nil, err
	}
	return map[string]bool{"saved": true}, nil
}

// @Summary Discard a parked draft
// @Tags Stash
// @Param id path string true "Content id"
// @Success 200 {object} map[string]bool "ok"
// @Router /drafts/{id} [delete]
func (h *handlers) drop(r *stdhttp.Request) (any, error) {
	if err := h.svc.DropDraft(r.Context(), chi.URLParam(r, "id")); err != nil {
		return nil, err
	}
	return map[string]bool{"dropped": true}, nil
}

// @Summary List the custom tag vocabulary
// @Tags Stash
// @Produce json
// @Success 200 {array} string "ok"
// @Router /tags/custom [get]
func (h *handlers) customTags(r *stdhttp.Request) (any, error) {
	tags, err := h.svc.CustomTags(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{"tags": tags}, nil
}

// @Summary Add a custom tag to the vocabulary
// @Tags Stash
// @Accept json
// @Param payload body domain.CustomTagRequest true "Tag"
// @Success 200 {object} map[string]bool "ok"
// @Router /tags/custom [post]
func (h *handlers) addCustomTag(r *stdhttp.Request, in domain.CustomTagRequest) (any, error) {
	if err := h.svc.AddCustomTag(r.Context(), in.Tag); err != nil {
		return nil, err
	}
	return map[string]bool{"added": true}, nil
}

// @Summary Remove a custom tag from the vocabulary
// @Tags Stash
// @Param tag path string true "Tag"
// @Success 200 {object} map[string]bool "ok"
// @Router /tags/custom/{tag} [delete]
func (h *handlers) removeCustomTag(r *stdhttp.Request) (any, error) {
	if err := h.svc.RemoveCustomTag(r.Context(), chi.URLParam(r, "tag")); err != nil {
		return nil, err
	}
	return map[string]bool{"removed": true}, nil
}
