// Package http provides http transport for the library service
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/library/domain"
	svc "lectern/internal/services/library/service"
)

// Register mounts library endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/content", h.list)
	httpkit.Get(r, "/content/{id}", h.get)
	httpkit.PostJSON[domain.CreateRequest](r, "/content", h.create)
	httpkit.PutJSON[domain.UpdateRequest](r, "/content/{id}", h.update)
	httpkit.Delete(r, "/content/{id}", h.del)

	httpkit.Get(r, "/content/{id}/layout", h.layout)
	httpkit.PutJSON[domain.ReplaceTagsRequest](r, "/content/{id}/tags", h.replaceTags)
	httpkit.PatchJSON[domain.SlotEditRequest](r, "/content/{id}/tags/slot", h.editSlot)

	httpkit.Get(r, "/categories", h.categories)
}

type handlers struct{ svc *svc.Service }

// @Summary List content items
// @Tags Library
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} domain.ItemResponse "ok"
// @Router /content [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, err := h.svc.List(r.Context(), domain.ListFilter{
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ToResponse(it, false))
	}
	return map[string]any{"items": out, "count": len(out)}, nil
}

// @Summary Get one content item
// @Tags Library
// @Produce json
// @Param id path string true "Content id"
// @Success 200 {object} domain.ItemResponse "ok"
// @Router /content/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	it, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(it, true), nil
}

// @Summary Create a content item
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body domain.CreateRequest true "New item"
// @Success 200 {object} domain.ItemResponse "ok"
// @Router /content [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateRequest) (any, error) {
	it, err := h.svc.Create(r.Context(), domain.CreateInput{
		Title:    in.Title,
		Category: in.Category,
		Body:     in.Body,
		Tags:     in.Tags,
	})
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(it, true), nil
}

// @Summary Update a content item
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Content id"
// @Param payload body domain.UpdateRequest true "Partial update"
// @Success 200 {object} domain.ItemResponse "ok"
// @Router /content/{id} [put]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateRequest) (any, error) {
	it, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), domain.UpdateInput{
		Title: in.Title,
		Body:  in.Body,
		Tags:  in.Tags,
	})
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(it, true), nil
}

// @Summary Delete a content item
// @Tags Library
// @Param id path string true "Content id"
// @Success 200 {object} map[string]bool "ok"
// @Router /content/{id} [delete]
func (h *handlers) del(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}

// @Summary Slot layout projection of an item's tags
// @Tags Library
// @Produce json
// @Param id path string true "Content id"
// @Success 200 {array} tagslot.Slot "ok"
// @Router /content/{id}/layout [get]
func (h *handlers) layout(r *stdhttp.Request) (any, error) {
	return h.svc.Layout(r.Context(), chi.URLParam(r, "id"))
}

// @Summary Replace an item's flat tag list
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Content id"
// @Param payload body domain.ReplaceTagsRequest true "Tags"
// @Success 200 {object} domain.ItemResponse "ok"
// @Router /content/{id}/tags [put]
func (h *handlers) replaceTags(r *stdhttp.Request, in domain.ReplaceTagsRequest) (any, error) {
	it, err := h.svc.ReplaceTags(r.Context(), chi.URLParam(r, "id"), in.Tags)
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(it, true), nil
}

// @Summary Edit one tag slot
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Content id"
// @Param payload body domain.SlotEditRequest true "Slot edit"
// @Success 200 {object} domain.ItemResponse "ok"
// @Router /content/{id}/tags/slot [patch]
func (h *handlers) editSlot(r *stdhttp.Request, in domain.SlotEditRequest) (any, error) {
	it, err := h.svc.EditSlot(r.Context(), chi.URLParam(r, "id"), domain.SlotEdit{
		Category: in.Category,
		Ordinal:  in.Ordinal,
		Tag:      in.Tag,
	})
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(it, true), nil
}

// @Summary List selectable categories
// @Tags Library
// @Produce json
// @Success 200 {object} map[string]any "ok"
// @Router /categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	return map[string]any{"categories": domain.Categories()}, nil
}
