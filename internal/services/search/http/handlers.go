// Package http provides http transport for the search service
package http

import (
	stdhttp "net/http"
	"strconv"

	"lectern/internal/modkit/httpkit"
	"lectern/internal/services/search/domain"
	svc "lectern/internal/services/search/service"
)

// Register mounts search endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/search", h.search)
}

type handlers struct{ svc *svc.Service }

// @Summary Search the content library
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Param category query string false "Category filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} domain.Response "ok"
// @Router /search [get]
func (h *handlers) search(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	return h.svc.Search(r.Context(), domain.Query{
		Text:     q.Get("q"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}), nil
}
