package handlers

import (
	"net/http"

	"github.com/agentstation/wishlist/internal/server/cache"
	"github.com/agentstation/wishlist/internal/server/filter"
	"github.com/agentstation/wishlist/internal/server/response"
)

// HandleListCatalog handles GET /api/v1/catalog.
func (h *Handlers) HandleListCatalog(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseItemFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	body, err := cache.Fetch(h.cache, "catalog:"+f.Key(), func() (listResponse, error) {
		cat, err := h.app.Catalog()
		if err != nil {
			return listResponse{}, err
		}
		matched := cat.List(f.Catalog())
		page := f.Apply(matched)
		return listResponse{Items: page, Count: len(page), Total: cat.Len()}, nil
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, body)
}

// HandleGetCatalogItem handles GET /api/v1/catalog/{id}.
func (h *Handlers) HandleGetCatalogItem(w http.ResponseWriter, r *http.Request) {
	cat, err := h.app.Catalog()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	it, err := cat.Get(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, it)
}

// HandleCategories handles GET /api/v1/catalog/categories.
func (h *Handlers) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	cat, err := h.app.Catalog()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, cat.Categories())
}
