package handlers

import (
	"net/http"

	"github.com/agentstation/wishlist/internal/server/filter"
	"github.com/agentstation/wishlist/internal/server/response"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/logging"
)

// listResponse is the body of list endpoints.
type listResponse struct {
	Items []items.Item `json:"items"`
	Count int          `json:"count"`
	Total int          `json:"total"`
}

// addRequest is the body of POST /wishlist/items: either a catalog id or
// a complete item.
type addRequest struct {
	ID   string      `json:"id"`
	Item *items.Item `json:"item"`
}

// HandleGetWishlist handles GET /api/v1/wishlist.
func (h *Handlers) HandleGetWishlist(w http.ResponseWriter, r *http.Request) {
	store, err := h.app.Wishlist()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	f, err := filter.ParseItemFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	state := store.State()
	list := f.Apply(state.Items())
	response.OK(w, listResponse{Items: list, Count: len(list), Total: state.Len()})
}

// HandleGetWishlistItem handles GET /api/v1/wishlist/items/{id}.
func (h *Handlers) HandleGetWishlistItem(w http.ResponseWriter, r *http.Request) {
	store, err := h.app.Wishlist()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	id := r.PathValue("id")
	it, ok := store.State().Get(id)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("wishlist item", id))
		return
	}
	response.OK(w, it)
}

// HandleAddItem handles POST /api/v1/wishlist/items. The body names a
// catalog item by id or carries a full item. Adding an item already on the
// wishlist answers 200 with the stored item; otherwise 201.
func (h *Handlers) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	store, err := h.app.Wishlist()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var req addRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var it items.Item
	switch {
	case req.Item != nil:
		it = *req.Item
		if err := it.Validate(); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	case req.ID != "":
		cat, err := h.app.Catalog()
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		if it, err = cat.Get(req.ID); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	default:
		response.BadRequest(w, "Request must name an item", `Send {"id": "..."} or {"item": {...}}`)
		return
	}

	ctx := logging.WithItemID(r.Context(), it.ID)
	if !store.Add(it) {
		existing, ok := store.State().Get(it.ID)
		if !ok {
			// removed again before we could read it back
			existing = it
		}
		response.OK(w, existing)
		return
	}

	logging.FromContext(ctx).Info().Msg("Item added to wishlist")
	response.Created(w, it)
}

// HandleRemoveItem handles DELETE /api/v1/wishlist/items/{id}. Removing an
// id that is not on the wishlist is not an error.
func (h *Handlers) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	store, err := h.app.Wishlist()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	id := r.PathValue("id")
	if store.Remove(id) {
		logging.FromContext(logging.WithItemID(r.Context(), id)).Info().Msg("Item removed from wishlist")
	}
	response.NoContent(w)
}
