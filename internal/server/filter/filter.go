// Package filter provides query parameter parsing and filtering for the
// wishlist and catalog endpoints.
package filter

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/wishlist/internal/catalog"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
)

// Pagination defaults.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ItemFilter contains the filter criteria for item listings.
type ItemFilter struct {
	Kind         items.Kind
	Category     string
	Store        string
	NameContains string
	Tags         []string

	Limit  int
	Offset int
}

// ParseItemFilter extracts filter parameters from the request query. An
// unknown kind or a malformed page parameter is a validation error.
func ParseItemFilter(r *http.Request) (ItemFilter, error) {
	q := r.URL.Query()

	f := ItemFilter{
		Category:     strings.TrimSpace(q.Get("category")),
		Store:        strings.TrimSpace(q.Get("store")),
		NameContains: strings.TrimSpace(q.Get("q")),
	}

	if kind := q.Get("kind"); kind != "" {
		k, err := items.ParseKind(kind)
		if err != nil {
			return f, err
		}
		f.Kind = k
	}

	if tags := q.Get("tag"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	var err error
	if f.Limit, err = parseInt(q, "limit", DefaultLimit); err != nil {
		return f, err
	}
	if f.Offset, err = parseInt(q, "offset", 0); err != nil {
		return f, err
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f, nil
}

// Catalog returns the part of the filter the catalog can answer itself.
func (f ItemFilter) Catalog() catalog.Filter {
	return catalog.Filter{Kind: f.Kind, Category: f.Category, Store: f.Store}
}

// Key is a stable representation of the filter, usable as a cache key.
func (f ItemFilter) Key() string {
	v := url.Values{}
	v.Set("kind", string(f.Kind))
	v.Set("category", strings.ToLower(f.Category))
	v.Set("store", strings.ToLower(f.Store))
	v.Set("q", strings.ToLower(f.NameContains))
	v.Set("tag", strings.ToLower(strings.Join(f.Tags, ",")))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("offset", strconv.Itoa(f.Offset))
	return v.Encode()
}

// Apply returns the matching items in input order, paginated.
func (f ItemFilter) Apply(list []items.Item) []items.Item {
	results := make([]items.Item, 0, len(list))
	for _, it := range list {
		if f.matches(it) {
			results = append(results, it)
		}
	}

	if f.Offset >= len(results) {
		return []items.Item{}
	}
	results = results[f.Offset:]
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results
}

func (f ItemFilter) matches(it items.Item) bool {
	if f.Kind != "" && it.Kind() != f.Kind {
		return false
	}
	if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
		return false
	}
	if f.Store != "" && !strings.EqualFold(it.StoreSlug, f.Store) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.NameContains)) {
		return false
	}
	if len(f.Tags) > 0 && !tagContainsAny(it.Tags, f.Tags) {
		return false
	}
	return true
}

// tagContainsAny checks if tags contains any of the values.
func tagContainsAny(tags, values []string) bool {
	for _, val := range values {
		for _, tag := range tags {
			if strings.EqualFold(tag, val) {
				return true
			}
		}
	}
	return false
}

func parseInt(q url.Values, name string, def int) (int, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return def, errors.NewValidationError(name, s, "must be a non-negative integer")
	}
	return i, nil
}
