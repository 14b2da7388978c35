// Package catalog provides the storefront products and services that can be
// put on a wishlist.
package catalog

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
)

// seed is the catalog shipped with the binary.
//
//go:embed seed.yaml
var seed []byte

// document is the on-disk layout of a catalog file. Records are kept as
// generic maps and converted through the items JSON codec so catalog files
// accept exactly what stored wishlists accept.
type document struct {
	Products []map[string]any `yaml:"products"`
	Services []map[string]any `yaml:"services"`
}

// Catalog is an immutable, id-indexed set of items in file order.
type Catalog struct {
	items []items.Item
	index map[string]int
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Kind     items.Kind
	Category string
	Store    string
}

// Default returns the embedded seed catalog.
func Default() (*Catalog, error) {
	return Parse(seed, "seed.yaml")
}

// Load reads a catalog file from disk. An empty path loads the embedded
// seed.
func Load(path string) (*Catalog, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads a catalog file from fs.
func LoadFs(fs afero.Fs, path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML catalog. Services without a type are recorded as
// services. Records without an id and repeated ids are rejected.
func Parse(data []byte, name string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewParseError("yaml", name, "invalid catalog", err)
	}

	c := &Catalog{
		items: make([]items.Item, 0, len(doc.Products)+len(doc.Services)),
		index: make(map[string]int, len(doc.Products)+len(doc.Services)),
	}

	add := func(section string, i int, record map[string]any) error {
		if section == "services" {
			if _, ok := record["type"]; !ok {
				record["type"] = string(items.TypeService)
			}
		}
		it, err := toItem(record)
		if err != nil {
			return errors.NewParseError("yaml", name, section+" record is not an item", err)
		}
		if it.ID == "" {
			return errors.NewValidationError(section+".id", i, "record has no id")
		}
		if _, dup := c.index[it.ID]; dup {
			return errors.NewValidationError(section+".id", it.ID, "duplicate id")
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
		return nil
	}

	for i, record := range doc.Products {
		if err := add("products", i, record); err != nil {
			return nil, err
		}
	}
	for i, record := range doc.Services {
		if err := add("services", i, record); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func toItem(record map[string]any) (items.Item, error) {
	var it items.Item
	data, err := json.Marshal(record)
	if err != nil {
		return it, err
	}
	err = json.Unmarshal(data, &it)
	return it, err
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Get returns the entry with the given id.
func (c *Catalog) Get(id string) (items.Item, error) {
	i, ok := c.index[id]
	if !ok {
		return items.Item{}, errors.NewNotFoundError("catalog item", id)
	}
	return c.items[i].Clone(), nil
}

// List returns the entries matching f in catalog order. Category and store
// match case-insensitively.
func (c *Catalog) List(f Filter) []items.Item {
	fold := cases.Fold()
	category := fold.String(strings.TrimSpace(f.Category))
	store := fold.String(strings.TrimSpace(f.Store))

	out := make([]items.Item, 0, len(c.items))
	for _, it := range c.items {
		if f.Kind != "" && it.Kind() != f.Kind {
			continue
		}
		if category != "" && fold.String(it.Category) != category {
			continue
		}
		if store != "" && fold.String(it.StoreSlug) != store {
			continue
		}
		out = append(out, it.Clone())
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range c.items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}
