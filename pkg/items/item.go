// Package items defines the catalog entries a shopper can add to a wishlist
// and the tolerant JSON codec used to persist them.
//
// An Item is a tagged variant over purchasable products (sale or rental)
// and bookable services. The wishlist core only reasons about Item.ID; every
// other attribute is payload that must survive a save and reload unchanged,
// including fields this package does not know about.
package items

import (
	"encoding/json"

	"github.com/agentstation/wishlist/pkg/errors"
)

// Item is a catalog entry identified by a stable ID.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type,omitempty" yaml:"type,omitempty"`

	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	LongDescription string   `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Price           string   `json:"price,omitempty" yaml:"price,omitempty"` // Formatted, e.g. "4,800 دج"
	ImageSrc        string   `json:"imageSrc,omitempty" yaml:"imageSrc,omitempty"`
	DataAIHint      string   `json:"dataAiHint,omitempty" yaml:"dataAiHint,omitempty"`
	Category        string   `json:"category,omitempty" yaml:"category,omitempty"`
	SellerID        string   `json:"sellerId,omitempty" yaml:"sellerId,omitempty"`
	StoreSlug       string   `json:"storeSlug,omitempty" yaml:"storeSlug,omitempty"`
	Availability    string   `json:"availability,omitempty" yaml:"availability,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Exactly one of Product or Service is populated after decoding, and
	// only when the payload carried at least one variant attribute.
	Product *Product `json:"-" yaml:"-"`
	Service *Service `json:"-" yaml:"-"`

	// Extra holds attributes not modeled above, verbatim.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// Product holds attributes specific to sale and rental listings.
type Product struct {
	RawPrice           *float64     `json:"rawPrice,omitempty"`
	Images             []string     `json:"images,omitempty"`
	AverageRating      *float64     `json:"averageRating,omitempty"`
	ReviewCount        *int         `json:"reviewCount,omitempty"`
	IsNew              *bool        `json:"isNew,omitempty"`
	IsBestseller       *bool        `json:"isBestseller,omitempty"`
	SKU                string       `json:"sku,omitempty"`
	PreparationTime    string       `json:"preparationTime,omitempty"`
	RentalTerms        *RentalTerms `json:"rentalTerms,omitempty"`
	StockCount         *int         `json:"stockCount,omitempty"`
	DateAdded          string       `json:"dateAdded,omitempty"`
	DiscountPercentage string       `json:"discountPercentage,omitempty"`
}

// RentalTerms describes the conditions of a rental listing.
type RentalTerms struct {
	MinDuration string `json:"minDuration,omitempty"`
	Deposit     string `json:"deposit,omitempty"`
}

// Service holds attributes specific to bookable services.
type Service struct {
	Duration string `json:"duration,omitempty"` // e.g. "3 ساعات"
	Location string `json:"location,omitempty"`
}

// Kind reports whether the item is purchasable or a service.
func (i Item) Kind() Kind {
	return i.Type.Kind()
}

// Validate checks the attributes the wishlist relies on.
func (i Item) Validate() error {
	if i.ID == "" {
		return errors.NewValidationError("id", i.ID, "cannot be empty")
	}
	return nil
}

// Equal reports whether two items carry the same attributes. Items are
// compared by their encoded form, so a nil variant and an empty one are
// equal.
func (i Item) Equal(other Item) bool {
	a, errA := i.MarshalJSON()
	b, errB := other.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	c := i
	c.Tags = cloneStrings(i.Tags)
	if i.Product != nil {
		p := *i.Product
		p.RawPrice = clonePtr(i.Product.RawPrice)
		p.AverageRating = clonePtr(i.Product.AverageRating)
		p.ReviewCount = clonePtr(i.Product.ReviewCount)
		p.IsNew = clonePtr(i.Product.IsNew)
		p.IsBestseller = clonePtr(i.Product.IsBestseller)
		p.StockCount = clonePtr(i.Product.StockCount)
		p.RentalTerms = clonePtr(i.Product.RentalTerms)
		p.Images = cloneStrings(i.Product.Images)
		c.Product = &p
	}
	if i.Service != nil {
		s := *i.Service
		c.Service = &s
	}
	if i.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(i.Extra))
		for k, v := range i.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
