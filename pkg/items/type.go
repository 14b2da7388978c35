package items

import (
	"strings"

	"github.com/agentstation/wishlist/pkg/errors"
)

// Type is the listing type recorded on a catalog entry. The storefront
// stores it in Arabic; English aliases are accepted on input.
type Type string

// Listing types.
const (
	TypeSale    Type = "بيع"
	TypeRental  Type = "إيجار"
	TypeService Type = "خدمة"
)

// Kind is the variant an Item belongs to.
type Kind string

// Item kinds.
const (
	KindPurchasable Kind = "purchasable"
	KindService     Kind = "service"
)

var typeAliases = map[string]Type{
	"sale":     TypeSale,
	"sell":     TypeSale,
	"rental":   TypeRental,
	"rent":     TypeRental,
	"service":  TypeService,
	"services": TypeService,
}

// Canonical maps English aliases onto the stored listing type.
// Unknown values are returned unchanged.
func (t Type) Canonical() Type {
	if c, ok := typeAliases[strings.ToLower(strings.TrimSpace(string(t)))]; ok {
		return c
	}
	return t
}

// Kind reports the variant for the listing type. Sale and rental listings
// are purchasable; everything else, including an empty type, is a service.
func (t Type) Kind() Kind {
	switch t.Canonical() {
	case TypeSale, TypeRental:
		return KindPurchasable
	default:
		return KindService
	}
}

// Label returns an English label for display.
func (t Type) Label() string {
	switch t.Canonical() {
	case TypeSale:
		return "sale"
	case TypeRental:
		return "rental"
	case TypeService:
		return "service"
	case "":
		return "unknown"
	default:
		return string(t)
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a kind filter such as "product" or "service".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchasable", "product", "products":
		return KindPurchasable, nil
	case "service", "services":
		return KindService, nil
	default:
		return "", errors.NewValidationError("kind", s, "must be purchasable or service")
	}
}
