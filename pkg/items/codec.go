package items

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/wishlist/pkg/errors"
)

// UnmarshalJSON decodes an item from a JSON object.
//
// Each known attribute is decoded on its own. Missing attributes keep their
// zero value; an attribute whose JSON type does not match is left at its
// zero value and kept in Extra so the original value is written back on the
// next save. Unknown attributes go to Extra as well.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WrapParse("json", "", err)
	}
	if raw == nil {
		return errors.NewParseError("json", "", "item is not an object", nil)
	}

	var it Item
	takeID(raw, &it.ID)
	take(raw, "name", &it.Name)
	take(raw, "type", &it.Type)
	take(raw, "description", &it.Description)
	take(raw, "longDescription", &it.LongDescription)
	take(raw, "price", &it.Price)
	take(raw, "imageSrc", &it.ImageSrc)
	take(raw, "dataAiHint", &it.DataAIHint)
	take(raw, "category", &it.Category)
	take(raw, "sellerId", &it.SellerID)
	take(raw, "storeSlug", &it.StoreSlug)
	take(raw, "availability", &it.Availability)
	take(raw, "tags", &it.Tags)

	switch it.Kind() {
	case KindPurchasable:
		var p Product
		found := take(raw, "rawPrice", &p.RawPrice)
		found = take(raw, "images", &p.Images) || found
		found = take(raw, "averageRating", &p.AverageRating) || found
		found = take(raw, "reviewCount", &p.ReviewCount) || found
		found = take(raw, "isNew", &p.IsNew) || found
		found = take(raw, "isBestseller", &p.IsBestseller) || found
		found = take(raw, "sku", &p.SKU) || found
		found = take(raw, "preparationTime", &p.PreparationTime) || found
		found = take(raw, "rentalTerms", &p.RentalTerms) || found
		found = take(raw, "stockCount", &p.StockCount) || found
		found = take(raw, "dateAdded", &p.DateAdded) || found
		found = take(raw, "discountPercentage", &p.DiscountPercentage) || found
		if found {
			it.Product = &p
		}
	case KindService:
		var s Service
		found := take(raw, "duration", &s.Duration)
		found = take(raw, "location", &s.Location) || found
		if found {
			it.Service = &s
		}
	}

	if len(raw) > 0 {
		it.Extra = raw
	}
	*i = it
	return nil
}

// MarshalJSON encodes the item as a single flat object.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.fields())
}

// MarshalYAML renders the same flat object for YAML output.
func (i Item) MarshalYAML() (any, error) {
	data, err := i.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fields flattens the item. Typed attributes win over Extra on collision,
// except that an id or name the decoder could not read as a string is
// written back as it was stored.
func (i Item) fields() map[string]any {
	out := make(map[string]any, 16+len(i.Extra))
	for k, v := range i.Extra {
		out[k] = v
	}

	if raw, ok := i.Extra["id"]; !ok || !sameID(raw, i.ID) {
		out["id"] = i.ID
	}
	if _, ok := i.Extra["name"]; !ok || i.Name != "" {
		out["name"] = i.Name
	}
	putString(out, "type", string(i.Type))
	putString(out, "description", i.Description)
	putString(out, "longDescription", i.LongDescription)
	putString(out, "price", i.Price)
	putString(out, "imageSrc", i.ImageSrc)
	putString(out, "dataAiHint", i.DataAIHint)
	putString(out, "category", i.Category)
	putString(out, "sellerId", i.SellerID)
	putString(out, "storeSlug", i.StoreSlug)
	putString(out, "availability", i.Availability)
	putSlice(out, "tags", i.Tags)

	if p := i.Product; p != nil {
		putPtr(out, "rawPrice", p.RawPrice)
		putSlice(out, "images", p.Images)
		putPtr(out, "averageRating", p.AverageRating)
		putPtr(out, "reviewCount", p.ReviewCount)
		putPtr(out, "isNew", p.IsNew)
		putPtr(out, "isBestseller", p.IsBestseller)
		putString(out, "sku", p.SKU)
		putString(out, "preparationTime", p.PreparationTime)
		putPtr(out, "rentalTerms", p.RentalTerms)
		putPtr(out, "stockCount", p.StockCount)
		putString(out, "dateAdded", p.DateAdded)
		putString(out, "discountPercentage", p.DiscountPercentage)
	}
	if s := i.Service; s != nil {
		putString(out, "duration", s.Duration)
		putString(out, "location", s.Location)
	}
	return out
}

var jsonNull = []byte("null")

// take decodes raw[key] into dst and removes the key on success. Null and
// mistyped values stay in raw.
func take[T any](raw map[string]json.RawMessage, key string, dst *T) bool {
	v, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), jsonNull) {
		return false
	}
	var val T
	if err := json.Unmarshal(v, &val); err != nil {
		return false
	}
	*dst = val
	delete(raw, key)
	return true
}

// takeID accepts numeric ids as well as strings. A numeric id stays in
// raw so it is encoded as a number again.
func takeID(raw map[string]json.RawMessage, dst *string) {
	if take(raw, "id", dst) {
		return
	}
	if n, ok := numericID(raw["id"]); ok {
		*dst = n
	}
}

func numericID(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] == '"' {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil || n == "" {
		return "", false
	}
	return n.String(), true
}

// sameID reports whether the stored id value still describes id.
func sameID(raw json.RawMessage, id string) bool {
	if id == "" {
		return true
	}
	n, ok := numericID(raw)
	return ok && n == id
}

func putString(out map[string]any, key, v string) {
	if v != "" {
		out[key] = v
	}
}

func putSlice(out map[string]any, key string, v []string) {
	if v != nil {
		out[key] = v
	}
}

func putPtr[T any](out map[string]any, key string, v *T) {
	if v != nil {
		out[key] = *v
	}
}
