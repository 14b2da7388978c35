package items

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/wishlist/pkg/errors"
)

// DecodeReport describes what DecodeList had to drop.
type DecodeReport struct {
	Total      int // elements in the payload
	Skipped    int // elements that were not objects or had no id
	Duplicates int // elements dropped by Dedupe
}

// MarshalList encodes items as a JSON array. A nil slice encodes as [].
func MarshalList(list []Item) ([]byte, error) {
	if list == nil {
		list = []Item{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return data, nil
}

// UnmarshalList decodes a JSON array of items, skipping unusable elements.
func UnmarshalList(data []byte) ([]Item, error) {
	list, _, err := DecodeList(data)
	return list, err
}

// DecodeList decodes a JSON array of items element by element. The payload
// must be an array (or null); elements that are not objects or that lack an
// id are skipped and counted in the report.
func DecodeList(data []byte) ([]Item, DecodeReport, error) {
	var report DecodeReport

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Item{}, report, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, report, errors.WrapParse("json", "", err)
	}

	report.Total = len(raw)
	list := make([]Item, 0, len(raw))
	for _, elem := range raw {
		var it Item
		if err := json.Unmarshal(elem, &it); err != nil || it.ID == "" {
			report.Skipped++
			continue
		}
		list = append(list, it)
	}
	return list, report, nil
}

// Dedupe drops items whose id already appeared earlier in the list.
// It returns the filtered list and the number of items dropped.
func Dedupe(list []Item) ([]Item, int) {
	seen := make(map[string]struct{}, len(list))
	out := make([]Item, 0, len(list))
	for _, it := range list {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out, len(list) - len(out)
}
