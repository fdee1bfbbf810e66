package cart

import "encoding/json"

// MarshalSnapshot encodes lines as the persisted JSON array.
func MarshalSnapshot(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

// UnmarshalSnapshot decodes a persisted snapshot. Lines with quantity below one
// are dropped and repeated keys are merged into the first occurrence, so the
// result always satisfies the store invariants.
func UnmarshalSnapshot(data []byte) ([]Item, error) {
	var raw []Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	index := make(map[Key]int, len(raw))
	for _, item := range raw {
		if item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.Key()]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(items)
		items = append(items, item)
	}
	return items, nil
}
