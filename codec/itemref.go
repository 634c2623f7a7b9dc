package codec

import "fmt"

// ItemType says which catalog resolves an ItemReference.
type ItemType int

const (
	TypeItem ItemType = iota
	TypeCargo
)

// String returns the wire/display name of the type.
func (t ItemType) String() string {
	if t == TypeCargo {
		return "Cargo"
	}
	return "Item"
}

// MarshalJSON encodes the type as its display name.
func (t ItemType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the display name.
func (t *ItemType) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"Item"`:
		*t = TypeItem
	case `"Cargo"`:
		*t = TypeCargo
	default:
		return fmt.Errorf("codec: unknown item type %s", b)
	}
	return nil
}

// ItemReference is a lightweight pointer into the item or cargo
// catalog. The remote encodes the discriminator as a keyed object in
// slot 2: key "0" means Item, anything else means Cargo.
type ItemReference struct {
	ItemID   int64    `json:"item_id"`
	Quantity int64    `json:"quantity"`
	ItemType ItemType `json:"item_type"`
	// Durability is only present on some stacks (crafted outputs).
	Durability *int64 `json:"durability,omitempty"`
}

// DecodeItemReference decodes one reference tuple. Total: malformed
// slots fall back to zero values and an Item discriminator.
func DecodeItemReference(v any) ItemReference {
	t := AsSlice(v)
	ref := ItemReference{}
	if len(t) > 0 {
		ref.ItemID = AsInt64(t[0])
	}
	if len(t) > 1 {
		ref.Quantity = AsInt64(t[1])
	}
	if len(t) > 2 {
		ref.ItemType = decodeItemType(t[2])
	}
	if len(t) > 3 {
		if _, isNum := t[3].(float64); isNum {
			d := AsInt64(t[3])
			ref.Durability = &d
		}
	}
	return ref
}

// DecodeItemReferences decodes a slice of reference tuples.
func DecodeItemReferences(v any) []ItemReference {
	rows := AsSlice(v)
	refs := make([]ItemReference, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, DecodeItemReference(row))
	}
	return refs
}

func decodeItemType(v any) ItemType {
	m := AsMap(v)
	if _, ok := m["0"]; ok {
		return TypeItem
	}
	return TypeCargo
}
