package gamestate

import (
	"reflect"

	"github.com/kasuganosora/craftmirror/codec"
)

// InventorySchema is the column order of the InventoryState table.
var InventorySchema = codec.Schema{
	"entity_id", "pockets", "inventory_index", "cargo_index",
	"owner_entity_id",
}

// Pocket is one capacity-bounded slot in an inventory. Pocket position
// is semantically meaningful and preserved across snapshots so diffing
// stays valid.
type Pocket struct {
	Volume   int64                `json:"volume"`
	Contents *codec.ItemReference `json:"contents,omitempty"`
}

// InventoryRow mirrors one remote inventory; owned by whichever
// player/building/vehicle entity holds it.
type InventoryRow struct {
	EntityID       int64    `json:"entity_id"`
	Pockets        []Pocket `json:"pockets"`
	InventoryIndex int64    `json:"inventory_index"`
	CargoIndex     int64    `json:"cargo_index"`
	OwnerEntityID  int64    `json:"owner_entity_id"`
}

// DecodeInventoryRow decodes one InventoryState tuple.
func DecodeInventoryRow(t codec.Tuple) InventoryRow {
	r := codec.DecodeRow(t, InventorySchema)
	return InventoryRow{
		EntityID:       r.Int64("entity_id"),
		Pockets:        decodePockets(r.Slice("pockets")),
		InventoryIndex: r.Int64("inventory_index"),
		CargoIndex:     r.Int64("cargo_index"),
		OwnerEntityID:  r.Int64("owner_entity_id"),
	}
}

// DecodeInventoryRows decodes a full InventoryState table.
func DecodeInventoryRows(rows []codec.Tuple) []InventoryRow {
	out := make([]InventoryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeInventoryRow(row))
	}
	return out
}

func decodePockets(rows []any) []Pocket {
	out := make([]Pocket, 0, len(rows))
	for _, v := range rows {
		tuple := codec.AsSlice(v)
		p := Pocket{}
		if len(tuple) > 0 {
			p.Volume = codec.AsInt64(tuple[0])
		}
		if len(tuple) > 1 {
			if contents, ok := codec.DecodeOption(tuple[1]); ok {
				ref := codec.DecodeItemReference(contents)
				p.Contents = &ref
			}
		}
		out = append(out, p)
	}
	return out
}

// ExpandedPocket is a pocket with its contents joined to the catalogs.
type ExpandedPocket struct {
	Volume   int64              `json:"volume"`
	Contents *ExpandedReference `json:"contents,omitempty"`
}

// ExpandedInventory is the display form of an inventory used in
// change events.
type ExpandedInventory struct {
	EntityID       int64            `json:"entity_id"`
	Pockets        []ExpandedPocket `json:"pockets"`
	InventoryIndex int64            `json:"inventory_index"`
	CargoIndex     int64            `json:"cargo_index"`
	OwnerEntityID  int64            `json:"owner_entity_id"`
}

// ExpandInventory joins every pocket's contents with the catalogs.
func ExpandInventory(inv InventoryRow, cats Catalogs) ExpandedInventory {
	exp := ExpandedInventory{
		EntityID:       inv.EntityID,
		Pockets:        make([]ExpandedPocket, 0, len(inv.Pockets)),
		InventoryIndex: inv.InventoryIndex,
		CargoIndex:     inv.CargoIndex,
		OwnerEntityID:  inv.OwnerEntityID,
	}
	for _, p := range inv.Pockets {
		ep := ExpandedPocket{Volume: p.Volume}
		if p.Contents != nil {
			ref := cats.Expand(*p.Contents)
			ep.Contents = &ref
		}
		exp.Pockets = append(exp.Pockets, ep)
	}
	return exp
}

// PocketDiff is the old/new expanded contents of one changed pocket.
type PocketDiff struct {
	Old *ExpandedReference `json:"old,omitempty"`
	New *ExpandedReference `json:"new,omitempty"`
}

// DiffInventories compares two expanded inventories pocket by pocket
// and returns only the pockets whose contents differ by value, keyed
// by pocket index.
func DiffInventories(oldInv, newInv ExpandedInventory) map[int]PocketDiff {
	diff := make(map[int]PocketDiff)
	n := len(oldInv.Pockets)
	if len(newInv.Pockets) > n {
		n = len(newInv.Pockets)
	}
	for i := 0; i < n; i++ {
		var oldC, newC *ExpandedReference
		if i < len(oldInv.Pockets) {
			oldC = oldInv.Pockets[i].Contents
		}
		if i < len(newInv.Pockets) {
			newC = newInv.Pockets[i].Contents
		}
		if !reflect.DeepEqual(oldC, newC) {
			diff[i] = PocketDiff{Old: oldC, New: newC}
		}
	}
	return diff
}

// InventoryChange is the semantic event derived from one correlated
// insert/delete pair on an inventory row. Exactly one of Created,
// Deleted, or Diff is set. Field names match the wire format consumed
// by downstream readers of the change log.
type InventoryChange struct {
	EventID        string             `json:"event_id"`
	InventoryID    int64              `json:"inventory_id"`
	Identity       string             `json:"identity"`
	PlayerEntityID *int64             `json:"playerEntityId,omitempty"`
	PlayerName     string             `json:"playerName,omitempty"`
	Timestamp      int64              `json:"timestamp"`
	Created        *ExpandedInventory `json:"created,omitempty"`
	Deleted        *ExpandedInventory `json:"deleted,omitempty"`
	Diff           map[int]PocketDiff `json:"diff,omitempty"`
}
