// Package gamestate holds the typed row kinds mirrored from the remote
// world database and their positional decoders. Every decoder is total:
// a malformed or truncated tuple yields a partial row, never an error,
// because the remote schema can evolve ahead of the field lists here.
package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// ItemSchema is the column order of the ItemDesc catalog table.
var ItemSchema = codec.Schema{
	"id", "name", "description", "volume", "durability",
	"secondary_knowledge_id", "model_asset_name", "icon_asset_name",
	"tier", "tag", "rarity", "compendium_entry", "item_list_id",
}

// ItemRow is one descriptor in the item catalog.
type ItemRow struct {
	ID                   int64          `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Volume               int64          `json:"volume"`
	Durability           int64          `json:"durability"`
	SecondaryKnowledgeID int64          `json:"secondary_knowledge_id"`
	ModelAssetName       string         `json:"model_asset_name"`
	IconAssetName        string         `json:"icon_asset_name"`
	Tier                 int64          `json:"tier"`
	Tag                  string         `json:"tag"`
	Rarity               map[string]any `json:"rarity"`
	CompendiumEntry      bool           `json:"compendium_entry"`
	ItemListID           int64          `json:"item_list_id"`
}

// DecodeItemRow decodes one ItemDesc tuple.
func DecodeItemRow(t codec.Tuple) ItemRow {
	r := codec.DecodeRow(t, ItemSchema)
	return ItemRow{
		ID:                   r.Int64("id"),
		Name:                 r.String("name"),
		Description:          r.String("description"),
		Volume:               r.Int64("volume"),
		Durability:           r.Int64("durability"),
		SecondaryKnowledgeID: r.Int64("secondary_knowledge_id"),
		ModelAssetName:       r.String("model_asset_name"),
		IconAssetName:        r.String("icon_asset_name"),
		Tier:                 r.Int64("tier"),
		Tag:                  r.String("tag"),
		Rarity:               r.Map("rarity"),
		CompendiumEntry:      r.Bool("compendium_entry"),
		ItemListID:           r.Int64("item_list_id"),
	}
}

// DecodeItemRows decodes a full ItemDesc table.
func DecodeItemRows(rows []codec.Tuple) []ItemRow {
	out := make([]ItemRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeItemRow(row))
	}
	return out
}

// ExpandedReference is an ItemReference joined with its catalog
// descriptor. Built only for display/event payloads, never stored.
type ExpandedReference struct {
	ItemID     int64          `json:"item_id"`
	Quantity   int64          `json:"quantity"`
	ItemType   codec.ItemType `json:"item_type"`
	Durability *int64         `json:"durability,omitempty"`
	Item       *ItemRow       `json:"item,omitempty"`
	Cargo      *CargoRow      `json:"cargo,omitempty"`
}

// Catalogs bundles the descriptor tables needed to expand references.
type Catalogs struct {
	Items map[int64]ItemRow
	Cargo map[int64]CargoRow
}

// Expand joins a reference with its catalog descriptor. The ItemType
// discriminator alone decides which catalog is consulted; an id with
// no descriptor leaves the pointer nil.
func (c Catalogs) Expand(ref codec.ItemReference) ExpandedReference {
	exp := ExpandedReference{
		ItemID:     ref.ItemID,
		Quantity:   ref.Quantity,
		ItemType:   ref.ItemType,
		Durability: ref.Durability,
	}
	switch ref.ItemType {
	case codec.TypeCargo:
		if row, ok := c.Cargo[ref.ItemID]; ok {
			exp.Cargo = &row
		}
	default:
		if row, ok := c.Items[ref.ItemID]; ok {
			exp.Item = &row
		}
	}
	return exp
}
