package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// ItemListSchema is the column order of the ItemListDesc table.
var ItemListSchema = codec.Schema{
	"unique_id", "id", "name", "probability", "items", "item_list_id",
}

// ItemListRow is a named group of interchangeable item references,
// used as an indirection layer in recipe inputs/outputs.
type ItemListRow struct {
	UniqueID    int64                 `json:"unique_id"`
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Probability float64               `json:"probability"`
	Items       []codec.ItemReference `json:"items"`
	ItemListID  int64                 `json:"item_list_id"`
}

// DecodeItemListRow decodes one ItemListDesc tuple.
func DecodeItemListRow(t codec.Tuple) ItemListRow {
	r := codec.DecodeRow(t, ItemListSchema)
	return ItemListRow{
		UniqueID:    r.Int64("unique_id"),
		ID:          r.Int64("id"),
		Name:        r.String("name"),
		Probability: r.Float64("probability"),
		Items:       codec.DecodeItemReferences(r["items"]),
		ItemListID:  r.Int64("item_list_id"),
	}
}

// DecodeItemListRows decodes a full ItemListDesc table.
func DecodeItemListRows(rows []codec.Tuple) []ItemListRow {
	out := make([]ItemListRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeItemListRow(row))
	}
	return out
}
