package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// TradeOrderSchema is the column order of the TradeOrderState table.
var TradeOrderSchema = codec.Schema{
	"entity_id", "building_entity_id", "remaining_stock",
	"offer_items", "offer_cargo_id", "required_items",
	"required_cargo_id",
}

// TradeOrderRow mirrors one standing trade order at a building.
type TradeOrderRow struct {
	EntityID         int64                 `json:"entity_id"`
	BuildingEntityID int64                 `json:"building_entity_id"`
	RemainingStock   int64                 `json:"remaining_stock"`
	OfferItems       []codec.ItemReference `json:"offer_items"`
	OfferCargoID     []any                 `json:"offer_cargo_id"`
	RequiredItems    []codec.ItemReference `json:"required_items"`
	RequiredCargoID  []any                 `json:"required_cargo_id"`
}

// DecodeTradeOrderRow decodes one TradeOrderState tuple.
func DecodeTradeOrderRow(t codec.Tuple) TradeOrderRow {
	r := codec.DecodeRow(t, TradeOrderSchema)
	return TradeOrderRow{
		EntityID:         r.Int64("entity_id"),
		BuildingEntityID: r.Int64("building_entity_id"),
		RemainingStock:   r.Int64("remaining_stock"),
		OfferItems:       codec.DecodeItemReferences(r["offer_items"]),
		OfferCargoID:     r.Slice("offer_cargo_id"),
		RequiredItems:    codec.DecodeItemReferences(r["required_items"]),
		RequiredCargoID:  r.Slice("required_cargo_id"),
	}
}

// DecodeTradeOrderRows decodes a full TradeOrderState table.
func DecodeTradeOrderRows(rows []codec.Tuple) []TradeOrderRow {
	out := make([]TradeOrderRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeTradeOrderRow(row))
	}
	return out
}
