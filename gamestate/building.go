package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// BuildingSchema is the column order of the BuildingState table.
var BuildingSchema = codec.Schema{
	"entity_id", "claim_entity_id", "direction_index",
	"building_description_id", "constructed_by_player_entity_id",
	"nickname",
}

// BuildingRow mirrors one placed building entity.
type BuildingRow struct {
	EntityID                    int64  `json:"entity_id"`
	ClaimEntityID               int64  `json:"claim_entity_id"`
	DirectionIndex              int64  `json:"direction_index"`
	BuildingDescriptionID       int64  `json:"building_description_id"`
	ConstructedByPlayerEntityID int64  `json:"constructed_by_player_entity_id"`
	Nickname                    string `json:"nickname"`
}

// DecodeBuildingRow decodes one BuildingState tuple.
func DecodeBuildingRow(t codec.Tuple) BuildingRow {
	r := codec.DecodeRow(t, BuildingSchema)
	return BuildingRow{
		EntityID:                    r.Int64("entity_id"),
		ClaimEntityID:               r.Int64("claim_entity_id"),
		DirectionIndex:              r.Int64("direction_index"),
		BuildingDescriptionID:       r.Int64("building_description_id"),
		ConstructedByPlayerEntityID: r.Int64("constructed_by_player_entity_id"),
		Nickname:                    r.String("nickname"),
	}
}

// DecodeBuildingRows decodes a full BuildingState table.
func DecodeBuildingRows(rows []codec.Tuple) []BuildingRow {
	out := make([]BuildingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeBuildingRow(row))
	}
	return out
}

// BuildingDescSchema is the column order of the BuildingDesc table.
var BuildingDescSchema = codec.Schema{
	"id", "functions", "name", "description", "rested_buff_duration",
	"light_radius", "model_asset_name", "icon_asset_name",
	"unenterable", "wilderness", "footprint",
}

// BuildingFunction is one capability slot group of a building kind.
type BuildingFunction struct {
	FunctionType      int64 `json:"function_type"`
	Level             int64 `json:"level"`
	CraftingSlots     int64 `json:"crafting_slots"`
	StorageSlots      int64 `json:"storage_slots"`
	CargoSlots        int64 `json:"cargo_slots"`
	RefiningSlots     int64 `json:"refining_slots"`
	RefiningCargoSlots int64 `json:"refining_cargo_slots"`
	CargoSlotSize     int64 `json:"cargo_slot_size"`
	TradeOrders       int64 `json:"trade_orders"`
	BuffIDs           []any `json:"buff_ids"`
}

// BuildingDescRow is one descriptor in the building catalog.
type BuildingDescRow struct {
	ID                 int64              `json:"id"`
	Functions          []BuildingFunction `json:"functions"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	RestedBuffDuration int64              `json:"rested_buff_duration"`
	LightRadius        int64              `json:"light_radius"`
	ModelAssetName     string             `json:"model_asset_name"`
	IconAssetName      string             `json:"icon_asset_name"`
	Unenterable        bool               `json:"unenterable"`
	Wilderness         bool               `json:"wilderness"`
	Footprint          any                `json:"footprint"`
}

// DecodeBuildingDescRow decodes one BuildingDesc tuple.
func DecodeBuildingDescRow(t codec.Tuple) BuildingDescRow {
	r := codec.DecodeRow(t, BuildingDescSchema)
	return BuildingDescRow{
		ID:                 r.Int64("id"),
		Functions:          decodeBuildingFunctions(r.Slice("functions")),
		Name:               r.String("name"),
		Description:        r.String("description"),
		RestedBuffDuration: r.Int64("rested_buff_duration"),
		LightRadius:        r.Int64("light_radius"),
		ModelAssetName:     r.String("model_asset_name"),
		IconAssetName:      r.String("icon_asset_name"),
		Unenterable:        r.Bool("unenterable"),
		Wilderness:         r.Bool("wilderness"),
		Footprint:          r["footprint"],
	}
}

// DecodeBuildingDescRows decodes a full BuildingDesc table.
func DecodeBuildingDescRows(rows []codec.Tuple) []BuildingDescRow {
	out := make([]BuildingDescRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeBuildingDescRow(row))
	}
	return out
}

func decodeBuildingFunctions(rows []any) []BuildingFunction {
	out := make([]BuildingFunction, 0, len(rows))
	for _, v := range rows {
		tuple := codec.AsSlice(v)
		get := func(i int) int64 {
			if i < len(tuple) {
				return codec.AsInt64(tuple[i])
			}
			return 0
		}
		fn := BuildingFunction{
			FunctionType:       get(0),
			Level:              get(1),
			CraftingSlots:      get(2),
			StorageSlots:       get(3),
			CargoSlots:         get(4),
			RefiningSlots:      get(5),
			RefiningCargoSlots: get(6),
			CargoSlotSize:      get(7),
			TradeOrders:        get(8),
		}
		if len(tuple) > 9 {
			fn.BuffIDs = codec.AsSlice(tuple[9])
		}
		out = append(out, fn)
	}
	return out
}
