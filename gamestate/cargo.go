package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// CargoSchema is the column order of the CargoDesc catalog table.
var CargoSchema = codec.Schema{
	"id", "name", "description", "volume", "secondary_knowledge_id",
	"model_asset_name", "icon_asset_name", "carried_model_asset_name",
	"pick_up_animation_start", "pick_up_animation_end",
	"drop_animation_start", "drop_animation_end", "pick_up_time",
	"place_time", "animator_state", "movement_modifier", "blocks_path",
	"on_destroy_yield_cargos", "despawn_time", "tier", "tag", "rarity",
}

// CargoRow is one descriptor in the bulk-cargo catalog.
type CargoRow struct {
	ID                    int64          `json:"id"`
	Name                  string         `json:"name"`
	Description           string         `json:"description"`
	Volume                int64          `json:"volume"`
	SecondaryKnowledgeID  int64          `json:"secondary_knowledge_id"`
	ModelAssetName        string         `json:"model_asset_name"`
	IconAssetName         string         `json:"icon_asset_name"`
	CarriedModelAssetName string         `json:"carried_model_asset_name"`
	PickUpAnimationStart  string         `json:"pick_up_animation_start"`
	PickUpAnimationEnd    string         `json:"pick_up_animation_end"`
	DropAnimationStart    string         `json:"drop_animation_start"`
	DropAnimationEnd      string         `json:"drop_animation_end"`
	PickUpTime            float64        `json:"pick_up_time"`
	PlaceTime             float64        `json:"place_time"`
	AnimatorState         string         `json:"animator_state"`
	MovementModifier      float64        `json:"movement_modifier"`
	BlocksPath            bool           `json:"blocks_path"`
	OnDestroyYieldCargos  []any          `json:"on_destroy_yield_cargos"`
	DespawnTime           float64        `json:"despawn_time"`
	Tier                  int64          `json:"tier"`
	Tag                   string         `json:"tag"`
	Rarity                map[string]any `json:"rarity"`
}

// DecodeCargoRow decodes one CargoDesc tuple.
func DecodeCargoRow(t codec.Tuple) CargoRow {
	r := codec.DecodeRow(t, CargoSchema)
	return CargoRow{
		ID:                    r.Int64("id"),
		Name:                  r.String("name"),
		Description:           r.String("description"),
		Volume:                r.Int64("volume"),
		SecondaryKnowledgeID:  r.Int64("secondary_knowledge_id"),
		ModelAssetName:        r.String("model_asset_name"),
		IconAssetName:         r.String("icon_asset_name"),
		CarriedModelAssetName: r.String("carried_model_asset_name"),
		PickUpAnimationStart:  r.String("pick_up_animation_start"),
		PickUpAnimationEnd:    r.String("pick_up_animation_end"),
		DropAnimationStart:    r.String("drop_animation_start"),
		DropAnimationEnd:      r.String("drop_animation_end"),
		PickUpTime:            r.Float64("pick_up_time"),
		PlaceTime:             r.Float64("place_time"),
		AnimatorState:         r.String("animator_state"),
		MovementModifier:      r.Float64("movement_modifier"),
		BlocksPath:            r.Bool("blocks_path"),
		OnDestroyYieldCargos:  r.Slice("on_destroy_yield_cargos"),
		DespawnTime:           r.Float64("despawn_time"),
		Tier:                  r.Int64("tier"),
		Tag:                   r.String("tag"),
		Rarity:                r.Map("rarity"),
	}
}

// DecodeCargoRows decodes a full CargoDesc table.
func DecodeCargoRows(rows []codec.Tuple) []CargoRow {
	out := make([]CargoRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeCargoRow(row))
	}
	return out
}
