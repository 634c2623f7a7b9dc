package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// PlayerSchema is the column order of the PlayerState table.
var PlayerSchema = codec.Schema{
	"entity_id", "serial_id", "username", "eth_pub_key", "time_played",
	"session_start_timestamp", "time_signed_in", "sign_in_timestamp",
	"signed_in", "unmanned_vehicle_coords", "destination_marker",
	"favorite_crafting_recipes", "teleport_location",
}

// PlayerRow mirrors one remote player entity.
type PlayerRow struct {
	EntityID                int64  `json:"entity_id"`
	SerialID                int64  `json:"serial_id"`
	Username                string `json:"username"`
	EthPubKey               string `json:"eth_pub_key"`
	TimePlayed              int64  `json:"time_played"`
	SessionStartTimestamp   int64  `json:"session_start_timestamp"`
	TimeSignedIn            int64  `json:"time_signed_in"`
	SignInTimestamp         int64  `json:"sign_in_timestamp"`
	SignedIn                bool   `json:"signed_in"`
	UnmannedVehicleCoords   any    `json:"unmanned_vehicle_coords"`
	DestinationMarker       any    `json:"destination_marker"`
	FavoriteCraftingRecipes any    `json:"favorite_crafting_recipes"`
	TeleportLocation        any    `json:"teleport_location"`
}

// DecodePlayerRow decodes one PlayerState tuple.
func DecodePlayerRow(t codec.Tuple) PlayerRow {
	r := codec.DecodeRow(t, PlayerSchema)
	return PlayerRow{
		EntityID:                r.Int64("entity_id"),
		SerialID:                r.Int64("serial_id"),
		Username:                r.String("username"),
		EthPubKey:               r.String("eth_pub_key"),
		TimePlayed:              r.Int64("time_played"),
		SessionStartTimestamp:   r.Int64("session_start_timestamp"),
		TimeSignedIn:            r.Int64("time_signed_in"),
		SignInTimestamp:         r.Int64("sign_in_timestamp"),
		SignedIn:                r.Bool("signed_in"),
		UnmannedVehicleCoords:   r["unmanned_vehicle_coords"],
		DestinationMarker:       r["destination_marker"],
		FavoriteCraftingRecipes: r["favorite_crafting_recipes"],
		TeleportLocation:        r["teleport_location"],
	}
}

// DecodePlayerRows decodes a full PlayerState table.
func DecodePlayerRows(rows []codec.Tuple) []PlayerRow {
	out := make([]PlayerRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodePlayerRow(row))
	}
	return out
}
