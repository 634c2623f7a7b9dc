package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// UserSchema is the column order of the UserState table.
var UserSchema = codec.Schema{"entity_id", "identity"}

// UserRow joins a connection identity to a player entity. The identity
// column arrives wrapped in a single-element array.
type UserRow struct {
	EntityID int64  `json:"entity_id"`
	Identity string `json:"identity"`
}

// DecodeUserRow decodes one UserState tuple.
func DecodeUserRow(t codec.Tuple) UserRow {
	r := codec.DecodeRow(t, UserSchema)
	row := UserRow{EntityID: r.Int64("entity_id")}
	if wrapped := r.Slice("identity"); len(wrapped) > 0 {
		row.Identity = codec.AsString(wrapped[0])
	}
	return row
}

// DecodeUserRows decodes a full UserState table.
func DecodeUserRows(rows []codec.Tuple) []UserRow {
	out := make([]UserRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeUserRow(row))
	}
	return out
}
