package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// ExperienceSchema is the column order of the ExperienceState table.
var ExperienceSchema = codec.Schema{"entity_id", "experience_stacks"}

// ExperienceRow holds one entity's accumulated XP per skill id.
type ExperienceRow struct {
	EntityID         int64           `json:"entity_id"`
	ExperienceStacks map[int64]int64 `json:"experience_stacks"`
}

// DecodeExperienceRow decodes one ExperienceState tuple. The stacks
// column is a list of [skill_id, xp] pairs.
func DecodeExperienceRow(t codec.Tuple) ExperienceRow {
	r := codec.DecodeRow(t, ExperienceSchema)
	row := ExperienceRow{
		EntityID:         r.Int64("entity_id"),
		ExperienceStacks: make(map[int64]int64),
	}
	for _, v := range r.Slice("experience_stacks") {
		pair := codec.AsSlice(v)
		if len(pair) < 2 {
			continue
		}
		row.ExperienceStacks[codec.AsInt64(pair[0])] = codec.AsInt64(pair[1])
	}
	return row
}

// DecodeExperienceRows decodes a full ExperienceState table.
func DecodeExperienceRows(rows []codec.Tuple) []ExperienceRow {
	out := make([]ExperienceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeExperienceRow(row))
	}
	return out
}
