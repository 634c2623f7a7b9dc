package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// AnySkillName is the sentinel skill excluded from leaderboards.
const AnySkillName = "ANY"

// SkillSchema is the column order of the SkillDesc table.
var SkillSchema = codec.Schema{
	"id", "name", "description", "icon_asset_name", "title",
}

// SkillRow is one descriptor in the skill catalog.
type SkillRow struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IconAssetName string `json:"icon_asset_name"`
	Title         string `json:"title"`
}

// DecodeSkillRow decodes one SkillDesc tuple.
func DecodeSkillRow(t codec.Tuple) SkillRow {
	r := codec.DecodeRow(t, SkillSchema)
	return SkillRow{
		ID:            r.Int64("id"),
		Name:          r.String("name"),
		Description:   r.String("description"),
		IconAssetName: r.String("icon_asset_name"),
		Title:         r.String("title"),
	}
}

// DecodeSkillRows decodes a full SkillDesc table.
func DecodeSkillRows(rows []codec.Tuple) []SkillRow {
	out := make([]SkillRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeSkillRow(row))
	}
	return out
}
