package gamestate

import "github.com/kasuganosora/craftmirror/codec"

// RecipeSchema is the column order of the CraftingRecipeDesc table.
var RecipeSchema = codec.Schema{
	"id", "name", "time_requirement", "stamina_requirement",
	"building_requirement", "level_requirements", "tool_requirements",
	"consumed_item_stacks", "discovery_triggers", "required_knowledges",
	"required_claim_tech_id", "full_discovery_score",
	"completion_experience", "allow_use_hands", "crafted_item_stacks",
	"is_passive", "actions_required", "tool_mesh_index",
	"animation_start", "animation_end",
}

// LevelRequirement is a minimum skill level needed to run a recipe.
type LevelRequirement struct {
	SkillID int64 `json:"skill_id"`
	Level   int64 `json:"level"`
}

// ToolRequirement is a tool tier/power needed to run a recipe.
type ToolRequirement struct {
	ToolType int64 `json:"tool_type"`
	Level    int64 `json:"level"`
	Power    int64 `json:"power"`
}

// ExperienceStack is the XP granted on recipe completion.
type ExperienceStack struct {
	SkillID  int64 `json:"skill_id"`
	Quantity int64 `json:"quantity"`
}

// BuildingRequirement is the station a recipe needs. The remote
// encodes it as a keyed object whose values are [type, tier] pairs.
type BuildingRequirement struct {
	Type int64 `json:"type"`
	Tier int64 `json:"tier"`
}

// RecipeRow is one crafting recipe. Recipes form a directed graph:
// an edge from R to S exists when S crafts something R consumes.
type RecipeRow struct {
	ID                   int64                 `json:"id"`
	Name                 string                `json:"name"`
	TimeRequirement      float64               `json:"time_requirement"`
	StaminaRequirement   float64               `json:"stamina_requirement"`
	BuildingRequirement  []BuildingRequirement `json:"building_requirement"`
	LevelRequirements    []LevelRequirement    `json:"level_requirements"`
	ToolRequirements     []ToolRequirement     `json:"tool_requirements"`
	ConsumedItemStacks   []codec.ItemReference `json:"consumed_item_stacks"`
	DiscoveryTriggers    []any                 `json:"discovery_triggers"`
	RequiredKnowledges   []any                 `json:"required_knowledges"`
	RequiredClaimTechID  []any                 `json:"required_claim_tech_id"`
	FullDiscoveryScore   int64                 `json:"full_discovery_score"`
	CompletionExperience []ExperienceStack     `json:"completion_experience"`
	AllowUseHands        bool                  `json:"allow_use_hands"`
	CraftedItemStacks    []codec.ItemReference `json:"crafted_item_stacks"`
	IsPassive            bool                  `json:"is_passive"`
	ActionsRequired      int64                 `json:"actions_required"`
	ToolMeshIndex        int64                 `json:"tool_mesh_index"`
	AnimationStart       string                `json:"animation_start"`
	AnimationEnd         string                `json:"animation_end"`
}

// DecodeRecipeRow decodes one CraftingRecipeDesc tuple.
func DecodeRecipeRow(t codec.Tuple) RecipeRow {
	r := codec.DecodeRow(t, RecipeSchema)
	return RecipeRow{
		ID:                   r.Int64("id"),
		Name:                 r.String("name"),
		TimeRequirement:      r.Float64("time_requirement"),
		StaminaRequirement:   r.Float64("stamina_requirement"),
		BuildingRequirement:  decodeBuildingRequirements(r.Map("building_requirement")),
		LevelRequirements:    decodeLevelRequirements(r.Slice("level_requirements")),
		ToolRequirements:     decodeToolRequirements(r.Slice("tool_requirements")),
		ConsumedItemStacks:   codec.DecodeItemReferences(r["consumed_item_stacks"]),
		DiscoveryTriggers:    r.Slice("discovery_triggers"),
		RequiredKnowledges:   r.Slice("required_knowledges"),
		RequiredClaimTechID:  r.Slice("required_claim_tech_id"),
		FullDiscoveryScore:   r.Int64("full_discovery_score"),
		CompletionExperience: decodeExperienceStacks(r.Slice("completion_experience")),
		AllowUseHands:        r.Bool("allow_use_hands"),
		CraftedItemStacks:    codec.DecodeItemReferences(r["crafted_item_stacks"]),
		IsPassive:            r.Bool("is_passive"),
		ActionsRequired:      r.Int64("actions_required"),
		ToolMeshIndex:        r.Int64("tool_mesh_index"),
		AnimationStart:       r.String("animation_start"),
		AnimationEnd:         r.String("animation_end"),
	}
}

// DecodeRecipeRows decodes a full CraftingRecipeDesc table.
func DecodeRecipeRows(rows []codec.Tuple) []RecipeRow {
	out := make([]RecipeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeRecipeRow(row))
	}
	return out
}

func decodeBuildingRequirements(m map[string]any) []BuildingRequirement {
	out := make([]BuildingRequirement, 0, len(m))
	for _, v := range m {
		pair := codec.AsSlice(v)
		if len(pair) != 2 {
			continue
		}
		out = append(out, BuildingRequirement{
			Type: codec.AsInt64(pair[0]),
			Tier: codec.AsInt64(pair[1]),
		})
	}
	return out
}

func decodeLevelRequirements(rows []any) []LevelRequirement {
	out := make([]LevelRequirement, 0, len(rows))
	for _, v := range rows {
		pair := codec.AsSlice(v)
		req := LevelRequirement{}
		if len(pair) > 0 {
			req.SkillID = codec.AsInt64(pair[0])
		}
		if len(pair) > 1 {
			req.Level = codec.AsInt64(pair[1])
		}
		out = append(out, req)
	}
	return out
}

func decodeToolRequirements(rows []any) []ToolRequirement {
	out := make([]ToolRequirement, 0, len(rows))
	for _, v := range rows {
		tuple := codec.AsSlice(v)
		req := ToolRequirement{}
		if len(tuple) > 0 {
			req.ToolType = codec.AsInt64(tuple[0])
		}
		if len(tuple) > 1 {
			req.Level = codec.AsInt64(tuple[1])
		}
		if len(tuple) > 2 {
			req.Power = codec.AsInt64(tuple[2])
		}
		out = append(out, req)
	}
	return out
}

func decodeExperienceStacks(rows []any) []ExperienceStack {
	out := make([]ExperienceStack, 0, len(rows))
	for _, v := range rows {
		pair := codec.AsSlice(v)
		st := ExperienceStack{}
		if len(pair) > 0 {
			st.SkillID = codec.AsInt64(pair[0])
		}
		if len(pair) > 1 {
			st.Quantity = codec.AsInt64(pair[1])
		}
		out = append(out, st)
	}
	return out
}
