// Package leaderboard derives experience rankings from the snapshot
// tables: one board per real skill, plus total-xp and total-level
// boards across all skills. Boards are a full recomputation over the
// current snapshot; callers rebuild after a reload to see fresh ranks.
package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kasuganosora/craftmirror/gamestate"
	"github.com/kasuganosora/craftmirror/store"
	"go.uber.org/zap"
)

// Names of the two cross-skill boards.
const (
	BoardExperience = "Experience"
	BoardLevel      = "Level"
)

// Entry is one ranked row of a board. Experience and Level are
// pointers because each board carries only the metrics it ranks by.
type Entry struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	Experience *int64 `json:"experience,omitempty"`
	Level      *int64 `json:"level,omitempty"`
	Rank       int    `json:"rank"`
}

// Boards maps board name (skill name, "Experience" or "Level") to its
// ranked entries.
type Boards map[string][]Entry

// SkillSummary is one player's standing in a single skill.
type SkillSummary struct {
	Experience int64 `json:"experience"`
	Level      int64 `json:"level"`
	Rank       int   `json:"rank"`
}

// Build computes every board from the given tables. Per-skill boards
// include only players whose experience stacks carry that skill; the
// sentinel "ANY" skill is skipped entirely. Within a board, entries
// sort descending by the ranked metric, ties keep their input order,
// and ranks run 1..N with no gaps. Player names come from the player
// table; unknown players keep an empty name.
func Build(skills []gamestate.SkillRow, experience []gamestate.ExperienceRow, players []gamestate.PlayerRow) Boards {
	skillNames := make(map[int64]string, len(skills))
	for _, s := range skills {
		skillNames[s.ID] = s.Name
	}
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.EntityID] = p.Username
	}

	boards := make(Boards)
	totalXP := make([]Entry, 0, len(experience))
	totalLevel := make([]Entry, 0, len(experience))

	for _, row := range experience {
		var sumXP, sumLevel int64
		// Iterate stacks in skill-id order so tie-breaking is
		// deterministic across rebuilds.
		for _, skillID := range sortedKeys(row.ExperienceStacks) {
			name := skillNames[skillID]
			if name == "" || name == gamestate.AnySkillName {
				continue
			}
			xp := row.ExperienceStacks[skillID]
			level := XPToLevel(xp)
			boards[name] = append(boards[name], Entry{
				PlayerID:   row.EntityID,
				PlayerName: names[row.EntityID],
				Experience: ptr(xp),
				Level:      ptr(level),
			})
			sumXP += xp
			sumLevel += level
		}
		totalXP = append(totalXP, Entry{
			PlayerID:   row.EntityID,
			PlayerName: names[row.EntityID],
			Experience: ptr(sumXP),
		})
		totalLevel = append(totalLevel, Entry{
			PlayerID:   row.EntityID,
			PlayerName: names[row.EntityID],
			Level:      ptr(sumLevel),
		})
	}

	for name, entries := range boards {
		rank(entries, func(e Entry) int64 { return *e.Experience })
		boards[name] = entries
	}
	rank(totalXP, func(e Entry) int64 { return *e.Experience })
	rank(totalLevel, func(e Entry) int64 { return *e.Level })
	boards[BoardExperience] = totalXP
	boards[BoardLevel] = totalLevel
	return boards
}

// rank sorts entries descending by metric (stable) and numbers them
// from 1.
func rank(entries []Entry, metric func(Entry) int64) {
	sort.SliceStable(entries, func(i, j int) bool {
		return metric(entries[i]) > metric(entries[j])
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func sortedKeys(m map[int64]int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func ptr(v int64) *int64 { return &v }

// Service caches one generation of boards over the snapshot store.
type Service struct {
	store  *store.Store
	logger *zap.Logger

	mu      sync.RWMutex
	boards  Boards
	builtAt time.Time
}

// NewService creates a Service; boards build lazily on first access.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Boards returns the cached boards, building them on first call.
func (s *Service) Boards(ctx context.Context) Boards {
	s.mu.RLock()
	boards := s.boards
	s.mu.RUnlock()
	if boards != nil {
		return boards
	}
	return s.Rebuild(ctx)
}

// Rebuild recomputes every board from the current snapshot tables and
// swaps the cached set.
func (s *Service) Rebuild(ctx context.Context) Boards {
	start := time.Now()
	boards := Build(s.store.Skills(ctx), s.store.Experience(ctx), s.store.Players(ctx))

	s.mu.Lock()
	s.boards = boards
	s.builtAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("leaderboards rebuilt",
		zap.Int("boards", len(boards)),
		zap.Duration("took", time.Since(start)))
	return boards
}

// BuiltAt reports when the cached boards were last computed; zero if
// they never were.
func (s *Service) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}

// PlayerSkills reports one player's experience, level and rank per
// real skill, keyed by skill name. Skills the player has no standing
// in report rank 0.
func (s *Service) PlayerSkills(ctx context.Context, entityID int64) map[string]SkillSummary {
	boards := s.Boards(ctx)
	out := make(map[string]SkillSummary)
	for _, skill := range s.store.Skills(ctx) {
		if skill.Name == gamestate.AnySkillName || skill.Name == "" {
			continue
		}
		summary := SkillSummary{Level: 1}
		for _, e := range boards[skill.Name] {
			if e.PlayerID == entityID {
				summary = SkillSummary{
					Experience: *e.Experience,
					Level:      *e.Level,
					Rank:       e.Rank,
				}
				break
			}
		}
		out[skill.Name] = summary
	}
	return out
}
