// Package store caches one decoded table per entity kind, built from
// full-table source reads. Tables build lazily on first access and are
// replaced wholesale on reload: a new table is decoded completely and
// then swapped in, so in-flight readers never observe a half-updated
// table.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/kasuganosora/craftmirror/codec"
	"github.com/kasuganosora/craftmirror/gamestate"
	"go.uber.org/zap"
)

// Kind names one remote table.
type Kind string

const (
	KindItemDesc       Kind = "ItemDesc"
	KindCargoDesc      Kind = "CargoDesc"
	KindItemListDesc   Kind = "ItemListDesc"
	KindRecipeDesc     Kind = "CraftingRecipeDesc"
	KindSkillDesc      Kind = "SkillDesc"
	KindBuildingDesc   Kind = "BuildingDesc"
	KindInventoryState Kind = "InventoryState"
	KindPlayerState    Kind = "PlayerState"
	KindUserState      Kind = "UserState"
	KindExperience     Kind = "ExperienceState"
	KindBuildingState  Kind = "BuildingState"
	KindTradeOrder     Kind = "TradeOrderState"
)

// Kinds lists every table the store manages, in reload order.
var Kinds = []Kind{
	KindItemDesc, KindCargoDesc, KindItemListDesc, KindRecipeDesc,
	KindSkillDesc, KindBuildingDesc, KindInventoryState,
	KindPlayerState, KindUserState, KindExperience, KindBuildingState,
	KindTradeOrder,
}

type slot struct {
	mu     sync.Mutex // serializes builds and guards metadata; readers go through val
	val    atomicAny
	decode func([]codec.Tuple) any

	generation int64
	rowCount   int
	loadedAt   time.Time
	lastErr    error
}

type atomicAny struct {
	mu sync.RWMutex
	v  any
}

func (a *atomicAny) load() any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.v
}

func (a *atomicAny) store(v any) {
	a.mu.Lock()
	a.v = v
	a.mu.Unlock()
}

// Store owns one slot per table kind. Construct once and pass to every
// consumer; there is no ambient global state.
type Store struct {
	source Source
	logger *zap.Logger
	slots  map[Kind]*slot
}

// New creates a Store over the given source.
func New(source Source, logger *zap.Logger) *Store {
	s := &Store{
		source: source,
		logger: logger,
		slots:  make(map[Kind]*slot, len(Kinds)),
	}
	reg := func(kind Kind, decode func([]codec.Tuple) any) {
		s.slots[kind] = &slot{decode: decode}
	}
	reg(KindItemDesc, func(rows []codec.Tuple) any { return gamestate.DecodeItemRows(rows) })
	reg(KindCargoDesc, func(rows []codec.Tuple) any { return gamestate.DecodeCargoRows(rows) })
	reg(KindItemListDesc, func(rows []codec.Tuple) any { return gamestate.DecodeItemListRows(rows) })
	reg(KindRecipeDesc, func(rows []codec.Tuple) any { return gamestate.DecodeRecipeRows(rows) })
	reg(KindSkillDesc, func(rows []codec.Tuple) any { return gamestate.DecodeSkillRows(rows) })
	reg(KindBuildingDesc, func(rows []codec.Tuple) any { return gamestate.DecodeBuildingDescRows(rows) })
	reg(KindInventoryState, func(rows []codec.Tuple) any { return gamestate.DecodeInventoryRows(rows) })
	reg(KindPlayerState, func(rows []codec.Tuple) any { return gamestate.DecodePlayerRows(rows) })
	reg(KindUserState, func(rows []codec.Tuple) any { return gamestate.DecodeUserRows(rows) })
	reg(KindExperience, func(rows []codec.Tuple) any { return gamestate.DecodeExperienceRows(rows) })
	reg(KindBuildingState, func(rows []codec.Tuple) any { return gamestate.DecodeBuildingRows(rows) })
	reg(KindTradeOrder, func(rows []codec.Tuple) any { return gamestate.DecodeTradeOrderRows(rows) })
	return s
}

// build reads and decodes one table; sl.mu must be held. A failed read
// degrades to an empty table so derived views see "no data" instead of
// crashing.
func (s *Store) build(ctx context.Context, kind Kind, sl *slot) any {
	rows, err := s.source.ReadTable(ctx, string(kind))
	if err != nil {
		s.logger.Warn("table read failed, using empty table",
			zap.String("table", string(kind)),
			zap.Error(err))
		rows = nil
	}
	decoded := sl.decode(rows)

	sl.val.store(decoded)
	sl.generation++
	sl.rowCount = len(rows)
	sl.loadedAt = time.Now()
	sl.lastErr = err
	return decoded
}

// get returns the cached decoded table, building it on first access.
func (s *Store) get(ctx context.Context, kind Kind) any {
	sl, ok := s.slots[kind]
	if !ok {
		return nil
	}
	if v := sl.val.load(); v != nil {
		return v
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if v := sl.val.load(); v != nil {
		return v
	}
	return s.build(ctx, kind, sl)
}

// Reload decodes a fresh copy of one table and swaps it in. If a
// build for the same table is already in flight, this call is skipped.
// A failed read still swaps in an empty table (same degradation as
// first load); failures never propagate to other tables.
func (s *Store) Reload(ctx context.Context, kind Kind) error {
	sl, ok := s.slots[kind]
	if !ok {
		return nil
	}
	if !sl.mu.TryLock() {
		s.logger.Debug("reload already in flight, skipping",
			zap.String("table", string(kind)))
		return nil
	}
	defer sl.mu.Unlock()

	s.build(ctx, kind, sl)
	return sl.lastErr
}

// ReloadAll reloads every table. Each table is fault-isolated: one
// failure is logged and the remaining tables still reload.
func (s *Store) ReloadAll(ctx context.Context) {
	for _, kind := range Kinds {
		if err := s.Reload(ctx, kind); err != nil {
			s.logger.Error("table reload failed",
				zap.String("table", string(kind)),
				zap.Error(err))
		}
	}
}

func getTyped[T any](s *Store, ctx context.Context, kind Kind) T {
	var zero T
	v, ok := s.get(ctx, kind).(T)
	if !ok {
		return zero
	}
	return v
}

// Items returns the decoded item catalog.
func (s *Store) Items(ctx context.Context) []gamestate.ItemRow {
	return getTyped[[]gamestate.ItemRow](s, ctx, KindItemDesc)
}

// Cargo returns the decoded cargo catalog.
func (s *Store) Cargo(ctx context.Context) []gamestate.CargoRow {
	return getTyped[[]gamestate.CargoRow](s, ctx, KindCargoDesc)
}

// ItemLists returns the decoded item-list catalog.
func (s *Store) ItemLists(ctx context.Context) []gamestate.ItemListRow {
	return getTyped[[]gamestate.ItemListRow](s, ctx, KindItemListDesc)
}

// Recipes returns the decoded crafting-recipe catalog.
func (s *Store) Recipes(ctx context.Context) []gamestate.RecipeRow {
	return getTyped[[]gamestate.RecipeRow](s, ctx, KindRecipeDesc)
}

// Skills returns the decoded skill catalog.
func (s *Store) Skills(ctx context.Context) []gamestate.SkillRow {
	return getTyped[[]gamestate.SkillRow](s, ctx, KindSkillDesc)
}

// BuildingDescs returns the decoded building catalog.
func (s *Store) BuildingDescs(ctx context.Context) []gamestate.BuildingDescRow {
	return getTyped[[]gamestate.BuildingDescRow](s, ctx, KindBuildingDesc)
}

// Inventories returns the decoded inventory state table.
func (s *Store) Inventories(ctx context.Context) []gamestate.InventoryRow {
	return getTyped[[]gamestate.InventoryRow](s, ctx, KindInventoryState)
}

// Players returns the decoded player state table.
func (s *Store) Players(ctx context.Context) []gamestate.PlayerRow {
	return getTyped[[]gamestate.PlayerRow](s, ctx, KindPlayerState)
}

// Users returns the decoded user state table.
func (s *Store) Users(ctx context.Context) []gamestate.UserRow {
	return getTyped[[]gamestate.UserRow](s, ctx, KindUserState)
}

// Experience returns the decoded experience state table.
func (s *Store) Experience(ctx context.Context) []gamestate.ExperienceRow {
	return getTyped[[]gamestate.ExperienceRow](s, ctx, KindExperience)
}

// Buildings returns the decoded building state table.
func (s *Store) Buildings(ctx context.Context) []gamestate.BuildingRow {
	return getTyped[[]gamestate.BuildingRow](s, ctx, KindBuildingState)
}

// TradeOrders returns the decoded trade-order state table.
func (s *Store) TradeOrders(ctx context.Context) []gamestate.TradeOrderRow {
	return getTyped[[]gamestate.TradeOrderRow](s, ctx, KindTradeOrder)
}

// Catalogs bundles the item and cargo catalogs for reference expansion.
func (s *Store) Catalogs(ctx context.Context) gamestate.Catalogs {
	return gamestate.Catalogs{
		Items: IndexBy(s.Items(ctx), func(r gamestate.ItemRow) int64 { return r.ID }),
		Cargo: IndexBy(s.Cargo(ctx), func(r gamestate.CargoRow) int64 { return r.ID }),
	}
}

// IndexBy builds a lookup map over a decoded table. Later rows win on
// duplicate keys.
func IndexBy[T any, K comparable](rows []T, key func(T) K) map[K]T {
	m := make(map[K]T, len(rows))
	for _, row := range rows {
		m[key(row)] = row
	}
	return m
}

// TableStatus describes one slot for the ops surface.
type TableStatus struct {
	Table      string    `json:"table"`
	Loaded     bool      `json:"loaded"`
	Rows       int       `json:"rows"`
	Generation int64     `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// Status reports every slot's state, in Kinds order.
func (s *Store) Status() []TableStatus {
	out := make([]TableStatus, 0, len(Kinds))
	for _, kind := range Kinds {
		sl := s.slots[kind]
		sl.mu.Lock()
		st := TableStatus{
			Table:      string(kind),
			Loaded:     sl.val.load() != nil,
			Rows:       sl.rowCount,
			Generation: sl.generation,
			LoadedAt:   sl.loadedAt,
		}
		if sl.lastErr != nil {
			st.LastError = sl.lastErr.Error()
		}
		sl.mu.Unlock()
		out = append(out, st)
	}
	return out
}
