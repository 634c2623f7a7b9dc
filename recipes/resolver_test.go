package recipes

import (
	"testing"

	"github.com/kasuganosora/craftmirror/codec"
	"github.com/kasuganosora/craftmirror/gamestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stack(itemID, qty int64) codec.ItemReference {
	return codec.ItemReference{ItemID: itemID, Quantity: qty, ItemType: codec.TypeItem}
}

func recipe(id int64, name string, consumed, crafted []codec.ItemReference) gamestate.RecipeRow {
	return gamestate.RecipeRow{ID: id, Name: name, ConsumedItemStacks: consumed, CraftedItemStacks: crafted}
}

func TestProducers_Direct(t *testing.T) {
	rows := []gamestate.RecipeRow{
		recipe(1, "Craft Plank", []codec.ItemReference{stack(10, 2)}, []codec.ItemReference{stack(20, 1)}),
		recipe(2, "Craft Rope", nil, []codec.ItemReference{stack(30, 1)}),
	}
	r := NewResolver(rows, nil, nil)

	producers := r.Producers(20)
	require.Len(t, producers, 1)
	assert.Equal(t, int64(1), producers[0].ID)
	assert.Empty(t, r.Producers(99))
}

func TestProducers_ViaItemList(t *testing.T) {
	// Recipe crafts item 50; item 50 belongs to list 7, which contains
	// item 60 — so the recipe is a producer of 60 too.
	rows := []gamestate.RecipeRow{
		recipe(1, "Salvage", nil, []codec.ItemReference{stack(50, 1)}),
	}
	items := map[int64]gamestate.ItemRow{
		50: {ID: 50, ItemListID: 7},
	}
	lists := []gamestate.ItemListRow{
		{ID: 7, Items: []codec.ItemReference{stack(60, 1), stack(61, 1)}},
	}
	r := NewResolver(rows, items, lists)

	require.Len(t, r.Producers(60), 1)
	assert.Empty(t, r.Producers(70))
}

func TestProducers_NestedItemList(t *testing.T) {
	// List 7 contains item 55 which itself points at list 8 holding
	// the target.
	rows := []gamestate.RecipeRow{
		recipe(1, "Salvage", nil, []codec.ItemReference{stack(50, 1)}),
	}
	items := map[int64]gamestate.ItemRow{
		50: {ID: 50, ItemListID: 7},
		55: {ID: 55, ItemListID: 8},
	}
	lists := []gamestate.ItemListRow{
		{ID: 7, Items: []codec.ItemReference{stack(55, 1)}},
		{ID: 8, Items: []codec.ItemReference{stack(60, 1)}},
	}
	r := NewResolver(rows, items, lists)
	assert.Len(t, r.Producers(60), 1)
}

func TestProducers_CyclicItemListsTerminate(t *testing.T) {
	items := map[int64]gamestate.ItemRow{
		50: {ID: 50, ItemListID: 7},
		55: {ID: 55, ItemListID: 7}, // loops back to its own list
	}
	lists := []gamestate.ItemListRow{
		{ID: 7, Items: []codec.ItemReference{stack(55, 1)}},
	}
	rows := []gamestate.RecipeRow{
		recipe(1, "Salvage", nil, []codec.ItemReference{stack(50, 1)}),
	}
	r := NewResolver(rows, items, lists)
	assert.Empty(t, r.Producers(60))
}

func TestDependencyTree_Linear(t *testing.T) {
	// Plank(20) <- Log(10) <- (gathered, no producer)
	rows := []gamestate.RecipeRow{
		recipe(1, "Craft Plank", []codec.ItemReference{stack(10, 2)}, []codec.ItemReference{stack(20, 4)}),
		recipe(2, "Cut Log", nil, []codec.ItemReference{stack(10, 1)}),
	}
	r := NewResolver(rows, nil, nil)

	tree := r.DependencyTree(20)
	require.Len(t, tree, 1)
	root := tree[0]
	assert.Equal(t, int64(1), root.RecipeID)
	assert.Equal(t, "Craft Plank", root.Name)
	assert.Equal(t, int64(20), root.ItemID)
	assert.Equal(t, int64(4), root.Quantity)
	require.Len(t, root.Inner, 1)
	assert.Equal(t, int64(2), root.Inner[0].RecipeID)
	assert.Empty(t, root.Inner[0].Inner)
}

func TestDependencyTree_TwoCycleTerminates(t *testing.T) {
	// Recipe A produces X consuming Y; recipe B produces Y consuming X.
	a := recipe(1, "A", []codec.ItemReference{stack(200, 1)}, []codec.ItemReference{stack(100, 1)})
	b := recipe(2, "B", []codec.ItemReference{stack(100, 1)}, []codec.ItemReference{stack(200, 1)})
	r := NewResolver([]gamestate.RecipeRow{a, b}, nil, nil)

	tree := r.DependencyTree(100)
	require.Len(t, tree, 1)
	root := tree[0]
	assert.Equal(t, int64(1), root.RecipeID)
	require.Len(t, root.Inner, 1)
	// B appears once; its edge back to A is cut by the ancestor guard,
	// leaving an empty inner list.
	assert.Equal(t, int64(2), root.Inner[0].RecipeID)
	assert.Empty(t, root.Inner[0].Inner)
}

func TestDependencyTree_SharedSubtreeCached(t *testing.T) {
	// Two branches both need item 10; the Cut Log subtree is resolved
	// once and reused.
	rows := []gamestate.RecipeRow{
		recipe(1, "Craft Table", []codec.ItemReference{stack(20, 1), stack(30, 1)}, []codec.ItemReference{stack(40, 1)}),
		recipe(2, "Craft Plank", []codec.ItemReference{stack(10, 1)}, []codec.ItemReference{stack(20, 1)}),
		recipe(3, "Craft Beam", []codec.ItemReference{stack(10, 1)}, []codec.ItemReference{stack(30, 1)}),
		recipe(4, "Cut Log", nil, []codec.ItemReference{stack(10, 1)}),
	}
	r := NewResolver(rows, nil, nil)

	tree := r.DependencyTree(40)
	require.Len(t, tree, 1)
	root := tree[0]
	require.Len(t, root.Inner, 2)
	require.Len(t, root.Inner[0].Inner, 1)
	require.Len(t, root.Inner[1].Inner, 1)
	assert.Equal(t, int64(4), root.Inner[0].Inner[0].RecipeID)
	assert.Equal(t, int64(4), root.Inner[1].Inner[0].RecipeID)
	// The shared subtree landed in the cache.
	_, cached := r.cache[4]
	assert.True(t, cached)
}

func TestDependencyTree_CycleTruncatedSubtreeNotCached(t *testing.T) {
	// A(1) consumes Y produced by B(2), which consumes X produced by
	// A. B's subtree is truncated under A's path, so caching it would
	// leak the truncation into unrelated paths; it must be recomputed.
	a := recipe(1, "A", []codec.ItemReference{stack(200, 1)}, []codec.ItemReference{stack(100, 1)})
	b := recipe(2, "B", []codec.ItemReference{stack(100, 1)}, []codec.ItemReference{stack(200, 1)})
	r := NewResolver([]gamestate.RecipeRow{a, b}, nil, nil)

	r.DependencyTree(100)
	_, cachedA := r.cache[1]
	_, cachedB := r.cache[2]
	assert.False(t, cachedA)
	assert.False(t, cachedB)

	// Resolving from the other side still sees the full one-level
	// expansion of A rather than a stale truncated copy.
	tree := r.DependencyTree(200)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Inner, 1)
	assert.Equal(t, int64(1), tree[0].Inner[0].RecipeID)
}

func TestDependencyTree_EmptyCatalogs(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	assert.Empty(t, r.DependencyTree(100))
}

func TestCraftedQuantity_FallsBackToFirstStack(t *testing.T) {
	rows := []gamestate.RecipeRow{
		recipe(1, "Salvage", nil, []codec.ItemReference{stack(50, 3)}),
	}
	items := map[int64]gamestate.ItemRow{50: {ID: 50, ItemListID: 7}}
	lists := []gamestate.ItemListRow{{ID: 7, Items: []codec.ItemReference{stack(60, 1)}}}
	r := NewResolver(rows, items, lists)

	tree := r.DependencyTree(60)
	require.Len(t, tree, 1)
	// Producer matched via the item list: quantity comes from the
	// recipe's own crafted stack.
	assert.Equal(t, int64(3), tree[0].Quantity)
	assert.Equal(t, int64(60), tree[0].ItemID)
}
