// Package recipes resolves crafting dependency trees: which recipes
// can produce a target item, and recursively which recipes produce
// their inputs. The recipe graph legitimately contains cycles
// (ingredient loops), so resolution carries an ancestor set that stops
// a branch from revisiting a recipe already on its own path.
package recipes

import (
	"github.com/kasuganosora/craftmirror/gamestate"
)

// ResolvedNode is one producing recipe in a dependency tree, nested to
// arbitrary depth. Inner holds one node per producer of each consumed
// stack; a recipe cut off by the cycle guard appears with an empty
// Inner list.
type ResolvedNode struct {
	RecipeID int64          `json:"recipe_id"`
	ItemID   int64          `json:"item_id"`
	Name     string         `json:"name"`
	Quantity int64          `json:"quantity"`
	Inner    []ResolvedNode `json:"inner"`
}

// Resolver answers producer and dependency-tree queries over one
// generation of the recipe/item/item-list catalogs. Build a fresh
// Resolver after a snapshot reload.
type Resolver struct {
	recipes   []gamestate.RecipeRow
	items     map[int64]gamestate.ItemRow
	itemLists map[int64]gamestate.ItemListRow

	// cache memoizes resolved subtrees by recipe id. Cycle-breaking is
	// path-sensitive while the key is not, so two rules keep reuse
	// sound: only subtrees whose resolution was never truncated by the
	// ancestor guard are cached, and a cached subtree is reused only
	// when no recipe inside it sits on the caller's own path. Anything
	// else is recomputed.
	cache map[int64]cacheEntry
}

type cacheEntry struct {
	node     ResolvedNode
	contains map[int64]struct{}
}

// NewResolver builds a Resolver over the given catalogs.
func NewResolver(recipes []gamestate.RecipeRow, items map[int64]gamestate.ItemRow, itemLists []gamestate.ItemListRow) *Resolver {
	lists := make(map[int64]gamestate.ItemListRow, len(itemLists))
	for _, l := range itemLists {
		lists[l.ID] = l
	}
	return &Resolver{
		recipes:   recipes,
		items:     items,
		itemLists: lists,
		cache:     make(map[int64]cacheEntry),
	}
}

// Producers returns every recipe whose crafted stacks reference the
// target item directly, or reference an item whose item list
// (transitively) contains the target.
func (r *Resolver) Producers(targetItemID int64) []gamestate.RecipeRow {
	var out []gamestate.RecipeRow
	for _, recipe := range r.recipes {
		if r.produces(recipe, targetItemID) {
			out = append(out, recipe)
		}
	}
	return out
}

func (r *Resolver) produces(recipe gamestate.RecipeRow, targetItemID int64) bool {
	for _, stack := range recipe.CraftedItemStacks {
		if stack.ItemID == targetItemID {
			return true
		}
		item, ok := r.items[stack.ItemID]
		if !ok || item.ItemListID == 0 {
			continue
		}
		if r.listContains(item.ItemListID, targetItemID, map[int64]struct{}{}) {
			return true
		}
	}
	return false
}

// listContains walks item-list indirection; lists can nest through
// member items that themselves point at another list.
func (r *Resolver) listContains(listID, targetItemID int64, seen map[int64]struct{}) bool {
	if _, ok := seen[listID]; ok {
		return false
	}
	seen[listID] = struct{}{}
	list, ok := r.itemLists[listID]
	if !ok {
		return false
	}
	for _, ref := range list.Items {
		if ref.ItemID == targetItemID {
			return true
		}
		if item, ok := r.items[ref.ItemID]; ok && item.ItemListID != 0 {
			if r.listContains(item.ItemListID, targetItemID, seen) {
				return true
			}
		}
	}
	return false
}

// DependencyTree resolves the full crafting tree for a target item:
// one root node per producing recipe. Empty catalogs yield an empty
// tree, never an error.
func (r *Resolver) DependencyTree(targetItemID int64) []ResolvedNode {
	producers := r.Producers(targetItemID)
	out := make([]ResolvedNode, 0, len(producers))
	for _, recipe := range producers {
		ancestors := map[int64]struct{}{recipe.ID: {}}
		node, _, _ := r.resolve(recipe, targetItemID, ancestors)
		out = append(out, node)
	}
	return out
}

// resolve builds the subtree for one recipe. ancestors holds every
// recipe id on the current path including this recipe's own. It
// returns the subtree, the set of recipe ids it contains, and whether
// any branch in it was truncated by the cycle guard.
func (r *Resolver) resolve(recipe gamestate.RecipeRow, targetItemID int64, ancestors map[int64]struct{}) (ResolvedNode, map[int64]struct{}, bool) {
	node := ResolvedNode{
		RecipeID: recipe.ID,
		ItemID:   targetItemID,
		Name:     recipe.Name,
		Quantity: craftedQuantity(recipe, targetItemID),
		Inner:    []ResolvedNode{},
	}
	contains := map[int64]struct{}{recipe.ID: {}}
	truncated := false

	for _, stack := range recipe.ConsumedItemStacks {
		for _, producer := range r.Producers(stack.ItemID) {
			if _, onPath := ancestors[producer.ID]; onPath {
				truncated = true
				continue
			}
			if entry, ok := r.cache[producer.ID]; ok && disjoint(entry.contains, ancestors) {
				node.Inner = append(node.Inner, entry.node)
				merge(contains, entry.contains)
				continue
			}

			childAncestors := make(map[int64]struct{}, len(ancestors)+1)
			merge(childAncestors, ancestors)
			childAncestors[producer.ID] = struct{}{}
			child, childContains, childTruncated := r.resolve(producer, stack.ItemID, childAncestors)

			node.Inner = append(node.Inner, child)
			merge(contains, childContains)
			if childTruncated {
				truncated = true
			} else {
				r.cache[producer.ID] = cacheEntry{node: child, contains: childContains}
			}
		}
	}
	return node, contains, truncated
}

func craftedQuantity(recipe gamestate.RecipeRow, itemID int64) int64 {
	for _, stack := range recipe.CraftedItemStacks {
		if stack.ItemID == itemID {
			return stack.Quantity
		}
	}
	if len(recipe.CraftedItemStacks) > 0 {
		return recipe.CraftedItemStacks[0].Quantity
	}
	return 0
}

func disjoint(a, b map[int64]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return false
		}
	}
	return true
}

func merge(dst, src map[int64]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}
