package feed

import (
	"github.com/google/uuid"
	"github.com/kasuganosora/craftmirror/gamestate"
)

// Translator turns raw transaction updates into semantic inventory
// change events. It carries one generation of catalogs and one
// identity resolver, both fixed at (re)connect time.
type Translator struct {
	catalogs gamestate.Catalogs
	identity *IdentityResolver
}

// NewTranslator creates a Translator over one catalog generation.
func NewTranslator(catalogs gamestate.Catalogs, identity *IdentityResolver) *Translator {
	return &Translator{catalogs: catalogs, identity: identity}
}

// opPair correlates the insert and delete sides of one row change.
type opPair struct {
	insert *rowOperation
	delete *rowOperation
}

// Translate derives one change event per distinct inventory touched by
// the update. An insert alone is a creation, a delete alone a
// deletion, and both together a pocket diff. Events come out in the
// order each inventory first appeared in the operation list.
func (t *Translator) Translate(update transactionUpdate) []gamestate.InventoryChange {
	pairs := make(map[int64]*opPair)
	var order []int64
	for _, tu := range update.SubscriptionUpdate.TableUpdates {
		for i := range tu.TableRowOperations {
			op := tu.TableRowOperations[i]
			id := gamestate.DecodeInventoryRow(op.Row).EntityID
			pair, ok := pairs[id]
			if !ok {
				pair = &opPair{}
				pairs[id] = pair
				order = append(order, id)
			}
			switch op.Op {
			case opInsert:
				pair.insert = &tu.TableRowOperations[i]
			case opDelete:
				pair.delete = &tu.TableRowOperations[i]
			}
		}
	}

	out := make([]gamestate.InventoryChange, 0, len(order))
	for _, id := range order {
		pair := pairs[id]
		if pair.insert == nil && pair.delete == nil {
			continue
		}
		out = append(out, t.changeFromPair(id, pair, update.Event))
	}
	return out
}

func (t *Translator) changeFromPair(inventoryID int64, pair *opPair, event transactionEvent) gamestate.InventoryChange {
	change := gamestate.InventoryChange{
		EventID:     uuid.NewString(),
		InventoryID: inventoryID,
		Identity:    event.CallerIdentity,
		Timestamp:   event.Timestamp,
	}
	if entityID, name, ok := t.identity.Resolve(event.CallerIdentity); ok {
		change.PlayerEntityID = &entityID
		change.PlayerName = name
	}

	switch {
	case pair.delete == nil:
		created := t.expand(pair.insert)
		change.Created = &created
	case pair.insert == nil:
		deleted := t.expand(pair.delete)
		change.Deleted = &deleted
	default:
		change.Diff = gamestate.DiffInventories(t.expand(pair.delete), t.expand(pair.insert))
	}
	return change
}

func (t *Translator) expand(op *rowOperation) gamestate.ExpandedInventory {
	return gamestate.ExpandInventory(gamestate.DecodeInventoryRow(op.Row), t.catalogs)
}
