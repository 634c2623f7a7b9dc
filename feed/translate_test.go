package feed

import (
	"testing"

	"github.com/kasuganosora/craftmirror/codec"
	"github.com/kasuganosora/craftmirror/gamestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invTuple builds an InventoryState wire tuple with one occupied
// pocket.
func invTuple(entityID, volume, itemID, qty, owner int64) codec.Tuple {
	return codec.Tuple{
		float64(entityID),
		[]any{
			[]any{
				float64(volume),
				map[string]any{"0": []any{
					[]any{float64(itemID), float64(qty), map[string]any{"0": []any{}}},
				}},
			},
		},
		float64(0), float64(0), float64(owner),
	}
}

func testCatalogs() gamestate.Catalogs {
	return gamestate.Catalogs{
		Items: map[int64]gamestate.ItemRow{100: {ID: 100, Name: "Rough Plank"}},
		Cargo: map[int64]gamestate.CargoRow{},
	}
}

func testResolver() *IdentityResolver {
	return NewIdentityResolver(
		[]gamestate.UserRow{{EntityID: 7, Identity: "abc123"}},
		[]gamestate.PlayerRow{{EntityID: 7, Username: "alice"}},
	)
}

func update(event transactionEvent, ops ...rowOperation) transactionUpdate {
	return transactionUpdate{
		Event: event,
		SubscriptionUpdate: subscriptionUpdate{
			TableUpdates: []tableUpdate{{TableRowOperations: ops}},
		},
	}
}

func TestResolve(t *testing.T) {
	r := testResolver()

	entityID, name, ok := r.Resolve("abc123")
	require.True(t, ok)
	assert.Equal(t, int64(7), entityID)
	assert.Equal(t, "alice", name)

	_, _, ok = r.Resolve("nobody")
	assert.False(t, ok)
}

func TestResolve_KnownUserWithoutPlayerRow(t *testing.T) {
	r := NewIdentityResolver([]gamestate.UserRow{{EntityID: 9, Identity: "ghost"}}, nil)
	entityID, name, ok := r.Resolve("ghost")
	require.True(t, ok)
	assert.Equal(t, int64(9), entityID)
	assert.Empty(t, name)
}

func TestTranslate_InsertOnlyIsCreation(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())

	events := tr.Translate(update(
		transactionEvent{CallerIdentity: "abc123", Timestamp: 1700000000},
		rowOperation{Op: opInsert, Row: invTuple(42, 10, 100, 3, 7)},
	))

	require.Len(t, events, 1)
	e := events[0]
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, int64(42), e.InventoryID)
	assert.Equal(t, "abc123", e.Identity)
	assert.Equal(t, int64(1700000000), e.Timestamp)
	require.NotNil(t, e.PlayerEntityID)
	assert.Equal(t, int64(7), *e.PlayerEntityID)
	assert.Equal(t, "alice", e.PlayerName)

	require.NotNil(t, e.Created)
	assert.Nil(t, e.Deleted)
	assert.Nil(t, e.Diff)
	require.Len(t, e.Created.Pockets, 1)
	contents := e.Created.Pockets[0].Contents
	require.NotNil(t, contents)
	assert.Equal(t, int64(100), contents.ItemID)
	require.NotNil(t, contents.Item)
	assert.Equal(t, "Rough Plank", contents.Item.Name)
}

func TestTranslate_DeleteOnlyIsDeletion(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())

	events := tr.Translate(update(
		transactionEvent{CallerIdentity: "abc123"},
		rowOperation{Op: opDelete, Row: invTuple(42, 10, 100, 3, 7)},
	))

	require.Len(t, events, 1)
	assert.Nil(t, events[0].Created)
	require.NotNil(t, events[0].Deleted)
	assert.Equal(t, int64(42), events[0].Deleted.EntityID)
}

func TestTranslate_PairIsDiff(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())

	events := tr.Translate(update(
		transactionEvent{CallerIdentity: "abc123"},
		rowOperation{Op: opDelete, Row: invTuple(42, 10, 100, 1, 7)},
		rowOperation{Op: opInsert, Row: invTuple(42, 10, 100, 2, 7)},
	))

	require.Len(t, events, 1)
	e := events[0]
	assert.Nil(t, e.Created)
	assert.Nil(t, e.Deleted)
	require.Len(t, e.Diff, 1)
	d, ok := e.Diff[0]
	require.True(t, ok)
	assert.Equal(t, int64(1), d.Old.Quantity)
	assert.Equal(t, int64(2), d.New.Quantity)
}

func TestTranslate_GroupsByInventoryID(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())

	events := tr.Translate(update(
		transactionEvent{CallerIdentity: "abc123"},
		rowOperation{Op: opDelete, Row: invTuple(42, 10, 100, 1, 7)},
		rowOperation{Op: opInsert, Row: invTuple(99, 10, 100, 5, 8)},
		rowOperation{Op: opInsert, Row: invTuple(42, 10, 100, 2, 7)},
	))

	require.Len(t, events, 2)
	assert.Equal(t, int64(42), events[0].InventoryID)
	assert.NotNil(t, events[0].Diff)
	assert.Equal(t, int64(99), events[1].InventoryID)
	assert.NotNil(t, events[1].Created)
}

func TestTranslate_UnknownIdentityStillEmits(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())

	events := tr.Translate(update(
		transactionEvent{CallerIdentity: "stranger", Timestamp: 5},
		rowOperation{Op: opInsert, Row: invTuple(42, 10, 100, 3, 7)},
	))

	require.Len(t, events, 1)
	assert.Equal(t, "stranger", events[0].Identity)
	assert.Nil(t, events[0].PlayerEntityID)
	assert.Empty(t, events[0].PlayerName)
}

func TestTranslate_EmptyUpdate(t *testing.T) {
	tr := NewTranslator(testCatalogs(), testResolver())
	assert.Empty(t, tr.Translate(transactionUpdate{}))
}
