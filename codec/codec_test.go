package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOption_Present(t *testing.T) {
	v, ok := DecodeOption(map[string]any{"0": []any{"payload"}})
	require.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestDecodeOption_Absent(t *testing.T) {
	cases := []struct {
		name string
		in   any
	}{
		{"empty object", map[string]any{}},
		{"other key", map[string]any{"1": []any{}}},
		{"empty payload", map[string]any{"0": []any{}}},
		{"not an object", []any{1, 2}},
		{"nil", nil},
		{"payload not array", map[string]any{"0": "x"}},
		{"two keys", map[string]any{"0": []any{1}, "1": []any{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := DecodeOption(tc.in)
			assert.False(t, ok)
		})
	}
}

func TestDecodeRow_MapsPositionally(t *testing.T) {
	s := Schema{"id", "name", "volume"}
	rec := DecodeRow(Tuple{float64(7), "plank", float64(10)}, s)
	assert.Equal(t, int64(7), rec.Int64("id"))
	assert.Equal(t, "plank", rec.String("name"))
	assert.Equal(t, int64(10), rec.Int64("volume"))
}

func TestDecodeRow_ShortTuple(t *testing.T) {
	s := Schema{"id", "name", "volume"}
	rec := DecodeRow(Tuple{float64(7)}, s)
	assert.Equal(t, int64(7), rec.Int64("id"))
	// Missing columns read as zero values, never panic.
	assert.Equal(t, "", rec.String("name"))
	assert.Equal(t, int64(0), rec.Int64("volume"))
}

func TestDecodeRow_ExtraColumnsIgnored(t *testing.T) {
	s := Schema{"id"}
	rec := DecodeRow(Tuple{float64(1), "surplus", true}, s)
	assert.Len(t, rec, 1)
}

func TestDecodeRow_NilTuple(t *testing.T) {
	rec := DecodeRow(nil, Schema{"id"})
	assert.Empty(t, rec)
}

func TestDecodeItemReference_Item(t *testing.T) {
	ref := DecodeItemReference([]any{float64(7), float64(3), map[string]any{"0": []any{}}})
	assert.Equal(t, int64(7), ref.ItemID)
	assert.Equal(t, int64(3), ref.Quantity)
	assert.Equal(t, TypeItem, ref.ItemType)
	assert.Nil(t, ref.Durability)
}

func TestDecodeItemReference_Cargo(t *testing.T) {
	ref := DecodeItemReference([]any{float64(7), float64(3), map[string]any{"1": []any{}}})
	assert.Equal(t, TypeCargo, ref.ItemType)
}

func TestDecodeItemReference_Durability(t *testing.T) {
	ref := DecodeItemReference([]any{float64(7), float64(1), map[string]any{"0": []any{}}, float64(50)})
	require.NotNil(t, ref.Durability)
	assert.Equal(t, int64(50), *ref.Durability)
}

func TestDecodeItemReference_Malformed(t *testing.T) {
	ref := DecodeItemReference("not a tuple")
	assert.Equal(t, ItemReference{}, ref)

	ref = DecodeItemReference([]any{float64(9)})
	assert.Equal(t, int64(9), ref.ItemID)
	assert.Equal(t, int64(0), ref.Quantity)
	assert.Equal(t, TypeItem, ref.ItemType)
}

func TestItemType_JSONRoundTrip(t *testing.T) {
	b, err := TypeCargo.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"Cargo"`, string(b))

	var it ItemType
	require.NoError(t, it.UnmarshalJSON([]byte(`"Cargo"`)))
	assert.Equal(t, TypeCargo, it)
	assert.Error(t, it.UnmarshalJSON([]byte(`"Mystery"`)))
}

func TestCoercions(t *testing.T) {
	assert.Equal(t, int64(4), AsInt64(float64(4)))
	assert.Equal(t, int64(0), AsInt64("4"))
	assert.Equal(t, 2.5, AsFloat64(2.5))
	assert.True(t, AsBool(true))
	assert.False(t, AsBool("true"))
	assert.Nil(t, AsSlice(5))
	assert.Nil(t, AsMap(5))
}
