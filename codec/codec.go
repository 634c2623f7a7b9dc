package codec

import "encoding/json"

// Tuple is one positional row as delivered by the remote database:
// an ordered array of heterogeneous JSON values.
type Tuple []any

// Schema is the ordered field-name list for one table. Adding or
// removing a remote column is a one-line change here.
type Schema []string

// Record is a positional tuple mapped onto its schema's field names.
// Fields beyond the tuple's length are simply absent.
type Record map[string]any

// DecodeRow maps a positional tuple onto named fields. It is total:
// missing tuple elements leave fields absent, extra elements are
// ignored, and a nil tuple yields an empty record.
func DecodeRow(t Tuple, s Schema) Record {
	rec := make(Record, len(s))
	for i, name := range s {
		if i >= len(t) {
			break
		}
		rec[name] = t[i]
	}
	return rec
}

// DecodeOption unwraps the remote tagged-optional encoding. A present
// value is a single-key object {"0": [payload]}; any other key, an
// empty object, or a malformed shape is treated as absent.
func DecodeOption(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	inner, ok := m["0"]
	if !ok {
		return nil, false
	}
	arr, ok := inner.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return arr[0], true
}

// AsInt64 coerces a decoded JSON value to int64. Anything that is not
// a number yields zero.
func AsInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}

// AsFloat64 coerces a decoded JSON value to float64.
func AsFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

// AsString coerces a decoded JSON value to string, "" if it is not one.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsBool coerces a decoded JSON value to bool, false if it is not one.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// AsSlice coerces a decoded JSON value to a []any, nil if it is not one.
func AsSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// AsMap coerces a decoded JSON value to a map, nil if it is not one.
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Int64 reads a named field as int64.
func (r Record) Int64(field string) int64 { return AsInt64(r[field]) }

// Float64 reads a named field as float64.
func (r Record) Float64(field string) float64 { return AsFloat64(r[field]) }

// String reads a named field as string.
func (r Record) String(field string) string { return AsString(r[field]) }

// Bool reads a named field as bool.
func (r Record) Bool(field string) bool { return AsBool(r[field]) }

// Slice reads a named field as []any.
func (r Record) Slice(field string) []any { return AsSlice(r[field]) }

// Map reads a named field as map[string]any.
func (r Record) Map(field string) map[string]any { return AsMap(r[field]) }
