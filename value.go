package robotick

import "fmt"

// ValueKind tags the concrete type carried by a Value.
type ValueKind uint8

const (
	KindNil ValueKind = iota
	KindInt64
	KindFloat64
	KindBool
	KindString
	KindList
	KindMap
)

// Value is the dynamically typed scalar or composite a field may hold.
// It is the one concrete resolution of spec.md's "dynamically typed
// scalars or composite values (numbers, strings, lists, key->value maps)"
// and doubles as the telemetry serialization taxonomy.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
	list []Value
	m    map[string]Value
}

// Nil is the absence marker StateContainer.Get returns for an unknown field.
var Nil = Value{kind: KindNil}

func Int64(v int64) Value     { return Value{kind: KindInt64, i: v} }
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }
func Bool(v bool) Value       { return Value{kind: KindBool, b: v} }
func String(v string) Value   { return Value{kind: KindString, s: v} }
func List(v []Value) Value    { return Value{kind: KindList, list: v} }
func Map(v map[string]Value) Value {
	return Value{kind: KindMap, m: v}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }

// Float returns the numeric value as a float64, coercing Int64 if needed.
// Non-numeric kinds return (0, false).
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat64:
		return v.f, true
	case KindInt64:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt64:
		return v.i, true
	case KindFloat64:
		return int64(v.f), true
	default:
		return 0, false
	}
}

func (v Value) String_() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) Bool_() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) List_() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) Map_() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// FloatOr returns the float value or a fallback if v is nil or non-numeric.
func (v Value) FloatOr(fallback float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return fallback
}

// ValueFromAny lifts a Go native value (as produced by a YAML/JSON decode)
// into a Value. Unsupported types are reported via the returned error.
func ValueFromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Nil, nil
	case int:
		return Int64(int64(t)), nil
	case int64:
		return Int64(t), nil
	case float64:
		return Float64(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []any:
		out := make([]Value, 0, len(t))
		for _, item := range t {
			iv, err := ValueFromAny(item)
			if err != nil {
				return Nil, err
			}
			out = append(out, iv)
		}
		return List(out), nil
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, item := range t {
			iv, err := ValueFromAny(item)
			if err != nil {
				return Nil, err
			}
			out[k] = iv
		}
		return Map(out), nil
	default:
		return Nil, fmt.Errorf("robotick: unsupported config value type %T", raw)
	}
}

// Any lowers a Value back to a plain Go value, suitable for JSON/telemetry
// encoding.
func (v Value) Any() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindInt64:
		return v.i
	case KindFloat64:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Any()
		}
		return out
	default:
		return nil
	}
}
