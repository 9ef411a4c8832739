// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

var (
	// ErrUnsupportedType classifies native values outside the supported shape set.
	ErrUnsupportedType = errors.New("unsupported value type")
	// ErrNonFinite classifies NaN and infinite numbers, which have no canonical form.
	ErrNonFinite = errors.New("non-finite number")
)

// ConversionError reports where in a native structure conversion stopped.
type ConversionError struct {
	Path string // JSONPath-like location, e.g. $.params[2].code
	Type string // Go type found at Path
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s (%s): %v", e.Path, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func convErr(path string, native any, err error) error {
	return &ConversionError{Path: path, Type: fmt.Sprintf("%T", native), Err: err}
}

// ToCanonical converts a native Go value into a canonical tree.
//
// Supported: nil, bool, integer and float kinds, json.Number, string,
// json.RawMessage, slices and arrays, maps with string keys, pointers to any
// of these, and Value / *Map themselves. Go map keys are emitted sorted.
func ToCanonical(native any) (Value, error) {
	return toCanonical(native, "$")
}

// MapToCanonical converts a native string-keyed map. A nil map yields nil.
func MapToCanonical(native map[string]any) (*Map, error) {
	if native == nil {
		return nil, nil
	}
	v, err := toCanonical(native, "$")
	if err != nil {
		return nil, err
	}
	m, _ := v.AsMap()
	return m, nil
}

func toCanonical(native any, path string) (Value, error) {
	switch x := native.(type) {
	case nil:
		return Null(), nil
	case Value:
		return Clone(x), nil
	case *Value:
		if x == nil {
			return Null(), nil
		}
		return Clone(*x), nil
	case *Map:
		if x == nil {
			return Null(), nil
		}
		return Object(x.Clone()), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return number(x, native, path)
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return Value{}, convErr(path, native, err)
		}
		return number(f, native, path)
	case json.RawMessage:
		v, err := ParseJSON(x)
		if err != nil {
			return Value{}, convErr(path, native, err)
		}
		return v, nil
	case []any:
		if x == nil {
			return Null(), nil
		}
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := toCanonical(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]any:
		if x == nil {
			return Null(), nil
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			v, err := toCanonical(x[k], keyPath(path, k))
			if err != nil {
				return Value{}, err
			}
			m.Set(k, v)
		}
		return Object(m), nil
	}
	return reflectCanonical(reflect.ValueOf(native), native, path)
}

func reflectCanonical(rv reflect.Value, native any, path string) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return toCanonical(rv.Elem().Interface(), path)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return number(rv.Float(), native, path)
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			v, err := toCanonical(rv.Index(i).Interface(), indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindList, list: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, convErr(path, native, fmt.Errorf("%w: map key must be a string", ErrUnsupportedType))
		}
		if rv.IsNil() {
			return Null(), nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := NewMap()
		for _, k := range keys {
			v, err := toCanonical(rv.MapIndex(k).Interface(), keyPath(path, k.String()))
			if err != nil {
				return Value{}, err
			}
			m.Set(k.String(), v)
		}
		return Object(m), nil
	default:
		return Value{}, convErr(path, native, ErrUnsupportedType)
	}
}

func number(f float64, native any, path string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, convErr(path, native, ErrNonFinite)
	}
	return Number(f), nil
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func keyPath(path, key string) string {
	return path + "." + key
}

type nativeVisitor struct{}

func (nativeVisitor) Null() any            { return nil }
func (nativeVisitor) Bool(b bool) any      { return b }
func (nativeVisitor) Number(n float64) any { return n }
func (nativeVisitor) String(s string) any  { return s }
func (nativeVisitor) List(items []any) any { return items }
func (nativeVisitor) Map(keys []string, vals []any) any {
	out := make(map[string]any, len(keys))
	for i, k := range keys {
		out[k] = vals[i]
	}
	return out
}

// ToNative converts a tree into plain Go values: nil, bool, float64, string,
// []any and map[string]any. Map order is not retained.
func ToNative(v Value) any {
	return Visit[any](v, nativeVisitor{})
}

// MapToNative converts m into a native map. A nil map yields nil.
func MapToNative(m *Map) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := ToNative(Object(m)).(map[string]any)
	return out
}
