// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package value

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCanonical_RoundTripsCanonicalShapes(t *testing.T) {
	cases := []struct {
		name   string
		native any
	}{
		{"null", nil},
		{"bool", true},
		{"number", 42.5},
		{"string", "otp"},
		{"empty list", []any{}},
		{"empty map", map[string]any{}},
		{"flat map", map[string]any{"flowId": "f1", "attempt": 2.0, "remember": false, "hint": nil}},
		{"nested", map[string]any{
			"user": map[string]any{
				"emails":  []any{"a@example.com", "b@example.com"},
				"devices": []any{map[string]any{"id": "d1", "trusted": true}},
			},
			"matrix": []any{[]any{1.0, 2.0}, []any{}, []any{map[string]any{}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := ToCanonical(tc.native)
			require.NoError(t, err)
			got := ToNative(tree)
			if diff := cmp.Diff(tc.native, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	nilContainers := map[string]any{
		"nil []any":          []any(nil),
		"nil map[string]any": map[string]any(nil),
		"nil []string":       []string(nil),
		"nil map[string]int": map[string]int(nil),
	}
	for name, native := range nilContainers {
		t.Run(name, func(t *testing.T) {
			tree, err := ToCanonical(native)
			require.NoError(t, err)
			assert.Equal(t, KindNull, tree.Kind())
			assert.Nil(t, ToNative(tree))
		})
	}
}

func TestToNative_ThenToCanonical_IsIdentity(t *testing.T) {
	m := NewMap().
		Set("z", Number(1)).
		Set("a", List(String("x"), Null(), Bool(true))).
		Set("m", Object(NewMap().Set("k", String("v"))))
	tree := Object(m)

	back, err := ToCanonical(ToNative(tree))
	require.NoError(t, err)
	assert.True(t, tree.Equal(back), "trees differ: %s vs %s", mustJSON(t, tree), mustJSON(t, back))
}

func TestToCanonical_WidensNumericKinds(t *testing.T) {
	type score int32
	tree, err := ToCanonical(map[string]any{
		"i":   7,
		"i8":  int8(-3),
		"u64": uint64(9),
		"f32": float32(0.5),
		"n":   json.Number("12.25"),
		"s":   score(4),
	})
	require.NoError(t, err)

	native := ToNative(tree).(map[string]any)
	assert.Equal(t, 7.0, native["i"])
	assert.Equal(t, -3.0, native["i8"])
	assert.Equal(t, 9.0, native["u64"])
	assert.Equal(t, 0.5, native["f32"])
	assert.Equal(t, 12.25, native["n"])
	assert.Equal(t, 4.0, native["s"])
}

func TestToCanonical_TypedCollectionsAndPointers(t *testing.T) {
	flow := "f1"
	var missing *string
	tree, err := ToCanonical(map[string]any{
		"tags":    []string{"b", "a"},
		"limits":  map[string]int{"sms": 3},
		"flow":    &flow,
		"missing": missing,
		"fixed":   [2]bool{true, false},
	})
	require.NoError(t, err)

	want := map[string]any{
		"tags":    []any{"b", "a"},
		"limits":  map[string]any{"sms": 3.0},
		"flow":    "f1",
		"missing": nil,
		"fixed":   []any{true, false},
	}
	if diff := cmp.Diff(want, ToNative(tree)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToCanonical_GoMapKeysAreSorted(t *testing.T) {
	tree, err := ToCanonical(map[string]any{"c": 1, "a": 2, "b": 3})
	require.NoError(t, err)
	m, ok := tree.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}

func TestToCanonical_RawJSONKeepsDocumentOrder(t *testing.T) {
	tree, err := ToCanonical(json.RawMessage(`{"zeta":1,"alpha":{"y":true,"x":null}}`))
	require.NoError(t, err)

	m, _ := tree.AsMap()
	assert.Equal(t, []string{"zeta", "alpha"}, m.Keys())
	inner, _ := m.Get("alpha")
	innerMap, _ := inner.AsMap()
	assert.Equal(t, []string{"y", "x"}, innerMap.Keys())
}

func TestToCanonical_UnsupportedTypes(t *testing.T) {
	type device struct{ ID string }
	cases := []struct {
		name   string
		native any
		path   string
		target error
	}{
		{"struct", device{ID: "d1"}, "$", ErrUnsupportedType},
		{"channel in map", map[string]any{"ch": make(chan int)}, "$.ch", ErrUnsupportedType},
		{"func in list", []any{"ok", func() {}}, "$[1]", ErrUnsupportedType},
		{"non string key", map[int]string{1: "x"}, "$", ErrUnsupportedType},
		{"nan", map[string]any{"score": math.NaN()}, "$.score", ErrNonFinite},
		{"inf deep", map[string]any{"a": []any{map[string]any{"b": math.Inf(1)}}}, "$.a[0].b", ErrNonFinite},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToCanonical(tc.native)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.target)

			var convErr *ConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, tc.path, convErr.Path)
		})
	}
}

func TestToCanonical_DoesNotAliasInputTrees(t *testing.T) {
	src := NewMap().Set("k", String("v"))
	tree, err := ToCanonical(src)
	require.NoError(t, err)

	src.Set("k", String("changed"))
	m, _ := tree.AsMap()
	got, _ := m.GetString("k")
	assert.Equal(t, "v", got)
}

func TestMapHelpers(t *testing.T) {
	m, err := MapToCanonical(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Nil(t, MapToNative(nil))

	m, err = MapToCanonical(map[string]any{"otp": "123456"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"otp": "123456"}, MapToNative(m))
}

func mustJSON(t *testing.T, v Value) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}
