// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_PreservesOrderAndShapes(t *testing.T) {
	doc := `{"b":[1,2.5,"x",null,true],"a":{"nested":{}},"c":"é"}`
	v, err := ParseJSON([]byte(doc))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))
}

func TestParseJSON_Rejects(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":    ``,
		"trailing": `{"a":1} {"b":2}`,
		"broken":   `{"a":`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestValueJSONInsideStructs(t *testing.T) {
	type envelope struct {
		Data  *Value `json:"data"`
		Extra *Map   `json:"extra"`
	}
	in := `{"data":{"y":1,"x":[true]},"extra":{"q":"r","p":null}}`

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(in), &env))
	require.NotNil(t, env.Data)
	m, ok := env.Data.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"y", "x"}, m.Keys())
	assert.Equal(t, []string{"q", "p"}, env.Extra.Keys())

	out, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestMapUnmarshalRejectsNonObject(t *testing.T) {
	var m Map
	err := json.Unmarshal([]byte(`[1,2]`), &m)
	assert.Error(t, err)
}

func TestMapSetKeepsOriginalPosition(t *testing.T) {
	m := NewMap().Set("a", Number(1)).Set("b", Number(2)).Set("a", Number(3))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	got, _ := m.Get("a")
	n, _ := got.AsNumber()
	assert.Equal(t, 3.0, n)
	assert.Equal(t, 2, m.Len())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "map", Object(nil).Kind().String())
	assert.Equal(t, "null", Null().Kind().String())
	assert.Equal(t, "invalid", Kind(99).String())
}
