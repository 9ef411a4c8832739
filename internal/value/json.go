// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type jsonVisitor struct{}

func (jsonVisitor) Null() []byte { return []byte("null") }
func (jsonVisitor) Bool(b bool) []byte {
	return strconv.AppendBool(nil, b)
}
func (jsonVisitor) Number(n float64) []byte {
	out, err := json.Marshal(n)
	if err != nil {
		// Only reachable for NaN/Inf built by hand via Number().
		return []byte("null")
	}
	return out
}
func (jsonVisitor) String(s string) []byte {
	out, _ := json.Marshal(s)
	return out
}
func (jsonVisitor) List(items [][]byte) []byte {
	return append(append([]byte{'['}, bytes.Join(items, []byte{','})...), ']')
}
func (jsonVisitor) Map(keys []string, vals [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals[i])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// MarshalJSON encodes v keeping map insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	return Visit[[]byte](v, jsonVisitor{}), nil
}

// UnmarshalJSON decodes a JSON document keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON encodes m as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return Object(m).MarshalJSON()
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	parsed, ok := v.AsMap()
	if !ok {
		return fmt.Errorf("decode map: got %s", v.Kind())
	}
	*m = *parsed
	return nil
}

// ParseJSON decodes a single JSON document into a tree.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("decode json: trailing data after document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("decode json number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, fmt.Errorf("decode json: %w", err)
			}
			return Value{kind: KindList, list: items}, nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, fmt.Errorf("decode json: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("decode json: object key %v is not a string", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, fmt.Errorf("decode json: %w", err)
			}
			return Object(m), nil
		}
	}
	return Value{}, fmt.Errorf("decode json: unexpected token %v", tok)
}
