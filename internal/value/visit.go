// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package value

// Visitor folds a tree bottom-up. Children are visited before their parent,
// so List and Map receive already folded results.
type Visitor[T any] interface {
	Null() T
	Bool(b bool) T
	Number(n float64) T
	String(s string) T
	List(items []T) T
	Map(keys []string, vals []T) T
}

// Visit folds v with vis.
func Visit[T any](v Value, vis Visitor[T]) T {
	switch v.kind {
	case KindBool:
		return vis.Bool(v.b)
	case KindNumber:
		return vis.Number(v.n)
	case KindString:
		return vis.String(v.s)
	case KindList:
		items := make([]T, len(v.list))
		for i, item := range v.list {
			items[i] = Visit(item, vis)
		}
		return vis.List(items)
	case KindMap:
		keys := v.m.Keys()
		vals := make([]T, len(keys))
		for i, k := range keys {
			child, _ := v.m.Get(k)
			vals[i] = Visit(child, vis)
		}
		return vis.Map(keys, vals)
	default:
		return vis.Null()
	}
}

type cloneVisitor struct{}

func (cloneVisitor) Null() Value            { return Null() }
func (cloneVisitor) Bool(b bool) Value      { return Bool(b) }
func (cloneVisitor) Number(n float64) Value { return Number(n) }
func (cloneVisitor) String(s string) Value  { return String(s) }
func (cloneVisitor) List(items []Value) Value {
	return Value{kind: KindList, list: items}
}
func (cloneVisitor) Map(keys []string, vals []Value) Value {
	m := NewMap()
	for i, k := range keys {
		m.Set(k, vals[i])
	}
	return Object(m)
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	return Visit[Value](v, cloneVisitor{})
}
