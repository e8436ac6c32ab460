// Package hk implements a minimal loader that turns an info.hk manifest
// file into a tree of typed values and resolves ${a.b.c}-style
// interpolations.
//
// The manifest loader (internal/manifest) never imports encoding/json or
// hujson directly; it only sees the Value contract in this file. That keeps
// the concrete on-disk syntax (JSON with comments) swappable without
// touching manifest parsing logic.
package hk

import "fmt"

// Kind identifies the concrete shape stored in a Value.
type Kind int

const (
	// KindMap is an ordered, string-keyed table.
	KindMap Kind = iota
	// KindString is a string scalar.
	KindString
	// KindBool is a boolean scalar.
	KindBool
)

// Value is a node in the tree produced by Load: either an ordered map or a
// scalar. The zero Value reports KindMap but holds no map: AsMap returns an
// error for it and Get finds no key.
type Value struct {
	kind Kind
	str  string
	b    bool
	m    *Map
}

// Map is a string-keyed map that preserves insertion order.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set inserts or overwrites key, preserving first-insertion order.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]

	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// MapValue wraps an ordered map as a Value.
func MapValue(m *Map) Value {
	return Value{kind: KindMap, m: m}
}

// StringValue wraps a string as a Value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// BoolValue wraps a bool as a Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind reports the node's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// AsMap returns the node as an ordered map.
func (v Value) AsMap() (*Map, error) {
	if v.kind != KindMap || v.m == nil {
		return nil, fmt.Errorf("hk: value is not a map (kind=%d)", v.kind)
	}

	return v.m, nil
}

// AsString returns the node as a string.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("hk: value is not a string (kind=%d)", v.kind)
	}

	return v.str, nil
}

// AsBool returns the node as a bool.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("hk: value is not a bool (kind=%d)", v.kind)
	}

	return v.b, nil
}

// Get is a convenience for looking up a key on a map Value; it reports
// ok=false both when v is not a map and when the key is absent.
func (v Value) Get(key string) (Value, bool) {
	m, err := v.AsMap()
	if err != nil {
		return Value{}, false
	}

	return m.Get(key)
}
