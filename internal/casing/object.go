package casing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Object is a JSON object that keeps its keys in insertion order.
// The zero value is not usable; create objects with NewObject, FromMap or
// by unmarshalling JSON into an *Object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object
func NewObject() *Object {
	return newObjectSize(0)
}

func newObjectSize(n int) *Object {
	return &Object{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// FromMap builds an object from a Go map. Go maps carry no order, so keys are
// inserted in sorted order. Nested maps are left as they are; MapObject
// normalises them on the way down when it recurses.
func FromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := newObjectSize(len(keys))
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value bound to key
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set binds value to key. A new key is appended; an existing key keeps its
// position and has its value replaced.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key, preserving the order of the remaining keys
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// ToMap converts the object and everything below it into plain Go maps and
// slices, the shape expected by decoders such as mapstructure.
func (o *Object) ToMap() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = ToPlain(o.values[k])
	}
	return out
}

// ToPlain is ToMap for an arbitrary node
func ToPlain(node any) any {
	switch v := node.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		return v.ToMap()
	case []any:
		if v == nil {
			return nil
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ToPlain(item)
		}
		return out
	default:
		return node
	}
}

// MarshalJSON writes the keys in insertion order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order at every level.
// Nested objects become *Object, arrays become []any and numbers are kept
// as json.Number.
func (o *Object) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("casing: expected JSON object, got %v", tok)
	}

	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*o = *parsed
	return nil
}

// ParseJSON decodes any JSON document into the node model used by this
// package: objects become *Object, arrays []any, numbers json.Number.
func ParseJSON(data []byte) (any, error) {
	dec := newDecoder(data)
	node, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("casing: unexpected data after JSON value")
	}
	return node, nil
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		return decodeArray(dec)
	}
	return nil, fmt.Errorf("casing: unexpected delimiter %q", d)
}

// decodeObject reads members up to and including the closing brace
func decodeObject(dec *json.Decoder) (*Object, error) {
	o := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("casing: expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		o.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
