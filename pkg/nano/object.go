package nano

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Object is a nano object: a string-keyed map that remembers key order.
//
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Obj builds an object from alternating keys and values.
// It panics if a key is not a string or a value is missing, which makes it
// suitable for literal structures written in code.
func Obj(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("nano.Obj: odd number of arguments (%d)", len(kv)))
	}
	o := &Object{
		keys:   make([]string, 0, len(kv)/2),
		values: make(map[string]any, len(kv)/2),
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("nano.Obj: key at position %d is %T, not string", i, kv[i]))
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// FromMap converts a map into an object with keys in sorted order.
func FromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := &Object{keys: keys, values: make(map[string]any, len(m))}
	for _, k := range keys {
		o.values[k] = m[k]
	}
	return o
}

// Set stores value under key. Replacing an existing key keeps its position.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key from the object.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for every key in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// MarshalJSON writes the object with its keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the source key order.
// Nested objects become *Object and numbers become json.Number.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("%w: expected object, got %s", ErrInvalidSource, describe(v))
	}
	*o = *decoded
	return nil
}

// describe names the nano kind of v for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "list"
	case *Object, map[string]any:
		return "object"
	case json.Number:
		return "number"
	default:
		if _, ok := scalarString(v); ok {
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}
