package casing

// Directive is the outcome of a KeyFunc for one key: either keep the value
// under a (possibly new) key, or drop the pair.
type Directive struct {
	key   string
	value any
	drop  bool
}

// Keep binds value to key in the output
func Keep(key string, value any) Directive {
	return Directive{key: key, value: value}
}

// Drop omits the key and its value from the output
func Drop() Directive {
	return Directive{drop: true}
}

// Dropped reports whether the directive removes the key
func (d Directive) Dropped() bool { return d.drop }

// Key returns the output key. Empty for a dropped directive.
func (d Directive) Key() string { return d.key }

// Value returns the output value
func (d Directive) Value() any { return d.value }

// KeyFunc decides what happens to a single key of parent
type KeyFunc func(value any, key string, parent *Object) Directive

// MapOptions controls MapObject
type MapOptions struct {
	// Deep applies the KeyFunc to nested objects and to objects held
	// directly in nested arrays. Defaults to false.
	Deep bool
}

// MapObject builds a new object by running fn over every key of input, in
// order. The input is never modified. A nil input yields an empty object.
//
// With Deep set, a kept value that is an object is mapped with the same fn,
// and a kept array has each of its object elements mapped. Typed slices of
// objects or Go maps come back as []*Object. Other array elements, arrays
// of arrays included, are copied through untouched.
func MapObject(input *Object, fn KeyFunc, opts MapOptions) *Object {
	return mapObject(input, fn, opts)
}

func mapObject(input *Object, fn KeyFunc, opts MapOptions) *Object {
	out := newObjectSize(input.Len())
	if input == nil {
		return out
	}

	for _, key := range input.keys {
		d := fn(input.values[key], key, input)
		if d.drop {
			continue
		}
		out.Set(d.key, mapValue(d.value, fn, opts))
	}
	return out
}

func mapValue(value any, fn KeyFunc, opts MapOptions) any {
	if !opts.Deep {
		return value
	}
	if obj, ok := asObject(value); ok {
		return mapObject(obj, fn, opts)
	}
	switch items := value.(type) {
	case []any:
		if items != nil {
			return mapArray(items, fn, opts)
		}
	case []*Object:
		if items != nil {
			return mapObjects(items, fn, opts)
		}
	case []map[string]any:
		if items != nil {
			out := make([]*Object, len(items))
			for i, item := range items {
				if item != nil {
					out[i] = mapObject(FromMap(item), fn, opts)
				}
			}
			return out
		}
	}
	return value
}

// mapObjects maps a typed object slice; nil elements stay nil
func mapObjects(items []*Object, fn KeyFunc, opts MapOptions) []*Object {
	out := make([]*Object, len(items))
	for i, item := range items {
		if item != nil {
			out[i] = mapObject(item, fn, opts)
		}
	}
	return out
}

func mapArray(items []any, fn KeyFunc, opts MapOptions) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if obj, ok := asObject(item); ok {
			out[i] = mapObject(obj, fn, opts)
			continue
		}
		out[i] = item
	}
	return out
}

// asObject reports whether v is a plain object, normalising Go maps
func asObject(v any) (*Object, bool) {
	switch t := v.(type) {
	case *Object:
		return t, t != nil
	case map[string]any:
		return FromMap(t), t != nil
	}
	return nil, false
}
