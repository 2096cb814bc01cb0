package casing

import (
	"errors"
	"fmt"

	"github.com/iancoleman/strcase"
)

// ErrUnsupportedInput is returned by Convert for top-level values that are
// neither objects nor arrays.
var ErrUnsupportedInput = errors.New("casing: input must be an object or an array")

// Options holds the per-call conversion settings.
//
// Defaults (see DefaultOptions): Deep is true, both key lists are empty.
// ExcludeKeys and ExcludeTransform are matched against the original key
// names at every depth, not only at the top level.
type Options struct {
	// Deep converts nested objects and objects inside nested arrays
	Deep bool
	// ExcludeKeys are removed from the output together with their values
	ExcludeKeys []string
	// ExcludeTransform keep their spelling; their values are still walked
	ExcludeTransform []string
}

// DefaultOptions returns the settings used when no Option is given
func DefaultOptions() Options {
	return Options{Deep: true}
}

// Option adjusts Options for a single call
type Option func(*Options)

// WithDeep turns recursion on or off
func WithDeep(deep bool) Option {
	return func(o *Options) { o.Deep = deep }
}

// WithExcludeKeys adds keys to drop
func WithExcludeKeys(keys ...string) Option {
	return func(o *Options) { o.ExcludeKeys = append(o.ExcludeKeys, keys...) }
}

// WithExcludeTransform adds keys whose names are left as is
func WithExcludeTransform(keys ...string) Option {
	return func(o *Options) { o.ExcludeTransform = append(o.ExcludeTransform, keys...) }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Converter renames every key of a JSON tree with a single string transform
type Converter struct {
	caseFn func(string) string
}

// New returns a converter applying caseFn to each key
func New(caseFn func(string) string) *Converter {
	return &Converter{caseFn: caseFn}
}

var (
	// Camel converts keys to lowerCamelCase
	Camel = New(strcase.ToLowerCamel)
	// Snake converts keys to snake_case
	Snake = New(strcase.ToSnake)
)

// ToCamelCase converts input with the Camel converter
func ToCamelCase(input any, opts ...Option) (any, error) {
	return Camel.Convert(input, opts...)
}

// ToSnakeCase converts input with the Snake converter
func ToSnakeCase(input any, opts ...Option) (any, error) {
	return Snake.Convert(input, opts...)
}

// Object converts a single object. A nil object converts to an empty one.
func (c *Converter) Object(input *Object, opts ...Option) *Object {
	o := buildOptions(opts)
	return MapObject(input, c.keyFunc(o), MapOptions{Deep: o.Deep})
}

// Slice converts each object of items into a new slice
func (c *Converter) Slice(items []*Object, opts ...Option) []*Object {
	if items == nil {
		return nil
	}
	o := buildOptions(opts)
	fn := c.keyFunc(o)
	out := make([]*Object, len(items))
	for i, item := range items {
		out[i] = MapObject(item, fn, MapOptions{Deep: o.Deep})
	}
	return out
}

// Convert dispatches on the shape of input. nil is treated as an empty
// object, Go maps are accepted wherever an object is, and top-level arrays
// are converted element by element with non-object elements passed
// through. Anything else yields ErrUnsupportedInput.
func (c *Converter) Convert(input any, opts ...Option) (any, error) {
	o := buildOptions(opts)
	fn := c.keyFunc(o)
	mo := MapOptions{Deep: o.Deep}

	switch v := input.(type) {
	case nil:
		return NewObject(), nil
	case *Object:
		return MapObject(v, fn, mo), nil
	case map[string]any:
		return MapObject(FromMap(v), fn, mo), nil
	case []*Object:
		return c.Slice(v, opts...), nil
	case []map[string]any:
		out := make([]*Object, len(v))
		for i, item := range v {
			out[i] = MapObject(FromMap(item), fn, mo)
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if obj, ok := asObject(item); ok {
				out[i] = MapObject(obj, fn, mo)
				continue
			}
			out[i] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrUnsupportedInput, input)
}

func (c *Converter) keyFunc(o Options) KeyFunc {
	exclude := toSet(o.ExcludeKeys)
	literal := toSet(o.ExcludeTransform)

	return func(value any, key string, _ *Object) Directive {
		if _, ok := exclude[key]; ok {
			return Drop()
		}
		if _, ok := literal[key]; ok {
			return Keep(key, value)
		}
		return Keep(c.caseFn(key), value)
	}
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
