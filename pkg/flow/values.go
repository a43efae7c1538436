package flow

import (
	"iter"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// Truthy reports whether v counts as true in a condition. Nil, false, zero
// numbers and empty strings, slices, maps and lists are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case *List:
		return x.Len() > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return !rv.IsZero()
	}
	return true
}

// iterate expands an iterable value into its elements. Strings yield one
// element per rune.
func iterate(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case *List:
		return x.Items(), true
	case []any:
		return x, true
	case string:
		return lo.Map([]rune(x), func(r rune, _ int) any { return string(r) }), true
	case iter.Seq[any]:
		var out []any
		for item := range x {
			out = append(out, item)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// varList splits a comma separated list of variable names.
func varList(names ...string) []string {
	var out []string
	for _, name := range names {
		parts := lo.Map(strings.Split(name, ","), func(part string, _ int) string {
			return strings.TrimSpace(part)
		})
		out = append(out, lo.Compact(parts)...)
	}
	return out
}

// GetAs returns the named variable converted to T.
func GetAs[T any](c *Context, name string) (T, error) {
	var zero T
	value, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, flowerrors.NewVariableTypeError("", name, reflect.TypeFor[T](), value)
	}
	return typed, nil
}

// LookupAs returns the named variable when it is defined and holds a T.
func LookupAs[T any](c *Context, name string) (T, bool) {
	var zero T
	value, ok := c.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Decode copies the named map-valued variable into out, a pointer to a struct.
// Scalar values are converted where possible ("42" decodes into an int field).
func Decode(c *Context, name string, out any) error {
	value, err := c.Get(name)
	if err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return flowerrors.NewRuntimeError("", "unable to build decoder for "+name, err)
	}
	if err := decoder.Decode(value); err != nil {
		return flowerrors.NewVariableTypeError("", name, reflect.TypeOf(out).Elem(), value)
	}
	return nil
}
