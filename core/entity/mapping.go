package entity

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"entity-kit/core/association"
	"entity-kit/core/collection"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ToMapping converts e to a map of field keys to values. Nested structs,
// slices, maps and collections are converted recursively. An entity met
// again while it is still being converted is replaced by its GetID().
func ToMapping(e any) (map[string]any, error) {
	v := reflect.ValueOf(e)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("entity: cannot map nil %T", e)
		}
		if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
			break
		}
		v = v.Elem()
	}
	if reflect.Indirect(v).Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: cannot map %T, want a struct", e)
	}

	n := &normalizer{path: make(map[any]bool)}
	return n.structMap(addressable(v))
}

// normalizer converts values while tracking the pointers on the current path.
type normalizer struct {
	path map[any]bool
}

func (n *normalizer) structMap(ptr reflect.Value) (map[string]any, error) {
	key := ptr.Interface()
	n.path[key] = true
	defer delete(n.path, key)

	var ignored []string
	if ent, ok := key.(Entity); ok {
		ignored = ent.IgnoredAttributes()
	}

	out := make(map[string]any)
	for _, f := range fieldsOf(ptr.Elem().Type()) {
		if slices.Contains(ignored, f.key) || slices.Contains(ignored, f.name) {
			continue
		}
		fv, ok, err := f.read(ptr)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		val, err := n.value(fv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		out[f.key] = val
	}
	return out, nil
}

func (n *normalizer) value(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}

	if v.CanInterface() {
		if col, ok := v.Interface().(collection.Collection); ok {
			return n.list(col.Items())
		}
	}
	if isLeaf(v.Type()) {
		return v.Interface(), nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.Elem().Kind() != reflect.Struct {
			return n.value(v.Elem())
		}
		if n.path[v.Interface()] {
			return n.substitute(v)
		}
		return n.structMap(v)
	case reflect.Struct:
		return n.structMap(addressable(v))
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface(), nil
		}
		fallthrough
	case reflect.Array:
		items := make([]any, v.Len())
		for i := range items {
			items[i] = v.Index(i).Interface()
		}
		return n.list(items)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val, err := n.value(iter.Value())
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(iter.Key().Interface())] = val
		}
		return out, nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, nil
	}
	return v.Interface(), nil
}

func (n *normalizer) list(items []any) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		val, err := n.value(reflect.ValueOf(item))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// substitute replaces a cyclic reference with the entity's identity.
func (n *normalizer) substitute(ptr reflect.Value) (any, error) {
	if ent, ok := ptr.Interface().(association.Entity); ok {
		return ent.GetID(), nil
	}
	return nil, fmt.Errorf("%w through %s", ErrCircularReference, ptr.Type())
}

// isLeaf reports whether values of t are passed through as they are.
func isLeaf(t reflect.Type) bool {
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(jsonMarshalerType) {
		return true
	}
	return false
}
