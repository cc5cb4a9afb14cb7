package entity

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"entity-kit/core/inflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// fieldInfo describes one readable field of a struct type.
type fieldInfo struct {
	key      string
	name     string
	index    []int
	exported bool
	getter   string
}

// fieldCache caches []fieldInfo per struct type.
var fieldCache sync.Map

// fieldsOf returns the visible fields of struct type t, embedded structs flattened.
func fieldsOf(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	seen := make(map[string]bool)
	for _, f := range reflect.VisibleFields(t) {
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct {
			continue
		}
		key, skip := fieldKey(f)
		if skip || seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, fieldInfo{
			key:      key,
			name:     f.Name,
			index:    f.Index,
			exported: f.IsExported(),
			getter:   "Get" + inflect.UpperFirst(f.Name),
		})
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]fieldInfo)
}

// fieldKey returns the mapping key for f and whether it is excluded.
func fieldKey(f reflect.StructField) (string, bool) {
	if tag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return inflect.LowerCamel(f.Name), false
}

// matches reports whether name refers to this field.
func (f fieldInfo) matches(name string) bool {
	return name == f.key || name == f.name || inflect.UpperFirst(name) == f.name
}

// addressable returns a pointer to the struct held by v, copying it when
// v is not addressable so pointer-receiver getters stay callable.
func addressable(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Pointer {
		return v
	}
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

// read returns the value of f on the struct ptr points to. ok is false when
// the field cannot be read (unexported without getter, nil embedded pointer).
func (f fieldInfo) read(ptr reflect.Value) (value reflect.Value, ok bool, err error) {
	if m := ptr.MethodByName(f.getter); m.IsValid() && isGetter(m.Type()) {
		out := m.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return reflect.Value{}, false, fmt.Errorf("%s: %w", f.getter, out[1].Interface().(error))
		}
		return out[0], true, nil
	}
	if !f.exported {
		return reflect.Value{}, false, nil
	}
	fv, err := ptr.Elem().FieldByIndexErr(f.index)
	if err != nil {
		return reflect.Value{}, false, nil
	}
	return fv, true, nil
}

// isGetter accepts func() T and func() (T, error).
func isGetter(t reflect.Type) bool {
	switch t.NumOut() {
	case 1:
		return t.NumIn() == 0
	case 2:
		return t.NumIn() == 0 && t.Out(1) == errorType
	}
	return false
}

// lookupField finds the field called name on the struct ptr points to.
func lookupField(ptr reflect.Value, name string) (fieldInfo, bool) {
	for _, f := range fieldsOf(ptr.Elem().Type()) {
		if f.matches(name) {
			return f, true
		}
	}
	return fieldInfo{}, false
}
