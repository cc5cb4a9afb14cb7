package entity

import (
	"fmt"
	"reflect"
	"strings"
)

// Subset returns the named fields of e. A name may be a dotted path into
// nested values ("shelf.name"); the result is keyed by the name as given.
func Subset(e any, fields ...string) (map[string]any, error) {
	mapping := make(map[string]string, len(fields))
	for _, f := range fields {
		mapping[f] = f
	}
	return SubsetAs(e, mapping)
}

// SubsetAs returns fields of e renamed: mapping goes from result key to
// source field (or dotted path).
func SubsetAs(e any, mapping map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(mapping))
	for target, source := range mapping {
		v, err := resolvePath(reflect.ValueOf(e), source)
		if err != nil {
			return nil, err
		}
		n := &normalizer{path: make(map[any]bool)}
		if rv := reflect.ValueOf(e); rv.Kind() == reflect.Pointer && !rv.IsNil() {
			n.path[e] = true
		}
		val, err := n.value(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		out[target] = val
	}
	return out, nil
}

// resolvePath walks a dotted path of field names from v.
func resolvePath(v reflect.Value, path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, &InvalidFieldError{Field: path}
	}
	for _, name := range strings.Split(path, ".") {
		for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, nil
			}
			if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
				break
			}
			v = v.Elem()
		}

		switch reflect.Indirect(v).Kind() {
		case reflect.Struct:
			ptr := addressable(v)
			f, ok := lookupField(ptr, name)
			if !ok {
				return reflect.Value{}, &InvalidFieldError{Field: path}
			}
			fv, ok, err := f.read(ptr)
			if err != nil {
				return reflect.Value{}, err
			}
			if !ok {
				return reflect.Value{}, &InvalidFieldError{Field: path}
			}
			v = fv
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return reflect.Value{}, &InvalidFieldError{Field: path}
			}
			mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
			if !mv.IsValid() {
				return reflect.Value{}, &InvalidFieldError{Field: path}
			}
			v = mv
		default:
			return reflect.Value{}, &InvalidFieldError{Field: path}
		}
	}
	return v, nil
}
