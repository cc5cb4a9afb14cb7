package entity

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"entity-kit/core/inflect"

	"github.com/go-viper/mapstructure/v2"
)

// FromMapping calls Set<Key> on e for every key of values, with the key
// camelized ("public_name" -> SetPublicName). All keys are checked before
// any setter runs; a key without a setter fails with *InvalidFieldError and
// leaves e untouched. Values are converted to the setter's parameter type
// with weak typing ("3" -> 3, map -> struct).
func FromMapping(e any, values map[string]any) error {
	ptr := reflect.ValueOf(e)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		return fmt.Errorf("entity: FromMapping needs a non-nil pointer, got %T", e)
	}

	keys := slices.Sorted(maps.Keys(values))
	setters := make([]reflect.Value, len(keys))
	for i, key := range keys {
		method := "Set" + inflect.UpperFirst(inflect.Camelize(key))
		m, ok := findSetter(ptr, method)
		if !ok {
			return &InvalidFieldError{Field: key, Method: method}
		}
		setters[i] = m
	}

	for i, key := range keys {
		arg, err := decode(values[key], setters[i].Type().In(0))
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out := setters[i].Call([]reflect.Value{arg})
		if len(out) > 0 {
			if last := out[len(out)-1]; last.Type() == errorType && !last.IsNil() {
				return fmt.Errorf("field %q: %w", key, last.Interface().(error))
			}
		}
	}
	return nil
}

// New allocates a T and hydrates it with FromMapping.
func New[T any](values map[string]any) (*T, error) {
	e := new(T)
	if err := FromMapping(e, values); err != nil {
		return nil, err
	}
	return e, nil
}

// findSetter looks up a one-argument method by name, falling back to a
// case-insensitive match so "id" finds SetID.
func findSetter(ptr reflect.Value, name string) (reflect.Value, bool) {
	if m := ptr.MethodByName(name); m.IsValid() {
		return m, m.Type().NumIn() == 1
	}
	t := ptr.Type()
	for i := 0; i < t.NumMethod(); i++ {
		if strings.EqualFold(t.Method(i).Name, name) {
			m := ptr.Method(i)
			return m, m.Type().NumIn() == 1
		}
	}
	return reflect.Value{}, false
}

// decode converts raw to a value of type t.
func decode(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	target := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		TagName:          "json",
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return reflect.Value{}, err
	}
	return target.Elem(), nil
}
