package collection

import (
	"fmt"
	"reflect"
)

// reflectSlice is a Collection over an addressable slice value of any element type.
type reflectSlice struct {
	v reflect.Value
}

// Reflect returns a collection view over the slice ptr points to.
// ptr must be a non-nil pointer to a slice whose element type is comparable.
func Reflect(ptr any) (Collection, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("collection: expected pointer to slice, got %T", ptr)
	}
	return FromValue(v.Elem())
}

// FromValue wraps an addressable slice value.
func FromValue(v reflect.Value) (Collection, error) {
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("collection: expected slice, got %s", v.Kind())
	}
	if !v.CanSet() {
		return nil, fmt.Errorf("collection: slice of %s is not addressable", v.Type().Elem())
	}
	if !v.Type().Elem().Comparable() {
		return nil, fmt.Errorf("collection: element type %s is not comparable", v.Type().Elem())
	}
	return &reflectSlice{v: v}, nil
}

func (r *reflectSlice) Len() int {
	return r.v.Len()
}

func (r *reflectSlice) Items() []any {
	out := make([]any, r.v.Len())
	for i := range out {
		out[i] = r.v.Index(i).Interface()
	}
	return out
}

func (r *reflectSlice) Contains(item any) bool {
	return r.index(item) >= 0
}

func (r *reflectSlice) Check(item any) error {
	if _, ok := r.convert(item); !ok {
		return fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, item, r.v.Type().Elem())
	}
	return nil
}

func (r *reflectSlice) Add(item any) error {
	iv, ok := r.convert(item)
	if !ok {
		return fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, item, r.v.Type().Elem())
	}
	if r.index(item) >= 0 {
		return nil
	}
	r.v.Set(reflect.Append(r.v, iv))
	return nil
}

func (r *reflectSlice) Remove(item any) bool {
	i := r.index(item)
	if i < 0 {
		return false
	}
	n := r.v.Len()
	reflect.Copy(r.v.Slice(i, n), r.v.Slice(i+1, n))
	r.v.Index(n - 1).SetZero()
	r.v.SetLen(n - 1)
	return true
}

func (r *reflectSlice) index(item any) int {
	iv, ok := r.convert(item)
	if !ok {
		return -1
	}
	target := iv.Interface()
	for i := 0; i < r.v.Len(); i++ {
		if r.v.Index(i).Interface() == target {
			return i
		}
	}
	return -1
}

// convert checks item against the element type.
func (r *reflectSlice) convert(item any) (reflect.Value, bool) {
	elem := r.v.Type().Elem()
	if item == nil {
		switch elem.Kind() {
		case reflect.Pointer, reflect.Interface:
			return reflect.Zero(elem), true
		}
		return reflect.Value{}, false
	}
	iv := reflect.ValueOf(item)
	if !iv.Type().AssignableTo(elem) {
		return reflect.Value{}, false
	}
	if elem.Kind() == reflect.Interface {
		// Keep the dynamic value so == compares the concrete items.
		out := reflect.New(elem).Elem()
		out.Set(iv)
		return out, true
	}
	return iv, true
}
