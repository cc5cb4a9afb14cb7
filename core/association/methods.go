package association

import (
	"fmt"
	"reflect"
	"sync"

	"entity-kit/core/collection"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// methodTable holds the exported methods of one concrete type.
type methodTable struct {
	typ     reflect.Type
	methods map[string]reflect.Method
}

// methodTables caches a *methodTable per reflect.Type.
var methodTables sync.Map

// methodsOf returns the cached method table for v's dynamic type.
func methodsOf(v any) *methodTable {
	t := reflect.TypeOf(v)
	if t == nil {
		return &methodTable{methods: map[string]reflect.Method{}}
	}
	if cached, ok := methodTables.Load(t); ok {
		return cached.(*methodTable)
	}

	table := &methodTable{typ: t, methods: make(map[string]reflect.Method, t.NumMethod())}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		table.methods[m.Name] = m
	}

	actual, _ := methodTables.LoadOrStore(t, table)
	return actual.(*methodTable)
}

// has reports whether the type has an exported method called name.
func (t *methodTable) has(name string) bool {
	_, ok := t.methods[name]
	return ok
}

// first returns the first of names that the type defines.
func (t *methodTable) first(names ...string) (string, bool) {
	for _, name := range names {
		if t.has(name) {
			return name, true
		}
	}
	return "", false
}

// invoke calls recv.name(arg). A nil arg is passed as the zero value of the
// parameter type. A trailing error result is returned.
func invoke(recv any, name string, arg any) error {
	table := methodsOf(recv)
	m, ok := table.methods[name]
	if !ok {
		return fmt.Errorf("%s has no method %s", table.typ, name)
	}
	if m.Type.NumIn() != 2 {
		return fmt.Errorf("%s.%s must take exactly one argument", table.typ, name)
	}

	pt := m.Type.In(1)
	var av reflect.Value
	if arg == nil {
		av = reflect.Zero(pt)
	} else {
		av = reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return fmt.Errorf("%s.%s: cannot use %T as %s", table.typ, name, arg, pt)
		}
	}

	out := m.Func.Call([]reflect.Value{reflect.ValueOf(recv), av})
	return trailingError(out)
}

// get calls the zero-argument method name and returns its first result.
// Nil pointers and interfaces come back as an untyped nil.
func get(recv any, name string) (any, bool, error) {
	m, ok := methodsOf(recv).methods[name]
	if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() == 0 {
		return nil, false, nil
	}

	out := m.Func.Call([]reflect.Value{reflect.ValueOf(recv)})
	if err := trailingError(out); err != nil {
		return nil, true, err
	}
	switch out[0].Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan:
		if out[0].IsNil() {
			return nil, true, nil
		}
	}
	return out[0].Interface(), true, nil
}

func trailingError(out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.Type() != errorType || last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}

// asCollection adapts a getter result to a Collection.
func asCollection(v any) (collection.Collection, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case collection.Collection:
		return c, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Slice {
		col, err := collection.FromValue(rv.Elem())
		return col, err == nil
	}
	return nil, false
}

// fieldCollection wraps the exported slice field name of a struct pointer.
func fieldCollection(owner any, name string) (collection.Collection, bool) {
	rv := reflect.ValueOf(owner)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	f := rv.Elem().FieldByName(name)
	if !f.IsValid() || f.Kind() != reflect.Slice {
		return nil, false
	}
	col, err := collection.FromValue(f)
	return col, err == nil
}

// typeName returns the name of v's type with pointers stripped.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// sameItem compares two candidates without panicking on incomparable values.
func sameItem(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
