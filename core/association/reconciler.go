package association

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"entity-kit/core/collection"
	"entity-kit/core/inflect"

	"go.uber.org/zap"
)

// Entity is the capability an owner needs for the convention-based entry point.
type Entity interface {
	// GetID returns the identity value, or nil before one is assigned.
	GetID() any
}

// Descriptor describes one side of a relation.
type Descriptor struct {
	// Relation is the owner-side relation name (e.g. "books").
	Relation string
	// Inverse is the relation name on the members pointing back to the owner.
	Inverse string
	// ManyToMany reports whether members can reference several owners.
	ManyToMany bool
	// Kind is the ORM relationship type when known (e.g. "has_many").
	Kind string
	// Field is the Go field holding the relation when known.
	Field string
}

// reconciler runs a single reconciliation pass.
type reconciler struct {
	owner      any
	candidates []any
	collection collection.Collection
	desc       Descriptor
	relation   string // ucfirst relation name
	inverse    string // ucfirst inverse name
	log        *zap.Logger
}

// Run makes the owner's relation collection match candidates and keeps the
// inverse side in sync. candidates may be nil, a slice, an array or a
// collection. An empty inverse defaults to the owner type name.
//
// Failures abort the pass; mutations already applied are kept.
func Run(owner any, candidates any, relation, inverse string, opts ...Option) error {
	if owner == nil {
		return errors.New("association: owner is nil")
	}
	if relation == "" {
		return errors.New("association: relation name is empty")
	}
	o := buildOptions(opts)
	if inverse == "" {
		inverse = o.inverse
	}
	if inverse == "" {
		inverse = inflect.LowerFirst(typeName(owner))
	}

	desc := Descriptor{
		Relation:   relation,
		Inverse:    inverse,
		ManyToMany: inflect.IsPlural(inverse),
	}
	if o.manyToMany != nil {
		desc.ManyToMany = *o.manyToMany
	}
	return run(owner, candidates, desc, o)
}

// RunConvention reconciles the relation named after setter (e.g. "SetBooks"
// reconciles "books"). The inverse name is the owner type name unless
// WithInverse is given.
func RunConvention(owner any, setter string, candidates any, opts ...Option) error {
	if _, ok := owner.(Entity); !ok {
		return &InvalidCallerError{Caller: setter, Reason: fmt.Sprintf("%T does not implement association.Entity", owner)}
	}
	name, ok := strings.CutPrefix(setter, "Set")
	if !ok || name == "" {
		return &InvalidCallerError{Caller: setter, Reason: "not a setter name"}
	}
	if !methodsOf(owner).has(setter) {
		return &InvalidCallerError{Caller: setter, Reason: fmt.Sprintf("not a method of %T", owner)}
	}
	o := buildOptions(opts)
	inverse := o.inverse
	if inverse == "" {
		inverse = inflect.LowerFirst(typeName(owner))
	}
	if inverse == "" {
		return &InvalidCallerError{Caller: setter, Reason: fmt.Sprintf("cannot infer inverse name from unnamed type %T", owner)}
	}
	return Run(owner, candidates, inflect.LowerFirst(name), inverse, opts...)
}

func run(owner any, candidates any, desc Descriptor, o *options) error {
	r := &reconciler{
		owner:    owner,
		desc:     desc,
		relation: inflect.UpperFirst(desc.Relation),
		inverse:  inflect.UpperFirst(desc.Inverse),
		log: o.logger.With(
			zap.String("relation", desc.Relation),
			zap.String("inverse", desc.Inverse),
			zap.Bool("many_to_many", desc.ManyToMany),
		),
	}

	var err error
	if r.candidates, err = r.coerce(candidates, o.factory); err != nil {
		return err
	}
	if r.collection, err = r.resolveCollection(); err != nil {
		return err
	}

	for i, candidate := range r.candidates {
		if err := r.collection.Check(candidate); err != nil {
			return &CoercionError{Relation: r.desc.Relation, Index: i, Value: candidate, Err: err}
		}
	}
	for _, candidate := range r.candidates {
		if err := r.link(candidate); err != nil {
			return err
		}
	}
	return r.removeStale()
}

// coerce flattens candidates into a slice and runs the factory on non-entities.
func (r *reconciler) coerce(candidates any, factory Factory) ([]any, error) {
	var items []any
	switch c := candidates.(type) {
	case nil:
		return nil, nil
	case []any:
		items = c
	case collection.Collection:
		items = c.Items()
	default:
		rv := reflect.ValueOf(candidates)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, &CoercionError{Relation: r.desc.Relation, Index: -1, Value: candidates,
				Err: errors.New("candidates must be a slice")}
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		if isNil(item) {
			return nil, &CoercionError{Relation: r.desc.Relation, Index: i, Value: item,
				Err: errors.New("nil candidate")}
		}
		if _, ok := item.(Entity); ok {
			out = append(out, item)
			continue
		}
		if factory == nil {
			if isRaw(item) {
				return nil, &CoercionError{Relation: r.desc.Relation, Index: i, Value: item,
					Err: errors.New("no factory for raw value")}
			}
			out = append(out, item)
			continue
		}
		v, err := factory(item)
		if err != nil {
			return nil, &CoercionError{Relation: r.desc.Relation, Index: i, Value: item, Err: err}
		}
		if isNil(v) {
			return nil, &CoercionError{Relation: r.desc.Relation, Index: i, Value: item,
				Err: errors.New("factory returned nil")}
		}
		out = append(out, v)
	}
	return out, nil
}

// isNil reports an untyped nil or a nil pointer-like value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isRaw reports values that need a factory to become relation members:
// scalars, strings, maps and slices.
func isRaw(v any) bool {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Pointer, reflect.Struct, reflect.Interface, reflect.Func, reflect.Chan:
		return false
	}
	return true
}

func (r *reconciler) resolveCollection() (collection.Collection, error) {
	getter := "Get" + r.relation
	v, found, err := get(r.owner, getter)
	if err != nil {
		return nil, fmt.Errorf("%T.%s: %w", r.owner, getter, err)
	}
	if found {
		if col, ok := asCollection(v); ok {
			return col, nil
		}
		return nil, fmt.Errorf("%w: %T.%s does not return a collection", ErrInvalidAssociation, r.owner, getter)
	}
	if col, ok := fieldCollection(r.owner, r.relation); ok {
		return col, nil
	}
	return nil, &InvalidAssociationError{
		Relation: r.desc.Relation,
		Inverse:  r.desc.Inverse,
		Target:   fmt.Sprintf("%T", r.owner),
		Missing:  []string{getter},
	}
}

// link adds candidate to the collection after linking it back to the owner.
func (r *reconciler) link(candidate any) error {
	if r.collection.Contains(candidate) {
		return nil
	}

	method, err := r.linkMethod(candidate)
	if err != nil {
		return err
	}
	if err := invoke(candidate, method, r.owner); err != nil {
		return fmt.Errorf("%T.%s: %w", candidate, method, err)
	}
	r.log.Debug("Linked association", zap.String("method", method), zap.String("item", fmt.Sprintf("%T", candidate)))

	// The inverse call may already have added it.
	if r.collection.Contains(candidate) {
		return nil
	}
	if err := r.collection.Add(candidate); err != nil {
		return &CoercionError{Relation: r.desc.Relation, Index: -1, Value: candidate, Err: err}
	}
	return nil
}

// linkMethod returns the method to call on candidate to reference the owner.
func (r *reconciler) linkMethod(candidate any) (string, error) {
	names := []string{"Add" + r.inverse}
	if r.desc.ManyToMany {
		if singular := "Add" + inflect.Singularize(r.inverse); singular != names[0] {
			names = append(names, singular)
		}
	}
	names = append(names, "Set"+r.inverse)

	if name, ok := methodsOf(candidate).first(names...); ok {
		return name, nil
	}
	return "", &InvalidAssociationError{
		Relation: r.desc.Relation,
		Inverse:  r.desc.Inverse,
		Target:   fmt.Sprintf("%T", candidate),
		Missing:  names,
	}
}

// removeStale drops collection items that are not among the candidates.
func (r *reconciler) removeStale() error {
	remover, hasRemover := methodsOf(r.owner).first(
		"Remove"+inflect.Singularize(r.relation),
		"Remove"+r.relation,
	)

	for _, item := range r.collection.Items() {
		if r.isCandidate(item) {
			continue
		}
		if hasRemover {
			if err := invoke(r.owner, remover, item); err != nil {
				return fmt.Errorf("%T.%s: %w", r.owner, remover, err)
			}
			r.log.Debug("Removed association", zap.String("method", remover))
			continue
		}
		r.collection.Remove(item)
		if err := r.unlink(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *reconciler) isCandidate(item any) bool {
	for _, c := range r.candidates {
		if sameItem(c, item) {
			return true
		}
	}
	return false
}

// unlink removes the owner from item's side of the relation.
func (r *reconciler) unlink(item any) error {
	getter := "Get" + r.inverse
	v, found, err := get(item, getter)
	if err != nil {
		return fmt.Errorf("%T.%s: %w", item, getter, err)
	}
	if col, ok := asCollection(v); found && ok {
		col.Remove(r.owner)
		r.log.Debug("Unlinked association", zap.String("method", getter))
		return nil
	}

	table := methodsOf(item)
	if r.desc.ManyToMany {
		if remover, ok := table.first("Remove"+inflect.Singularize(r.inverse), "Remove"+r.inverse); ok {
			r.log.Debug("Unlinked association", zap.String("method", remover))
			return invoke(item, remover, r.owner)
		}
	} else if setter := "Set" + r.inverse; table.has(setter) {
		// Leave a back-reference to another owner alone.
		if found && v != nil && !sameItem(v, r.owner) {
			return nil
		}
		r.log.Debug("Unlinked association", zap.String("method", setter))
		return invoke(item, setter, nil)
	}

	return &InvalidAssociationError{
		Relation: r.desc.Relation,
		Inverse:  r.desc.Inverse,
		Target:   fmt.Sprintf("%T", item),
		Missing:  r.unlinkMethods(getter),
	}
}

func (r *reconciler) unlinkMethods(getter string) []string {
	if r.desc.ManyToMany {
		return []string{getter, "Remove" + inflect.Singularize(r.inverse)}
	}
	return []string{getter, "Set" + r.inverse}
}
