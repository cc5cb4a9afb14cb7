package association

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"entity-kit/core/inflect"

	"gorm.io/gorm/schema"
)

// schemaCache is shared by all Describe calls, like gorm.DB's cacheStore.
var schemaCache sync.Map

// Describe reads the relation from the owner's GORM schema. The inverse name
// is the relation on the member type that points back at the owner's table,
// when there is one.
func Describe(owner any, relation string) (Descriptor, error) {
	s, err := schema.Parse(owner, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse schema of %T: %w", owner, err)
	}

	field := inflect.UpperFirst(relation)
	rel, ok := s.Relationships.Relations[field]
	if !ok {
		return Descriptor{}, &InvalidAssociationError{
			Relation: relation,
			Target:   s.Name,
			Missing:  []string{field + " relationship"},
		}
	}

	desc := Descriptor{
		Relation:   relation,
		ManyToMany: rel.Type == schema.Many2Many,
		Kind:       string(rel.Type),
		Field:      rel.Name,
	}
	if rel.FieldSchema != nil {
		back := rel.FieldSchema.Relationships.Relations
		names := slices.Sorted(maps.Keys(back))
		for _, name := range names {
			if r := back[name]; r.FieldSchema != nil && r.FieldSchema.Table == s.Table {
				desc.Inverse = inflect.LowerFirst(name)
				break
			}
		}
	}
	return desc, nil
}

// RunDescribed reconciles relation using the cardinality and inverse name
// found in the owner's GORM schema. WithInverse overrides the inverse name.
func RunDescribed(owner any, candidates any, relation string, opts ...Option) error {
	desc, err := Describe(owner, relation)
	if err != nil {
		return err
	}
	o := buildOptions(opts)
	if o.inverse != "" {
		desc.Inverse = o.inverse
	}
	if desc.Inverse == "" {
		desc.Inverse = inflect.LowerFirst(typeName(owner))
	}
	if o.manyToMany != nil {
		desc.ManyToMany = *o.manyToMany
	}
	return run(owner, candidates, desc, o)
}
