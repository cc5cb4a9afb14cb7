// Package entity provides the identity, hydration and serialization helpers
// shared by ORM entity types.
//
// Domain types embed Model, which carries the GORM primary key and the list
// of attributes excluded from serialization. The remaining operations are
// package functions taking the entity, since an embedded struct cannot see
// the type that embeds it.
//
// # Operations
//
//   - FromMapping / New: call Set<Field> for every key of a mapping.
//   - SetAssociations / SetAssociationsFor: reconcile a relation through
//     the association package and return the owner for chaining.
//   - ToMapping: convert an entity graph to map[string]any. Entities seen
//     again on the current path are replaced by their ID.
//   - Subset / SubsetAs: pick (and optionally rename) fields.
//   - Serialize: encode ToMapping's output as JSON or YAML.
//
// # Field resolution
//
// A field is read through its Get<Field> method when there is one, and
// directly otherwise. Unexported fields without a getter are never read.
// Keys are the json tag name when present, else the lowerCamelCase field name.
//
// # Usage
//
//	type Author struct {
//	    entity.Model
//	    Name  string
//	    Books []*Book `gorm:"many2many:author_books"`
//	}
//
//	a, err := entity.New[Author](map[string]any{"name": "Ursula"})
//	out, err := entity.Serialize(a, entity.YAMLEncoder{})
package entity
