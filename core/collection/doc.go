// Package collection provides the ordered, duplicate-free collection used to
// hold the members of an entity relation.
//
// GORM maps relations to plain slice fields (e.g. `Books []*Book`). Rather
// than replacing those fields with a container type the ORM cannot persist,
// a Collection is a view over the slice: adding to or removing from the
// collection rewrites the underlying slice in place.
//
// # Implementations
//
//   - Slice: generic, type-safe view over a *[]T (or an owned slice via New).
//   - Reflect: untyped view over any addressable slice value, used when an
//     entity exposes an exported relation slice but no getter.
//
// Items are compared with ==, so pointer entities compare by identity.
//
// # Usage
//
//	func (a *Author) GetBooks() collection.Collection {
//	    return collection.Of(&a.Books)
//	}
package collection
