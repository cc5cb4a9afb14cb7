// Package association keeps both sides of an entity relationship in sync.
//
// Given an owner, the new members of one of its collection relations and the
// name of the inverse relation, the reconciler makes the owner's collection
// match the candidates exactly and updates each affected member so that it
// references the owner again (or no longer does).
//
// # Conventions
//
// Relations are located by method name, in the style GORM models are written:
//
//   - Get<Relation>() on the owner returns the collection (a
//     collection.Collection or a pointer to a slice). An exported slice field
//     named <Relation> is used when there is no getter.
//   - Add<Inverse>(owner) or Set<Inverse>(owner) on each new member links it
//     back to the owner.
//   - Remove<Singular(Relation)>(item) or Remove<Relation>(item) on the owner,
//     when present, handles removals. Otherwise the reconciler removes the
//     item itself and unlinks the inverse side.
//
// Method tables are resolved once per concrete type and cached.
//
// # Cardinality
//
// A relation is treated as many-to-many when its inverse name is already
// plural. Describe and RunDescribed read the cardinality from the GORM
// schema instead.
//
// # Usage
//
//	func (a *Author) SetBooks(books []*Book) error {
//	    return association.Run(a, books, "books", "authors")
//	}
//
//	// Names inferred from the setter and the owner type ("shelf"):
//	func (s *Shelf) SetBooks(books []*Book) error {
//	    return association.RunConvention(s, "SetBooks", books)
//	}
package association
