package entity

import "entity-kit/core/association"

// SetAssociations reconciles relation on owner against candidates, linking
// each member back through inverse (the owner type name when empty). It
// returns owner so setters can chain.
func SetAssociations[T any](owner T, candidates any, inverse, relation string, opts ...association.Option) (T, error) {
	return owner, association.Run(owner, candidates, relation, inverse, opts...)
}

// SetAssociationsFor is the convention form of SetAssociations: the relation
// is named after setter ("SetBooks" -> "books") and the inverse after the
// owner type unless association.WithInverse is given.
func SetAssociationsFor[T Entity](owner T, setter string, candidates any, opts ...association.Option) (T, error) {
	return owner, association.RunConvention(owner, setter, candidates, opts...)
}
