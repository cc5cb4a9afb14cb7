package collection

import (
	"errors"
	"fmt"
	"slices"
)

// ErrTypeMismatch is returned when an item of the wrong type is added to a collection.
var ErrTypeMismatch = errors.New("collection item type mismatch")

// Collection is an ordered, duplicate-free set of items.
type Collection interface {
	// Len returns the number of items.
	Len() int
	// Items returns a snapshot of the items in order.
	Items() []any
	// Contains reports whether item is in the collection.
	Contains(item any) bool
	// Check returns ErrTypeMismatch if item cannot be stored.
	Check(item any) error
	// Add appends item unless it is already present.
	// It returns ErrTypeMismatch if item cannot be stored.
	Add(item any) error
	// Remove deletes item and reports whether it was present.
	Remove(item any) bool
}

// Slice is a Collection backed by a slice of T.
type Slice[T comparable] struct {
	items *[]T
}

// Of returns a collection view over items. Mutations write through to *items.
func Of[T comparable](items *[]T) *Slice[T] {
	return &Slice[T]{items: items}
}

// New returns a collection owning its own storage, seeded with items
// (duplicates dropped).
func New[T comparable](items ...T) *Slice[T] {
	s := &Slice[T]{items: new([]T)}
	for _, it := range items {
		s.Append(it)
	}
	return s
}

// Len returns the number of items.
func (s *Slice[T]) Len() int {
	return len(*s.items)
}

// Items returns a snapshot of the items in order.
func (s *Slice[T]) Items() []any {
	out := make([]any, len(*s.items))
	for i, it := range *s.items {
		out[i] = it
	}
	return out
}

// Values returns a copy of the typed items.
func (s *Slice[T]) Values() []T {
	return slices.Clone(*s.items)
}

// Contains reports whether item is in the collection.
func (s *Slice[T]) Contains(item any) bool {
	v, ok := item.(T)
	if !ok {
		return false
	}
	return slices.Contains(*s.items, v)
}

// Check returns ErrTypeMismatch if item is not a T.
func (s *Slice[T]) Check(item any) error {
	if _, ok := item.(T); !ok {
		var zero T
		return fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, item, zero)
	}
	return nil
}

// Add appends item unless it is already present.
func (s *Slice[T]) Add(item any) error {
	if err := s.Check(item); err != nil {
		return err
	}
	s.Append(item.(T))
	return nil
}

// Append is the typed form of Add. It reports whether item was added.
func (s *Slice[T]) Append(item T) bool {
	if slices.Contains(*s.items, item) {
		return false
	}
	*s.items = append(*s.items, item)
	return true
}

// Remove deletes item and reports whether it was present.
func (s *Slice[T]) Remove(item any) bool {
	v, ok := item.(T)
	if !ok {
		return false
	}
	i := slices.Index(*s.items, v)
	if i < 0 {
		return false
	}
	*s.items = slices.Delete(*s.items, i, i+1)
	return true
}
