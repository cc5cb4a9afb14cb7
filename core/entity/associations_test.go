package entity_test

import (
	"testing"

	"entity-kit/core/association"
	"entity-kit/core/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shelf struct {
	entity.Model
	Books []*book
}

func (s *shelf) SetBooks(books []*book) error {
	_, err := entity.SetAssociationsFor(s, "SetBooks", books)
	return err
}

type book struct {
	entity.Model
	Shelf *shelf
}

func (b *book) SetShelf(s *shelf) { b.Shelf = s }

func TestSetAssociationsFor(t *testing.T) {
	s := &shelf{}
	s.ID = 1
	b := &book{}
	b.ID = 2

	require.NoError(t, s.SetBooks([]*book{b}))
	assert.Equal(t, []*book{b}, s.Books)
	assert.Same(t, s, b.Shelf)

	m, err := entity.ToMapping(s)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": uint(2), "shelf": uint(1)}}, m["books"])

	require.NoError(t, s.SetBooks(nil))
	assert.Empty(t, s.Books)
	assert.Nil(t, b.Shelf)
}

func TestSetAssociations(t *testing.T) {
	s := &shelf{}
	b := &book{}

	got, err := entity.SetAssociations(s, []*book{b}, "", "books")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Same(t, s, b.Shelf)

	_, err = entity.SetAssociations(s, []*book{b}, "owner", "books")
	assert.NoError(t, err, "already linked items are skipped")

	_, err = entity.SetAssociations(s, []*book{{}}, "owner", "books")
	assert.ErrorIs(t, err, association.ErrInvalidAssociation)
}
