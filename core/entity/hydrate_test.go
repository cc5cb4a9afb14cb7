package entity_test

import (
	"errors"
	"testing"

	"entity-kit/core/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	entity.Model
	name       string
	count      int
	tags       []string
	publicName string
}

func (f *form) SetName(v string)   { f.name = v }
func (f *form) SetCount(v int)     { f.count = v }
func (f *form) SetTags(v []string) { f.tags = v }

func (f *form) SetPublicName(v string) error {
	if v == "" {
		return errors.New("public name is required")
	}
	f.publicName = v
	return nil
}

func TestFromMapping(t *testing.T) {
	t.Run("InvokesSetters", func(t *testing.T) {
		f := &form{}
		err := entity.FromMapping(f, map[string]any{
			"id":          5,
			"name":        "chair",
			"count":       "3",
			"tags":        []any{"a", "b"},
			"public_name": "Chair",
		})
		require.NoError(t, err)

		assert.Equal(t, uint(5), f.ID)
		assert.Equal(t, "chair", f.name)
		assert.Equal(t, 3, f.count)
		assert.Equal(t, []string{"a", "b"}, f.tags)
		assert.Equal(t, "Chair", f.publicName)
	})

	t.Run("UnknownKeyLeavesEntityUntouched", func(t *testing.T) {
		f := &form{}
		err := entity.FromMapping(f, map[string]any{"name": "chair", "colour": "red"})

		assert.ErrorIs(t, err, entity.ErrInvalidField)
		var invalid *entity.InvalidFieldError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "colour", invalid.Field)
		assert.Equal(t, "SetColour", invalid.Method)
		assert.Empty(t, f.name)
	})

	t.Run("SetterError", func(t *testing.T) {
		err := entity.FromMapping(&form{}, map[string]any{"public_name": ""})
		assert.ErrorContains(t, err, "public name is required")
	})

	t.Run("DecodeError", func(t *testing.T) {
		err := entity.FromMapping(&form{}, map[string]any{"count": "many"})
		assert.ErrorContains(t, err, `field "count"`)
	})

	t.Run("NilValueSetsZero", func(t *testing.T) {
		f := &form{count: 9}
		require.NoError(t, entity.FromMapping(f, map[string]any{"count": nil}))
		assert.Equal(t, 0, f.count)
	})

	t.Run("RequiresPointer", func(t *testing.T) {
		assert.Error(t, entity.FromMapping(form{}, map[string]any{}))
	})
}

func TestNew(t *testing.T) {
	f, err := entity.New[form](map[string]any{"name": "table"})
	require.NoError(t, err)
	assert.Equal(t, "table", f.name)

	f, err = entity.New[form](map[string]any{"nope": 1})
	assert.ErrorIs(t, err, entity.ErrInvalidField)
	assert.Nil(t, f)
}
