package association_test

import (
	"errors"
	"testing"

	"entity-kit/core/association"
	"entity-kit/core/collection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// holder owns a "relativeItems" relation whose inverse is "target".
type holder struct {
	id            int
	relativeItems []any
}

func (h *holder) GetID() any { return h.id }

func (h *holder) GetRelativeItems() collection.Collection {
	return collection.Of(&h.relativeItems)
}

func (h *holder) SetRelativeItems(items []any) error {
	return association.RunConvention(h, "SetRelativeItems", items, association.WithInverse("target"))
}

// setterItem references a single owner through SetTarget.
type setterItem struct {
	target any
	calls  int
}

func (s *setterItem) SetTarget(target any) {
	s.calls++
	s.target = target
}

// adderItem exposes both AddTarget and SetTarget.
type adderItem struct {
	added     int
	addedWith any
	setted    int
}

func (a *adderItem) AddTarget(target any) {
	a.added++
	a.addedWith = target
}

func (a *adderItem) SetTarget(any) { a.setted++ }

// eagerItem adds itself to the owner's collection when linked.
type eagerItem struct{}

func (e *eagerItem) SetTarget(target any) {
	_ = target.(*holder).GetRelativeItems().Add(e)
}

type bareItem struct{}

func TestRun_AddsItemAndCallsInverseSetter(t *testing.T) {
	owner := &holder{}
	item := &setterItem{}

	require.NoError(t, owner.SetRelativeItems([]any{item}))

	assert.Equal(t, []any{item}, owner.relativeItems)
	assert.Equal(t, 1, item.calls)
	assert.Same(t, owner, item.target)
}

func TestRun_PrefersAddMethod(t *testing.T) {
	owner := &holder{}
	item := &adderItem{}

	require.NoError(t, owner.SetRelativeItems([]any{item}))

	assert.Equal(t, 1, item.added)
	assert.Same(t, owner, item.addedWith)
	assert.Equal(t, 0, item.setted)
}

func TestRun_SkipsItemsAlreadyInCollection(t *testing.T) {
	item := &setterItem{}
	owner := &holder{relativeItems: []any{item}}

	require.NoError(t, owner.SetRelativeItems([]any{item}))

	assert.Len(t, owner.relativeItems, 1)
	assert.Equal(t, 0, item.calls)
}

func TestRun_IsIdempotent(t *testing.T) {
	owner := &holder{}
	a, b := &setterItem{}, &adderItem{}

	require.NoError(t, owner.SetRelativeItems([]any{a, b}))
	require.NoError(t, owner.SetRelativeItems([]any{a, b}))

	assert.Equal(t, []any{a, b}, owner.relativeItems)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.added)
}

func TestRun_DoesNotDuplicateWhenInverseAddsItem(t *testing.T) {
	owner := &holder{}
	item := &eagerItem{}

	require.NoError(t, owner.SetRelativeItems([]any{item}))

	assert.Equal(t, []any{item}, owner.relativeItems)
}

func TestRun_DropsDuplicateCandidates(t *testing.T) {
	owner := &holder{}
	item := &setterItem{}

	require.NoError(t, owner.SetRelativeItems([]any{item, item}))

	assert.Len(t, owner.relativeItems, 1)
	assert.Equal(t, 1, item.calls)
}

func TestRun_RemovesItemsNotInCandidates(t *testing.T) {
	owner := &holder{}
	item := &setterItem{}
	require.NoError(t, owner.SetRelativeItems([]any{item}))

	require.NoError(t, owner.SetRelativeItems(nil))

	assert.Empty(t, owner.relativeItems)
	assert.Nil(t, item.target)
}

func TestRun_KeepsPositionsAndAppendsNewItems(t *testing.T) {
	a, b, c, d := &setterItem{}, &setterItem{}, &setterItem{}, &setterItem{}
	owner := &holder{relativeItems: []any{a, b, c}}

	require.NoError(t, owner.SetRelativeItems([]any{c, d, a}))

	assert.Equal(t, []any{a, c, d}, owner.relativeItems)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 1, d.calls)
}

func TestRun_FailsWithoutInverseMethod(t *testing.T) {
	owner := &holder{}
	linked := &setterItem{}

	err := owner.SetRelativeItems([]any{linked, &bareItem{}})

	require.Error(t, err)
	assert.ErrorIs(t, err, association.ErrInvalidAssociation)
	var invalid *association.InvalidAssociationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "relativeItems", invalid.Relation)
	assert.Equal(t, "target", invalid.Inverse)
	assert.Contains(t, err.Error(), "AddTarget or SetTarget")

	// No rollback of candidates processed before the failure.
	assert.Equal(t, []any{linked}, owner.relativeItems)
}

// Mock has no explicit inverse name; its type name is used.
type Mock struct {
	relativeItems []any
}

func (m *Mock) GetID() any { return nil }

func (m *Mock) GetRelativeItems() collection.Collection {
	return collection.Of(&m.relativeItems)
}

func (m *Mock) SetRelativeItems(items []any) error {
	return association.RunConvention(m, "SetRelativeItems", items)
}

type mockAdder struct {
	owner *Mock
}

func (a *mockAdder) AddMock(m *Mock) { a.owner = m }

func TestRunConvention_InfersInverseFromOwnerType(t *testing.T) {
	owner := &Mock{}
	item := &mockAdder{}

	require.NoError(t, owner.SetRelativeItems([]any{item}))

	assert.Same(t, owner, item.owner)
	assert.Equal(t, []any{item}, owner.relativeItems)
}

type notEntity struct {
	RelativeItems []any
}

func (n *notEntity) SetRelativeItems([]any) {}

func TestRunConvention_InvalidCaller(t *testing.T) {
	tests := []struct {
		name   string
		owner  any
		setter string
	}{
		{"NotAnEntity", &notEntity{}, "SetRelativeItems"},
		{"NoSetPrefix", &holder{}, "GetRelativeItems"},
		{"BareSet", &holder{}, "Set"},
		{"NotAMethod", &holder{}, "SetOthers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := association.RunConvention(tt.owner, tt.setter, []any{})
			assert.ErrorIs(t, err, association.ErrInvalidCaller)
			assert.Contains(t, err.Error(), tt.setter)
		})
	}
}

// remover handles removals itself.
type remover struct {
	items   []any
	removed []any
}

func (r *remover) GetItems() *[]any { return &r.items }

func (r *remover) RemoveItem(item any) {
	r.removed = append(r.removed, item)
	collection.Of(&r.items).Remove(item)
}

func TestRun_UsesOwnerRemoveMethod(t *testing.T) {
	kept, dropped := &setterItem{}, &setterItem{target: "untouched"}
	owner := &remover{items: []any{kept, dropped}}

	require.NoError(t, association.Run(owner, []any{kept}, "items", "target"))

	assert.Equal(t, []any{kept}, owner.items)
	assert.Equal(t, []any{dropped}, owner.removed)
	assert.Equal(t, "untouched", dropped.target)
}

// fieldOwner has no getter; the exported slice field is used.
type fieldOwner struct {
	Items []*setterItem
}

func TestRun_FallsBackToExportedField(t *testing.T) {
	owner := &fieldOwner{}
	item := &setterItem{}

	require.NoError(t, association.Run(owner, []*setterItem{item}, "items", "target"))

	assert.Equal(t, []*setterItem{item}, owner.Items)
}

func TestRun_FailsWithoutCollection(t *testing.T) {
	err := association.Run(&bareItem{}, []any{}, "items", "target")
	assert.ErrorIs(t, err, association.ErrInvalidAssociation)
	assert.Contains(t, err.Error(), "GetItems")
}

type post struct {
	tags []*tag
}

func (p *post) GetTags() collection.Collection { return collection.Of(&p.tags) }

type tag struct {
	posts []*post
}

func (t *tag) AddPost(p *post)                  { t.posts = append(t.posts, p) }
func (t *tag) GetPosts() collection.Collection { return collection.Of(&t.posts) }

func TestRun_ManyToMany(t *testing.T) {
	p := &post{}
	t1, t2, t3 := &tag{}, &tag{}, &tag{}

	require.NoError(t, association.Run(p, []*tag{t1, t2}, "tags", "posts"))
	assert.Equal(t, []*tag{t1, t2}, p.tags)
	assert.Equal(t, []*post{p}, t1.posts)

	require.NoError(t, association.Run(p, []*tag{t2, t3}, "tags", "posts"))
	assert.Equal(t, []*tag{t2, t3}, p.tags)
	assert.Empty(t, t1.posts)
	assert.Equal(t, []*post{p}, t2.posts)
	assert.Equal(t, []*post{p}, t3.posts)
}

type node struct {
	id    int
	owner any
}

func (n *node) GetID() any           { return n.id }
func (n *node) SetTarget(target any) { n.owner = target }

func TestRun_Factory(t *testing.T) {
	existing := &node{id: 7}
	factory := func(raw any) (any, error) {
		id, ok := raw.(int)
		if !ok {
			return nil, errors.New("not an id")
		}
		return &node{id: id}, nil
	}

	t.Run("CoercesRawValues", func(t *testing.T) {
		owner := &holder{}
		err := association.Run(owner, []any{1, existing}, "relativeItems", "target", association.WithFactory(factory))
		require.NoError(t, err)

		require.Len(t, owner.relativeItems, 2)
		assert.Equal(t, 1, owner.relativeItems[0].(*node).id)
		assert.Same(t, existing, owner.relativeItems[1])
		assert.Same(t, owner, existing.owner)
	})

	t.Run("FactoryFailure", func(t *testing.T) {
		owner := &holder{}
		err := association.Run(owner, []any{"x"}, "relativeItems", "target", association.WithFactory(factory))
		assert.ErrorIs(t, err, association.ErrCoercion)
		assert.Contains(t, err.Error(), "not an id")
		assert.Empty(t, owner.relativeItems)
	})
}

func TestRun_RejectsNonSliceCandidates(t *testing.T) {
	err := association.Run(&holder{}, 42, "relativeItems", "target")
	assert.ErrorIs(t, err, association.ErrCoercion)
}

func TestRun_RejectsMismatchedMemberType(t *testing.T) {
	owner := &fieldOwner{}
	item := &adderItem{}
	err := association.Run(owner, []any{item}, "items", "target")
	assert.ErrorIs(t, err, association.ErrCoercion)
	assert.ErrorIs(t, err, collection.ErrTypeMismatch)

	// Rejected before the inverse is touched.
	assert.Equal(t, 0, item.added)
	assert.Empty(t, owner.Items)
}

func TestRun_RejectsNilCandidate(t *testing.T) {
	var typedNil *setterItem
	tests := []struct {
		name       string
		candidates []any
	}{
		{"Untyped", []any{nil}},
		{"NilPointer", []any{&setterItem{}, typedNil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := &holder{id: 1}
			err := association.Run(owner, tt.candidates, "relativeItems", "target")

			require.Error(t, err)
			assert.ErrorIs(t, err, association.ErrCoercion)
			var coercion *association.CoercionError
			require.True(t, errors.As(err, &coercion))
			assert.Equal(t, len(tt.candidates)-1, coercion.Index)
			assert.Empty(t, owner.relativeItems)
		})
	}
}

func TestRun_RejectsRawValueWithoutFactory(t *testing.T) {
	owner := &holder{id: 1}
	err := association.Run(owner, []any{42}, "relativeItems", "target")

	assert.ErrorIs(t, err, association.ErrCoercion)
	assert.NotErrorIs(t, err, association.ErrInvalidAssociation)
	assert.Empty(t, owner.relativeItems)
}

func TestRun_LogsDecisions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	owner := &holder{}

	err := association.Run(owner, []any{&setterItem{}}, "relativeItems", "target", association.WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("Linked association").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SetTarget", entries[0].ContextMap()["method"])
	assert.Equal(t, "relativeItems", entries[0].ContextMap()["relation"])
}
