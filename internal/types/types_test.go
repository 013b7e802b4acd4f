package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerWidthInvariant(t *testing.T) {
	for _, w := range []int{8, 16, 32, 64} {
		_, err := NewInteger(w, true)
		assert.NoError(t, err, "width %d should be valid", w)
	}
	for _, w := range []int{1, 4, 24, 48, 128} {
		_, err := NewInteger(w, true)
		assert.Error(t, err, "width %d should be rejected", w)
	}
}

func TestIntegerEqual(t *testing.T) {
	a, err := NewInteger(32, true)
	require.NoError(t, err)
	b, err := NewInteger(32, true)
	require.NoError(t, err)
	c, err := NewInteger(64, true)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestReferenceRequiresHeapType(t *testing.T) {
	_, err := NewReference(&Integer{Width: 32, Signed: true})
	assert.Error(t, err, "int is a ValueType, not a HeapType")

	ref, err := NewReference(&Struct{})
	require.NoError(t, err)
	assert.Equal(t, "ref<struct>", ref.String())
}

func TestContainerElementMustBeValueType(t *testing.T) {
	heapElem := &Struct{}
	_, err := NewList(heapElem)
	assert.Error(t, err)

	intElem := &Integer{Width: 8, Signed: false}
	l, err := NewList(intElem)
	require.NoError(t, err)
	assert.True(t, l.Traits().Has(Container))
}

func TestSetAndMapKeysRequireHashable(t *testing.T) {
	_, err := NewSet(&Double{})
	assert.Error(t, err, "double is not Hashable")

	s, err := NewSet(&String{})
	require.NoError(t, err)
	assert.True(t, s.Traits().Has(Container))

	_, err = NewMap(&Double{}, &String{})
	assert.Error(t, err)

	m, err := NewMap(&Integer{Width: 32, Signed: true}, &String{})
	require.NoError(t, err)
	assert.True(t, m.Key.Equal(&Integer{Width: 32, Signed: true}))
}

func TestOptionalArgumentAsymmetricEqual(t *testing.T) {
	inner := &Integer{Width: 32, Signed: true}
	opt := &OptionalArgument{Inner: inner}

	// opt.Equal(inner) holds (optional unwraps to compare against bare T)...
	assert.True(t, opt.Equal(inner))
	// ...but inner.Equal(opt) does not, since Integer.Equal only matches
	// other *Integer values. Coercer.CanCoerceTo checks both directions
	// precisely because of this asymmetry.
	assert.False(t, inner.Equal(opt))
}

func TestRegExpFieldTypeIsBytes(t *testing.T) {
	re := &RegExp{}
	ft := FieldType(re)
	_, ok := ft.(*Bytes)
	assert.True(t, ok, "RegExp field type should be Bytes, got %s", ft)

	plain := &Integer{Width: 16, Signed: true}
	assert.Equal(t, plain, FieldType(plain))
}

func TestTraitSetHas(t *testing.T) {
	s := TraitSet(0).With(ValueType, Hashable)
	assert.True(t, s.Has(ValueType))
	assert.True(t, s.Has(Hashable))
	assert.False(t, s.Has(HeapType))
}
