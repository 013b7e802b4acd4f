// Package types implements the closed catalog of types for the protocol
// parsing language: primitive value types, composite value types,
// heap/reference types, and the meta/infrastructure types the resolver
// and validator manipulate. Every type declares a set of traits that
// gate validation, coercion, and code-generation dispatch.
package types

// Trait is a declarative capability bit a Type may carry.
type Trait uint32

const (
	ValueType Trait = 1 << iota
	HeapType
	Iterable
	Hashable
	Parameterized
	TypeList
	Container
	Sinkable
	Parseable
	Unpackable
	Classifiable
)

// TraitSet is a bitset of Trait values.
type TraitSet uint32

// Has reports whether every bit of want is set in s.
func (s TraitSet) Has(want Trait) bool {
	return TraitSet(want)&s == TraitSet(want)
}

// With returns a new TraitSet with the given traits added.
func (s TraitSet) With(traits ...Trait) TraitSet {
	for _, t := range traits {
		s |= TraitSet(t)
	}
	return s
}

// Type is the common interface of every member of the type catalog.
// Mutually recursive with the expression model in package ast (an ast.ID
// can name a Type, and several Type variants embed expressions), the
// dependency only runs one way: this package never imports ast.
type Type interface {
	// String renders a readable one-line representation, e.g. "int<32>".
	String() string

	// Traits returns the set of declarative capabilities this type
	// carries (ValueType, HeapType, Iterable, Hashable, ...).
	Traits() TraitSet

	// Equal reports structural equality with another type. Equality is
	// not always symmetric for OptionalArgument (see its Equal), which
	// is why Coercer checks both t1.Equal(t2) and t2.Equal(t1).
	Equal(Type) bool
}

// DocRenderer is implemented by types whose reference-documentation
// rendering differs from their one-line String() form.
type DocRenderer interface {
	DocRender() string
}

// IsValueType reports whether t carries the ValueType trait.
func IsValueType(t Type) bool { return t != nil && t.Traits().Has(ValueType) }

// IsHeapType reports whether t carries the HeapType trait.
func IsHeapType(t Type) bool { return t != nil && t.Traits().Has(HeapType) }

// IsHashable reports whether t carries the Hashable trait.
func IsHashable(t Type) bool { return t != nil && t.Traits().Has(Hashable) }

// IsContainer reports whether t carries the Container trait.
func IsContainer(t Type) bool { return t != nil && t.Traits().Has(Container) }

// MatchesAny reports whether t is the universal Any type, which the
// coercer treats as a wildcard target/source.
func MatchesAny(t Type) bool {
	_, ok := t.(*Any)
	return ok
}
