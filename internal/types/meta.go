package types

import "fmt"

// Iterator is the type of an iterator positioned over a Container.
type Iterator struct {
	Container Type
}

func (t *Iterator) String() string   { return fmt.Sprintf("iterator<%s>", t.Container) }
func (t *Iterator) Traits() TraitSet { return TraitSet(0).With(ValueType) }
func (t *Iterator) Equal(o Type) bool {
	oi, ok := o.(*Iterator)
	return ok && t.Container.Equal(oi.Container)
}

// CallingConvention selects how a Function is invoked and, per the
// validator's rules, what argument/result shapes it may declare.
type CallingConvention int

const (
	CCHILTI CallingConvention = iota
	CCC
	CCCCallback
)

func (cc CallingConvention) String() string {
	switch cc {
	case CCHILTI:
		return "HILTI"
	case CCC:
		return "C"
	case CCCCallback:
		return "C-Callback"
	default:
		return "unknown"
	}
}

// Function is the type of a function or hook signature: a result type,
// ordered parameters, and a calling convention.
type Function struct {
	Result Type
	Params []Param
	CC     CallingConvention
}

func (t *Function) String() string {
	s := "function<" + t.Result.String() + "("
	for i, p := range t.Params {
		if i > 0 {
			s += ","
		}
		s += p.Type.String()
	}
	return s + ")>"
}
func (t *Function) Traits() TraitSet { return TraitSet(0) }
func (t *Function) Equal(o Type) bool {
	of, ok := o.(*Function)
	if !ok || len(of.Params) != len(t.Params) || !t.Result.Equal(of.Result) || of.CC != t.CC {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Type.Equal(of.Params[i].Type) {
			return false
		}
	}
	return true
}

// Hook is the type of a unit/event hook: like Function but may be
// multiply defined (overloaded) at the declaration level, a property
// tracked by the declaration, not the type.
type Hook struct {
	Result Type
	Params []Param
}

func (t *Hook) String() string   { return "hook" }
func (t *Hook) Traits() TraitSet { return TraitSet(0) }
func (t *Hook) Equal(o Type) bool {
	oh, ok := o.(*Hook)
	if !ok || len(oh.Params) != len(t.Params) || !t.Result.Equal(oh.Result) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Type.Equal(oh.Params[i].Type) {
			return false
		}
	}
	return true
}

// Unknown is a placeholder type carrying only the dotted identifier text
// it is supposed to name; the id-resolver pass rewrites it in place once
// the ID resolves to a declared type. Name is the raw path text (e.g.
// "Foo::bar") rather than an *ast.ID so this package never imports ast.
type Unknown struct {
	Name string
}

func (t *Unknown) String() string   { return fmt.Sprintf("unknown<%s>", t.Name) }
func (t *Unknown) Traits() TraitSet { return TraitSet(0) }
func (t *Unknown) Equal(o Type) bool {
	ou, ok := o.(*Unknown)
	return ok && ou.Name == t.Name
}

// TypeByName is a resolved forward-reference to a type declared
// elsewhere (possibly in another module), kept distinct from Unknown
// because it has already survived one resolution pass and only needs a
// final lookup confirmation.
type TypeByName struct {
	Name string
}

func (t *TypeByName) String() string   { return fmt.Sprintf("type-by-name<%s>", t.Name) }
func (t *TypeByName) Traits() TraitSet { return TraitSet(0) }
func (t *TypeByName) Equal(o Type) bool {
	ot, ok := o.(*TypeByName)
	return ok && ot.Name == t.Name
}

// OptionalArgument marks a Callable/Function parameter type as not
// required to be present in a MethodCall's call-args. Coercion to
// OptionalArgument(T) unwraps to coercion to T (see Coercer).
type OptionalArgument struct {
	Inner Type
}

func (t *OptionalArgument) String() string   { return fmt.Sprintf("optional<%s>", t.Inner) }
func (t *OptionalArgument) Traits() TraitSet { return t.Inner.Traits() }

// Equal is intentionally asymmetric: an OptionalArgument(T) is equal to
// bare T (so an absent optional argument coerces trivially against a
// plain-T signature slot), but T is not reported equal to
// OptionalArgument(T) by T's own Equal. Coercer.CanCoerceTo checks both
// directions for exactly this reason (spec §4.2).
func (t *OptionalArgument) Equal(o Type) bool {
	if oo, ok := o.(*OptionalArgument); ok {
		return t.Inner.Equal(oo.Inner)
	}
	return t.Inner.Equal(o)
}

// MemberAttribute is the type of a bare `&name` attribute token used in
// operator/method argument lists (e.g. &default, &until).
type MemberAttribute struct {
	Name string
}

func (t *MemberAttribute) String() string   { return "&" + t.Name }
func (t *MemberAttribute) Traits() TraitSet { return TraitSet(0) }
func (t *MemberAttribute) Equal(o Type) bool {
	om, ok := o.(*MemberAttribute)
	return ok && om.Name == t.Name
}

// Unset is the type of an expression that has not yet been typed, valid
// only transiently during IR construction.
type Unset struct{}

func (t *Unset) String() string   { return "<unset>" }
func (t *Unset) Traits() TraitSet { return TraitSet(0) }
func (t *Unset) Equal(o Type) bool { _, ok := o.(*Unset); return ok }
