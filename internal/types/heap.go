package types

import "fmt"

// Reference is a heap pointer to an inner heap type. Every Reference(T)
// requires T to carry the HeapType trait (checked by NewReference and
// re-checked by the validator for Reference types declared by a
// TypeDecl).
type Reference struct {
	Inner Type
}

func NewReference(inner Type) (*Reference, error) {
	if !IsHeapType(inner) {
		return nil, fmt.Errorf("reference inner type %s is not a heap type", inner)
	}
	return &Reference{Inner: inner}, nil
}

func (t *Reference) String() string   { return fmt.Sprintf("ref<%s>", t.Inner) }
func (t *Reference) Traits() TraitSet { return TraitSet(0).With(ValueType) }
func (t *Reference) Equal(o Type) bool {
	or, ok := o.(*Reference)
	return ok && t.Inner.Equal(or.Inner)
}

// elementTraitCheck validates that a container element type is a
// ValueType, and, when hashableRequired is set, also Hashable (the rule
// for Set/Map keys).
func elementTraitCheck(elem Type, hashableRequired bool) error {
	if !IsValueType(elem) {
		return fmt.Errorf("container element type %s is not a value type", elem)
	}
	if hashableRequired && !IsHashable(elem) {
		return fmt.Errorf("container key type %s is not hashable", elem)
	}
	return nil
}

// List is a heap-allocated singly-linked sequence.
type List struct{ Elem Type }

func NewList(elem Type) (*List, error) {
	if err := elementTraitCheck(elem, false); err != nil {
		return nil, err
	}
	return &List{Elem: elem}, nil
}
func (t *List) String() string { return fmt.Sprintf("list<%s>", t.Elem) }
func (t *List) Traits() TraitSet {
	return TraitSet(0).With(HeapType, Iterable, Container, Parseable)
}
func (t *List) Equal(o Type) bool { ol, ok := o.(*List); return ok && t.Elem.Equal(ol.Elem) }

// Vector is a heap-allocated random-access, index-addressable sequence.
type Vector struct{ Elem Type }

func NewVector(elem Type) (*Vector, error) {
	if err := elementTraitCheck(elem, false); err != nil {
		return nil, err
	}
	return &Vector{Elem: elem}, nil
}
func (t *Vector) String() string { return fmt.Sprintf("vector<%s>", t.Elem) }
func (t *Vector) Traits() TraitSet {
	return TraitSet(0).With(HeapType, Iterable, Container, Parseable)
}
func (t *Vector) Equal(o Type) bool { ov, ok := o.(*Vector); return ok && t.Elem.Equal(ov.Elem) }

// Set is a heap-allocated unordered collection of distinct, Hashable
// elements.
type Set struct{ Elem Type }

func NewSet(elem Type) (*Set, error) {
	if err := elementTraitCheck(elem, true); err != nil {
		return nil, err
	}
	return &Set{Elem: elem}, nil
}
func (t *Set) String() string   { return fmt.Sprintf("set<%s>", t.Elem) }
func (t *Set) Traits() TraitSet { return TraitSet(0).With(HeapType, Iterable, Container) }
func (t *Set) Equal(o Type) bool { os, ok := o.(*Set); return ok && t.Elem.Equal(os.Elem) }

// Map is a heap-allocated key/value associative container; the key must
// be a Hashable ValueType.
type Map struct {
	Key   Type
	Value Type
}

func NewMap(key, value Type) (*Map, error) {
	if err := elementTraitCheck(key, true); err != nil {
		return nil, fmt.Errorf("map key: %w", err)
	}
	if !IsValueType(value) {
		return nil, fmt.Errorf("map value type %s is not a value type", value)
	}
	return &Map{Key: key, Value: value}, nil
}
func (t *Map) String() string   { return fmt.Sprintf("map<%s,%s>", t.Key, t.Value) }
func (t *Map) Traits() TraitSet { return TraitSet(0).With(HeapType, Iterable, Container) }
func (t *Map) Equal(o Type) bool {
	om, ok := o.(*Map)
	return ok && t.Key.Equal(om.Key) && t.Value.Equal(om.Value)
}

// Channel is a heap-allocated typed communication channel.
type Channel struct{ Elem Type }

func (t *Channel) String() string   { return fmt.Sprintf("channel<%s>", t.Elem) }
func (t *Channel) Traits() TraitSet { return TraitSet(0).With(HeapType) }
func (t *Channel) Equal(o Type) bool { oc, ok := o.(*Channel); return ok && t.Elem.Equal(oc.Elem) }

// Callable is a heap-allocated bound or unbound function value.
type Callable struct {
	Result Type
	Args   []Type
}

func (t *Callable) String() string {
	s := "callable<" + t.Result.String() + "("
	for i, a := range t.Args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")>"
}
func (t *Callable) Traits() TraitSet { return TraitSet(0).With(HeapType, Parameterized) }
func (t *Callable) Equal(o Type) bool {
	oc, ok := o.(*Callable)
	if !ok || len(oc.Args) != len(t.Args) || !t.Result.Equal(oc.Result) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(oc.Args[i]) {
			return false
		}
	}
	return true
}

// IOSource is a heap-allocated input source of a given packet-capture
// kind (e.g. "pcap", "pcap-offline").
type IOSource struct{ Kind string }

func (t *IOSource) String() string   { return fmt.Sprintf("iosrc<%s>", t.Kind) }
func (t *IOSource) Traits() TraitSet { return TraitSet(0).With(HeapType, Parameterized) }
func (t *IOSource) Equal(o Type) bool { oi, ok := o.(*IOSource); return ok && oi.Kind == t.Kind }

// File is a heap-allocated output file handle.
type File struct{}

func (t *File) String() string   { return "file" }
func (t *File) Traits() TraitSet { return TraitSet(0).With(HeapType) }
func (t *File) Equal(o Type) bool { _, ok := o.(*File); return ok }

// Timer is a single scheduled-callback heap object.
type Timer struct{}

func (t *Timer) String() string   { return "timer" }
func (t *Timer) Traits() TraitSet { return TraitSet(0).With(HeapType) }
func (t *Timer) Equal(o Type) bool { _, ok := o.(*Timer); return ok }

// TimerMgr manages a set of Timer objects against a shared clock.
type TimerMgr struct{}

func (t *TimerMgr) String() string   { return "timer_mgr" }
func (t *TimerMgr) Traits() TraitSet { return TraitSet(0).With(HeapType) }
func (t *TimerMgr) Equal(o Type) bool { _, ok := o.(*TimerMgr); return ok }

// Classifier matches Rule-typed keys to Value-typed results.
type Classifier struct {
	Rule  Type
	Value Type
}

func (t *Classifier) String() string { return fmt.Sprintf("classifier<%s,%s>", t.Rule, t.Value) }
func (t *Classifier) Traits() TraitSet {
	return TraitSet(0).With(HeapType, Classifiable, Parameterized)
}
func (t *Classifier) Equal(o Type) bool {
	oc, ok := o.(*Classifier)
	return ok && t.Rule.Equal(oc.Rule) && t.Value.Equal(oc.Value)
}

// Field is a named, typed member shared by Struct, Union, Overlay, and
// Unit. Default, when non-nil, is the declared default value rendered
// via its String method (kept as fmt.Stringer rather than an ast.Expr to
// avoid types depending on ast).
type Field struct {
	Name    string
	Type    Type
	Default fmt.Stringer

	// Overlay-only: exactly one of StartOffset/StartField is set.
	StartOffset *int
	StartField  string
}

// Overlay is a zero-copy typed view over a Bytes buffer, described either
// by a byte offset or by adjacency to a previously declared field.
type Overlay struct {
	Fields []Field
}

func (t *Overlay) String() string   { return "overlay" }
func (t *Overlay) Traits() TraitSet { return TraitSet(0).With(HeapType, Unpackable) }
func (t *Overlay) Equal(o Type) bool {
	oo, ok := o.(*Overlay)
	return ok && len(oo.Fields) == len(t.Fields)
}

// Struct is a heap-allocated record of named, defaultable fields.
type Struct struct {
	Fields []Field
}

func (t *Struct) String() string   { return "struct" }
func (t *Struct) Traits() TraitSet { return TraitSet(0).With(HeapType, Parseable) }
func (t *Struct) Equal(o Type) bool {
	os, ok := o.(*Struct)
	return ok && len(os.Fields) == len(t.Fields)
}

// Union is a heap-allocated tagged choice between named fields.
type Union struct {
	Fields []Field
}

func (t *Union) String() string   { return "union" }
func (t *Union) Traits() TraitSet { return TraitSet(0).With(HeapType, Parseable) }
func (t *Union) Equal(o Type) bool {
	ou, ok := o.(*Union)
	return ok && len(ou.Fields) == len(t.Fields)
}

// Exception is a heap-allocated exception type; Base, when non-nil,
// names the parent exception in an inheritance chain that must be
// acyclic (enforced by the validator, not by this constructor, since a
// forward reference may still be an Unknown at construction time).
type Exception struct {
	Base *Exception
	Arg  Type
}

func (t *Exception) String() string   { return "exception" }
func (t *Exception) Traits() TraitSet { return TraitSet(0).With(HeapType) }
func (t *Exception) Equal(o Type) bool {
	oe, ok := o.(*Exception)
	return ok && oe == t
}

// Param is a named, typed Unit parameter.
type Param struct {
	Name string
	Type Type
}

// UnitItem is a single field of a protocol-parsing Unit: a name, the
// Parseable type it is read with, and the &until terminator expression,
// if one is set. No pass in this port reads Until; no foreach hooks are
// synthesized from it.
type UnitItem struct {
	Name     string
	Type     Type
	Until    fmt.Stringer // terminator expression, nil if unset
	Optional bool
}

// Unit is the protocol-parsing composite: an ordered list of fields plus
// the parameters it is instantiated with.
type Unit struct {
	Params []Param
	Items  []UnitItem
}

func (t *Unit) String() string   { return "unit" }
func (t *Unit) Traits() TraitSet { return TraitSet(0).With(HeapType, Sinkable) }
func (t *Unit) Equal(o Type) bool {
	ou, ok := o.(*Unit)
	return ok && len(ou.Items) == len(t.Items) && len(ou.Params) == len(t.Params)
}
