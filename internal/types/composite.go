package types

import (
	"fmt"
	"strings"
)

// Tuple is a fixed-arity heterogeneous value type.
type Tuple struct {
	Elements []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("tuple<%s>", strings.Join(parts, ","))
}
func (t *Tuple) Traits() TraitSet { return TraitSet(0).With(ValueType, TypeList, Parseable) }
func (t *Tuple) Equal(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(ot.Elements) != len(t.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equal(ot.Elements[i]) {
			return false
		}
	}
	return true
}

// RegExp is a regular-expression value type; matching produces Bytes,
// which is why it overrides FieldType in the Parseable trait.
type RegExp struct {
	Attrs []string
}

func (t *RegExp) String() string   { return fmt.Sprintf("regexp<%v>", t.Attrs) }
func (t *RegExp) Traits() TraitSet { return TraitSet(0).With(ValueType, Parseable) }
func (t *RegExp) Equal(o Type) bool {
	or, ok := o.(*RegExp)
	return ok && len(or.Attrs) == len(t.Attrs)
}

// FieldType overrides the default Parseable.FieldType: a unit field of
// type RegExp parses into Bytes, not into the RegExp type itself.
func (t *RegExp) FieldType() Type { return &Bytes{} }

// ParseAttributes advertises the custom parse-time attributes a RegExp
// field accepts beyond the generic ones every type supports.
func (t *RegExp) ParseAttributes() []ParseAttribute {
	return []ParseAttribute{
		{Key: "nosub", Type: nil},
	}
}

// TypeType wraps a Type so it can appear as a value, e.g. in `addConstant`
// for type-level constants, or in a Callable's result slot for a
// meta-function.
type TypeType struct {
	Referenced Type
}

func (t *TypeType) String() string   { return fmt.Sprintf("type<%s>", t.Referenced.String()) }
func (t *TypeType) Traits() TraitSet { return TraitSet(0) }
func (t *TypeType) Equal(o Type) bool {
	ot, ok := o.(*TypeType)
	return ok && t.Referenced.Equal(ot.Referenced)
}
