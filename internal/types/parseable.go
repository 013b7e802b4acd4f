package types

// ParseAttribute describes a custom &-attribute a Parseable type accepts
// on a unit field, on top of the generic attributes every type supports
// (e.g. &default). Grounded on binpac/type.h's
// trait::Parseable::ParseAttribute.
type ParseAttribute struct {
	Key      string
	Type     Type
	Default  interface{}
	Implicit bool
}

// FieldTyper is implemented by Parseable types whose unit-field value
// type differs from the type itself, e.g. RegExp parses into Bytes.
type FieldTyper interface {
	FieldType() Type
}

// AttributeLister is implemented by Parseable types that accept custom
// parse attributes beyond the attributes generic to all types.
type AttributeLister interface {
	ParseAttributes() []ParseAttribute
}

// FieldType returns the type of value a unit field of type t actually
// parses into: t itself, unless t implements FieldTyper with an
// overriding definition (e.g. RegExp -> Bytes).
func FieldType(t Type) Type {
	if ft, ok := t.(FieldTyper); ok {
		return ft.FieldType()
	}
	return t
}

// ParseAttributesOf returns the custom parse attributes t declares, or
// nil if it declares none.
func ParseAttributesOf(t Type) []ParseAttribute {
	if al, ok := t.(AttributeLister); ok {
		return al.ParseAttributes()
	}
	return nil
}
