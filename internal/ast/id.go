package ast

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID is a possibly-scoped dotted identifier path, e.g. "x", "Foo::bar",
// "a.b.c". Comparison is structural equality of the normalized path —
// each component is folded through Unicode NFC before comparison so that
// visually identical but differently-encoded identifiers (e.g. a
// precomposed vs. a combining-mark spelling of the same accented letter)
// are never silently treated as distinct bindings.
type ID struct {
	components []string
	scoped     bool
	span       Span
}

// NewID builds an ID from a dotted or "::"-scoped path string.
func NewID(path string, span Span) *ID {
	scoped := strings.Contains(path, "::")
	sep := "."
	if scoped {
		sep = "::"
	}
	parts := strings.Split(path, sep)
	for i, p := range parts {
		parts[i] = norm.NFC.String(p)
	}
	return &ID{components: parts, scoped: scoped, span: span}
}

// NewIDFromComponents builds a scoped ID directly from path components.
func NewIDFromComponents(components []string, span Span) *ID {
	normalized := make([]string, len(components))
	for i, c := range components {
		normalized[i] = norm.NFC.String(c)
	}
	return &ID{components: normalized, scoped: len(normalized) > 1, span: span}
}

// Components returns the ordered name components of the path.
func (id *ID) Components() []string {
	out := make([]string, len(id.components))
	copy(out, id.components)
	return out
}

// Name returns the final (unqualified) component of the path.
func (id *ID) Name() string {
	if len(id.components) == 0 {
		return ""
	}
	return id.components[len(id.components)-1]
}

// IsScoped reports whether the ID has a "::"-qualified scope component,
// i.e. it names something across a module boundary.
func (id *ID) IsScoped() bool {
	return id.scoped
}

// Scope returns the leading module-scope component ("Foo" for
// "Foo::bar"), or "" if the ID is unscoped.
func (id *ID) Scope() string {
	if !id.scoped || len(id.components) < 2 {
		return ""
	}
	return id.components[0]
}

// PathAsString renders the ID back to its dotted/scoped textual form.
func (id *ID) PathAsString() string {
	sep := "."
	if id.scoped {
		sep = "::"
	}
	return strings.Join(id.components, sep)
}

func (id *ID) String() string { return id.PathAsString() }

// Span is the source location the identifier was written at.
func (id *ID) Span() Span { return id.span }

// Equal reports structural equality of two identifier paths: same
// component count, same normalized components in order.
func (id *ID) Equal(other *ID) bool {
	if id == nil || other == nil {
		return id == other
	}
	if len(id.components) != len(other.components) {
		return false
	}
	for i := range id.components {
		if id.components[i] != other.components[i] {
			return false
		}
	}
	return true
}
