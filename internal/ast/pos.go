// Package ast defines the typed node model for the protocol-parser
// compiler: identifiers, scopes, declarations, expressions, statements
// (including the IR instruction family) and modules.
package ast

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<none>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsNone reports whether p carries no location information.
func (p Pos) IsNone() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

// Span is a half-open range [Start, End) in a source file, the unit of
// location every node and every diagnostic carries.
type Span struct {
	Start Pos
	End   Pos
}

// None is the zero Span, used by synthesized nodes that have no source
// location (builder-constructed IR, for instance).
var None = Span{}

func (s Span) String() string {
	if s.Start.IsNone() {
		return "<none>"
	}
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
