// Package operator implements the overloaded operator registry and the
// two-phase (exact-match, then coercion-permitted) matching algorithm
// that turns an ast.UnresolvedOperator into an ast.ResolvedOperator.
package operator

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
)

// Signature is one overload of one ast.OperatorKind. Rather than one Go
// type per overload (the natural analogue of the source's one C++ class
// per operator instance, each overriding __typeOp1/__typeOp2/__match/...
// as virtual methods), a single struct carries the operand type slots
// plus optional hook functions — the overload set for a kind is just a
// slice of these, built up by explicit Registry.Add calls (StdSignatures
// for the shipped set), not by package-level `init()` functions.
type Signature struct {
	Kind ast.OperatorKind

	// Operands lists the expected operand types in order. A nil entry
	// at a trailing position, or a *types.OptionalArgument, makes that
	// operand optional. Operands may be a *types.Unknown-free sentinel
	// (e.g. &types.Any{}) to accept anything.
	Operands []types.Type

	// CallArgs lists the expected MethodCall call-argument types
	// (ignored for all other kinds). As with Operands, a trailing
	// *types.OptionalArgument is optional.
	CallArgs []types.Type

	// Result computes the static result type given the (already
	// matched, possibly coerced) operand expressions. If nil, the
	// result type is ResultType.
	Result func(ops []ast.Expr) types.Type

	// ResultType is used when Result is nil — the common case of a
	// fixed, operand-independent result type.
	ResultType types.Type

	// ExtraMatch runs after the type-level match succeeds, for
	// overloads whose legality depends on more than operand types (e.g.
	// Index requiring the container's element type satisfy a trait,
	// the element-type check the source calls matchesElementType).
	// Returning false rejects the match without raising a Report.
	// Signature has no hook for a match that succeeds but reports an
	// error.
	ExtraMatch func(ops []ast.Expr) bool

	Doc string
	// Render renders op1/op2/op3 into the human-readable form used in
	// diagnostics (mirrors Operator::render()'s per-kind switch in the
	// original); if nil a generic "kind(op1, op2, ...)" rendering is
	// used.
	Render func(ops []ast.Expr) string
}

func (s *Signature) render(ops []ast.Expr) string {
	if s.Render != nil {
		return s.Render(ops)
	}
	out := s.Kind.String() + "("
	for i, o := range ops {
		if i > 0 {
			out += ", "
		}
		out += o.Type().String()
	}
	return out + ")"
}

func (s *Signature) resultType(ops []ast.Expr) types.Type {
	if s.Result != nil {
		return s.Result(ops)
	}
	return s.ResultType
}
