package operator

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
)

// match mirrors Operator::match: walk ops against sig.Operands pairwise,
// either by exact type equality or (if coerce) via the Coercer; any
// operand slots past len(ops) must be nil or an OptionalArgument;
// MethodCall additionally matches the call-argument tuple; finally
// sig.ExtraMatch, if present, gets a say.
func (r *Registry) match(sig *Signature, ops []ast.Expr, coerce bool) ([]ast.Expr, bool) {
	newOps := make([]ast.Expr, 0, len(ops))

	for i, o := range ops {
		if i >= len(sig.Operands) {
			return nil, false
		}
		want := sig.Operands[i]
		// An Any-typed operand slot is a wildcard: the concrete shape
		// check is left to sig.ExtraMatch rather than forcing every
		// width/element-type variant of a family (e.g. every integer
		// width, every container element type) to be a separate
		// Signature the way the source's per-type overload classes do.
		if _, wildcard := want.(*types.Any); wildcard {
			newOps = append(newOps, o)
			continue
		}
		if coerce {
			if !r.CanCoerceTo(o, want) {
				return nil, false
			}
			newOps = append(newOps, r.CoerceTo(o, want))
		} else {
			if !o.Type().Equal(want) {
				return nil, false
			}
			newOps = append(newOps, o)
		}
	}

	for i := len(ops); i < len(sig.Operands); i++ {
		if !isOptionalOrNil(sig.Operands[i]) {
			return nil, false
		}
	}

	if sig.Kind == ast.MethodCall {
		var argTuple []ast.Expr
		if len(ops) >= 3 {
			if ctor, ok := ops[2].(*ast.Ctor); ok {
				argTuple = ctor.Elements
			}
		}
		if !r.matchCallArgs(argTuple, sig.CallArgs) {
			return nil, false
		}
	}

	if sig.ExtraMatch != nil && !sig.ExtraMatch(newOps) {
		return nil, false
	}

	return newOps, true
}

func isOptionalOrNil(t types.Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*types.OptionalArgument)
	return ok
}

// matchCallArgs mirrors Operator::matchArgsInternal: each supplied
// element must coerce to the corresponding expected type; any remaining
// expected types must be optional.
func (r *Registry) matchCallArgs(elems []ast.Expr, want []types.Type) bool {
	if len(elems) > len(want) {
		return false
	}
	for i, e := range elems {
		if !r.CanCoerceTo(e, want[i]) {
			return false
		}
	}
	for i := len(elems); i < len(want); i++ {
		if !isOptionalOrNil(want[i]) {
			return false
		}
	}
	return true
}
