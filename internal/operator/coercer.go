package operator

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
)

// CanCoerceTo mirrors Expression::canCoerceTo / Coercer::_coerceTo's
// legality half: can e be implicitly converted to target. Three
// shortcuts precede the general operator-table dispatch, in the same
// order as the original:
//
//  1. target is types.Any: always legal (the universal supertype).
//  2. e.Type() already equals target: trivially legal, no-op coercion.
//  3. target is an OptionalArgument: legal iff coercion to the wrapped
//     inner type is legal (the asymmetric unwrap documented on
//     types.OptionalArgument.Equal — this is the one place in the
//     codebase that is allowed to reach into that asymmetry directly).
//
// Failing all three, legality is whatever a single matching Coerce
// overload in the registry says it is.
func (r *Registry) CanCoerceTo(e ast.Expr, target types.Type) bool {
	if target == nil {
		return false
	}
	if _, ok := target.(*types.Any); ok {
		return true
	}
	if e.Type().Equal(target) {
		return true
	}
	if opt, ok := target.(*types.OptionalArgument); ok {
		return r.CanCoerceTo(e, opt.Inner)
	}
	matches := r.getMatching(ast.Coerce, []ast.Expr{e, ast.NewPlaceHolder(target)}, false, false)
	return len(matches) == 1
}

// CoerceTo performs the conversion CanCoerceTo(e, target) already
// reported legal, wrapping e in an ast.Coerced node. Constant operands
// of a narrowing-safe Integer-to-Integer coercion are folded immediately
// (matching the source's Constant::coerceTo fast path) rather than left
// as a runtime conversion.
func (r *Registry) CoerceTo(e ast.Expr, target types.Type) ast.Expr {
	if e.Type().Equal(target) {
		return e
	}
	if opt, ok := target.(*types.OptionalArgument); ok {
		return r.CoerceTo(e, opt.Inner)
	}
	if c, ok := e.(*ast.Constant); ok {
		if folded, ok := foldConstantCoercion(c, target); ok {
			return folded
		}
	}
	return ast.NewCoerced(e.Span(), e, target)
}

// foldConstantCoercion implements the handful of compile-time-safe
// constant folds: integer width/signedness widening and integer-to-
// double promotion. Anything else still gets wrapped as a runtime
// ast.Coerced — folding is an optimization, not a correctness
// requirement, so an incomplete fold table is never wrong, only less
// eager.
func foldConstantCoercion(c *ast.Constant, target types.Type) (ast.Expr, bool) {
	switch tt := target.(type) {
	case *types.Integer:
		if st, ok := c.Type().(*types.Integer); ok && st.Width <= tt.Width {
			return ast.NewConstant(c.Span(), tt, c.Value), true
		}
	case *types.Double:
		if _, ok := c.Type().(*types.Integer); ok {
			var f float64
			switch v := c.Value.(type) {
			case int64:
				f = float64(v)
			case int:
				f = float64(v)
			default:
				return nil, false
			}
			return ast.NewConstant(c.Span(), tt, f), true
		}
	}
	return nil, false
}
