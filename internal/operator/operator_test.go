package operator

import (
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

func int32Const(v int64) *ast.Constant {
	return ast.NewConstant(ast.None, &types.Integer{Width: 32, Signed: true}, v)
}

func TestExactMatchIntegerAdd(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)

	a, b := int32Const(1), int32Const(2)
	matches := r.GetMatching(ast.Add, []ast.Expr{a, b}, true)
	assert.Len(t, matches, 1)
	assert.Equal(t, &types.Integer{Width: 32, Signed: true}, matches[0].Sig.resultType(matches[0].Ops))
}

func TestCoercionWidensNarrowerOperand(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)

	a := int32Const(1)
	b := ast.NewConstant(ast.None, &types.Integer{Width: 64, Signed: true}, int64(2))
	matches := r.GetMatching(ast.Add, []ast.Expr{a, b}, true)
	assert.Len(t, matches, 1)
	result := matches[0].Sig.resultType(matches[0].Ops)
	assert.Equal(t, &types.Integer{Width: 64, Signed: true}, result)
}

func TestEqualityRequiresSameType(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)

	a := int32Const(1)
	b := ast.NewConstant(ast.None, &types.Bool{}, true)
	matches := r.GetMatching(ast.Equal, []ast.Expr{a, b}, true)
	assert.Len(t, matches, 0)
}

func TestCommutativeRetrySwapsOperands(t *testing.T) {
	r := NewRegistry()
	// a single asymmetric fake signature only matches (Integer, Bool)
	r.Add(&Signature{
		Kind:       ast.Add,
		Operands:   []types.Type{&types.Integer{Width: 32, Signed: true}, &types.Bool{}},
		ResultType: &types.Integer{Width: 32, Signed: true},
	})

	boolExpr := ast.NewConstant(ast.None, &types.Bool{}, true)
	intExpr := int32Const(5)

	// boolExpr, intExpr is the "wrong" order; Add is commutative so the
	// retry with swapped operands should still find the one signature.
	matches := r.GetMatching(ast.Add, []ast.Expr{boolExpr, intExpr}, false)
	assert.Len(t, matches, 1)
}

func TestCanCoerceToAnyAlwaysSucceeds(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)
	assert.True(t, r.CanCoerceTo(int32Const(1), &types.Any{}))
}

func TestCanCoerceToOptionalArgumentUnwraps(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)
	opt := &types.OptionalArgument{Inner: &types.Integer{Width: 64, Signed: true}}
	assert.True(t, r.CanCoerceTo(int32Const(1), opt))
}

func TestResolveRewritesUnresolvedOperator(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)

	a, b := int32Const(1), int32Const(2)
	unresolved := ast.NewUnresolvedOperator(ast.None, ast.Add, []ast.Expr{a, b})
	blockStmt := &ast.ExpressionStatement{Expr: unresolved}
	blockStmt.Base = ast.NewBase(ast.None)

	root := ast.NewBlock(ast.None, nil)
	root.Statements = append(root.Statements, blockStmt)
	ast.Walk(root, func(ast.Node) {})

	log := diag.NewLog()
	r.Resolve(root, log)

	assert.False(t, log.HasErrors())
	resolved, ok := blockStmt.Expr.(*ast.ResolvedOperator)
	assert.True(t, ok)
	assert.Equal(t, ast.Add, resolved.Kind)
}

func TestResolveReportsNoMatch(t *testing.T) {
	r := NewRegistry()
	StdSignatures(r)

	a := int32Const(1)
	b := ast.NewConstant(ast.None, &types.Bool{}, true)
	unresolved := ast.NewUnresolvedOperator(ast.None, ast.Sub, []ast.Expr{a, b})
	stmt := &ast.ExpressionStatement{Expr: unresolved}
	stmt.Base = ast.NewBase(ast.None)

	root := ast.NewBlock(ast.None, nil)
	root.Statements = append(root.Statements, stmt)
	ast.Walk(root, func(ast.Node) {})

	log := diag.NewLog()
	r.Resolve(root, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.OPR001, log.Reports()[0].Code)
}
