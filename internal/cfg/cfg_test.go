package cfg

import (
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/instr"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

func resolvedAdd(target, op1, op2 ast.Expr) *ast.Instruction {
	i := ast.NewUnresolvedInstruction(ast.None, "integer.add", target, op1, op2, nil)
	i.Op = "integer.add"
	return i
}

func i64() ast.Expr { return ast.NewConstant(ast.None, &types.Integer{Width: 64, Signed: true}, int64(1)) }

func newRegistry() *instr.Registry {
	r := instr.NewRegistry()
	instr.StdOverloads(r)
	return r
}

// TestIfElseBranchesConvergeOnContinuation builds Main::run with an
// IfElse whose True/False bodies each carry one resolved instruction,
// both falling through to the same following Return — exercising the
// spec §8.3 CFG-closure property across a branch/merge shape.
func TestIfElseBranchesConvergeOnContinuation(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("Main", ast.None))
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("run", ast.None), &types.Function{Result: &types.Void{}}, nil, ast.NewBlock(ast.None, mod.Body.Scope))

	trueBody := ast.NewBlock(ast.None, fn.Body.Scope)
	sA := resolvedAdd(nil, i64(), i64())
	trueBody.Statements = append(trueBody.Statements, sA)

	falseBody := ast.NewBlock(ast.None, fn.Body.Scope)
	sB := resolvedAdd(nil, i64(), i64())
	falseBody.Statements = append(falseBody.Statements, sB)

	ifElse := &ast.IfElse{Cond: ast.NewConstant(ast.None, &types.Bool{}, true), True: trueBody, False: falseBody}
	ifElse.Base = ast.NewBase(ast.None)

	ret := &ast.Return{}
	ret.Base = ast.NewBase(ast.None)

	fn.Body.Statements = append(fn.Body.Statements, ifElse, ret)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	g := Build(mod, newRegistry(), log)
	assert.False(t, log.HasErrors())

	assert.True(t, g.HasSuccessor(sA, ret))
	assert.True(t, g.HasSuccessor(sB, ret))
	preds := g.Predecessors(ret)
	assert.Contains(t, preds, ast.Statement(sA))
	assert.Contains(t, preds, ast.Statement(sB))

	assert.True(t, g.HasSuccessor(ifElse, sA))
	assert.True(t, g.HasSuccessor(ifElse, sB))
}

// TestForEachLoopsBackAndExits checks the loop-body-reenters-header and
// zero-iteration-exit edges a ForEach produces.
func TestForEachLoopsBackAndExits(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("f", ast.None), &types.Function{Result: &types.Void{}}, nil, ast.NewBlock(ast.None, mod.Body.Scope))

	body := ast.NewBlock(ast.None, fn.Body.Scope)
	inner := resolvedAdd(nil, i64(), i64())
	body.Statements = append(body.Statements, inner)

	loop := &ast.ForEach{Ident: ast.NewID("x", ast.None), Seq: i64(), Body: body}
	loop.Base = ast.NewBase(ast.None)

	after := &ast.Return{}
	after.Base = ast.NewBase(ast.None)

	fn.Body.Statements = append(fn.Body.Statements, loop, after)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	g := Build(mod, newRegistry(), log)
	assert.False(t, log.HasErrors())

	assert.True(t, g.HasSuccessor(loop, inner))
	assert.True(t, g.HasSuccessor(loop, after))
	assert.True(t, g.HasSuccessor(inner, loop))
}

// TestTryBodyGetsCatchAsExtraSuccessor verifies the active-handler-stack
// rule (spec §4.6): an instruction lexically inside a Try's body gains
// the matching Catch's entry as an additional CFG successor.
func TestTryBodyGetsCatchAsExtraSuccessor(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("f", ast.None), &types.Function{Result: &types.Void{}}, nil, ast.NewBlock(ast.None, mod.Body.Scope))

	guarded := resolvedAdd(nil, i64(), i64())
	tryBody := ast.NewBlock(ast.None, fn.Body.Scope)
	tryBody.Statements = append(tryBody.Statements, guarded)

	handled := resolvedAdd(nil, i64(), i64())
	catchBody := ast.NewBlock(ast.None, fn.Body.Scope)
	catchBody.Statements = append(catchBody.Statements, handled)

	tryStmt := &ast.Try{Body: tryBody, Catches: []*ast.Catch{{Body: catchBody}}}
	tryStmt.Base = ast.NewBase(ast.None)

	fn.Body.Statements = append(fn.Body.Statements, tryStmt)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	g := Build(mod, newRegistry(), log)
	assert.False(t, log.HasErrors())

	assert.True(t, g.HasSuccessor(guarded, handled))
}

func TestUnresolvedInstructionReportsCFG001(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("f", ast.None), &types.Function{Result: &types.Void{}}, nil, ast.NewBlock(ast.None, mod.Body.Scope))
	unresolved := ast.NewUnresolvedInstruction(ast.None, "integer.add", nil, i64(), i64(), nil)
	fn.Body.Statements = append(fn.Body.Statements, unresolved)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	Build(mod, newRegistry(), log)
	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.CFG001, log.Reports()[0].Code)
}
