package ir

import (
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

func i64() types.Type { return &types.Integer{Width: 64, Signed: true} }

func TestAddGlobalReuseIfEqualReturnsSameDecl(t *testing.T) {
	b := NewBuilder("test", ReuseIfEqual)

	v1, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)
	v2, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)

	assert.Same(t, v1.Decl, v2.Decl)
	assert.Len(t, b.Module.Body.Declarations, 1)
}

func TestAddGlobalReuseIfEqualErrorsOnTypeMismatch(t *testing.T) {
	b := NewBuilder("test", ReuseIfEqual)

	_, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)
	_, err = b.AddGlobal(ast.NewID("x", ast.None), &types.Bool{}, nil)
	assert.Error(t, err)
}

func TestAddGlobalRenameUniqueAvoidsCollision(t *testing.T) {
	b := NewBuilder("test", RenameUnique)

	v1, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)
	v2, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)

	assert.NotSame(t, v1.Decl, v2.Decl)
	assert.Equal(t, "x", v1.Decl.Ident.Name())
	assert.Equal(t, "x_1", v2.Decl.Ident.Name())
}

func TestAddGlobalErrorOnDuplicateAlwaysErrors(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)

	_, err := b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)
	_, err = b.AddGlobal(ast.NewID("x", ast.None), i64(), nil)
	assert.Error(t, err)
}

func TestDeclareHookNeverDeduplicates(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)

	h1 := b.DeclareHook(ast.NewID("on_thing", ast.None), &types.Hook{Result: &types.Void{}}, 0)
	h2 := b.DeclareHook(ast.NewID("on_thing", ast.None), &types.Hook{Result: &types.Void{}}, 5)

	assert.NotSame(t, h1, h2)
	assert.Len(t, b.Module.Body.Declarations, 2)
}

func TestPushPopBlockStackDiscipline(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)

	blk := ast.NewBlock(ast.None, b.Module.Body.Scope)
	b.PushBlock(blk)
	assert.Same(t, blk, b.currentBlock())
	popped := b.PopBlock()
	assert.Same(t, blk, popped)
	assert.Same(t, b.Module.Body, b.currentBlock())

	b.PopBlock()
	assert.True(t, b.Log().HasErrors())
}

func TestAddIfCreatesTrueAndContinuationBlocks(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)
	fn, err := b.DeclareFunction(ast.NewID("f", ast.None), &types.Function{Result: &types.Void{}})
	assert.NoError(t, err)
	b.PushFunction(fn)

	cond := ast.NewConstant(ast.None, &types.Bool{}, true)
	trueBlk, contBlk := b.AddIf(cond)

	assert.NotNil(t, trueBlk)
	assert.NotNil(t, contBlk)
	assert.Len(t, fn.Body.Statements, 1)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfElse)
	assert.True(t, ok)
	assert.Same(t, trueBlk, ifStmt.True)
	assert.Nil(t, ifStmt.False)

	b.PopFunction()
}

func TestCacheNodeRoundTrips(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)
	decl := ast.NewTypeDecl(ast.None, ast.NewID("T", ast.None), &types.Struct{})

	b.CacheNode("T", decl)
	got, ok := b.LookupNode("T")
	assert.True(t, ok)
	assert.Same(t, decl, got)

	_, ok = b.LookupNode("missing")
	assert.False(t, ok)
}

func TestFinalizeResolvesInstructionEndToEnd(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)

	fn, err := b.DeclareFunction(ast.NewID("f", ast.None), &types.Function{Result: i64()})
	assert.NoError(t, err)
	b.PushFunction(fn)

	x, err := b.AddLocal(ast.NewID("x", ast.None), i64(), nil)
	assert.NoError(t, err)
	one := ast.NewConstant(ast.None, i64(), int64(1))
	two := ast.NewConstant(ast.None, i64(), int64(2))
	b.AddInstruction("integer.add", x, one, two, nil)

	ret := &ast.Return{Result: x}
	ret.Base = ast.NewBase(ast.None)
	fn.Body.Statements = append(fn.Body.Statements, ret)

	b.PopFunction()

	ok, log := b.Finalize(true, true)
	if !ok {
		for _, r := range log.Reports() {
			t.Logf("unexpected diagnostic: %s %s", r.Code, r.Message)
		}
	}
	assert.True(t, ok)

	instrStmt := fn.Body.Statements[0].(*ast.Instruction)
	assert.True(t, instrStmt.IsResolved())
	assert.Equal(t, ast.Opcode("integer.add"), instrStmt.Op)
}

func TestFinalizeReportsUnbalancedStack(t *testing.T) {
	b := NewBuilder("test", ErrorOnDuplicate)
	blk := ast.NewBlock(ast.None, b.Module.Body.Scope)
	b.PushBlock(blk)

	ok, log := b.Finalize(true, true)
	assert.False(t, ok)
	assert.Equal(t, "IRB001", log.Reports()[0].Code)
}
