package validate

import (
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

func i64() types.Type { return &types.Integer{Width: 64, Signed: true} }

func newFunc(name string, result types.Type, cc types.CallingConvention, params []*ast.ParamDecl, body *ast.Block) *ast.FunctionDecl {
	return ast.NewFunctionDecl(ast.None, ast.NewID(name, ast.None), &types.Function{Result: result, CC: cc}, params, body)
}

func TestModuleMainRequiresRunFunction(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("Main", ast.None))

	log := diag.NewLog()
	Run(mod, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL001, log.Reports()[0].Code)
}

func TestModuleMainAcceptsDeclaredRunFunction(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("Main", ast.None))
	fn := newFunc("run", &types.Void{}, types.CCHILTI, nil, ast.NewBlock(ast.None, mod.Body.Scope))
	mod.Body.Declarations = append(mod.Body.Declarations, fn)
	mod.Body.Scope.Insert(fn.Ident, ast.NewFunctionExpr(ast.None, fn))

	log := diag.NewLog()
	Run(mod, log)

	assert.False(t, log.HasErrors())
}

func TestReturnRejectsValueFromVoidFunction(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	body := ast.NewBlock(ast.None, mod.Body.Scope)
	fn := newFunc("f", &types.Void{}, types.CCHILTI, nil, body)
	ret := &ast.Return{Result: ast.NewConstant(ast.None, i64(), int64(1))}
	ret.Base = ast.NewBase(ast.None)
	body.Statements = append(body.Statements, ret)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	ast.Walk(mod, func(ast.Node) {})
	checkReturn(ret, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL004, log.Reports()[0].Code)
}

func TestReturnRequiresValueFromNonVoidFunction(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	body := ast.NewBlock(ast.None, mod.Body.Scope)
	fn := newFunc("f", i64(), types.CCHILTI, nil, body)
	ret := &ast.Return{}
	ret.Base = ast.NewBase(ast.None)
	body.Statements = append(body.Statements, ret)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	ast.Walk(mod, func(ast.Node) {})
	checkReturn(ret, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL004, log.Reports()[0].Code)
}

func TestReturnAcceptsExactTypeMatch(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	body := ast.NewBlock(ast.None, mod.Body.Scope)
	fn := newFunc("f", i64(), types.CCHILTI, nil, body)
	ret := &ast.Return{Result: ast.NewConstant(ast.None, i64(), int64(1))}
	ret.Base = ast.NewBase(ast.None)
	body.Statements = append(body.Statements, ret)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)

	log := diag.NewLog()
	ast.Walk(mod, func(ast.Node) {})
	checkReturn(ret, log)

	assert.False(t, log.HasErrors())
}

func TestHILTIFunctionRejectsWildcardTupleParameter(t *testing.T) {
	param := ast.NewParamDecl(ast.None, ast.NewID("x", ast.None), &types.Tuple{Elements: nil})
	fn := newFunc("f", &types.Void{}, types.CCHILTI, []*ast.ParamDecl{param}, nil)

	log := diag.NewLog()
	checkFunctionType(fn, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL002, log.Reports()[0].Code)
}

func TestCFunctionAllowsAnyReturnType(t *testing.T) {
	fn := newFunc("f", &types.Any{}, types.CCC, nil, nil)

	log := diag.NewLog()
	checkFunctionType(fn, log)

	assert.False(t, log.HasErrors())
}

func TestIntegerWidthMustBeStandard(t *testing.T) {
	decl := ast.NewTypeDecl(ast.None, ast.NewID("weird", ast.None), &types.Integer{Width: 24, Signed: false})

	log := diag.NewLog()
	checkDeclaredType(decl, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL008, log.Reports()[0].Code)
}

func TestStructRejectsDuplicateFieldNames(t *testing.T) {
	st := &types.Struct{Fields: []types.Field{
		{Name: "a", Type: i64()},
		{Name: "a", Type: i64()},
	}}
	decl := ast.NewTypeDecl(ast.None, ast.NewID("S", ast.None), st)

	log := diag.NewLog()
	checkDeclaredType(decl, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL009, log.Reports()[0].Code)
}

func TestExceptionCycleIsReportedAndRepaired(t *testing.T) {
	a := &types.Exception{}
	b := &types.Exception{Base: a}
	a.Base = b

	declA := ast.NewTypeDecl(ast.None, ast.NewID("A", ast.None), a)
	declB := ast.NewTypeDecl(ast.None, ast.NewID("B", ast.None), b)
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	mod.Body.Declarations = append(mod.Body.Declarations, declA, declB)

	log := diag.NewLog()
	Run(mod, log)

	found := false
	for _, r := range log.Reports() {
		if r.Code == diag.VAL006 {
			found = true
		}
	}
	assert.True(t, found)
	assert.Nil(t, a.Base)
}

func TestHookRedefinitionMustMatchType(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	h1 := ast.NewHookDecl(ast.None, ast.NewID("on_thing", ast.None), &types.Hook{Result: &types.Void{}}, nil, nil, 0)
	h2 := ast.NewHookDecl(ast.None, ast.NewID("on_thing", ast.None), &types.Hook{Result: i64()}, nil, nil, 0)
	mod.Body.Declarations = append(mod.Body.Declarations, h1, h2)

	log := diag.NewLog()
	ast.Walk(mod, func(ast.Node) {})
	checkHookRedefinition(h1, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL005, log.Reports()[0].Code)
}

func TestVariableDeclRejectsWildcardTupleType(t *testing.T) {
	decl := ast.NewVariableDecl(ast.None, ast.NewID("x", ast.None), &types.Tuple{Elements: nil}, nil)

	log := diag.NewLog()
	checkVariableDecl(decl, log)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.VAL007, log.Reports()[0].Code)
}
