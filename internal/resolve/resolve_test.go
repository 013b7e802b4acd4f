package resolve

import (
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildScopesInsertsVariableAndReportsDuplicate(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	decl := ast.NewVariableDecl(ast.None, ast.NewID("x", ast.None), &types.Integer{Width: 32, Signed: true}, nil)
	dup := ast.NewVariableDecl(ast.None, ast.NewID("x", ast.None), &types.Integer{Width: 32, Signed: true}, nil)
	mod.Body.Declarations = append(mod.Body.Declarations, decl, dup)

	log := diag.NewLog()
	BuildScopes(mod, log)

	assert.True(t, mod.Body.Scope.Has(decl.Ident, false))
	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.SCP001, log.Reports()[0].Code)
}

func TestResolveIDsRewritesIDExprToVariable(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	decl := ast.NewVariableDecl(ast.None, ast.NewID("x", ast.None), &types.Integer{Width: 32, Signed: true}, nil)
	mod.Body.Declarations = append(mod.Body.Declarations, decl)

	idExpr := ast.NewIDExpr(ast.None, ast.NewID("x", ast.None))
	stmt := &ast.ExpressionStatement{Expr: idExpr}
	stmt.Base = ast.NewBase(ast.None)
	mod.Body.Statements = append(mod.Body.Statements, stmt)

	log := diag.NewLog()
	BuildScopes(mod, log)
	assert.False(t, log.HasErrors())

	ResolveIDs(mod, log, true)
	assert.False(t, log.HasErrors())

	v, ok := stmt.Expr.(*ast.Variable)
	assert.True(t, ok)
	assert.Equal(t, decl, v.Decl)
}

func TestResolveIDsReportsUnknownIDWhenRequested(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	idExpr := ast.NewIDExpr(ast.None, ast.NewID("nope", ast.None))
	stmt := &ast.ExpressionStatement{Expr: idExpr}
	stmt.Base = ast.NewBase(ast.None)
	mod.Body.Statements = append(mod.Body.Statements, stmt)

	log := diag.NewLog()
	BuildScopes(mod, log)
	ResolveIDs(mod, log, true)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.RES001, log.Reports()[0].Code)
}

func TestResolveIDsSilentWhenNotReporting(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	idExpr := ast.NewIDExpr(ast.None, ast.NewID("nope", ast.None))
	stmt := &ast.ExpressionStatement{Expr: idExpr}
	stmt.Base = ast.NewBase(ast.None)
	mod.Body.Statements = append(mod.Body.Statements, stmt)

	log := diag.NewLog()
	BuildScopes(mod, log)
	ResolveIDs(mod, log, false)

	assert.False(t, log.HasErrors())
	_, stillUnresolved := stmt.Expr.(*ast.IDExpr)
	assert.True(t, stillUnresolved)
}

func TestResolveTypesRewritesUnknownToDeclaredType(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	structType := &types.Struct{}
	typeDecl := ast.NewTypeDecl(ast.None, ast.NewID("Foo", ast.None), structType)
	mod.Body.Declarations = append(mod.Body.Declarations, typeDecl)

	varDecl := ast.NewVariableDecl(ast.None, ast.NewID("f", ast.None), &types.Unknown{Name: "Foo"}, nil)
	mod.Body.Declarations = append(mod.Body.Declarations, varDecl)

	log := diag.NewLog()
	BuildScopes(mod, log)
	assert.False(t, log.HasErrors())

	ResolveIDs(mod, log, true)
	assert.False(t, log.HasErrors())
	assert.Equal(t, structType, varDecl.Typ)
}

func TestResolveTypesReportsUnknownTypeID(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	varDecl := ast.NewVariableDecl(ast.None, ast.NewID("f", ast.None), &types.Unknown{Name: "Missing"}, nil)
	mod.Body.Declarations = append(mod.Body.Declarations, varDecl)

	log := diag.NewLog()
	BuildScopes(mod, log)
	ResolveIDs(mod, log, true)

	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.RES003, log.Reports()[0].Code)
}

func TestAliasImportsChainsImportedScope(t *testing.T) {
	other := ast.NewModule(ast.None, ast.NewID("Other", ast.None))
	decl := ast.NewVariableDecl(ast.None, ast.NewID("shared", ast.None), &types.Integer{Width: 32, Signed: true}, nil)
	other.Body.Declarations = append(other.Body.Declarations, decl)
	log := diag.NewLog()
	BuildScopes(other, log)
	assert.False(t, log.HasErrors())

	main := ast.NewModule(ast.None, ast.NewID("Main", ast.None))
	main.AddImport(ast.NewID("Other", ast.None))
	BuildScopes(main, log)

	AliasImports(main, func(name string) (*ast.Scope, bool) {
		if name == "Other" {
			return other.Body.Scope, true
		}
		return nil, false
	}, log)
	assert.False(t, log.HasErrors())

	scopedID := ast.NewIDFromComponents([]string{"Other", "shared"}, ast.None)
	assert.True(t, main.Body.Scope.Has(scopedID, false))
}
