// Package resolve implements the scope-building and identifier/type
// resolution passes that run before operator and instruction matching:
// ScopeBuilder populates every ast.Block's Scope with the declarations
// visible inside it, and Resolver rewrites ast.IDExpr/types.Unknown/
// types.TypeByName nodes to the concrete expression or type they name.
package resolve

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
)

// BuildScopes walks root and inserts one scope binding per declaration
// it finds, into the scope of the nearest enclosing block (or, for a
// named nested Block, into the enclosing function's top-level body
// scope — blocks can be jumped to as flow.jump targets by name from
// anywhere in the function, so their binding belongs at function scope,
// not at the point of syntactic nesting). Grounded on
// hilti/passes/scope-builder.cc's ScopeBuilder::run/visit family.
func BuildScopes(root ast.Node, log *diag.Log) {
	if mod, ok := root.(*ast.Module); ok {
		mod.Body.Scope.Clear()
	}

	ast.Walk(root, func(n ast.Node) {
		switch d := n.(type) {
		case *ast.Block:
			buildNamedBlock(d, log)
		case *ast.VariableDecl:
			buildVariable(d, log)
		case *ast.TypeDecl:
			buildType(d, log)
		case *ast.ConstantDecl:
			buildConstant(d, log)
		case *ast.FunctionDecl:
			buildFunction(d, log)
		case *ast.HookDecl:
			buildHookParams(d)
		}
	})
}

func buildNamedBlock(b *ast.Block, log *diag.Log) {
	if b.ScopeID == nil {
		return
	}
	fn := ast.NearestFunction(b)
	if fn == nil || fn.Body == nil {
		reportDecl(log, diag.SCP001, b, "declaration of block is not part of a function")
		return
	}
	scope := fn.Body.Scope
	if scope.Has(b.ScopeID, false) {
		reportDecl(log, diag.SCP001, b, "ID "+b.ScopeID.PathAsString()+" already declared")
		return
	}
	scope.Insert(b.ScopeID, ast.NewBlockExpr(b.Span(), b))
}

func buildVariable(v *ast.VariableDecl, log *diag.Log) {
	scope := declScope(v, log)
	if scope == nil {
		return
	}
	if scope.Has(v.Ident, false) {
		reportDecl(log, diag.SCP001, v, "ID "+v.Ident.PathAsString()+" already declared")
		return
	}
	scope.Insert(v.Ident, ast.NewVariableExpr(v.Span(), v))
}

func buildType(t *ast.TypeDecl, log *diag.Log) {
	scope := declScope(t, log)
	if scope == nil {
		return
	}
	if scope.Has(t.Ident, false) {
		reportDecl(log, diag.SCP001, t, "ID "+t.Ident.PathAsString()+" already declared")
		return
	}
	scope.Insert(t.Ident, ast.NewTypeExpr(t.Span(), t.Typ))
}

func buildConstant(c *ast.ConstantDecl, log *diag.Log) {
	scope := declScope(c, log)
	if scope == nil {
		return
	}
	if scope.Has(c.Ident, false) {
		reportDecl(log, diag.SCP001, c, "ID "+c.Ident.PathAsString()+" already declared")
		return
	}
	scope.Insert(c.Ident, c.Value)
}

func buildFunction(f *ast.FunctionDecl, log *diag.Log) {
	scope := declScope(f, log)
	if scope == nil {
		return
	}
	if !f.Ident.IsScoped() {
		if scope.Has(f.Ident, false) {
			reportDecl(log, diag.SCP001, f, "ID "+f.Ident.PathAsString()+" already declared")
		} else {
			scope.Insert(f.Ident, ast.NewFunctionExpr(f.Span(), f))
		}
	}
	if f.Body == nil {
		return
	}
	for _, p := range f.Params {
		f.Body.Scope.Insert(p.Ident, ast.NewParameterExpr(p.Span(), p))
	}
}

// buildHookParams binds a HookDecl's parameters into its own body
// scope. Unlike FunctionDecl, a HookDecl's own name is never inserted
// as a plain scope binding (spec §4.1): multiple hooks legally share
// one ID, so looking the ID up as an ordinary expression would be
// ambiguous by construction; hook chains are invoked by name through
// the "hook.run" instruction instead (internal/instr), which resolves
// hooks by declaration lookup, not scope lookup.
func buildHookParams(h *ast.HookDecl) {
	if h.Body == nil {
		return
	}
	for _, p := range h.Params {
		h.Body.Scope.Insert(p.Ident, ast.NewParameterExpr(p.Span(), p))
	}
}

func declScope(n ast.Node, log *diag.Log) *ast.Scope {
	blk := ast.NearestBlock(n)
	if blk == nil {
		reportDecl(log, diag.SCP001, n, "declaration is not part of a block")
		return nil
	}
	return blk.Scope
}

func reportDecl(log *diag.Log, code string, n ast.Node, msg string) {
	s := n.Span()
	log.Add(diag.New(code, "scope", msg, &s))
}

// AliasImports installs, for every ID m imports, the named module's
// top-level body scope as a child of m's own body scope with its own
// parent pointer rebound to m (ast.Scope.Alias) — mirroring
// ScopeBuilder::run's post-processAllPreOrder loop, which aliases each
// imported module's scope into the importing module after the
// per-declaration pass has built every module's own scope. lookup
// resolves an import ID to its module's already-built scope; it is
// supplied by internal/compiler, which alone knows about every loaded
// module.
func AliasImports(m *ast.Module, lookup func(name string) (*ast.Scope, bool), log *diag.Log) {
	for _, imp := range m.Imports {
		src, ok := lookup(imp.PathAsString())
		if !ok {
			s := imp.Span()
			log.Add(diag.New(diag.RES004, "scope", "cannot find imported module "+imp.PathAsString(), &s))
			continue
		}
		alias := src.Alias(m.Body.Scope)
		m.Body.Scope.AddChild(imp.PathAsString(), alias)
	}
}
