package resolve

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
)

// ResolveIDs walks root and rewrites every ast.IDExpr it finds to the
// expression its identifier resolves to in the nearest enclosing
// block's scope, and every types.Unknown/types.TypeByName reachable
// from a node's type-bearing field to the type it names. reportUnresolved
// controls whether an id with no binding is an error (false is used for
// a first exploratory pass before every module's scope has been built;
// spec §4.8 re-runs this pass, the second time with reportUnresolved
// true). Grounded on hilti/passes/id-resolver.cc's IdResolver::run/
// visit(expression::ID*)/visit(type::Unknown*).
func ResolveIDs(root ast.Node, log *diag.Log, reportUnresolved bool) {
	var idExprs []*ast.IDExpr
	ast.Walk(root, func(n ast.Node) {
		if e, ok := n.(*ast.IDExpr); ok {
			idExprs = append(idExprs, e)
		}
	})
	for _, e := range idExprs {
		resolveOneID(e, log, reportUnresolved)
	}

	ast.Walk(root, func(n ast.Node) {
		resolveTypesOn(n, log, reportUnresolved)
	})

	if mod, ok := root.(*ast.Module); ok {
		markExports(mod)
	}
}

func resolveOneID(e *ast.IDExpr, log *diag.Log, reportUnresolved bool) {
	blk := ast.NearestBlock(e)
	if blk == nil {
		reportSpan(log, diag.RES001, e.Span(), "ID expression outside of any scope")
		return
	}

	vals := blk.Scope.Lookup(e.Ident)
	if len(vals) == 0 {
		if reportUnresolved {
			reportSpan(log, diag.RES001, e.Span(), "unknown ID "+e.Ident.PathAsString())
		}
		return
	}

	if len(vals) > 1 && !allHooksOrScoped(vals, e.Ident) {
		reportSpan(log, diag.RES002, e.Span(), "ID "+e.Ident.PathAsString()+" defined more than once")
		return
	}

	rewriteIDExprParent(e, vals[0])
}

// allHooksOrScoped mirrors IdResolver::visit(expression::ID*)'s
// ambiguity exception, which forgives multiple bindings when every one
// is a hook reference or the id was written scoped. Our ScopeBuilder
// never inserts a HookDecl's own name as a plain scope binding at all
// (see buildHookParams) — hook chains resolve by declaration lookup
// through "hook.run", not scope lookup — so the hook half of that
// exception can never trigger here; only the scoped-id half applies.
func allHooksOrScoped(vals []ast.Expr, id *ast.ID) bool {
	return id.IsScoped()
}

func rewriteIDExprParent(e *ast.IDExpr, resolved ast.Expr) {
	switch p := e.Parent().(type) {
	case *ast.Coerced:
		if p.Inner == ast.Expr(e) {
			p.Inner = resolved
		}
	case *ast.Assign:
		if p.Dst == ast.Expr(e) {
			p.Dst = resolved
		}
		if p.Src == ast.Expr(e) {
			p.Src = resolved
		}
	case *ast.Conditional:
		if p.Cond == ast.Expr(e) {
			p.Cond = resolved
		}
		if p.True == ast.Expr(e) {
			p.True = resolved
		}
		if p.False == ast.Expr(e) {
			p.False = resolved
		}
	case *ast.ExpressionStatement:
		if p.Expr == ast.Expr(e) {
			p.Expr = resolved
		}
	case *ast.Return:
		if p.Result == ast.Expr(e) {
			p.Result = resolved
		}
	case *ast.IfElse:
		if p.Cond == ast.Expr(e) {
			p.Cond = resolved
		}
	case *ast.ForEach:
		if p.Seq == ast.Expr(e) {
			p.Seq = resolved
		}
	case *ast.VariableDecl:
		if p.Init == ast.Expr(e) {
			p.Init = resolved
		}
	case *ast.Instruction:
		if p.Target == ast.Expr(e) {
			p.Target = resolved
		}
		if p.Op1 == ast.Expr(e) {
			p.Op1 = resolved
		}
		if p.Op2 == ast.Expr(e) {
			p.Op2 = resolved
		}
		if p.Op3 == ast.Expr(e) {
			p.Op3 = resolved
		}
	case *ast.Ctor:
		for i, el := range p.Elements {
			if el == ast.Expr(e) {
				p.Elements[i] = resolved
			}
		}
		for i, k := range p.Keys {
			if k == ast.Expr(e) {
				p.Keys[i] = resolved
			}
		}
	case *ast.UnresolvedOperator:
		for i, o := range p.Operands {
			if o == ast.Expr(e) {
				p.Operands[i] = resolved
			}
		}
	}
}

func reportSpan(log *diag.Log, code string, s ast.Span, msg string) {
	log.Add(diag.New(code, "resolve", msg, &s))
}

func markExports(m *ast.Module) {
	ast.Walk(m, func(n ast.Node) {
		d, ok := n.(ast.Declaration)
		if !ok {
			return
		}
		if m.Exported(d.ID()) {
			d.SetLinkage(ast.EXPORTED)
		}
	})
}
