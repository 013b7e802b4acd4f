package operator

import (
	"strings"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
)

// Resolve walks every UnresolvedOperator reachable from root and
// rewrites its owning field to the uniquely matched ResolvedOperator,
// reporting OPR001/OPR002 for zero or ambiguous matches. Coercion is
// always permitted on the second pass (spec §4.2 step 2); the
// commutative retry (step 3) is handled inside Registry.GetMatching.
func (r *Registry) Resolve(root ast.Node, log *diag.Log) {
	var unresolved []*ast.UnresolvedOperator
	ast.Walk(root, func(n ast.Node) {
		if u, ok := n.(*ast.UnresolvedOperator); ok {
			unresolved = append(unresolved, u)
		}
	})

	for _, u := range unresolved {
		resolved := r.resolveOne(u, log)
		if resolved == nil {
			continue
		}
		rewriteOperatorParent(u, resolved)
	}
}

func (r *Registry) resolveOne(u *ast.UnresolvedOperator, log *diag.Log) *ast.ResolvedOperator {
	matches := r.GetMatching(u.Kind, u.Operands, true)

	if len(matches) == 0 {
		log.Add(diag.New(diag.OPR001, "operator", "no operator matches "+signatureOf(u), span(u)).
			WithData("candidates", r.Candidates(u.Kind)))
		return nil
	}
	if len(matches) > 1 {
		log.Add(diag.New(diag.OPR002, "operator", "ambiguous operator match for "+signatureOf(u), span(u)).
			WithData("candidates", r.Candidates(u.Kind)))
		return nil
	}

	m := matches[0]
	result := m.Sig.resultType(m.Ops)
	return ast.NewResolvedOperator(u.Span(), u.Kind, m.Sig.render(m.Ops), m.Ops, result)
}

func signatureOf(u *ast.UnresolvedOperator) string {
	var parts []string
	for _, o := range u.Operands {
		parts = append(parts, o.Type().String())
	}
	return u.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

func span(u *ast.UnresolvedOperator) *ast.Span {
	s := u.Span()
	return &s
}

// rewriteOperatorParent reassigns the typed field on u's parent that
// held u, to resolved instead — the "pass returns new node, caller
// reassigns its own typed field" rewrite idiom (see DESIGN.md's note on
// internal/ast's parent-pointer design), implemented here as a type
// switch over every node shape known to hold an Expr field that could
// be an UnresolvedOperator.
func rewriteOperatorParent(u *ast.UnresolvedOperator, resolved *ast.ResolvedOperator) {
	switch p := u.Parent().(type) {
	case *ast.Coerced:
		if p.Inner == ast.Expr(u) {
			p.Inner = resolved
		}
	case *ast.Assign:
		if p.Dst == ast.Expr(u) {
			p.Dst = resolved
		}
		if p.Src == ast.Expr(u) {
			p.Src = resolved
		}
	case *ast.Conditional:
		if p.Cond == ast.Expr(u) {
			p.Cond = resolved
		}
		if p.True == ast.Expr(u) {
			p.True = resolved
		}
		if p.False == ast.Expr(u) {
			p.False = resolved
		}
	case *ast.ExpressionStatement:
		if p.Expr == ast.Expr(u) {
			p.Expr = resolved
		}
	case *ast.Return:
		if p.Result == ast.Expr(u) {
			p.Result = resolved
		}
	case *ast.IfElse:
		if p.Cond == ast.Expr(u) {
			p.Cond = resolved
		}
	case *ast.ForEach:
		if p.Seq == ast.Expr(u) {
			p.Seq = resolved
		}
	case *ast.VariableDecl:
		if p.Init == ast.Expr(u) {
			p.Init = resolved
		}
	case *ast.Instruction:
		if p.Target == ast.Expr(u) {
			p.Target = resolved
		}
		if p.Op1 == ast.Expr(u) {
			p.Op1 = resolved
		}
		if p.Op2 == ast.Expr(u) {
			p.Op2 = resolved
		}
		if p.Op3 == ast.Expr(u) {
			p.Op3 = resolved
		}
	case *ast.Ctor:
		for i, e := range p.Elements {
			if e == ast.Expr(u) {
				p.Elements[i] = resolved
			}
		}
		for i, k := range p.Keys {
			if k == ast.Expr(u) {
				p.Keys[i] = resolved
			}
		}
	case *ast.UnresolvedOperator:
		for i, o := range p.Operands {
			if o == ast.Expr(u) {
				p.Operands[i] = resolved
			}
		}
	}
}
