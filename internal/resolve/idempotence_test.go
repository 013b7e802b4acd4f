package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
)

// resolvedSummary is a structural snapshot of which declaration every
// Variable reference in a module ends up pointing at, keyed by the
// reference's own position in Statements — comparable with go-cmp
// across separate resolver runs without dragging ast.Scope's internal
// maps (which are not meaningfully diff-able) into the comparison.
type resolvedSummary struct {
	VariableTargets []string
}

func summarize(mod *ast.Module) resolvedSummary {
	var out resolvedSummary
	ast.Walk(mod, func(n ast.Node) {
		if v, ok := n.(*ast.Variable); ok {
			out.VariableTargets = append(out.VariableTargets, v.Decl.Ident.PathAsString())
		}
	})
	return out
}

// TestResolveIDsIsIdempotent checks that a second full resolve pass over
// an already-resolved module (spec §4.8 runs ResolveIDs twice per
// module, around instruction resolution) leaves every already-resolved
// Variable reference pointing at the same declaration — running the
// pass again must never "re-resolve" a reference to something else.
func TestResolveIDsIsIdempotent(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	decl := ast.NewVariableDecl(ast.None, ast.NewID("x", ast.None), &types.Integer{Width: 64, Signed: true}, nil)
	mod.Body.Declarations = append(mod.Body.Declarations, decl)

	idExpr := ast.NewIDExpr(ast.None, ast.NewID("x", ast.None))
	stmt := &ast.ExpressionStatement{Expr: idExpr}
	stmt.Base = ast.NewBase(ast.None)
	mod.Body.Statements = append(mod.Body.Statements, stmt)

	log := diag.NewLog()
	BuildScopes(mod, log)
	ResolveIDs(mod, log, true)
	if log.HasErrors() {
		t.Fatalf("unexpected errors after first resolve: %+v", log.Reports())
	}
	first := summarize(mod)

	ResolveIDs(mod, log, true)
	if log.HasErrors() {
		t.Fatalf("unexpected errors after second resolve: %+v", log.Reports())
	}
	second := summarize(mod)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolve pass is not idempotent (-first +second):\n%s", diff)
	}
}
