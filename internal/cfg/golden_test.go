package cfg

import (
	"fmt"
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/testutil"
)

// edgeSummary is a JSON-serializable snapshot of a Graph's shape,
// keyed by each statement's position in depth-first order rather than
// by a pointer — stable across runs the way a golden file needs.
type edgeSummary struct {
	Kind            string `json:"kind"`
	SuccessorCount  int    `json:"successor_count"`
	PredecessorCount int   `json:"predecessor_count"`
}

func summarizeGraph(g *Graph) []edgeSummary {
	order := g.DepthFirstOrder()
	out := make([]edgeSummary, 0, len(order))
	for _, s := range order {
		out = append(out, edgeSummary{
			Kind:             fmt.Sprintf("%T", s),
			SuccessorCount:   len(g.Successors(s)),
			PredecessorCount: len(g.Predecessors(s)),
		})
	}
	return out
}

// TestForEachGraphShapeMatchesGolden pins the loop CFG's shape (entry,
// body, loop-back, exit edge counts) against a golden file, the same
// role CompareWithGolden plays for the teacher's example-output
// snapshots, now applied to a structural compiler artifact instead of
// an interpreter's output.
func TestForEachGraphShapeMatchesGolden(t *testing.T) {
	mod := ast.NewModule(ast.None, ast.NewID("test", ast.None))
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("f", ast.None), nil, nil, ast.NewBlock(ast.None, mod.Body.Scope))

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
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %+v", log.Reports())
	}

	testutil.CompareWithGolden(t, "cfg", "foreach_graph_shape", summarizeGraph(g))
}
