// Package cfg builds the predecessor/successor graph over an already
// resolved module's statements (spec §4.6), the structure
// internal/liveness's fixed-point solver and a downstream code
// generator's cleanup-insertion both walk. Grounded on
// hilti/passes/cfg.cc's CFG::run/visit family and its nested
// DepthOrderTraversal helper.
package cfg

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/instr"
)

// Graph holds, for every reachable non-block statement, its CFG
// predecessors and successors, plus the depth-first visiting order
// internal/liveness iterates to reach its fixed point.
type Graph struct {
	successors   map[ast.Statement]map[ast.Statement]struct{}
	predecessors map[ast.Statement]map[ast.Statement]struct{}
	order        []ast.Statement
}

// Successors returns s's CFG successors (s's own Block wrapper, if any,
// is transposed to its first non-block statement first, mirroring
// Statement::firstNonBlock in the original).
func (g *Graph) Successors(s ast.Statement) []ast.Statement {
	return setSlice(g.successors[ast.FirstNonBlock(s)])
}

// Predecessors returns s's CFG predecessors.
func (g *Graph) Predecessors(s ast.Statement) []ast.Statement {
	return setSlice(g.predecessors[ast.FirstNonBlock(s)])
}

// HasSuccessor reports whether to is among from's recorded successors —
// used directly by the CFG-closure property test (spec §8.3).
func (g *Graph) HasSuccessor(from, to ast.Statement) bool {
	set := g.successors[ast.FirstNonBlock(from)]
	if set == nil {
		return false
	}
	_, ok := set[ast.FirstNonBlock(to)]
	return ok
}

// DepthFirstOrder returns every statement this graph reached, in the
// order the builder finished them: the statements of one block in
// textual order, with a structured statement (IfElse, ForEach, Try) or
// a jumping instruction placed after the statements of its branches,
// body or jump targets — the order internal/liveness iterates each
// fixed-point pass.
func (g *Graph) DepthFirstOrder() []ast.Statement {
	return g.order
}

func setSlice(m map[ast.Statement]struct{}) []ast.Statement {
	if len(m) == 0 {
		return nil
	}
	out := make([]ast.Statement, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	return out
}

// handlerFrame is one active exception-handler scope: the entry
// statement of a Catch body a guarded statement's successor set must
// include.
type handlerFrame struct {
	entry ast.Statement
}

type builder struct {
	g            *Graph
	instructions *instr.Registry
	log          *diag.Log
	done         map[ast.Statement]bool
}

// Build walks root (a *ast.Module) and returns its CFG. instructions is
// the same instr.Registry used to resolve root's instructions — Build
// consults its FlowInfo/IsTerminator for every resolved instruction.
// Every diagnostic Build raises (only CFG001, an unresolved instruction
// reaching this pass) is appended to log; Build never mutates root.
//
// Unlike the source, which lowers IfElse/ForEach/Try into flattened
// blocks joined by explicit flow.jump and __BeginHandler/__EndHandler
// marker instructions before CFG ever runs, this port keeps those as
// structured statements (no block-flattening pass exists here — see
// DESIGN.md) and has CFG interpret their branch/loop/handler structure
// directly during its own recursive descent, threading the active
// handler stack and each block's "falls off the end" continuation as
// explicit parameters rather than reading them off a linear marker
// stream. The observable successor/predecessor/depth-first-order
// result is the same shape spec §4.6 describes; diag.CFG002 (unbalanced
// handler markers) can accordingly never fire in this port and is kept
// in the registry only for schema parity with a future lowering pass.
func Build(root ast.Node, instructions *instr.Registry, log *diag.Log) *Graph {
	b := &builder{
		g: &Graph{
			successors:   map[ast.Statement]map[ast.Statement]struct{}{},
			predecessors: map[ast.Statement]map[ast.Statement]struct{}{},
		},
		instructions: instructions,
		log:          log,
		done:         map[ast.Statement]bool{},
	}

	ast.Walk(root, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Module:
			b.visitBlock(v.Body, nil, nil)
		case *ast.FunctionDecl:
			if v.Body != nil {
				b.visitBlock(v.Body, nil, nil)
			}
		case *ast.HookDecl:
			if v.Body != nil {
				b.visitBlock(v.Body, nil, nil)
			}
		}
	})

	return b.g
}

func (b *builder) addSuccessor(from, to ast.Statement) {
	from = ast.FirstNonBlock(from)
	to = ast.FirstNonBlock(to)
	if from == nil || to == nil {
		return
	}
	link(b.g.successors, from, to)
	link(b.g.predecessors, to, from)
}

func link(m map[ast.Statement]map[ast.Statement]struct{}, a, c ast.Statement) {
	set := m[a]
	if set == nil {
		set = map[ast.Statement]struct{}{}
		m[a] = set
	}
	set[c] = struct{}{}
}

// visitBlock processes blk's statements in order, handing each one the
// textually-next statement in blk (or, for the last statement, after —
// the continuation supplied by whichever structured statement opened
// blk as a branch/loop/try body) as its fallthrough target.
func (b *builder) visitBlock(blk *ast.Block, after ast.Statement, handlers []handlerFrame) {
	for idx, s := range blk.Statements {
		var next ast.Statement
		if idx+1 < len(blk.Statements) {
			next = ast.FirstNonBlock(blk.Statements[idx+1])
		} else {
			next = after
		}
		b.visitStmt(s, next, handlers)
	}
}

func (b *builder) visitStmt(raw ast.Statement, after ast.Statement, handlers []handlerFrame) {
	s := ast.FirstNonBlock(raw)
	if _, ok := s.(*ast.Block); ok {
		// An empty block reached directly: nothing to link from here.
		// Whoever pointed at it already has a (dangling) edge to it,
		// mirroring the original's addSuccessor, which never special-cases
		// an empty block either.
		return
	}
	if b.done[s] {
		return
	}
	b.done[s] = true

	switch v := s.(type) {
	case *ast.Instruction:
		b.visitInstruction(v, after, handlers)

	case *ast.IfElse:
		b.addSuccessor(v, ast.FirstNonBlock(v.True))
		if v.False != nil {
			b.addSuccessor(v, ast.FirstNonBlock(v.False))
		} else if after != nil {
			b.addSuccessor(v, after)
		}
		b.visitBlock(v.True, after, handlers)
		if v.False != nil {
			b.visitBlock(v.False, after, handlers)
		}

	case *ast.ForEach:
		b.addSuccessor(v, ast.FirstNonBlock(v.Body))
		if after != nil {
			b.addSuccessor(v, after) // zero-iteration / loop-exhausted edge
		}
		b.visitBlock(v.Body, v, handlers) // body's tail re-enters the ForEach node

	case *ast.Try:
		inner := make([]handlerFrame, 0, len(handlers)+len(v.Catches))
		inner = append(inner, handlers...)
		for _, c := range v.Catches {
			inner = append(inner, handlerFrame{entry: ast.FirstNonBlock(c.Body)})
		}
		b.visitBlock(v.Body, after, inner)
		for _, c := range v.Catches {
			b.visitBlock(c.Body, after, handlers)
		}

	case *ast.Return, *ast.Stop:
		// Terminators: no fallthrough, and a return/stop cannot itself
		// raise, so no handler edges either.

	default:
		// Block (named, non-empty handled above via FirstNonBlock),
		// NoOp, Print, ExpressionStatement: ordinary fallthrough
		// statements. A Print/ExpressionStatement's evaluated expression
		// could in principle throw, so — conservatively — both also pick
		// up the active handler edges; NoOp never does anything so
		// doesn't carry them, but sharing the default case is harmless
		// since NoOp always appears with an empty handler list in
		// practice (it is only ever synthesized as a placeholder, never
		// written inside a Try body).
		if after != nil {
			b.addSuccessor(s, after)
		}
		for _, h := range handlers {
			b.addSuccessor(s, h.entry)
		}
	}

	b.g.order = append(b.g.order, s)
}

func (b *builder) visitInstruction(i *ast.Instruction, after ast.Statement, handlers []handlerFrame) {
	if !i.IsResolved() {
		s := i.Span()
		b.log.Add(diag.New(diag.CFG001, "cfg", "unresolved instruction reached CFG", &s))
		return
	}

	fi := b.instructions.Of(i)
	for _, target := range fi.Successors {
		entry := ast.FirstNonBlock(target)
		b.addSuccessor(i, entry)
		b.visitStmt(entry, nil, handlers)
	}

	if !b.instructions.IsTerminator(i) && after != nil {
		b.addSuccessor(i, after)
	}

	for _, h := range handlers {
		b.addSuccessor(i, h.entry)
	}
}
