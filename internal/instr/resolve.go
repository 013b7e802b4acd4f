package instr

import (
	"strings"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
)

// dummyOpPrefix marks a synthesized instruction mnemonic coming from a
// builder-interface call site (IRBuilder-style call chains) rather than
// parsed source text; it must be stripped before the name is looked up
// in the registry, for both unresolved and already-resolved
// instructions. Grounded on instruction-resolver.cc's handling of
// ".op."-prefixed dummy ids.
const dummyOpPrefix = ".op."

func stripDummyPrefix(name string) string {
	return strings.TrimPrefix(name, dummyOpPrefix)
}

// Resolve walks every Instruction reachable from root, matches it
// against the registry, and rewrites it in place to the uniquely
// resolved opcode. Instructions whose mnemonic is not itself a known
// opcode name are retried as a plain assignment via a unique scope
// binding (the same "processInstruction" fallback
// hilti/passes/instruction-resolver.cc implements for the case an
// unknown instruction turns out to just be `target = some_variable`).
// After every instruction in a Block has been visited, Resolve links
// the block's intra-block Successor chain.
func (r *Registry) Resolve(root ast.Node, log *diag.Log, canCoerce func(ast.Expr, types.Type) bool, coerce func(ast.Expr, types.Type) ast.Expr) {
	blocks := map[*ast.Block]bool{}
	ast.Walk(root, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Instruction:
			if !v.IsResolved() {
				r.resolveOne(v, log, canCoerce, coerce)
			}
			if blk := ast.NearestBlock(v); blk != nil {
				blocks[blk] = true
			}
		case *ast.Block:
			blocks[v] = true
		}
	})
	for blk := range blocks {
		linkSuccessors(blk)
	}
}

func (r *Registry) resolveOne(i *ast.Instruction, log *diag.Log, canCoerce func(ast.Expr, types.Type) bool, coerce func(ast.Expr, types.Type) ast.Expr) {
	name := stripDummyPrefix(i.Name)

	matches := r.GetMatching(name, i.Target, i.Operands(), canCoerce, coerce)

	switch len(matches) {
	case 1:
		m := matches[0]
		i.Op = m.Ov.Op
		i.Target = m.Target
		i.Op1, i.Op2, i.Op3 = nil, nil, nil
		ops := m.Ops
		if len(ops) > 0 {
			i.Op1 = ops[0]
		}
		if len(ops) > 1 {
			i.Op2 = ops[1]
		}
		if len(ops) > 2 {
			i.Op3 = ops[2]
		}
		return
	case 0:
		if r.Has(name) {
			log.Add(diag.New(diag.INS001, "instruction", "no overload of "+name+" matches "+i.Signature(), span(i)))
			return
		}
		if rewriteAsAssign(i, name) {
			return
		}
		log.Add(diag.New(diag.INS003, "instruction", "unknown instruction "+name, span(i)))
		return
	default:
		log.Add(diag.New(diag.INS002, "instruction", "ambiguous instruction match for "+i.Signature(), span(i)).
			WithData("candidates", len(matches)))
	}
}

// rewriteAsAssign implements the instruction-resolver's fallback for an
// unrecognized mnemonic: if it resolves to exactly one scope binding,
// the instruction is really a plain `target = expr` assignment
// mis-parsed as an instruction call, so it is rewritten to the assign
// opcode with operands {expr} (spec §4.3).
func rewriteAsAssign(i *ast.Instruction, name string) bool {
	blk := ast.NearestBlock(i)
	if blk == nil {
		return false
	}
	expr, ok := blk.Scope.LookupUnique(ast.NewID(name, i.Span()))
	if !ok {
		return false
	}
	i.Op = "assign"
	i.Op1, i.Op2, i.Op3 = expr, nil, nil
	return true
}

func span(i *ast.Instruction) *ast.Span {
	s := i.Span()
	return &s
}

// linkSuccessors walks blk's statement list and links each statement's
// Successor to the one immediately following it (descending into
// nested blocks' first statement via FirstNonBlock), leaving the last
// statement's Successor nil. internal/cfg does not read this chain; it
// derives fallthrough edges from the block structure itself. Grounded on
// instruction-resolver.cc's visit(Block*), which performs this linking
// as the final step once every instruction inside has been resolved.
func linkSuccessors(blk *ast.Block) {
	for idx, s := range blk.Statements {
		if idx+1 >= len(blk.Statements) {
			break
		}
		next := ast.FirstNonBlock(blk.Statements[idx+1])
		s.SetSuccessor(next)
	}
}
