package instr

import "github.com/hiltic/hiltic/internal/ast"

// FlowInfo is the per-instruction data-flow effect the liveness pass's
// transfer function (internal/liveness) and the CFG builder
// (internal/cfg) both read off a resolved ast.Instruction. It mirrors
// the handful of fields hilti/passes/liveness.cc and
// hilti/passes/cfg.cc actually query off an instruction's "flow info":
// which expressions it reads, which it (re)defines, which it modifies
// in place, which it explicitly clears from further liveness, and any
// non-fallthrough successor blocks it jumps to (among StdOverloads, only
// flow.jump and flow.switch set these).
type FlowInfo struct {
	Read       []ast.Expr
	Defined    []ast.Expr
	Modified   []ast.Expr
	Cleared    []ast.Expr
	Successors []*ast.Block
}

// defaultFlow is the flow effect used when an Overload does not supply
// its own Flow function: every non-target operand is Read, and the
// target (if any) is Modified — not Defined, since HILTI's instructions
// operate on already-declared locals. No opcode in StdOverloads fills
// Defined, and declarations do not feed it either, so liveness always
// sees an empty defined set.
func defaultFlow(i *ast.Instruction) FlowInfo {
	return FlowInfo{Read: i.Operands(), Modified: targetSlice(i.Target)}
}

func targetSlice(t ast.Expr) []ast.Expr {
	if t == nil {
		return nil
	}
	return []ast.Expr{t}
}

// Of computes i's FlowInfo via its resolved Overload's Flow hook, or
// defaultFlow if the instruction carries no overload-specific flow
// information (including when it is not yet resolved, in which case an
// empty FlowInfo is returned — the CFG pass must never be handed an
// unresolved instruction, see diag.CFG001).
func (r *Registry) Of(i *ast.Instruction) FlowInfo {
	if !i.IsResolved() {
		return FlowInfo{}
	}
	for _, ov := range r.byName[i.Name] {
		if ov.Op == i.Op {
			if ov.Flow != nil {
				return ov.Flow(i)
			}
			return defaultFlow(i)
		}
	}
	return defaultFlow(i)
}
