// Package instr gives the closed IR instruction family (ast.Instruction)
// its meaning: opcode naming, operand/target type signatures, and the
// flow-effect information the CFG and liveness passes consume.
package instr

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
)

// Overload is one registered instruction opcode's operand/target type
// signature. As with internal/operator's Signature, this is a single Go
// struct shape used for every opcode rather than one Go type per
// opcode (see ast.Opcode's doc comment and DESIGN.md).
type Overload struct {
	Name string // the as-written mnemonic, e.g. "integer.add"
	Op   ast.Opcode

	Target  types.Type // nil if the instruction has no target
	Operand []types.Type

	// ExtraMatch performs any shape check beyond plain type equality
	// (e.g. a container-element-type check for list.push).
	ExtraMatch func(target ast.Expr, ops []ast.Expr) bool

	// Flow computes this opcode's FlowInfo given its matched operands;
	// if nil, defaultFlow (read every operand, modify the target) is
	// used.
	Flow func(i *ast.Instruction) FlowInfo

	// Terminator marks an opcode that never falls through to the
	// textually-next statement (flow.jump, flow.return_result,
	// flow.return_void, exception.throw) — internal/cfg consults this to
	// decide whether to add an edge to the textually-next statement on
	// top of whatever FlowInfo.Successors already names.
	Terminator bool

	Doc string
}

// Registry holds every registered Overload, indexed by mnemonic.
type Registry struct {
	byName map[string][]*Overload
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{byName: make(map[string][]*Overload)} }

// Add registers ov under its Name.
func (r *Registry) Add(ov *Overload) {
	r.byName[ov.Name] = append(r.byName[ov.Name], ov)
}

// Has reports whether any overload is registered under name — used by
// the resolver to distinguish "wrong operand types" from "not an
// instruction at all" (the condition that triggers the assign-rewrite
// fallback).
func (r *Registry) Has(name string) bool {
	return len(r.byName[name]) > 0
}

// ByName returns every overload registered under name.
func (r *Registry) ByName(name string) []*Overload {
	return r.byName[name]
}

// IsTerminator reports whether i's resolved opcode never falls through.
// An unresolved instruction is conservatively treated as non-terminator
// (internal/cfg never reaches one in practice — see diag.CFG001 — but a
// defensive caller gets the cautious answer rather than a panic).
func (r *Registry) IsTerminator(i *ast.Instruction) bool {
	for _, ov := range r.byName[i.Name] {
		if ov.Op == i.Op {
			return ov.Terminator
		}
	}
	return false
}

// Match is one successful match of an instruction's operands against
// an Overload.
type Match struct {
	Ov     *Overload
	Target ast.Expr
	Ops    []ast.Expr
}

// GetMatching mirrors InstructionRegistry::getMatching: every Overload
// registered under name whose target/operand types accept (with
// coercion) the given target/operand expressions.
func (r *Registry) GetMatching(name string, target ast.Expr, ops []ast.Expr, canCoerce func(ast.Expr, types.Type) bool, coerce func(ast.Expr, types.Type) ast.Expr) []Match {
	var matches []Match
	for _, ov := range r.byName[name] {
		if newTarget, newOps, ok := matchOverload(ov, target, ops, canCoerce, coerce); ok {
			matches = append(matches, Match{Ov: ov, Target: newTarget, Ops: newOps})
		}
	}
	return matches
}

func matchOverload(ov *Overload, target ast.Expr, ops []ast.Expr, canCoerce func(ast.Expr, types.Type) bool, coerce func(ast.Expr, types.Type) ast.Expr) (ast.Expr, []ast.Expr, bool) {
	if ov.Target == nil && target != nil {
		return nil, nil, false
	}
	var newTarget ast.Expr
	if ov.Target != nil {
		if target == nil {
			return nil, nil, false
		}
		if !matchOne(ov.Target, target, canCoerce, coerce, &newTarget) {
			return nil, nil, false
		}
	}

	if len(ops) > len(ov.Operand) {
		return nil, nil, false
	}
	newOps := make([]ast.Expr, 0, len(ops))
	for i, o := range ops {
		var matched ast.Expr
		if !matchOne(ov.Operand[i], o, canCoerce, coerce, &matched) {
			return nil, nil, false
		}
		newOps = append(newOps, matched)
	}
	for i := len(ops); i < len(ov.Operand); i++ {
		if !isOptional(ov.Operand[i]) {
			return nil, nil, false
		}
	}

	if ov.ExtraMatch != nil && !ov.ExtraMatch(newTarget, newOps) {
		return nil, nil, false
	}
	return newTarget, newOps, true
}

func matchOne(want types.Type, have ast.Expr, canCoerce func(ast.Expr, types.Type) bool, coerce func(ast.Expr, types.Type) ast.Expr, out *ast.Expr) bool {
	if _, ok := want.(*types.Any); ok {
		*out = have
		return true
	}
	if !canCoerce(have, want) {
		return false
	}
	*out = coerce(have, want)
	return true
}

func isOptional(t types.Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*types.OptionalArgument)
	return ok
}
