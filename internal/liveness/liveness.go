// Package liveness computes, for every statement in an internal/cfg
// Graph, the live-in/live-out/dead-out sets of flow variables a
// downstream code generator consults to decide where cleanup code is
// required (spec §4.7). Grounded on hilti/passes/liveness.cc's
// Liveness::run/processStatement/setLiveness.
package liveness

import (
	"reflect"
	"sort"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/cfg"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/instr"
)

// maxIterations caps the fixed-point loop so a bug that prevents
// convergence reports diag.LIV001 instead of hanging the compiler.
const maxIterations = 10000

// varKey identifies one flow variable by the identity of its underlying
// declaration (*ast.VariableDecl or *ast.ParamDecl) — every ast.Variable/
// ast.Parameter expression referencing the same declaration is the same
// flow variable, regardless of how many distinct expression nodes
// reference it, mirroring the source's Statement::FlowVariable wrapper.
type varKey = any

type varSet map[varKey]bool

func (s varSet) clone() varSet {
	out := make(varSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func union(sets ...varSet) varSet {
	out := varSet{}
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

func difference(a, b varSet) varSet {
	out := varSet{}
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func keyOf(n ast.Node) (varKey, bool) {
	switch v := n.(type) {
	case *ast.Variable:
		return v.Decl, true
	case *ast.Parameter:
		return v.Decl, true
	}
	return nil, false
}

// collect walks every expression in exprs (including nested
// sub-expressions, e.g. operands of a ResolvedOperator) and returns the
// set of flow variables referenced anywhere inside.
func collect(exprs []ast.Expr) varSet {
	out := varSet{}
	for _, e := range exprs {
		if e == nil {
			continue
		}
		ast.Walk(e, func(n ast.Node) {
			if k, ok := keyOf(n); ok {
				out[k] = true
			}
		})
	}
	return out
}

// flowOf adapts instr.FlowInfo to statement kinds instr.Registry.Of
// does not cover — the structured statements this port keeps instead of
// lowering into flattened instructions (spec's Read/Defined/Modified/
// Cleared vocabulary applies uniformly to either). ForEach's bound
// identifier is deliberately not reported as Defined: this AST has no
// synthesized VariableDecl backing a loop variable (see DESIGN.md), so
// there is no varKey to report it under.
func flowOf(s ast.Statement, instructions *instr.Registry) instr.FlowInfo {
	switch v := s.(type) {
	case *ast.Instruction:
		return instructions.Of(v)
	case *ast.Return:
		if v.Result != nil {
			return instr.FlowInfo{Read: []ast.Expr{v.Result}}
		}
		return instr.FlowInfo{}
	case *ast.IfElse:
		return instr.FlowInfo{Read: []ast.Expr{v.Cond}}
	case *ast.ForEach:
		return instr.FlowInfo{Read: []ast.Expr{v.Seq}}
	case *ast.Print:
		return instr.FlowInfo{Read: v.Args}
	case *ast.ExpressionStatement:
		return instr.FlowInfo{Read: []ast.Expr{v.Expr}}
	default:
		return instr.FlowInfo{}
	}
}

// Sets is the per-statement in/out/dead result, exposed read-only
// through Liveness's query methods.
type Sets struct {
	In, Out, Dead varSet
}

var emptySets = Sets{In: varSet{}, Out: varSet{}, Dead: varSet{}}

// Liveness holds the fixed-point solution for one CFG.
type Liveness struct {
	g    *cfg.Graph
	sets map[ast.Statement]Sets
}

func (lv *Liveness) liveness(s ast.Statement) Sets {
	s = ast.FirstNonBlock(s)
	if st, ok := lv.sets[s]; ok {
		return st
	}
	return emptySets
}

// Have reports whether stmt has a computed liveness entry at all.
func (lv *Liveness) Have(stmt ast.Statement) bool {
	_, ok := lv.sets[ast.FirstNonBlock(stmt)]
	return ok
}

// LiveIn reports whether e's underlying variable/parameter is live on
// entry to stmt.
func (lv *Liveness) LiveIn(stmt ast.Statement, e ast.Expr) bool {
	k, ok := keyOf(e)
	return ok && lv.liveness(stmt).In[k]
}

// LiveOut reports whether e's underlying variable/parameter is live on
// exit from stmt.
func (lv *Liveness) LiveOut(stmt ast.Statement, e ast.Expr) bool {
	k, ok := keyOf(e)
	return ok && lv.liveness(stmt).Out[k]
}

// DeadOut reports whether e's underlying variable/parameter becomes
// dead after stmt — the signal a code generator uses to insert cleanup.
func (lv *Liveness) DeadOut(stmt ast.Statement, e ast.Expr) bool {
	k, ok := keyOf(e)
	return ok && lv.liveness(stmt).Dead[k]
}

// Run solves the liveness fixed point over g, iterating g's depth-first
// order until both the live-set count and a content hash over every
// statement's in/out/dead sets stop changing (spec §4.7) — the same
// hash-based convergence check the source uses, compensating for
// non-monotone intermediate states during one sweep. If maxIterations
// is exceeded without convergence, diag.LIV001 is reported and the
// last computed sets are returned as-is.
func Run(g *cfg.Graph, instructions *instr.Registry, log *diag.Log) *Liveness {
	lv := &Liveness{g: g, sets: map[ast.Statement]Sets{}}
	order := g.DepthFirstOrder()

	prevSize := -1
	var prevHash uint64
	for iter := 0; ; iter++ {
		for _, s := range order {
			lv.processStatement(s, instructions)
		}
		size := len(lv.sets)
		hash := lv.hash(order)
		if size == prevSize && hash == prevHash {
			break
		}
		prevSize, prevHash = size, hash
		if iter >= maxIterations {
			log.Add(diag.New(diag.LIV001, "liveness", "fixed point did not converge", nil))
			break
		}
	}
	return lv
}

func (lv *Liveness) processStatement(s ast.Statement, instructions *instr.Registry) {
	fi := flowOf(s, instructions)

	out := varSet{}
	for _, succ := range lv.g.Successors(s) {
		for k := range lv.liveness(succ).In {
			out[k] = true
		}
	}

	in := out.clone()
	remove := union(collect(fi.Defined), collect(fi.Cleared))
	add := union(collect(fi.Modified), collect(fi.Read))
	if len(remove) > 0 {
		in = difference(in, remove)
	}
	if len(add) > 0 {
		in = union(in, add)
	}
	if len(fi.Cleared) > 0 {
		out = difference(out, collect(fi.Cleared))
	}

	lv.setLiveness(s, in, out, fi)
}

func (lv *Liveness) setLiveness(s ast.Statement, in, out varSet, fi instr.FlowInfo) {
	dead := difference(in, out)
	dead = union(dead, difference(collect(fi.Defined), out))

	predLive := varSet{}
	for _, p := range lv.g.Predecessors(s) {
		predLive = union(predLive, lv.liveness(p).Out)
	}
	predLive = difference(predLive, in)
	predLive = difference(predLive, out)
	dead = union(dead, predLive)

	lv.sets[ast.FirstNonBlock(s)] = Sets{In: in, Out: out, Dead: dead}
}

func ptrID(v any) uint64 {
	return uint64(reflect.ValueOf(v).Pointer())
}

// hash renders a deterministic content signature of every computed
// Sets, iterating statements in the CFG's own depth-first order (itself
// fixed) and each set's members sorted by pointer identity, so two
// sweeps that produced bit-identical sets always hash equal regardless
// of Go map iteration order.
func (lv *Liveness) hash(order []ast.Statement) uint64 {
	var h uint64
	for _, s := range order {
		st, ok := lv.sets[s]
		if !ok {
			continue
		}
		h += ptrID(s)
		h *= 17
		for _, k := range sortedKeys(union(st.In, st.Out, st.Dead)) {
			h += ptrID(k)
			h *= 17
		}
	}
	return h
}

func sortedKeys(s varSet) []varKey {
	out := make([]varKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return ptrID(out[i]) < ptrID(out[j]) })
	return out
}
