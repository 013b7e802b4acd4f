package operator

import (
	"sort"

	"github.com/hiltic/hiltic/internal/ast"
)

// Registry holds every registered Signature, keyed by ast.OperatorKind.
// Unlike the source's process-wide singleton (OperatorRegistry::globalRegistry),
// Registry is an explicit value a compiler context owns, so multiple
// compilations in one process (e.g. parallel test cases) never share
// mutable global state.
type Registry struct {
	byKind map[ast.OperatorKind][]*Signature
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[ast.OperatorKind][]*Signature)}
}

// Add registers sig under its Kind.
func (r *Registry) Add(sig *Signature) {
	r.byKind[sig.Kind] = append(r.byKind[sig.Kind], sig)
}

// ByKind returns every registered overload of kind, in registration
// order (deterministic — registration order is fixed by the order of
// the Add calls, e.g. inside StdSignatures).
func (r *Registry) ByKind(kind ast.OperatorKind) []*Signature {
	return r.byKind[kind]
}

// Match is one successful match: the overload and the (possibly
// coerced) concrete operand list matched against it.
type Match struct {
	Sig *Signature
	Ops []ast.Expr
}

// GetMatching mirrors OperatorRegistry::getMatching: try every
// registered overload of kind without coercion first; if none match and
// tryCoercion is set, retry allowing coercion; if still nothing and the
// kind is commutative and there are exactly two operands, retry the
// whole search with the operands swapped (non-recursive on the
// commutative retry, matching the original's try_commutative=false on
// the recursive call).
func (r *Registry) GetMatching(kind ast.OperatorKind, ops []ast.Expr, tryCoercion bool) []Match {
	return r.getMatching(kind, ops, tryCoercion, true)
}

func (r *Registry) getMatching(kind ast.OperatorKind, ops []ast.Expr, tryCoercion, tryCommutative bool) []Match {
	var matches []Match
	for _, sig := range r.byKind[kind] {
		if newOps, ok := r.match(sig, ops, false); ok {
			matches = append(matches, Match{Sig: sig, Ops: newOps})
		}
	}
	if len(matches) > 0 {
		return matches
	}

	if tryCoercion {
		for _, sig := range r.byKind[kind] {
			if newOps, ok := r.match(sig, ops, true); ok {
				matches = append(matches, Match{Sig: sig, Ops: newOps})
			}
		}
	}
	if len(matches) > 0 {
		return matches
	}

	if tryCommutative && kind.IsCommutative() && len(ops) == 2 {
		swapped := []ast.Expr{ops[1], ops[0]}
		return r.getMatching(kind, swapped, tryCoercion, false)
	}
	return nil
}

// Candidates renders every overload of kind as a signature string, used
// to build "expected one of: ..." diagnostic text (spec §4.2/§4.3).
func (r *Registry) Candidates(kind ast.OperatorKind) []string {
	var out []string
	for _, sig := range r.byKind[kind] {
		out = append(out, sig.render(placeholderOperands(sig)))
	}
	sort.Strings(out)
	return out
}

func placeholderOperands(sig *Signature) []ast.Expr {
	ops := make([]ast.Expr, 0, len(sig.Operands))
	for _, t := range sig.Operands {
		if t == nil {
			continue
		}
		ops = append(ops, ast.NewPlaceHolder(t))
	}
	return ops
}
