package resolve

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
)

// resolveTypesOn rewrites any types.Unknown/types.TypeByName reachable
// from n's type-bearing fields to the concrete type they name, looked
// up in n's nearest enclosing block's scope. Unlike expression::ID,
// types.Type in this port is not itself an ast.Node (see DESIGN.md's
// note on why Unknown.Name is a plain string) so Walk never visits a
// type value directly; instead every node shape that carries a
// types.Type field is handled explicitly here, the same set of shapes
// hilti/passes/id-resolver.cc's visit(type::Unknown*) reaches via the
// ordinary node-visitor dispatch.
func resolveTypesOn(n ast.Node, log *diag.Log, reportUnresolved bool) {
	blk := ast.NearestBlock(n)
	var scope *ast.Scope
	if blk != nil {
		scope = blk.Scope
	}

	switch d := n.(type) {
	case *ast.VariableDecl:
		d.Typ = resolveType(d.Typ, scope, d.Span(), log, reportUnresolved)
	case *ast.TypeDecl:
		d.Typ = resolveType(d.Typ, scope, d.Span(), log, reportUnresolved)
	case *ast.ParamDecl:
		d.Typ = resolveType(d.Typ, scope, d.Span(), log, reportUnresolved)
	case *ast.FunctionDecl:
		resolveFunctionType(d.Typ, scope, d.Span(), log, reportUnresolved)
	case *ast.HookDecl:
		d.Typ.Result = resolveType(d.Typ.Result, scope, d.Span(), log, reportUnresolved)
		for i, p := range d.Typ.Params {
			d.Typ.Params[i].Type = resolveType(p.Type, scope, d.Span(), log, reportUnresolved)
		}
	case *ast.TypeExpr:
		d.TypeValue = resolveType(d.TypeValue, scope, d.Span(), log, reportUnresolved)
	}
}

func resolveFunctionType(t *types.Function, scope *ast.Scope, span ast.Span, log *diag.Log, reportUnresolved bool) {
	t.Result = resolveType(t.Result, scope, span, log, reportUnresolved)
	for i, p := range t.Params {
		t.Params[i].Type = resolveType(p.Type, scope, span, log, reportUnresolved)
	}
}

// resolveType recursively rewrites t, unwrapping the handful of
// container/wrapper type shapes that can hold an Unknown/TypeByName
// leaf (Reference, List/Vector/Set/Channel element, Map key/value,
// Iterator container, OptionalArgument inner, TypeType referenced).
// Any other shape is returned unchanged.
func resolveType(t types.Type, scope *ast.Scope, span ast.Span, log *diag.Log, reportUnresolved bool) types.Type {
	if t == nil || scope == nil {
		return t
	}
	switch v := t.(type) {
	case *types.Unknown:
		return lookupTypeName(v.Name, scope, span, log, reportUnresolved, t)
	case *types.TypeByName:
		return lookupTypeName(v.Name, scope, span, log, reportUnresolved, t)
	case *types.Reference:
		v.Inner = resolveType(v.Inner, scope, span, log, reportUnresolved)
		return v
	case *types.List:
		v.Elem = resolveType(v.Elem, scope, span, log, reportUnresolved)
		return v
	case *types.Vector:
		v.Elem = resolveType(v.Elem, scope, span, log, reportUnresolved)
		return v
	case *types.Set:
		v.Elem = resolveType(v.Elem, scope, span, log, reportUnresolved)
		return v
	case *types.Channel:
		v.Elem = resolveType(v.Elem, scope, span, log, reportUnresolved)
		return v
	case *types.Map:
		v.Key = resolveType(v.Key, scope, span, log, reportUnresolved)
		v.Value = resolveType(v.Value, scope, span, log, reportUnresolved)
		return v
	case *types.Iterator:
		v.Container = resolveType(v.Container, scope, span, log, reportUnresolved)
		return v
	case *types.OptionalArgument:
		v.Inner = resolveType(v.Inner, scope, span, log, reportUnresolved)
		return v
	case *types.TypeType:
		v.Referenced = resolveType(v.Referenced, scope, span, log, reportUnresolved)
		return v
	default:
		return t
	}
}

func lookupTypeName(name string, scope *ast.Scope, span ast.Span, log *diag.Log, reportUnresolved bool, orig types.Type) types.Type {
	id := ast.NewID(name, span)
	vals := scope.Lookup(id)
	if len(vals) == 0 {
		if reportUnresolved {
			reportSpan(log, diag.RES003, span, "unknown type ID "+name)
		}
		return orig
	}
	if len(vals) > 1 {
		reportSpan(log, diag.RES003, span, "ID "+name+" defined more than once")
		return orig
	}
	te, ok := vals[0].(*ast.TypeExpr)
	if !ok {
		if reportUnresolved {
			reportSpan(log, diag.RES003, span, "ID "+name+" does not reference a type")
		}
		return orig
	}
	return te.TypeValue
}
