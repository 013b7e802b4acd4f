package ast

import "github.com/hiltic/hiltic/internal/types"

// Linkage controls cross-module visibility of a Declaration.
type Linkage int

const (
	LOCAL Linkage = iota
	PRIVATE
	EXPORTED
	IMPORTED
)

func (l Linkage) String() string {
	switch l {
	case LOCAL:
		return "local"
	case PRIVATE:
		return "private"
	case EXPORTED:
		return "exported"
	case IMPORTED:
		return "imported"
	default:
		return "unknown"
	}
}

// Declaration is the common interface of every top-level or
// block-scoped declaration: Variable, Constant, Type, Function, Hook.
type Declaration interface {
	Node
	ID() *ID
	Linkage() Linkage
	SetLinkage(Linkage)
}

// DeclBase is embedded by every Declaration.
type DeclBase struct {
	Base
	Ident   *ID
	linkage Linkage
}

func (d *DeclBase) ID() *ID              { return d.Ident }
func (d *DeclBase) Linkage() Linkage     { return d.linkage }
func (d *DeclBase) SetLinkage(l Linkage) { d.linkage = l }

// VariableDecl declares a mutable local or global variable.
type VariableDecl struct {
	DeclBase
	Typ  types.Type
	Init Expr // nil if uninitialized
}

func NewVariableDecl(span Span, id *ID, t types.Type, init Expr) *VariableDecl {
	v := &VariableDecl{Typ: t, Init: init}
	v.Base = NewBase(span)
	v.Ident = id
	return v
}

func (v *VariableDecl) Children() []Node {
	if v.Init != nil {
		return []Node{v.Init}
	}
	return nil
}

// ConstantDecl declares a named compile-time constant.
type ConstantDecl struct {
	DeclBase
	Value Expr
}

func NewConstantDecl(span Span, id *ID, value Expr) *ConstantDecl {
	c := &ConstantDecl{Value: value}
	c.Base = NewBase(span)
	c.Ident = id
	return c
}

func (c *ConstantDecl) Children() []Node { return []Node{c.Value} }

// TypeDecl declares a named type (struct, unit, enum, exception, ...).
type TypeDecl struct {
	DeclBase
	Typ types.Type
}

func NewTypeDecl(span Span, id *ID, t types.Type) *TypeDecl {
	d := &TypeDecl{Typ: t}
	d.Base = NewBase(span)
	d.Ident = id
	return d
}

func (d *TypeDecl) Children() []Node { return nil }

// ParamDecl is a single function/hook parameter.
type ParamDecl struct {
	Base
	Ident *ID
	Typ   types.Type
}

func NewParamDecl(span Span, id *ID, t types.Type) *ParamDecl {
	p := &ParamDecl{Ident: id, Typ: t}
	p.Base = NewBase(span)
	return p
}

func (p *ParamDecl) Children() []Node { return nil }

// FunctionDecl declares a function (or, for HookDecl, a hook).
type FunctionDecl struct {
	DeclBase
	Typ    *types.Function
	Params []*ParamDecl
	Body   *Block // nil for a declaration without implementation
}

func NewFunctionDecl(span Span, id *ID, t *types.Function, params []*ParamDecl, body *Block) *FunctionDecl {
	f := &FunctionDecl{Typ: t, Params: params, Body: body}
	f.Base = NewBase(span)
	f.Ident = id
	return f
}

func (f *FunctionDecl) Children() []Node {
	out := make([]Node, 0, len(f.Params)+1)
	for _, p := range f.Params {
		out = append(out, p)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	}
	return out
}

// Function is an alias kept distinct from FunctionDecl for the
// NearestFunction() parent-chain lookup used throughout the passes —
// every FunctionDecl is also queryable as the enclosing "Function" of
// its body.
type Function = FunctionDecl

// HookDecl declares a hook attached to a unit field or event. Unlike
// FunctionDecl, multiple HookDecls for the same ID are legal as long as
// their Typ is identical (enforced by the validator); Priority orders
// their execution, highest first.
type HookDecl struct {
	DeclBase
	Typ      *types.Hook
	Params   []*ParamDecl
	Body     *Block
	Priority int
}

func NewHookDecl(span Span, id *ID, t *types.Hook, params []*ParamDecl, body *Block, priority int) *HookDecl {
	h := &HookDecl{Typ: t, Params: params, Body: body, Priority: priority}
	h.Base = NewBase(span)
	h.Ident = id
	return h
}

func (h *HookDecl) Children() []Node {
	out := make([]Node, 0, len(h.Params)+1)
	for _, p := range h.Params {
		out = append(out, p)
	}
	if h.Body != nil {
		out = append(out, h.Body)
	}
	return out
}
