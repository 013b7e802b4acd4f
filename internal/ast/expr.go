package ast

import "github.com/hiltic/hiltic/internal/types"

// Expr is the common interface of every expression node.
type Expr interface {
	Node

	// Type returns the static type of the expression.
	Type() types.Type

	// Initializer reports whether this expression is safe to use as a
	// compile-time variable initializer (i.e. it is a Constant, a Ctor
	// of only initializer sub-expressions, or a Default).
	Initializer() bool
}

// ExprBase is embedded by every expression node.
type ExprBase struct {
	Base
	Typ types.Type
}

func (e *ExprBase) Type() types.Type { return e.Typ }

// Constant is a literal value of a known type.
type Constant struct {
	ExprBase
	Value interface{}
}

func NewConstant(span Span, t types.Type, value interface{}) *Constant {
	c := &Constant{Value: value}
	c.Base = NewBase(span)
	c.Typ = t
	return c
}

func (c *Constant) Children() []Node  { return nil }
func (c *Constant) Initializer() bool { return true }

// Ctor is a constructed aggregate literal: list/vector/set/tuple/struct
// literals share this shape. Keys is non-nil only for map constructors,
// in which case len(Keys) == len(Elements).
type Ctor struct {
	ExprBase
	Elements []Expr
	Keys     []Expr
}

func NewCtor(span Span, t types.Type, elements []Expr) *Ctor {
	c := &Ctor{Elements: elements}
	c.Base = NewBase(span)
	c.Typ = t
	return c
}

func (c *Ctor) Children() []Node {
	out := make([]Node, 0, len(c.Elements)+len(c.Keys))
	for _, k := range c.Keys {
		out = append(out, k)
	}
	for _, e := range c.Elements {
		out = append(out, e)
	}
	return out
}

func (c *Ctor) Initializer() bool {
	for _, k := range c.Keys {
		if !k.Initializer() {
			return false
		}
	}
	for _, e := range c.Elements {
		if !e.Initializer() {
			return false
		}
	}
	return true
}

// Variable is an expression referencing a declared local or global
// variable.
type Variable struct {
	ExprBase
	Decl *VariableDecl
}

func NewVariableExpr(span Span, decl *VariableDecl) *Variable {
	v := &Variable{Decl: decl}
	v.Base = NewBase(span)
	v.Typ = decl.Typ
	return v
}

func (v *Variable) Children() []Node  { return nil }
func (v *Variable) Initializer() bool { return false }

// Parameter is an expression referencing a function/hook parameter.
type Parameter struct {
	ExprBase
	Decl *ParamDecl
}

func NewParameterExpr(span Span, decl *ParamDecl) *Parameter {
	p := &Parameter{Decl: decl}
	p.Base = NewBase(span)
	p.Typ = decl.Typ
	return p
}

func (p *Parameter) Children() []Node  { return nil }
func (p *Parameter) Initializer() bool { return false }

// FunctionRef is an expression referencing a declared function or hook
// by identity (used as the callee of a Call operator match).
type FunctionRef struct {
	ExprBase
	Decl *FunctionDecl
}

func NewFunctionExpr(span Span, decl *FunctionDecl) *FunctionRef {
	f := &FunctionRef{Decl: decl}
	f.Base = NewBase(span)
	f.Typ = decl.Typ
	return f
}

func (f *FunctionRef) Children() []Node  { return nil }
func (f *FunctionRef) Initializer() bool { return false }

// ModuleRef is an expression referencing an imported module by name,
// used only as the left-hand side of a scoped-ID lookup rewrite.
type ModuleRef struct {
	ExprBase
	Name string
}

func (m *ModuleRef) Children() []Node  { return nil }
func (m *ModuleRef) Initializer() bool { return false }

// TypeExpr wraps a Type so it can flow through expression positions
// (e.g. the second operand of a Coerce match, or a type-level constant).
type TypeExpr struct {
	ExprBase
	TypeValue types.Type
}

func NewTypeExpr(span Span, t types.Type) *TypeExpr {
	e := &TypeExpr{TypeValue: t}
	e.Base = NewBase(span)
	e.Typ = &types.TypeType{Referenced: t}
	return e
}

func (t *TypeExpr) Children() []Node  { return nil }
func (t *TypeExpr) Initializer() bool { return true }

// IDExpr is an unresolved reference to a dotted identifier; the
// id-resolver pass rewrites the owning field to the looked-up
// expression once resolution succeeds (see internal/resolve).
type IDExpr struct {
	ExprBase
	Ident *ID
}

func NewIDExpr(span Span, id *ID) *IDExpr {
	e := &IDExpr{Ident: id}
	e.Base = NewBase(span)
	e.Typ = &types.Unset{}
	return e
}

func (e *IDExpr) Children() []Node  { return nil }
func (e *IDExpr) Initializer() bool { return false }

// Coerced wraps an expression that was implicitly converted to Target.
type Coerced struct {
	ExprBase
	Inner Expr
}

func NewCoerced(span Span, inner Expr, target types.Type) *Coerced {
	c := &Coerced{Inner: inner}
	c.Base = NewBase(span)
	c.Typ = target
	return c
}

func (c *Coerced) Children() []Node  { return []Node{c.Inner} }
func (c *Coerced) Initializer() bool { return c.Inner.Initializer() }

// DefaultExpr produces the default value of a type (e.g. for an omitted
// &default-less field).
type DefaultExpr struct {
	ExprBase
}

func NewDefaultExpr(span Span, t types.Type) *DefaultExpr {
	d := &DefaultExpr{}
	d.Base = NewBase(span)
	d.Typ = t
	return d
}

func (d *DefaultExpr) Children() []Node  { return nil }
func (d *DefaultExpr) Initializer() bool { return true }

// BlockExpr lets a named Block be referenced as a value (used by
// exception-handler instructions to name their target block).
type BlockExpr struct {
	ExprBase
	Blk *Block
}

func NewBlockExpr(span Span, blk *Block) *BlockExpr {
	e := &BlockExpr{Blk: blk}
	e.Base = NewBase(span)
	e.Typ = &types.Void{}
	return e
}

func (e *BlockExpr) Children() []Node  { return nil }
func (e *BlockExpr) Initializer() bool { return false }

// SwitchTargetsExpr packages flow.switch's case blocks (excluding the
// default, carried separately as Op1's BlockExpr) as a single operand,
// mirroring how MethodCall packages its call-args as one tuple operand
// rather than widening every instruction's operand arity. Each Cases
// entry pairs a (already-resolved) case constant with the block to jump
// to when it matches.
type SwitchTargetsExpr struct {
	ExprBase
	Cases []SwitchCase
}

// SwitchCase is one case arm of a flow.switch's target list.
type SwitchCase struct {
	Value Expr
	Block *Block
}

func NewSwitchTargetsExpr(span Span, cases []SwitchCase) *SwitchTargetsExpr {
	e := &SwitchTargetsExpr{Cases: cases}
	e.Base = NewBase(span)
	e.Typ = &types.Void{}
	return e
}

func (e *SwitchTargetsExpr) Children() []Node {
	out := make([]Node, 0, len(e.Cases)*2)
	for _, c := range e.Cases {
		out = append(out, c.Value, c.Block)
	}
	return out
}
func (e *SwitchTargetsExpr) Initializer() bool { return false }

// Blocks returns every case's target block, for the CFG pass's
// FlowInfo.Successors.
func (e *SwitchTargetsExpr) Blocks() []*Block {
	out := make([]*Block, len(e.Cases))
	for i, c := range e.Cases {
		out[i] = c.Block
	}
	return out
}

// Assign is an expression-level assignment, dst := src.
type Assign struct {
	ExprBase
	Dst Expr
	Src Expr
}

func NewAssign(span Span, dst, src Expr) *Assign {
	a := &Assign{Dst: dst, Src: src}
	a.Base = NewBase(span)
	a.Typ = dst.Type()
	return a
}

func (a *Assign) Children() []Node  { return []Node{a.Dst, a.Src} }
func (a *Assign) Initializer() bool { return false }

// Conditional is the ternary c ? t : f expression.
type Conditional struct {
	ExprBase
	Cond  Expr
	True  Expr
	False Expr
}

func NewConditional(span Span, cond, t, f Expr) *Conditional {
	c := &Conditional{Cond: cond, True: t, False: f}
	c.Base = NewBase(span)
	c.Typ = t.Type()
	return c
}

func (c *Conditional) Children() []Node { return []Node{c.Cond, c.True, c.False} }
func (c *Conditional) Initializer() bool {
	return c.Cond.Initializer() && c.True.Initializer() && c.False.Initializer()
}

// UnresolvedOperator is an as-yet-unmatched use of an overloaded
// operator; the operator-matching engine (internal/operator) rewrites it
// to a ResolvedOperator in place.
type UnresolvedOperator struct {
	ExprBase
	Kind     OperatorKind
	Operands []Expr
}

func NewUnresolvedOperator(span Span, kind OperatorKind, operands []Expr) *UnresolvedOperator {
	u := &UnresolvedOperator{Kind: kind, Operands: operands}
	u.Base = NewBase(span)
	u.Typ = &types.Unset{}
	return u
}

func (u *UnresolvedOperator) Children() []Node {
	out := make([]Node, len(u.Operands))
	for i, o := range u.Operands {
		out[i] = o
	}
	return out
}
func (u *UnresolvedOperator) Initializer() bool { return false }

// ResolvedOperator is the uniquely-matched instantiation of an
// UnresolvedOperator: Kind/Op identify which overload matched (Op is a
// human-readable rendering of the matched signature, not a live pointer
// back into the registry, so the AST never holds a reference into
// mutable registry state), Operands are the (possibly coerced) operands,
// and the computed result type is the expression's own Typ.
type ResolvedOperator struct {
	ExprBase
	Kind     OperatorKind
	Op       string
	Operands []Expr
}

func NewResolvedOperator(span Span, kind OperatorKind, op string, operands []Expr, result types.Type) *ResolvedOperator {
	r := &ResolvedOperator{Kind: kind, Op: op, Operands: operands}
	r.Base = NewBase(span)
	r.Typ = result
	return r
}

func (r *ResolvedOperator) Children() []Node {
	out := make([]Node, len(r.Operands))
	for i, o := range r.Operands {
		out[i] = o
	}
	return out
}
func (r *ResolvedOperator) Initializer() bool { return false }

// PlaceHolder stands in for an expression that does not exist yet (used
// internally by the coercer's two-phase matching when only a type, not a
// concrete expression, is available).
type PlaceHolder struct {
	ExprBase
}

func NewPlaceHolder(t types.Type) *PlaceHolder {
	p := &PlaceHolder{}
	p.Typ = t
	return p
}

func (p *PlaceHolder) Children() []Node  { return nil }
func (p *PlaceHolder) Initializer() bool { return false }
