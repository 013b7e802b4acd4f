package ast

import "github.com/hiltic/hiltic/internal/types"

// Statement is the common interface of every statement node, including
// the instruction family. Successor forms the intra-block execution
// chain the instruction-resolver pass links after resolving all
// instructions in a Block (spec §4.3): CFG/liveness consumers can then
// walk "what runs next" without yet having built the full CFG.
type Statement interface {
	Node
	Successor() Statement
	SetSuccessor(Statement)
}

// StmtBase is embedded by every Statement.
type StmtBase struct {
	Base
	successor Statement
}

func (s *StmtBase) Successor() Statement        { return s.successor }
func (s *StmtBase) SetSuccessor(succ Statement) { s.successor = succ }

// FirstNonBlock returns s itself unless s is a Block, in which case it
// recurses into the block's first statement — blocks are transparent to
// CFG/liveness consumers (spec §4.6/§4.7).
func FirstNonBlock(s Statement) Statement {
	for {
		b, ok := s.(*Block)
		if !ok {
			return s
		}
		if len(b.Statements) == 0 {
			return s
		}
		s = b.Statements[0]
	}
}

// Block is a lexical statement sequence with its own Scope, local
// declarations, and statement list. Optionally carries an ID so it can
// be addressed as an exception-handler target or referenced from a
// BlockExpr.
type Block struct {
	StmtBase
	ScopeID      *ID
	Scope        *Scope
	Declarations []Declaration
	Statements   []Statement
}

func NewBlock(span Span, parent *Scope) *Block {
	b := &Block{Scope: NewScope(parent)}
	b.Base = NewBase(span)
	return b
}

func (b *Block) Children() []Node {
	out := make([]Node, 0, len(b.Declarations)+len(b.Statements))
	for _, d := range b.Declarations {
		out = append(out, d)
	}
	for _, s := range b.Statements {
		out = append(out, s)
	}
	return out
}

// Catch is one handler arm of a Try statement: catches ExceptionType
// (nil means catch-all), optionally binding the caught value to Ident.
type Catch struct {
	Base
	ExceptionType types.Type
	Ident         *ID
	Body          *Block
}

func (c *Catch) Children() []Node { return []Node{c.Body} }

// Try runs Body and dispatches to the first matching Catch on exception.
type Try struct {
	StmtBase
	Body    *Block
	Catches []*Catch
}

func (t *Try) Children() []Node {
	out := make([]Node, 0, len(t.Catches)+1)
	out = append(out, t.Body)
	for _, c := range t.Catches {
		out = append(out, c)
	}
	return out
}

// ForEach iterates Seq, binding each element to Ident for one run of
// Body.
type ForEach struct {
	StmtBase
	Ident *ID
	Seq   Expr
	Body  *Block
}

func (f *ForEach) Children() []Node { return []Node{f.Seq, f.Body} }

// IfElse branches on Cond; False may be nil (no else-arm).
type IfElse struct {
	StmtBase
	Cond  Expr
	True  *Block
	False *Block
}

func (i *IfElse) Children() []Node {
	if i.False != nil {
		return []Node{i.Cond, i.True, i.False}
	}
	return []Node{i.Cond, i.True}
}

// Return returns from the enclosing function; Result is nil for
// return.void.
type Return struct {
	StmtBase
	Result Expr
}

func (r *Return) Children() []Node {
	if r.Result != nil {
		return []Node{r.Result}
	}
	return nil
}

// Stop halts unit parsing (a unit-specific control statement).
type Stop struct{ StmtBase }

func (s *Stop) Children() []Node { return nil }

// NoOp does nothing; used as a synthesized placeholder by passes that
// need a statement node without semantic effect.
type NoOp struct{ StmtBase }

func (n *NoOp) Children() []Node { return nil }

// Print is a debug-output statement.
type Print struct {
	StmtBase
	Args []Expr
}

func (p *Print) Children() []Node {
	out := make([]Node, len(p.Args))
	for i, a := range p.Args {
		out[i] = a
	}
	return out
}

// ExpressionStatement evaluates an expression for its side effects,
// discarding the result.
type ExpressionStatement struct {
	StmtBase
	Expr Expr
}

func (e *ExpressionStatement) Children() []Node { return []Node{e.Expr} }

// Opcode names one member of the closed IR instruction family, e.g.
// "integer.add", "bytes.sub", "flow.jump", "classifier.add",
// "regexp.match_token", "channel.read_try", "assign". A single Go
// struct represents every opcode (rather than one type per opcode,
// which the source's ACCEPT_VISITOR machinery exists to fake) — the
// same choice Go's own SSA-based compilers make for large closed
// instruction sets; see DESIGN.md.
type Opcode string

// Instruction is one IR statement. Before resolution Op is "" and Name
// carries the as-written instruction mnemonic (often just an
// identifier that might turn out to be a variable, triggering the
// assign-rewrite fallback); after resolution Op names the matched
// opcode and Name is redundant but kept for diagnostics.
type Instruction struct {
	StmtBase
	Name           string
	Op             Opcode
	Target         Expr
	Op1, Op2, Op3  Expr
}

func NewUnresolvedInstruction(span Span, name string, target, op1, op2, op3 Expr) *Instruction {
	i := &Instruction{Name: name, Target: target, Op1: op1, Op2: op2, Op3: op3}
	i.Base = NewBase(span)
	return i
}

// IsResolved reports whether the instruction-resolver pass has matched
// this instruction to a concrete opcode.
func (i *Instruction) IsResolved() bool { return i.Op != "" }

// Operands returns the up-to-three positional operands in order,
// omitting nils.
func (i *Instruction) Operands() []Expr {
	var out []Expr
	for _, o := range []Expr{i.Op1, i.Op2, i.Op3} {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (i *Instruction) Children() []Node {
	var out []Node
	if i.Target != nil {
		out = append(out, i.Target)
	}
	for _, o := range i.Operands() {
		out = append(out, o)
	}
	return out
}

// Signature renders a human-readable operand-type signature for
// diagnostics, e.g. "integer.add(int<32>, int<32>) -> int<32>".
func (i *Instruction) Signature() string {
	s := i.Name + "("
	for idx, o := range i.Operands() {
		if idx > 0 {
			s += ", "
		}
		s += o.Type().String()
	}
	s += ")"
	if i.Target != nil {
		s += " -> " + i.Target.Type().String()
	}
	return s
}
