// Package ir implements the stack-based incremental module builder:
// the single entry point that assembles an *ast.Module one
// declaration/instruction at a time and then drives it through
// resolution and validation. Grounded on the teacher's own staged
// builder idiom (build incrementally, finalize explicitly) adapted to
// this compiler's declaration/instruction/block shapes.
package ir

import (
	"errors"
	"fmt"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/instr"
	"github.com/hiltic/hiltic/internal/operator"
	"github.com/hiltic/hiltic/internal/resolve"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/hiltic/hiltic/internal/validate"
)

// Disposition selects what happens when a caller tries to declare a
// name that already exists in the same block.
type Disposition int

const (
	// ReuseIfEqual returns the existing declaration's expression when
	// the new declaration has an identical shape, and errors otherwise.
	ReuseIfEqual Disposition = iota
	// RenameUnique appends a numeric suffix until the name is free.
	RenameUnique
	// ErrorOnDuplicate always reports IRB002, never reusing or renaming.
	ErrorOnDuplicate
)

// Builder assembles one module incrementally. It is not safe for
// concurrent use — the same single-threaded-core assumption spec's
// concurrency model makes for every other pass applies here.
type Builder struct {
	Module      *ast.Module
	disposition Disposition
	log         *diag.Log

	blockStack []*ast.Block
	funcStack  []*ast.FunctionDecl
	hookStack  []*ast.HookDecl

	cache map[string]ast.Node
	tmpN  int

	operators    *operator.Registry
	instructions *instr.Registry
}

// NewBuilder starts a fresh module named name.
func NewBuilder(name string, disposition Disposition) *Builder {
	mod := ast.NewModule(ast.None, ast.NewID(name, ast.None))
	opReg := operator.NewRegistry()
	operator.StdSignatures(opReg)
	insReg := instr.NewRegistry()
	instr.StdOverloads(insReg)
	return &Builder{
		Module:       mod,
		disposition:  disposition,
		log:          diag.NewLog(),
		blockStack:   []*ast.Block{mod.Body},
		cache:        map[string]ast.Node{},
		operators:    opReg,
		instructions: insReg,
	}
}

// Log returns the diagnostics accumulated by the builder itself (IRB
// codes for stack-discipline and duplicate-name violations); pipeline
// diagnostics from Finalize are returned separately by that call.
func (b *Builder) Log() *diag.Log { return b.log }

func (b *Builder) currentBlock() *ast.Block {
	return b.blockStack[len(b.blockStack)-1]
}

// PushBlock enters blk: subsequent Add* calls target it until the
// matching PopBlock.
func (b *Builder) PushBlock(blk *ast.Block) {
	b.blockStack = append(b.blockStack, blk)
}

// PopBlock leaves the current block and returns it, reporting IRB001
// if the module's own top-level block would be popped (stack-discipline
// violation — every PushBlock/PushFunction/PushHook must be matched).
func (b *Builder) PopBlock() *ast.Block {
	if len(b.blockStack) <= 1 {
		b.reportStackViolation("PopBlock with no matching PushBlock")
		return b.Module.Body
	}
	blk := b.blockStack[len(b.blockStack)-1]
	b.blockStack = b.blockStack[:len(b.blockStack)-1]
	return blk
}

func (b *Builder) reportStackViolation(msg string) {
	b.log.Add(diag.New(diag.IRB001, "ir", msg, nil))
}

// findDecl returns the declaration named name directly in blk, or nil.
func findDecl(blk *ast.Block, name string) ast.Declaration {
	for _, d := range blk.Declarations {
		if d.ID().Name() == name {
			return d
		}
	}
	return nil
}

func uniqueName(blk *ast.Block, base string) string {
	n := 1
	for {
		cand := fmt.Sprintf("%s_%d", base, n)
		if findDecl(blk, cand) == nil {
			return cand
		}
		n++
	}
}

// declare resolves a name-collision for id in blk according to the
// builder's Disposition. sameAs reports whether an existing
// declaration is shape-compatible with the one being added (used only
// by ReuseIfEqual). It returns the id to actually use (unchanged,
// renamed) and, when a compatible declaration already exists, that
// declaration so the caller can reuse it instead of inserting a new
// one.
func (b *Builder) declare(blk *ast.Block, id *ast.ID, sameAs func(ast.Declaration) bool) (*ast.ID, ast.Declaration, error) {
	existing := findDecl(blk, id.Name())
	if existing == nil {
		return id, nil, nil
	}
	switch b.disposition {
	case ReuseIfEqual:
		if sameAs(existing) {
			return id, existing, nil
		}
		return nil, nil, b.dupError(id)
	case RenameUnique:
		return ast.NewID(uniqueName(blk, id.Name()), id.Span()), nil, nil
	default:
		return nil, nil, b.dupError(id)
	}
}

func (b *Builder) dupError(id *ast.ID) error {
	s := id.Span()
	r := diag.New(diag.IRB002, "ir", "duplicate top-level name: "+id.PathAsString(), &s)
	b.log.Add(r)
	return diag.WrapReport(r)
}

// AddGlobal declares a module-level variable and returns an expression
// referencing it.
func (b *Builder) AddGlobal(id *ast.ID, t types.Type, init ast.Expr) (*ast.Variable, error) {
	blk := b.Module.Body
	newID, existing, err := b.declare(blk, id, func(d ast.Declaration) bool {
		vd, ok := d.(*ast.VariableDecl)
		return ok && vd.Typ.Equal(t)
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return ast.NewVariableExpr(id.Span(), existing.(*ast.VariableDecl)), nil
	}
	decl := ast.NewVariableDecl(newID.Span(), newID, t, init)
	blk.Declarations = append(blk.Declarations, decl)
	return ast.NewVariableExpr(newID.Span(), decl), nil
}

// AddConstant declares a module-level named constant.
func (b *Builder) AddConstant(id *ast.ID, t types.Type, init *ast.Constant) (*ast.Constant, error) {
	blk := b.Module.Body
	newID, existing, err := b.declare(blk, id, func(d ast.Declaration) bool {
		cd, ok := d.(*ast.ConstantDecl)
		return ok && cd.Value.Type().Equal(t)
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing.(*ast.ConstantDecl).Value.(*ast.Constant), nil
	}
	decl := ast.NewConstantDecl(newID.Span(), newID, init)
	blk.Declarations = append(blk.Declarations, decl)
	return init, nil
}

// AddType declares a module-level named type and returns a TypeExpr
// wrapping it, for use wherever a type reference is needed as an
// ast.Expr (e.g. a ctor target).
func (b *Builder) AddType(id *ast.ID, t types.Type) (*ast.TypeExpr, error) {
	blk := b.Module.Body
	newID, existing, err := b.declare(blk, id, func(d ast.Declaration) bool {
		td, ok := d.(*ast.TypeDecl)
		return ok && td.Typ.Equal(t)
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return ast.NewTypeExpr(id.Span(), existing.(*ast.TypeDecl).Typ), nil
	}
	decl := ast.NewTypeDecl(newID.Span(), newID, t)
	blk.Declarations = append(blk.Declarations, decl)
	return ast.NewTypeExpr(newID.Span(), t), nil
}

// AddLocal declares a variable in the currently open block (a function
// or hook body, or a nested block pushed via PushBlock/AddIf/AddIfElse).
func (b *Builder) AddLocal(id *ast.ID, t types.Type, init ast.Expr) (*ast.Variable, error) {
	blk := b.currentBlock()
	newID, existing, err := b.declare(blk, id, func(d ast.Declaration) bool {
		vd, ok := d.(*ast.VariableDecl)
		return ok && vd.Typ.Equal(t)
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return ast.NewVariableExpr(id.Span(), existing.(*ast.VariableDecl)), nil
	}
	decl := ast.NewVariableDecl(newID.Span(), newID, t, init)
	blk.Declarations = append(blk.Declarations, decl)
	return ast.NewVariableExpr(newID.Span(), decl), nil
}

// AddTmp declares a synthesized local of type t with a name no caller
// could have written, for intermediate results a lowering pass needs a
// place to stash.
func (b *Builder) AddTmp(t types.Type) *ast.Variable {
	blk := b.currentBlock()
	name := uniqueName(blk, "__tmp")
	decl := ast.NewVariableDecl(ast.None, ast.NewID(name, ast.None), t, nil)
	blk.Declarations = append(blk.Declarations, decl)
	b.tmpN++
	return ast.NewVariableExpr(ast.None, decl)
}

// DeclareFunction declares (but does not open) a module-level function.
func (b *Builder) DeclareFunction(id *ast.ID, t *types.Function) (*ast.FunctionDecl, error) {
	blk := b.Module.Body
	newID, existing, err := b.declare(blk, id, func(d ast.Declaration) bool {
		fd, ok := d.(*ast.FunctionDecl)
		return ok && fd.Typ.Equal(t)
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing.(*ast.FunctionDecl), nil
	}
	fn := ast.NewFunctionDecl(newID.Span(), newID, t, nil, nil)
	blk.Declarations = append(blk.Declarations, fn)
	return fn, nil
}

// PushFunction opens fn's body (creating one if it has none yet) as
// the current block, so subsequent Add* calls populate it.
func (b *Builder) PushFunction(fn *ast.FunctionDecl) {
	if fn.Body == nil {
		fn.Body = ast.NewBlock(fn.Span(), nil)
	}
	b.funcStack = append(b.funcStack, fn)
	b.blockStack = append(b.blockStack, fn.Body)
}

// PopFunction closes the function opened by the matching PushFunction.
func (b *Builder) PopFunction() *ast.FunctionDecl {
	if len(b.funcStack) == 0 {
		b.reportStackViolation("PopFunction with no matching PushFunction")
		return nil
	}
	fn := b.funcStack[len(b.funcStack)-1]
	b.funcStack = b.funcStack[:len(b.funcStack)-1]
	b.blockStack = b.blockStack[:len(b.blockStack)-1]
	return fn
}

// DeclareHook declares one more priority-ordered hook body for id.
// Unlike functions, hooks sharing an id are never a duplicate — a
// single id legally carries many hook bodies, distinguished only by
// Priority — so this never consults Disposition (see
// internal/resolve's ledger note on why hooks are exempt from the
// scope-builder's duplicate check).
func (b *Builder) DeclareHook(id *ast.ID, t *types.Hook, priority int) *ast.HookDecl {
	h := ast.NewHookDecl(id.Span(), id, t, nil, nil, priority)
	b.Module.Body.Declarations = append(b.Module.Body.Declarations, h)
	return h
}

// PushHook opens h's body as the current block.
func (b *Builder) PushHook(h *ast.HookDecl) {
	if h.Body == nil {
		h.Body = ast.NewBlock(h.Span(), nil)
	}
	b.hookStack = append(b.hookStack, h)
	b.blockStack = append(b.blockStack, h.Body)
}

// PopHook closes the hook opened by the matching PushHook.
func (b *Builder) PopHook() *ast.HookDecl {
	if len(b.hookStack) == 0 {
		b.reportStackViolation("PopHook with no matching PushHook")
		return nil
	}
	h := b.hookStack[len(b.hookStack)-1]
	b.hookStack = b.hookStack[:len(b.hookStack)-1]
	b.blockStack = b.blockStack[:len(b.blockStack)-1]
	return h
}

// AddInstruction appends one unresolved instruction (by mnemonic name)
// to the current block; the instruction resolver run by Finalize turns
// it into a concrete Opcode/overload match.
func (b *Builder) AddInstruction(name string, target, op1, op2, op3 ast.Expr) *ast.Instruction {
	i := ast.NewUnresolvedInstruction(ast.None, name, target, op1, op2, op3)
	b.currentBlock().Statements = append(b.currentBlock().Statements, i)
	return i
}

// AddIf appends a single-branch conditional to the current block and
// returns the new True block and a continuation block; the caller
// pushes whichever it wants to populate next (PushBlock), and is
// responsible for wiring any fallthrough jump into the continuation —
// the builder does not synthesize one, since not every branch falls
// through (e.g. one ending in flow.return_result).
func (b *Builder) AddIf(cond ast.Expr) (trueBlk, contBlk *ast.Block) {
	cur := b.currentBlock()
	trueBlk = ast.NewBlock(ast.None, cur.Scope)
	contBlk = ast.NewBlock(ast.None, cur.Scope)
	stmt := &ast.IfElse{Cond: cond, True: trueBlk}
	stmt.Base = ast.NewBase(ast.None)
	cur.Statements = append(cur.Statements, stmt)
	return trueBlk, contBlk
}

// AddIfElse appends a two-branch conditional to the current block and
// returns the True, False, and continuation blocks.
func (b *Builder) AddIfElse(cond ast.Expr) (trueBlk, falseBlk, contBlk *ast.Block) {
	cur := b.currentBlock()
	trueBlk = ast.NewBlock(ast.None, cur.Scope)
	falseBlk = ast.NewBlock(ast.None, cur.Scope)
	contBlk = ast.NewBlock(ast.None, cur.Scope)
	stmt := &ast.IfElse{Cond: cond, True: trueBlk, False: falseBlk}
	stmt.Base = ast.NewBase(ast.None)
	cur.Statements = append(cur.Statements, stmt)
	return trueBlk, falseBlk, contBlk
}

// CacheNode remembers n under key, so a later lowering step building
// the same logical thing twice (e.g. the synthesized type for a given
// container element type) can find and reuse it instead of building a
// structurally duplicate node.
func (b *Builder) CacheNode(key string, n ast.Node) { b.cache[key] = n }

// LookupNode retrieves a node previously stored under key.
func (b *Builder) LookupNode(key string) (ast.Node, bool) {
	n, ok := b.cache[key]
	return n, ok
}

// Finalize drives the assembled module through resolution (scope
// building, a non-final id/type resolution, instruction resolution, the
// final id/type resolution, then operator resolution) and, if
// requested, validation — succeeding only if the resulting log is free
// of errors. This mirrors the per-module ordering internal/compiler
// runs, minus import aliasing, module search, caching and CFG/liveness,
// which only internal/compiler performs; a
// standalone single-module Finalize is useful in its own right for
// tests and for programs built entirely in memory.
func (b *Builder) Finalize(runResolve, runValidate bool) (bool, *diag.Log) {
	log := diag.NewLog()
	if len(b.blockStack) != 1 || len(b.funcStack) != 0 || len(b.hookStack) != 0 {
		log.Add(diag.New(diag.IRB001, "ir", "Finalize called with unbalanced Push/Pop calls", nil))
		return false, log
	}

	if runResolve {
		resolve.BuildScopes(b.Module, log)
		resolve.ResolveIDs(b.Module, log, false)
		b.instructions.Resolve(b.Module, log, b.operators.CanCoerceTo, b.operators.CoerceTo)
		resolve.ResolveIDs(b.Module, log, true)
		b.operators.Resolve(b.Module, log)
		validate.SetCoercionHook(b.operators.CanCoerceTo)
	}
	if runValidate {
		validate.Run(b.Module, log)
	}
	return !log.HasErrors(), log
}

// ErrUnbalancedStack is returned by callers that want to distinguish a
// stack-discipline failure from an ordinary duplicate-name error.
var ErrUnbalancedStack = errors.New("ir: unbalanced builder stack")
