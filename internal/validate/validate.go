// Package validate implements the read-only semantic-rule pass that
// runs after scope/id/operator/instruction resolution, reporting
// through a shared diag.Log rather than stopping at the first failure.
// It checks Main::run, foreach iterability, returns, unresolved
// instructions, thread-context access, variable and function types,
// hook consistency, and declared integer/overlay/struct/exception/
// container/reference types. It does not check call or thread.schedule
// scopes, and does not check struct field defaults against field
// types. Grounded
// throughout on original_source/hilti/passes/validator.cc.
package validate

import (
	"errors"
	"strings"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
)

// Run walks root and applies every rule family, accumulating
// diagnostics into log. It does not mutate the AST except for the one
// documented exception of breakExceptionCycles, which clears the Base
// link on every member of a detected exception-inheritance cycle before
// returning — done so a caller that wants to print the partial AST
// after a fatal abort can do so without looping forever (supplemented
// feature: exception-cycle repair-before-abort).
func Run(root ast.Node, log *diag.Log) {
	breakExceptionCycles(root, log)

	ast.Walk(root, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Module:
			checkModuleMain(v, log)
		case *ast.ForEach:
			checkForEachIterable(v, log)
		case *ast.Return:
			checkReturn(v, log)
		case *ast.Instruction:
			checkInstructionResolved(v, log)
			checkThreadScope(v, log)
		case *ast.VariableDecl:
			checkVariableDecl(v, log)
		case *ast.FunctionDecl:
			checkFunctionType(v, log)
		case *ast.HookDecl:
			checkHookRedefinition(v, log)
		case *ast.TypeDecl:
			checkDeclaredType(v, log)
		}
	})
}

func report(log *diag.Log, code string, n ast.Node, msg string) {
	s := n.Span()
	log.Add(diag.New(code, "validate", msg, &s))
}

func wrongType(log *diag.Log, code string, n ast.Node, msg string, have, want types.Type) {
	if have != nil {
		msg += "\n    Type given:    " + have.String()
	}
	if want != nil {
		msg += "\n    Type expected: " + want.String()
	}
	report(log, code, n, msg)
}

// checkModuleMain enforces that a module literally named "Main" (case
// folded, per the source's strtolower comparison) declares exactly one
// function bound to the unqualified name "run".
func checkModuleMain(m *ast.Module, log *diag.Log) {
	if strings.ToLower(m.Name.Name()) != "main" {
		return
	}
	runs := m.Body.Scope.Lookup(ast.NewID("run", m.Span()))
	switch len(runs) {
	case 0:
		report(log, diag.VAL001, m, "module Main must define a run() function")
	case 1:
		if _, ok := runs[0].(*ast.FunctionRef); !ok {
			report(log, diag.VAL001, m, "in module Main, ID 'run' must be a function")
		}
	default:
		report(log, diag.VAL001, m, "module Main must define only one run() function")
	}
}

func checkForEachIterable(f *ast.ForEach, log *diag.Log) {
	t := f.Seq.Type()
	if r, ok := t.(*types.Reference); ok {
		t = r.Inner
	}
	if !t.Traits().Has(types.Iterable) {
		report(log, diag.VAL007, f, "expression not iterable")
	}
}

// checkReturn enforces the Return rules: return.result is forbidden in
// a hook, return.void is forbidden when the function's result type is
// non-void, and a returned expression must coerce to the declared
// result type.
func checkReturn(r *ast.Return, log *diag.Log) {
	for cur := r.Parent(); cur != nil; cur = cur.Parent() {
		if _, ok := cur.(*ast.HookDecl); ok {
			if r.Result != nil {
				report(log, diag.VAL004, r, "return.result cannot be used inside a hook")
			}
			return
		}
	}
	fn := ast.NearestFunction(r)
	if fn == nil {
		return
	}
	isVoid := isVoidType(fn.Typ.Result)
	if r.Result != nil && isVoid {
		report(log, diag.VAL004, r, "function does not return a value")
		return
	}
	if r.Result == nil && !isVoid {
		report(log, diag.VAL004, r, "function must return a value")
		return
	}
	if r.Result == nil {
		return
	}
	if !canCoerce(r.Result, fn.Typ.Result) {
		wrongType(log, diag.VAL004, r, "returned type does not match function", r.Result.Type(), fn.Typ.Result)
	}
}

var coercionHook func(ast.Expr, types.Type) bool

func canCoerce(e ast.Expr, target types.Type) bool {
	if coercionHook != nil {
		return coercionHook(e, target)
	}
	return e.Type().Equal(target)
}

// SetCoercionHook lets the compiler context wire the shared
// operator.Registry's CanCoerceTo into the validator without
// internal/validate importing internal/operator directly; the caller
// that owns both (internal/ir's Finalize, internal/compiler's finalize)
// calls this once before Run.
func SetCoercionHook(f func(ast.Expr, types.Type) bool) { coercionHook = f }

func isVoidType(t types.Type) bool {
	_, ok := t.(*types.Void)
	return ok
}

// checkInstructionResolved flags an Unresolved instruction reaching the
// validator as an internal error: the instruction resolver must run to
// completion (and the pipeline retried per the multi-pass ordering)
// before validation, so this should never fire in a correctly driven
// pipeline.
func checkInstructionResolved(i *ast.Instruction, log *diag.Log) {
	if !i.IsResolved() {
		log.Add(diag.NewGeneric("validate", errors.New("unresolved instruction reached validator: "+i.Signature())))
	}
}

// checkThreadScope covers the Thread/Scope rule family: thread.get_context
// and thread.set_context require the enclosing module to declare an
// execution context.
func checkThreadScope(i *ast.Instruction, log *diag.Log) {
	if i.Op != "thread.get_context" && i.Op != "thread.set_context" {
		return
	}
	mod := ast.NearestModule(i)
	if mod == nil || mod.ExecutionContext == nil {
		report(log, diag.VAL010, i, "no execution context defined, cannot access thread context")
	}
}

// checkVariableDecl enforces that a variable's declared type is a
// concrete (non-wildcard) value type, and that any initializer coerces
// to it.
func checkVariableDecl(v *ast.VariableDecl, log *diag.Log) {
	if isWildcard(v.Typ) {
		report(log, diag.VAL007, v, "cannot create instances of a wildcard type")
		return
	}
	if !v.Typ.Traits().Has(types.ValueType) {
		report(log, diag.VAL007, v, "variable type must be a value type, but is "+v.Typ.String())
		return
	}
	if v.Init != nil && !canCoerce(v.Init, v.Typ) {
		wrongType(log, diag.VAL003, v, "initializer does not match declared type", v.Init.Type(), v.Typ)
	}
}

// isWildcard reports whether t is the tuple<*> wildcard convention: a
// Tuple whose Elements is nil (as opposed to a zero-length but
// non-nil slice, which is the legitimate empty tuple tuple<>). No
// example source gave this convention a named field, so it is inferred
// here rather than adding a new field to internal/types; see DESIGN.md.
func isWildcard(t types.Type) bool {
	tup, ok := t.(*types.Tuple)
	return ok && tup.Elements == nil
}

func checkFunctionType(f *ast.FunctionDecl, log *diag.Log) {
	validReturnType(log, f, f.Typ.Result, f.Typ.CC)
	for _, p := range f.Params {
		validParameterType(log, p, p.Typ, f.Typ.CC)
	}
}

func validReturnType(log *diag.Log, n ast.Node, t types.Type, cc types.CallingConvention) bool {
	if isVoidType(t) {
		return true
	}
	if cc != types.CCHILTI {
		if _, ok := t.(*types.Any); ok {
			return true
		}
	}
	if t.Traits().Has(types.ValueType) {
		return true
	}
	report(log, diag.VAL007, n, "function result must be a value type, but is "+t.String())
	return false
}

func validParameterType(log *diag.Log, n ast.Node, t types.Type, cc types.CallingConvention) bool {
	inner := t
	if opt, ok := t.(*types.OptionalArgument); ok {
		inner = opt.Inner
	}
	if cc == types.CCHILTI {
		if tup, ok := inner.(*types.Tuple); ok && tup.Elements == nil {
			report(log, diag.VAL002, n, "HILTI functions cannot have parameter of type tuple<*>")
			return false
		}
	}
	if cc != types.CCHILTI {
		if _, ok := inner.(*types.Any); ok {
			return true
		}
	}
	if inner.Traits().Has(types.ValueType) {
		return true
	}
	if _, ok := inner.(*types.TypeType); ok {
		return true
	}
	report(log, diag.VAL007, n, "function parameter must be a value type, but is "+inner.String())
	return false
}

// checkHookRedefinition enforces that every HookDecl sharing an id
// elsewhere in the module declares an identical *types.Hook type.
// Walking pairwise against every other hook in the module is quadratic
// in hook count, acceptable for the module sizes this compiler
// targets — it mirrors the source's own per-declaration visitor, which
// does no better.
func checkHookRedefinition(h *ast.HookDecl, log *diag.Log) {
	mod := ast.NearestModule(h)
	if mod == nil {
		return
	}
	var others []*ast.HookDecl
	ast.Walk(mod, func(n ast.Node) {
		if o, ok := n.(*ast.HookDecl); ok && o != h && o.Ident.Equal(h.Ident) {
			others = append(others, o)
		}
	})
	for _, o := range others {
		if !o.Typ.Equal(h.Typ) {
			report(log, diag.VAL005, h, "inconsistent definitions for hook "+h.Ident.PathAsString())
			return
		}
	}
}

// checkDeclaredType dispatches to the per-type-shape structural rules
// (Integer width, Overlay field ordering, Struct duplicate/default
// checks, Exception argument/base compatibility — cycle detection
// itself runs separately via breakExceptionCycles since it must see
// every exception in the module at once).
func checkDeclaredType(d *ast.TypeDecl, log *diag.Log) {
	switch t := d.Typ.(type) {
	case *types.Integer:
		checkIntegerWidth(t, d, log)
	case *types.Overlay:
		checkOverlayFields(t, d, log)
	case *types.Struct:
		checkStructFields(t, d, log)
	case *types.Exception:
		checkExceptionArgAndBase(t, d, log)
	case *types.Channel:
		checkElementType(t.Elem, d, log, "channel", false)
	case *types.List:
		checkElementType(t.Elem, d, log, "list", false)
	case *types.Vector:
		checkElementType(t.Elem, d, log, "vector", false)
	case *types.Set:
		checkElementType(t.Elem, d, log, "set", true)
	case *types.Map:
		checkElementType(t.Value, d, log, "map", false)
		checkElementType(t.Key, d, log, "map index", true)
	case *types.Reference:
		if !types.IsHeapType(t.Inner) {
			report(log, diag.VAL007, d, "reference type must refer to a heap type")
		}
	}
}

func checkIntegerWidth(t *types.Integer, n ast.Node, log *diag.Log) {
	switch t.Width {
	case 8, 16, 32, 64:
	default:
		report(log, diag.VAL008, n, "integer type's width must be 8, 16, 32, or 64")
	}
}

// checkOverlayFields has no dedicated code of its own in the
// registry; it is filed under VAL009, whose category ("field") spans
// overlay/struct/union/unit types even though that code's doc comment
// names only duplicate names specifically — see DESIGN.md.
func checkOverlayFields(t *types.Overlay, n ast.Node, log *diag.Log) {
	declaredBefore := map[string]bool{}
	for _, f := range t.Fields {
		hasOffset := f.StartOffset != nil
		hasField := f.StartField != ""
		if hasOffset == hasField {
			report(log, diag.VAL009, n, "field must specify exactly one of start-offset or start-field: "+f.Name)
		}
		if hasField && !declaredBefore[f.StartField] {
			report(log, diag.VAL009, n, "dependent field must be defined first: "+f.Name)
		}
		if !f.Type.Traits().Has(types.Unpackable) {
			report(log, diag.VAL007, n, "field type does not support unpacking: "+f.Name)
		}
		declaredBefore[f.Name] = true
	}
}

func checkStructFields(t *types.Struct, n ast.Node, log *diag.Log) {
	seen := map[string]bool{}
	for _, f := range t.Fields {
		if f.Name == "" {
			report(log, diag.VAL009, n, "struct has field without ID")
			continue
		}
		if seen[f.Name] {
			report(log, diag.VAL009, n, "duplicate field name in struct: "+f.Name)
			continue
		}
		seen[f.Name] = true
		if f.Type == nil {
			report(log, diag.VAL009, n, "struct has field without type: "+f.Name)
			continue
		}
		if !f.Type.Traits().Has(types.ValueType) {
			report(log, diag.VAL007, n, "struct fields must be of value type: "+f.Name)
		}
		// Default is carried as fmt.Stringer rather than a typed
		// ast.Expr (see internal/types ledger entry), so the
		// coercion check the original performs against the field
		// type can't be re-verified here; the builder is responsible
		// for only ever installing an already-coerced default (see
		// internal/ir's struct-field handling).
	}
}

func checkExceptionArgAndBase(t *types.Exception, n ast.Node, log *diag.Log) {
	if t.Arg != nil && !t.Arg.Traits().Has(types.ValueType) {
		report(log, diag.VAL006, n, "exception argument type must be of value type")
	}
	if t.Base == nil {
		return
	}
	switch {
	case t.Arg == nil && t.Base.Arg == nil:
	case t.Arg == nil && t.Base.Arg != nil:
		report(log, diag.VAL006, n, "exception type must have same argument type as its parent, which has "+t.Base.Arg.String())
	case t.Arg != nil && t.Base.Arg == nil:
		report(log, diag.VAL006, n, "exception type must not have an argument type because its parent type does not either")
	case !t.Arg.Equal(t.Base.Arg):
		report(log, diag.VAL006, n, "exception type must have same argument type as its parent type, which has "+t.Base.Arg.String())
	}
}

func checkElementType(elem types.Type, n ast.Node, log *diag.Log, what string, hashable bool) {
	if elem == nil {
		report(log, diag.VAL007, n, "no type for "+what+" elements given")
		return
	}
	if !elem.Traits().Has(types.ValueType) {
		report(log, diag.VAL007, n, what+" elements must be of value type")
	}
	if hashable && !elem.Traits().Has(types.Hashable) {
		report(log, diag.VAL007, n, what+" elements must be of hashable type")
	}
}

// breakExceptionCycles walks every TypeDecl of a *types.Exception in
// root, detects inheritance cycles via the Base chain, reports a
// single VAL006 per cycle, and then clears Base on every link of the
// cycle so the AST remains printable afterward (supplemented feature:
// exception-cycle repair-before-abort).
func breakExceptionCycles(root ast.Node, log *diag.Log) {
	var excs []*ast.TypeDecl
	ast.Walk(root, func(n ast.Node) {
		if d, ok := n.(*ast.TypeDecl); ok {
			if _, ok := d.Typ.(*types.Exception); ok {
				excs = append(excs, d)
			}
		}
	})

	byType := map[*types.Exception]*ast.TypeDecl{}
	for _, d := range excs {
		byType[d.Typ.(*types.Exception)] = d
	}

	seenGlobal := map[*types.Exception]bool{}
	for _, d := range excs {
		exc := d.Typ.(*types.Exception)
		if seenGlobal[exc] {
			continue
		}
		path := map[*types.Exception]bool{}
		cur := exc
		for cur != nil {
			if path[cur] {
				report(log, diag.VAL006, byType[exc], "circular exception inheritance")
				breakCycleAt(cur)
				break
			}
			path[cur] = true
			seenGlobal[cur] = true
			cur = cur.Base
		}
	}
}

// breakCycleAt clears Base along the cycle starting and ending at
// start, so no Exception type in the chain still points into the
// cycle once this returns.
func breakCycleAt(start *types.Exception) {
	cur := start
	for {
		next := cur.Base
		cur.Base = nil
		if next == start || next == nil {
			break
		}
		cur = next
	}
}
