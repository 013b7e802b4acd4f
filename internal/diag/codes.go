package diag

// Error code constants, organized by compiler phase. Each constant names
// a specific, structurally reportable condition raised by one of the
// pipeline's passes.
const (
	// ------------------------------------------------------------
	// Scope-building errors (SCP###)
	// ------------------------------------------------------------

	// SCP001 indicates a duplicate declaration of the same unqualified
	// name in one scope (not raised for hooks, which may be multiply
	// declared).
	SCP001 = "SCP001"
	// SCP002 indicates a declaration shadowing an import alias.
	SCP002 = "SCP002"
	// SCP003 indicates an export statement naming an undeclared id.
	SCP003 = "SCP003"

	// ------------------------------------------------------------
	// ID/type resolution errors (RES###)
	// ------------------------------------------------------------

	// RES001 indicates an identifier with no scope binding.
	RES001 = "RES001"
	// RES002 indicates an identifier with more than one non-hook
	// binding (ambiguous reference).
	RES002 = "RES002"
	// RES003 indicates a type name (types.Unknown/types.TypeByName)
	// with no scope binding, or one not resolving to a type
	// declaration.
	RES003 = "RES003"
	// RES004 indicates an import naming a module that cannot be found
	// by the module loader.
	RES004 = "RES004"

	// ------------------------------------------------------------
	// Operator matching errors (OPR###)
	// ------------------------------------------------------------

	// OPR001 indicates no operator signature matches the operand types,
	// even after the coercion-permitted and commutative-retry passes.
	OPR001 = "OPR001"
	// OPR002 indicates more than one operator signature matches
	// (ambiguous overload).
	OPR002 = "OPR002"
	// OPR003 indicates a coercion request with no valid Coerce operator
	// for the source/target type pair.
	OPR003 = "OPR003"

	// ------------------------------------------------------------
	// Instruction resolution errors (INS###)
	// ------------------------------------------------------------

	// INS001 indicates a registered instruction mnemonic none of whose
	// overloads matches the given target/operand types.
	INS001 = "INS001"
	// INS002 indicates more than one instruction overload matches.
	INS002 = "INS002"
	// INS003 indicates an instruction name that does not exist in the
	// registry at all (as opposed to existing but not matching operand
	// types).
	INS003 = "INS003"

	// ------------------------------------------------------------
	// IR-building errors (IRB###)
	// ------------------------------------------------------------

	// IRB001 indicates a builder stack-discipline violation (e.g.
	// PopBlock with no matching PushBlock).
	IRB001 = "IRB001"
	// IRB002 indicates a duplicate global/constant/type name within one
	// module, raised by the builder before the scope-builder would even
	// see it.
	IRB002 = "IRB002"

	// ------------------------------------------------------------
	// Validation errors (VAL###)
	// ------------------------------------------------------------

	// VAL001 indicates a module named Main (compared case-insensitively)
	// whose scope does not bind exactly one run function.
	VAL001 = "VAL001"
	// VAL002 indicates a function/hook type violating a calling
	// convention restriction (e.g. HILTI-CC with a tuple<*> parameter).
	VAL002 = "VAL002"
	// VAL003 indicates a variable declaration with an initializer whose
	// type does not match (even after coercion) the declared type.
	VAL003 = "VAL003"
	// VAL004 indicates a return statement mismatching its enclosing
	// function's result type.
	VAL004 = "VAL004"
	// VAL005 indicates inconsistent hook types across multiple HookDecl
	// for the same id.
	VAL005 = "VAL005"
	// VAL006 indicates an invalid exception type: a circular
	// inheritance chain (reported even though the validator then clears
	// the chain's base links), a non-value argument type, or an argument
	// type that differs from the parent's.
	VAL006 = "VAL006"
	// VAL007 indicates a container/iterator/reference element type
	// violating a required trait.
	VAL007 = "VAL007"
	// VAL008 indicates an integer type with an invalid bit width.
	VAL008 = "VAL008"
	// VAL009 indicates a duplicate field name within one
	// overlay/struct/union/unit type.
	VAL009 = "VAL009"
	// VAL010 indicates a thread.get_context/thread.set_context
	// instruction in a module that declares no execution context. No
	// caller/callee scope comparison for calls is performed.
	VAL010 = "VAL010"

	// ------------------------------------------------------------
	// CFG errors (CFG###)
	// ------------------------------------------------------------

	// CFG001 indicates the CFG pass was handed an unresolved
	// instruction (an internal-error condition: the resolver must run
	// to completion first).
	CFG001 = "CFG001"
	// CFG002 indicates an unbalanced exception-handler
	// begin/end marker pair.
	CFG002 = "CFG002"

	// ------------------------------------------------------------
	// Liveness errors (LIV###)
	// ------------------------------------------------------------

	// LIV001 indicates the liveness fixed-point failed to converge
	// within the pass's iteration cap (an internal-error condition).
	LIV001 = "LIV001"

	// ------------------------------------------------------------
	// Compiler-context / module-loading errors (CTX###)
	// ------------------------------------------------------------

	// CTX001 indicates a module file not found on any search path.
	CTX001 = "CTX001"
	// CTX002 indicates a circular import between modules.
	CTX002 = "CTX002"
	// CTX003 indicates a duplicate module definition (same canonical
	// name loaded from two different files).
	CTX003 = "CTX003"
	// CTX004 indicates a cache content-hash mismatch (stale cache
	// entry).
	CTX004 = "CTX004"
)

// ErrorInfo describes one error code's phase/category/human summary.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps every code above to its ErrorInfo.
var ErrorRegistry = map[string]ErrorInfo{
	SCP001: {SCP001, "scope", "namespace", "Duplicate declaration"},
	SCP002: {SCP002, "scope", "namespace", "Declaration shadows import alias"},
	SCP003: {SCP003, "scope", "export", "Export of undeclared identifier"},

	RES001: {RES001, "resolve", "scope", "Unbound identifier"},
	RES002: {RES002, "resolve", "scope", "Ambiguous identifier"},
	RES003: {RES003, "resolve", "type", "Unresolved type name"},
	RES004: {RES004, "resolve", "module", "Import not found"},

	OPR001: {OPR001, "operator", "overload", "No matching operator"},
	OPR002: {OPR002, "operator", "overload", "Ambiguous operator match"},
	OPR003: {OPR003, "operator", "coercion", "No coercion available"},

	INS001: {INS001, "instruction", "overload", "No matching instruction"},
	INS002: {INS002, "instruction", "overload", "Ambiguous instruction match"},
	INS003: {INS003, "instruction", "namespace", "Unknown instruction"},

	IRB001: {IRB001, "ir", "builder", "Builder stack discipline violation"},
	IRB002: {IRB002, "ir", "namespace", "Duplicate top-level name"},

	VAL001: {VAL001, "validate", "entry", "Missing Main::run"},
	VAL002: {VAL002, "validate", "signature", "Invalid calling convention"},
	VAL003: {VAL003, "validate", "type", "Initializer type mismatch"},
	VAL004: {VAL004, "validate", "type", "Return type mismatch"},
	VAL005: {VAL005, "validate", "hook", "Inconsistent hook signatures"},
	VAL006: {VAL006, "validate", "exception", "Invalid exception type"},
	VAL007: {VAL007, "validate", "trait", "Required trait not satisfied"},
	VAL008: {VAL008, "validate", "type", "Invalid integer width"},
	VAL009: {VAL009, "validate", "field", "Duplicate field name"},
	VAL010: {VAL010, "validate", "scope", "No execution context"},

	CFG001: {CFG001, "cfg", "internal", "Unresolved instruction reached CFG"},
	CFG002: {CFG002, "cfg", "exception", "Unbalanced exception handler markers"},

	LIV001: {LIV001, "liveness", "internal", "Fixed point did not converge"},

	CTX001: {CTX001, "context", "resolution", "Module not found"},
	CTX002: {CTX002, "context", "dependency", "Circular import"},
	CTX003: {CTX003, "context", "namespace", "Duplicate module"},
	CTX004: {CTX004, "context", "cache", "Cache content-hash mismatch"},
}

// GetErrorInfo looks up code's ErrorInfo.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := ErrorRegistry[code]
	return info, ok
}

// IsScopeError reports whether code belongs to the scope-building phase.
func IsScopeError(code string) bool { return phaseOf(code) == "scope" }

// IsResolveError reports whether code belongs to the id/type resolution
// phase.
func IsResolveError(code string) bool { return phaseOf(code) == "resolve" }

// IsOperatorError reports whether code belongs to the operator-matching
// phase.
func IsOperatorError(code string) bool { return phaseOf(code) == "operator" }

// IsInstructionError reports whether code belongs to the
// instruction-resolution phase.
func IsInstructionError(code string) bool { return phaseOf(code) == "instruction" }

// IsValidateError reports whether code belongs to the validation phase.
func IsValidateError(code string) bool { return phaseOf(code) == "validate" }

// IsContextError reports whether code belongs to module loading/linking.
func IsContextError(code string) bool { return phaseOf(code) == "context" }

func phaseOf(code string) string {
	info, ok := GetErrorInfo(code)
	if !ok {
		return ""
	}
	return info.Phase
}
