package ast

// OperatorKind enumerates the operator families the operator registry
// and coercer dispatch over. Declared in this package (rather than in
// package operator) because both UnresolvedOperator and ResolvedOperator
// expression nodes need to carry a kind without creating an import cycle
// between ast and operator.
type OperatorKind int

const (
	Equal OperatorKind = iota
	Unequal
	Add
	Sub
	Mul
	Div
	Mod
	Power
	LowerEqual
	GreaterEqual
	LowerThan
	GreaterThan
	BitAnd
	BitOr
	BitXor
	Shift
	Plus  // unary +
	Minus // unary -
	Not   // unary !
	And   // logical &&
	Or    // logical ||
	Size
	Begin
	End
	Deref
	Ref
	New
	Call
	MethodCall
	Coerce
	Cast
	Index
	IndexAssign
	Attribute
	AttributeAssign
	HasAttribute
	In
	Assign
)

var operatorKindNames = map[OperatorKind]string{
	Equal: "equal", Unequal: "unequal", Add: "add", Sub: "sub", Mul: "mul",
	Div: "div", Mod: "mod", Power: "power", LowerEqual: "lower_equal",
	GreaterEqual: "greater_equal", LowerThan: "lower_than", GreaterThan: "greater_than",
	BitAnd: "bit_and", BitOr: "bit_or", BitXor: "bit_xor", Shift: "shift",
	Plus: "plus", Minus: "minus", Not: "not", And: "and", Or: "or",
	Size: "size", Begin: "begin", End: "end", Deref: "deref", Ref: "ref",
	New: "new", Call: "call", MethodCall: "method_call", Coerce: "coerce",
	Cast: "cast", Index: "index", IndexAssign: "index_assign",
	Attribute: "attribute", AttributeAssign: "attribute_assign",
	HasAttribute: "has_attribute", In: "in", Assign: "assign",
}

func (k OperatorKind) String() string {
	if s, ok := operatorKindNames[k]; ok {
		return s
	}
	return "unknown_operator"
}

// IsCommutative reports whether the matcher should retry with swapped
// operands when no candidate matches in the original order (spec §4.2
// step 3, BINARY_COMMUTATIVE kinds).
func (k OperatorKind) IsCommutative() bool {
	switch k {
	case Equal, Unequal, Add, Mul, BitAnd, BitOr, BitXor, And, Or:
		return true
	default:
		return false
	}
}
