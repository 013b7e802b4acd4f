package instr

import (
	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/types"
)

func wild() types.Type { return &types.Any{} }

func intT() types.Type { return &types.Integer{Width: 64, Signed: true} }

// StdOverloads populates r with a representative slice of the closed
// IR instruction set's opcodes, namespaced the way the source's
// instruction families are (integer.*, bytes.*, flow.*, assign). Like
// internal/operator's StdSignatures, this is not the source's full
// opcode table (several hundred opcodes across
// hilti/codegen/instructions/*.cc) but enough of each family to
// exercise the resolver, CFG, and liveness passes end to end. See
// DESIGN.md.
func StdOverloads(r *Registry) {
	r.Add(&Overload{Name: "integer.add", Op: "integer.add", Target: wild(), Operand: []types.Type{wild(), wild()}, Doc: "integer addition"})
	r.Add(&Overload{Name: "integer.sub", Op: "integer.sub", Target: wild(), Operand: []types.Type{wild(), wild()}, Doc: "integer subtraction"})
	r.Add(&Overload{Name: "integer.incr", Op: "integer.incr", Target: wild(), Operand: []types.Type{wild()}, Doc: "increment in place"})
	r.Add(&Overload{Name: "integer.eq", Op: "integer.eq", Target: &types.Bool{}, Operand: []types.Type{wild(), wild()}, Doc: "integer equality"})

	r.Add(&Overload{Name: "bytes.length", Op: "bytes.length", Target: &types.Integer{Width: 64, Signed: false}, Operand: []types.Type{&types.Bytes{}}, Doc: "byte length"})
	r.Add(&Overload{Name: "bytes.sub", Op: "bytes.sub", Target: &types.Bytes{}, Operand: []types.Type{&types.Bytes{}, intT(), intT()}, Doc: "byte sub-range"})

	r.Add(&Overload{
		Name: "flow.jump", Op: "flow.jump", Operand: []types.Type{wild()},
		Terminator: true,
		Flow: func(i *ast.Instruction) FlowInfo {
			fi := FlowInfo{Read: i.Operands()}
			if be, ok := i.Op1.(*ast.BlockExpr); ok {
				fi.Successors = []*ast.Block{be.Blk}
			}
			return fi
		},
		Doc: "unconditional jump to a named block",
	})
	r.Add(&Overload{Name: "flow.return_result", Op: "flow.return_result", Operand: []types.Type{wild()}, Terminator: true, Doc: "return a value from the enclosing function"})
	r.Add(&Overload{Name: "flow.return_void", Op: "flow.return_void", Terminator: true, Doc: "return from the enclosing function without a value"})
	r.Add(&Overload{Name: "flow.call", Op: "flow.call", Target: wild(), Operand: []types.Type{wild(), wild()}, Doc: "call a function"})
	r.Add(&Overload{
		Name: "flow.switch", Op: "flow.switch", Operand: []types.Type{wild(), wild()},
		Terminator: true,
		Flow: func(i *ast.Instruction) FlowInfo {
			fi := FlowInfo{Read: i.Operands()}
			if be, ok := i.Op1.(*ast.BlockExpr); ok {
				fi.Successors = append(fi.Successors, be.Blk)
			}
			if sw, ok := i.Op2.(*ast.SwitchTargetsExpr); ok {
				fi.Successors = append(fi.Successors, sw.Blocks()...)
			}
			return fi
		},
		Doc: "multi-way branch to one of several named blocks",
	})

	r.Add(&Overload{Name: "classifier.add", Op: "classifier.add", Operand: []types.Type{wild(), wild(), wild()}, Doc: "add a classification rule"})
	r.Add(&Overload{Name: "classifier.matches", Op: "classifier.matches", Target: &types.Bool{}, Operand: []types.Type{wild(), wild()}, Doc: "test a classifier match"})

	r.Add(&Overload{Name: "list.push_back", Op: "list.push_back", Operand: []types.Type{wild(), wild()}, Doc: "append to a list"})
	r.Add(&Overload{Name: "list.pop_front", Op: "list.pop_front", Target: wild(), Operand: []types.Type{wild()}, Doc: "pop the front element"})

	r.Add(&Overload{Name: "map.insert", Op: "map.insert", Operand: []types.Type{wild(), wild(), wild()}, Doc: "insert a key/value pair"})
	r.Add(&Overload{Name: "map.exists", Op: "map.exists", Target: &types.Bool{}, Operand: []types.Type{wild(), wild()}, Doc: "test key membership"})

	r.Add(&Overload{Name: "exception.throw", Op: "exception.throw", Operand: []types.Type{wild()}, Terminator: true, Doc: "raise an exception"})

	r.Add(&Overload{Name: "regexp.match_token", Op: "regexp.match_token", Target: intT(), Operand: []types.Type{wild(), wild()}, Doc: "match against a compiled token set"})

	r.Add(&Overload{Name: "hook.run", Op: "hook.run", Operand: []types.Type{wild(), wild()}, Doc: "run a hook chain"})

	r.Add(&Overload{Name: "debug.print", Op: "debug.print", Operand: []types.Type{wild()}, Doc: "emit a debug trace line"})

	// assign is the resolver's fallback target (spec §4.3, grounded on
	// hilti/passes/instruction-resolver.cc's processInstruction) as well
	// as an ordinary, directly nameable instruction.
	r.Add(&Overload{
		Name: "assign", Op: "assign", Target: wild(), Operand: []types.Type{wild()},
		Flow: func(i *ast.Instruction) FlowInfo {
			return FlowInfo{Read: i.Operands(), Modified: targetSlice(i.Target)}
		},
		Doc: "assign a value to the target",
	})
}
