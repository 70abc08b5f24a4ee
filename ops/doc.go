// Package ops implements the arithmetic and bitwise opcodes.
//
// Every opcode has the Op signature: it reads its operands from an argument
// list in an arena, interprets each atom as a big-endian two's-complement
// integer, and returns the result node together with the cost it consumed.
// Results are stored in canonical form.
//
//	a := arena.New()
//	args, _ := a.NewNumberList([]byte{0xf9}, []byte{0x02}) // (-7 2)
//	r, err := ops.Div(a, args, ops.DefaultMaxCost)         // -4
//
// # Cost
//
// Costs grow with operand byte length and never decrease with it. An opcode
// checks its running cost against maxCost before each expensive step and
// fails with errs.ErrCostExceeded as soon as the budget is passed, so a call
// overshoots by at most one step. The cost of the result atom is charged at
// MallocCostPerByte.
//
// # Errors
//
// Every failure is an *EvalError naming the opcode and the offending node.
// It unwraps to the errs sentinel, so errors.Is(err, errs.ErrCostExceeded)
// distinguishes an exhausted budget from invalid operands.
//
// # Dispatch
//
// Lookup and LookupName map wire opcodes and names to implementations.
// A Dispatcher runs an opcode given its atom and logs failures at debug level.
package ops
