package ops

import (
	"fmt"
	"math/big"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
)

// operand is an argument decoded as a signed integer, together with the
// length of its atom, which is what costs are charged on.
type operand struct {
	node arena.NodePtr
	val  *big.Int
	size int
}

// listArgs returns the items of the argument list args.
func listArgs(a *arena.Arena, op string, args arena.NodePtr) ([]arena.NodePtr, error) {
	items, err := a.ListItems(args)
	if err != nil {
		return nil, &EvalError{Op: op, Node: args, Err: err}
	}

	return items, nil
}

// fixedArgs returns the items of args, which must number exactly n.
func fixedArgs(a *arena.Arena, op string, args arena.NodePtr, n int) ([]arena.NodePtr, error) {
	items, err := listArgs(a, op, args)
	if err != nil {
		return nil, err
	}
	if len(items) != n {
		return nil, &EvalError{
			Op:   op,
			Node: args,
			Err:  fmt.Errorf("takes exactly %d argument(s), got %d: %w", n, len(items), errs.ErrArity),
		}
	}

	return items, nil
}

// intArg decodes n as a signed integer.
func intArg(a *arena.Arena, op string, n arena.NodePtr) (operand, error) {
	v, err := a.Number(n)
	if err != nil {
		return operand{}, &EvalError{Op: op, Node: n, Err: fmt.Errorf("requires int args: %w", err)}
	}
	size, _ := a.AtomLen(n)

	return operand{node: n, val: v, size: size}, nil
}

// uintArg decodes n as an unsigned magnitude.
func uintArg(a *arena.Arena, op string, n arena.NodePtr) (operand, error) {
	b, err := a.Atom(n)
	if err != nil {
		return operand{}, &EvalError{Op: op, Node: n, Err: fmt.Errorf("requires int args: %w", err)}
	}

	return operand{node: n, val: arena.UnsignedFromBytes(b), size: len(b)}, nil
}

// intArgs decodes every item of items.
func intArgs(a *arena.Arena, op string, items []arena.NodePtr) ([]operand, error) {
	out := make([]operand, len(items))
	for i, n := range items {
		v, err := intArg(a, op, n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// result stores v and charges for its bytes.
func result(a *arena.Arena, op string, cost, maxCost Cost, v *big.Int) (Reduction, error) {
	n, err := a.NewNumber(v)
	if err != nil {
		return fail(op, arena.Nil, err)
	}

	cost = mallocCost(a, cost, n)
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, n, err)
	}

	return Reduction{Cost: cost, Node: n}, nil
}
