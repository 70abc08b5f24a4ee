package ops

import (
	"math/big"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
)

// Add returns the sum of its arguments; no arguments sum to 0.
func Add(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return addSub(a, "+", args, maxCost, false)
}

// Subtract returns the first argument minus each of the others, or 0 without arguments.
func Subtract(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return addSub(a, "-", args, maxCost, true)
}

func addSub(a *arena.Arena, op string, args arena.NodePtr, maxCost Cost, subtract bool) (Reduction, error) {
	items, err := listArgs(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := ArithBaseCost
	var byteCount Cost
	total := new(big.Int)
	for i, item := range items {
		cost = addCost(cost, ArithCostPerArg)
		if err := checkCost(addCost(cost, mulCost(byteCount, ArithCostPerByte)), maxCost); err != nil {
			return fail(op, args, err)
		}

		v, err := intArg(a, op, item)
		if err != nil {
			return Reduction{}, err
		}
		byteCount = addCost(byteCount, Cost(v.size))

		if subtract && i > 0 {
			total.Sub(total, v.val)
		} else {
			total.Add(total, v.val)
		}
	}
	cost = addCost(cost, mulCost(byteCount, ArithCostPerByte))

	return result(a, op, cost, maxCost, total)
}

// Multiply returns the product of its arguments; no arguments multiply to 1.
//
// Each multiplication is charged on the byte lengths of both factors, with a
// quadratic term, before it is carried out.
func Multiply(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "*"

	items, err := listArgs(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := MulBaseCost
	if len(items) == 0 {
		return result(a, op, cost, maxCost, big.NewInt(1))
	}

	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}
	first, err := intArg(a, op, items[0])
	if err != nil {
		return Reduction{}, err
	}
	total := first.val
	l0 := Cost(first.size)

	for _, item := range items[1:] {
		v, err := intArg(a, op, item)
		if err != nil {
			return Reduction{}, err
		}
		l1 := Cost(v.size)

		cost = addCost(cost, MulCostPerOp)
		cost = addCost(cost, mulCost(addCost(l0, l1), MulLinearCostPerByte))
		cost = addCost(cost, mulCost(l0, l1)/MulSquareCostPerByteDivider)
		if err := checkCost(cost, maxCost); err != nil {
			return fail(op, args, err)
		}

		total.Mul(total, v.val)
		l0 = Cost(arena.NumberLen(total))
	}

	return result(a, op, cost, maxCost, total)
}

// Gr returns 1 when its first argument is greater than its second, Nil otherwise.
func Gr(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = ">"

	x, y, err := twoInts(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := addCost(GrBaseCost, mulCost(Cost(x.size+y.size), GrCostPerByte))
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	if x.val.Cmp(y.val) > 0 {
		return Reduction{Cost: cost, Node: a.One()}, nil
	}

	return Reduction{Cost: cost, Node: arena.Nil}, nil
}

// Div returns the floor quotient of its two arguments.
func Div(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "/"

	x, y, err := twoInts(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := addCost(DivBaseCost, mulCost(Cost(x.size+y.size), DivCostPerByte))
	if err := checkDivision(op, y, cost, maxCost); err != nil {
		return Reduction{}, err
	}

	q, _ := floorDivMod(x.val, y.val)

	return result(a, op, cost, maxCost, q)
}

// Mod returns the floor remainder of its two arguments; a non-zero result has
// the sign of the divisor.
func Mod(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "%"

	x, y, err := twoInts(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := addCost(ModBaseCost, mulCost(Cost(x.size+y.size), ModCostPerByte))
	if err := checkDivision(op, y, cost, maxCost); err != nil {
		return Reduction{}, err
	}

	_, r := floorDivMod(x.val, y.val)

	return result(a, op, cost, maxCost, r)
}

// DivMod returns the pair (quotient . remainder) of floor division.
func DivMod(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "divmod"

	x, y, err := twoInts(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := addCost(DivModBaseCost, mulCost(Cost(x.size+y.size), DivModCostPerByte))
	if err := checkDivision(op, y, cost, maxCost); err != nil {
		return Reduction{}, err
	}

	q, r := floorDivMod(x.val, y.val)
	qn, err := a.NewNumber(q)
	if err != nil {
		return fail(op, arena.Nil, err)
	}
	rn, err := a.NewNumber(r)
	if err != nil {
		return fail(op, arena.Nil, err)
	}

	cost = mallocCost(a, mallocCost(a, cost, qn), rn)
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	return Reduction{Cost: cost, Node: a.NewPair(qn, rn)}, nil
}

func twoInts(a *arena.Arena, op string, args arena.NodePtr) (operand, operand, error) {
	items, err := fixedArgs(a, op, args, 2)
	if err != nil {
		return operand{}, operand{}, err
	}
	vals, err := intArgs(a, op, items)
	if err != nil {
		return operand{}, operand{}, err
	}

	return vals[0], vals[1], nil
}

func checkDivision(op string, divisor operand, cost, maxCost Cost) error {
	if err := checkCost(cost, maxCost); err != nil {
		return &EvalError{Op: op, Node: divisor.node, Err: err}
	}
	if divisor.val.Sign() == 0 {
		return &EvalError{Op: op, Node: divisor.node, Err: errs.ErrDivisionByZero}
	}

	return nil
}

// floorDivMod divides rounding the quotient toward negative infinity.
// y must not be zero.
func floorDivMod(x, y *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && r.Sign() != y.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}

	return q, r
}
