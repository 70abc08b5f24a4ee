package ops

import (
	"fmt"
	"math"
	"math/big"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
)

// MaxShift bounds the magnitude of an ash or lsh shift amount.
const MaxShift = 65535

// LogAnd returns the bitwise and of its arguments; no arguments give -1.
func LogAnd(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return bitwiseFold(a, "logand", args, maxCost, big.NewInt(-1), (*big.Int).And)
}

// LogIor returns the bitwise or of its arguments; no arguments give 0.
func LogIor(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return bitwiseFold(a, "logior", args, maxCost, new(big.Int), (*big.Int).Or)
}

// LogXor returns the bitwise exclusive or of its arguments; no arguments give 0.
func LogXor(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return bitwiseFold(a, "logxor", args, maxCost, new(big.Int), (*big.Int).Xor)
}

// bitwiseFold combines the arguments left to right. big.Int bitwise operations
// act on the infinite two's-complement form, which sign-extends both operands
// to a common length.
func bitwiseFold(
	a *arena.Arena,
	op string,
	args arena.NodePtr,
	maxCost Cost,
	total *big.Int,
	combine func(z, x, y *big.Int) *big.Int,
) (Reduction, error) {
	items, err := listArgs(a, op, args)
	if err != nil {
		return Reduction{}, err
	}

	cost := LogBaseCost
	var argSize Cost
	for _, item := range items {
		v, err := intArg(a, op, item)
		if err != nil {
			return Reduction{}, err
		}
		argSize = addCost(argSize, Cost(v.size))
		cost = addCost(cost, LogCostPerArg)
		if err := checkCost(addCost(cost, mulCost(argSize, LogCostPerByte)), maxCost); err != nil {
			return fail(op, args, err)
		}

		combine(total, total, v.val)
	}
	cost = addCost(cost, mulCost(argSize, LogCostPerByte))

	return result(a, op, cost, maxCost, total)
}

// LogNot returns the bitwise complement of its argument, -x-1.
func LogNot(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "lognot"

	items, err := fixedArgs(a, op, args, 1)
	if err != nil {
		return Reduction{}, err
	}
	x, err := intArg(a, op, items[0])
	if err != nil {
		return Reduction{}, err
	}

	cost := addCost(LogNotBaseCost, mulCost(Cost(x.size), LogNotCostPerByte))
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	return result(a, op, cost, maxCost, new(big.Int).Not(x.val))
}

// Ash shifts its signed first argument left by the second, or right when the
// second is negative. Right shifts round toward negative infinity.
func Ash(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return shift(a, "ash", args, maxCost, AshiftBaseCost, AshiftCostPerByte, intArg)
}

// Lsh shifts like Ash, but first reads the bytes of its first argument as an
// unsigned magnitude, so 0xFF is 255 rather than -1.
func Lsh(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	return shift(a, "lsh", args, maxCost, LshiftBaseCost, LshiftCostPerByte, uintArg)
}

func shift(
	a *arena.Arena,
	op string,
	args arena.NodePtr,
	maxCost Cost,
	baseCost, perByte Cost,
	decode func(*arena.Arena, string, arena.NodePtr) (operand, error),
) (Reduction, error) {
	items, err := fixedArgs(a, op, args, 2)
	if err != nil {
		return Reduction{}, err
	}
	x, err := decode(a, op, items[0])
	if err != nil {
		return Reduction{}, err
	}
	amount, err := intArg(a, op, items[1])
	if err != nil {
		return Reduction{}, err
	}

	s, err := shiftAmount(amount.val)
	if err != nil {
		return fail(op, amount.node, err)
	}

	cost := addCost(baseCost, mulCost(Cost(x.size+amount.size), perByte))
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	v := new(big.Int)
	if s > 0 {
		v.Lsh(x.val, uint(s))
	} else {
		v.Rsh(x.val, uint(-s))
	}

	return result(a, op, cost, maxCost, v)
}

// shiftAmount requires v to fit an int32 and lie within [-MaxShift, MaxShift].
func shiftAmount(v *big.Int) (int, error) {
	if !v.IsInt64() || v.Int64() < math.MinInt32 || v.Int64() > math.MaxInt32 {
		return 0, fmt.Errorf("shift amount %s does not fit 32 bits: %w", v, errs.ErrInvalidShiftAmount)
	}

	s := v.Int64()
	if s < -MaxShift || s > MaxShift {
		return 0, fmt.Errorf("shift amount %d out of [-%d, %d]: %w", s, MaxShift, MaxShift, errs.ErrInvalidShiftAmount)
	}

	return int(s), nil
}
