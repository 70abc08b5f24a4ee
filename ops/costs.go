package ops

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
)

// Cost is an abstract unit of work. Budgets and charges are both Costs.
type Cost = uint64

// DefaultMaxCost is the budget used when none is configured.
const DefaultMaxCost Cost = 11_000_000_000

// Cost table. Base costs are charged once per call, per-arg costs once per
// argument and per-byte costs per byte of operand atoms.
const (
	ArithBaseCost    Cost = 99
	ArithCostPerArg  Cost = 320
	ArithCostPerByte Cost = 3

	MulBaseCost                 Cost = 92
	MulCostPerOp                Cost = 885
	MulLinearCostPerByte        Cost = 6
	MulSquareCostPerByteDivider Cost = 128
	GrBaseCost                  Cost = 498
	GrCostPerByte               Cost = 2
	DivModBaseCost              Cost = 1116
	DivModCostPerByte           Cost = 6
	DivBaseCost                 Cost = 988
	DivCostPerByte              Cost = 4
	ModBaseCost                 Cost = 988
	ModCostPerByte              Cost = 4
	LogBaseCost                 Cost = 100
	LogCostPerArg               Cost = 264
	LogCostPerByte              Cost = 3
	LogNotBaseCost              Cost = 331
	LogNotCostPerByte           Cost = 3
	AshiftBaseCost              Cost = 596
	AshiftCostPerByte           Cost = 3
	LshiftBaseCost              Cost = 277
	LshiftCostPerByte           Cost = 3
	ModPowBaseCost              Cost = 17000
	ModPowCostPerByteBaseValue  Cost = 38
	ModPowCostPerByteExponent   Cost = 3
	ModPowCostPerByteModulus    Cost = 21
	MallocCostPerByte           Cost = 10
)

// Reduction is the outcome of a successful opcode call.
type Reduction struct {
	Cost Cost
	Node arena.NodePtr
}

func checkCost(cost, maxCost Cost) error {
	if cost > maxCost {
		return fmt.Errorf("cost %d over budget %d: %w", cost, maxCost, errs.ErrCostExceeded)
	}

	return nil
}

// mallocCost charges for the bytes of a freshly allocated result atom.
func mallocCost(a *arena.Arena, cost Cost, n arena.NodePtr) Cost {
	size, _ := a.AtomLen(n)
	return addCost(cost, mulCost(Cost(size), MallocCostPerByte))
}

func addCost(x, y Cost) Cost {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	return sum
}

func mulCost(x, y Cost) Cost {
	hi, lo := bits.Mul64(x, y)
	if hi != 0 {
		return math.MaxUint64
	}

	return lo
}
