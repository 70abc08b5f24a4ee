package ops

import (
	"math/big"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/holiman/uint256"
)

// ModPow returns base^exponent mod modulus. The result takes the sign of the
// modulus, as with Mod.
//
// A zero modulus or a negative exponent fails with
// errs.ErrInvalidModpowPrecondition; both are checked before any
// exponentiation is attempted. Exponent and modulus are charged quadratically
// in their byte length.
func ModPow(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	const op = "modpow"

	items, err := fixedArgs(a, op, args, 3)
	if err != nil {
		return Reduction{}, err
	}

	cost := ModPowBaseCost
	base, err := intArg(a, op, items[0])
	if err != nil {
		return Reduction{}, err
	}
	cost = addCost(cost, mulCost(Cost(base.size), ModPowCostPerByteBaseValue))

	exp, err := intArg(a, op, items[1])
	if err != nil {
		return Reduction{}, err
	}
	esize := Cost(exp.size)
	cost = addCost(cost, mulCost(mulCost(esize, esize), ModPowCostPerByteExponent))
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	mod, err := intArg(a, op, items[2])
	if err != nil {
		return Reduction{}, err
	}
	msize := Cost(mod.size)
	cost = addCost(cost, mulCost(mulCost(msize, msize), ModPowCostPerByteModulus))
	if err := checkCost(cost, maxCost); err != nil {
		return fail(op, args, err)
	}

	if exp.val.Sign() < 0 {
		return fail(op, exp.node, errs.ErrInvalidModpowPrecondition)
	}
	if mod.val.Sign() == 0 {
		return fail(op, mod.node, errs.ErrInvalidModpowPrecondition)
	}

	return result(a, op, cost, maxCost, modPow(base.val, exp.val, mod.val))
}

// modPow requires exp >= 0 and m != 0.
func modPow(base, exp, m *big.Int) *big.Int {
	if r, ok := modPow256(base, exp, m); ok {
		return r
	}

	abs := new(big.Int).Abs(m)
	if abs.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int)
	}

	// Exp reduces into [0, |m|) whatever the sign of base.
	r := new(big.Int).Exp(base, exp, abs)
	if m.Sign() < 0 && r.Sign() != 0 {
		r.Add(r, m)
	}

	return r
}

// modPow256 handles a non-negative base and a positive modulus that both fit
// 256 bits with fixed-width arithmetic.
func modPow256(base, exp, m *big.Int) (*big.Int, bool) {
	if base.Sign() < 0 || m.Sign() <= 0 || base.BitLen() > 256 || m.BitLen() > 256 {
		return nil, false
	}

	mod, overflow := uint256.FromBig(m)
	if overflow {
		return nil, false
	}
	b, overflow := uint256.FromBig(base)
	if overflow {
		return nil, false
	}

	res := new(uint256.Int).SetUint64(1)
	res.Mod(res, mod)
	b.Mod(b, mod)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		res.MulMod(res, res, mod)
		if exp.Bit(i) == 1 {
			res.MulMod(res, b, mod)
		}
	}

	return res.ToBig(), true
}
