package ops

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/arloliu/clvm/arena"
	"github.com/stretchr/testify/require"
)

const testMaxCost Cost = 6_000_000_000

// numArgs builds the argument list of canonical numbers vals.
func numArgs(t testing.TB, a *arena.Arena, vals ...int64) arena.NodePtr {
	t.Helper()

	items := make([]arena.NodePtr, len(vals))
	for i, v := range vals {
		n, err := a.NewNumber(big.NewInt(v))
		require.NoError(t, err)
		items[i] = n
	}

	return a.NewList(items...)
}

// rawArgs builds the argument list of atoms with exactly the given bytes.
func rawArgs(t testing.TB, a *arena.Arena, raw ...[]byte) arena.NodePtr {
	t.Helper()

	args, err := a.NewNumberList(raw...)
	require.NoError(t, err)

	return args
}

func number(t testing.TB, a *arena.Arena, n arena.NodePtr) *big.Int {
	t.Helper()

	v, err := a.Number(n)
	require.NoError(t, err)

	return v
}

// randomOperand returns random atom bytes, possibly non-canonical, of up to maxLen bytes.
func randomOperand(rng *rand.Rand, maxLen int) []byte {
	b := make([]byte, rng.Intn(maxLen+1))
	rng.Read(b)

	// Bias toward small magnitudes and redundant sign bytes.
	switch rng.Intn(4) {
	case 0:
		if len(b) > 0 {
			b[0] = 0x00
		}
	case 1:
		if len(b) > 0 {
			b[0] = 0xff
		}
	}

	return b
}
