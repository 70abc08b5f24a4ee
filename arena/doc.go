// Package arena provides the node store that every other clvm package works on.
//
// An Arena owns atoms (immutable byte strings) and pairs (first, rest cells).
// Callers hold NodePtr handles into it. Nil and small non-negative integers are
// interned inside the handle itself, so two handles for the integer 5 are equal
// as values; every other atom and every pair gets a fresh handle.
//
// # Numbers
//
// Atoms double as signed integers in big-endian two's complement. Reading is
// permissive: Number accepts redundant sign-extension bytes. Writing is strict:
// NewNumber always stores the canonical minimal encoding, with 0 as the empty atom.
//
//	a := arena.New()
//	n, _ := a.NewNumber(big.NewInt(-129))  // stored as ff 7f
//	v, _ := a.Number(n)                    // -129
//
// # Lifecycle
//
// Create one arena per unit of work (a decode, an opcode evaluation, a benchmark
// iteration) and drop it afterwards. Arenas never free nodes and are not safe for
// concurrent use; parallel work uses one arena per goroutine.
package arena
