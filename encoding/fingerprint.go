package encoding

import (
	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/endian"
	"github.com/arloliu/clvm/internal/hash"
)

const (
	atomDomain byte = 0x01
	pairDomain byte = 0x02
)

// Fingerprinter computes structural xxHash64 fingerprints of nodes in one
// arena. Results are memoised per handle, so fingerprinting many trees that
// share subtrees touches each distinct node once.
//
// Structurally equal trees have equal fingerprints regardless of sharing,
// across arenas. The fingerprint is not a cryptographic hash.
type Fingerprinter struct {
	arena *arena.Arena
	memo  map[arena.NodePtr]uint64
	le    endian.EndianEngine
	buf   []byte
}

// NewFingerprinter creates a fingerprinter bound to a.
func NewFingerprinter(a *arena.Arena) *Fingerprinter {
	return &Fingerprinter{
		arena: a,
		memo:  make(map[arena.NodePtr]uint64),
		le:    endian.GetLittleEndianEngine(),
		buf:   make([]byte, 0, 17),
	}
}

// Fingerprint returns the fingerprint of the tree rooted at n.
func Fingerprint(a *arena.Arena, n arena.NodePtr) uint64 {
	return NewFingerprinter(a).Sum(n)
}

// Sum returns the fingerprint of the tree rooted at n.
func (f *Fingerprinter) Sum(n arena.NodePtr) uint64 {
	if h, ok := f.memo[n]; ok {
		return h
	}

	stack := []sizeFrame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, ok := f.memo[top.node]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		first, rest, isPair := f.arena.Pair(top.node)
		if !isPair {
			f.memo[top.node] = f.atomSum(top.node)
			stack = stack[:len(stack)-1]

			continue
		}

		if !top.expanded {
			top.expanded = true
			stack = append(stack, sizeFrame{node: rest}, sizeFrame{node: first})

			continue
		}

		f.buf = append(f.buf[:0], pairDomain)
		f.buf = f.le.AppendUint64(f.buf, f.memo[first])
		f.buf = f.le.AppendUint64(f.buf, f.memo[rest])
		f.memo[top.node] = hash.Sum64(f.buf)
		stack = stack[:len(stack)-1]
	}

	return f.memo[n]
}

func (f *Fingerprinter) atomSum(n arena.NodePtr) uint64 {
	atom, _ := f.arena.Atom(n)

	d := hash.NewDigest()
	_, _ = d.Write([]byte{atomDomain})
	_, _ = d.Write(atom)

	return d.Sum64()
}
