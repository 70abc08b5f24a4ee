package arena

import (
	"fmt"
	"math/big"

	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/internal/options"
)

// maxIndex is the number of pairs or heap atoms a single arena can address.
const maxIndex = MaxSmallAtom + 1

type atomSpan struct {
	start uint32
	end   uint32
}

type pairCell struct {
	first NodePtr
	rest  NodePtr
}

// Arena owns every atom and pair of one unit of work.
//
// The arena only grows: handles stay valid for the arena's lifetime and are
// never reused. An Arena is not safe for concurrent use; give each goroutine
// its own arena.
type Arena struct {
	heap      []byte
	atoms     []atomSpan
	pairs     []pairCell
	heapLimit int
}

// Option configures an Arena.
type Option = options.Option[*Arena]

// WithHeapLimit caps the total number of atom bytes the arena may hold.
// Zero means no limit.
func WithHeapLimit(limit int) Option {
	return options.New(func(a *Arena) error {
		if limit < 0 {
			return fmt.Errorf("heap limit must not be negative: %d", limit)
		}
		a.heapLimit = limit

		return nil
	})
}

// WithInitialCapacity preallocates room for the given number of pairs and heap bytes.
func WithInitialCapacity(pairs, heapBytes int) Option {
	return options.NoError(func(a *Arena) {
		if pairs > 0 {
			a.pairs = make([]pairCell, 0, pairs)
		}
		if heapBytes > 0 {
			a.heap = make([]byte, 0, heapBytes)
		}
	})
}

// New creates an empty arena. It panics only on invalid options; use
// NewWithOptions to receive the error instead.
func New(opts ...Option) *Arena {
	a, err := NewWithOptions(opts...)
	if err != nil {
		panic(err)
	}

	return a
}

// NewWithOptions creates an empty arena configured by opts.
func NewWithOptions(opts ...Option) (*Arena, error) {
	a := &Arena{}
	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	return a, nil
}

// Nil returns the empty atom.
func (a *Arena) Nil() NodePtr {
	return Nil
}

// One returns the atom holding the integer 1.
func (a *Arena) One() NodePtr {
	return newNodePtr(SmallAtom, 1)
}

// NewAtom stores a copy of b and returns its handle.
//
// Empty and small canonical atoms are interned: equal values yield the same
// handle. The only failure is errs.ErrOutOfMemory when a heap limit is set.
func (a *Arena) NewAtom(b []byte) (NodePtr, error) {
	if v, ok := smallValue(b); ok {
		return newNodePtr(SmallAtom, v), nil
	}

	if a.heapLimit > 0 && len(a.heap)+len(b) > a.heapLimit {
		return Nil, fmt.Errorf("atom of %d bytes: %w", len(b), errs.ErrOutOfMemory)
	}
	if len(a.atoms) >= maxIndex || uint64(len(a.heap))+uint64(len(b)) > uint64(^uint32(0)) {
		return Nil, fmt.Errorf("atom table full: %w", errs.ErrOutOfMemory)
	}

	start := uint32(len(a.heap))
	a.heap = append(a.heap, b...)
	a.atoms = append(a.atoms, atomSpan{start: start, end: uint32(len(a.heap))})

	return newNodePtr(Bytes, uint32(len(a.atoms)-1)), nil
}

// NewSmallNumber returns the interned atom for v when v <= MaxSmallAtom and
// stores a heap atom otherwise.
func (a *Arena) NewSmallNumber(v uint32) (NodePtr, error) {
	if v <= MaxSmallAtom {
		return newNodePtr(SmallAtom, v), nil
	}

	return a.NewNumber(new(big.Int).SetUint64(uint64(v)))
}

// NewNumber stores the canonical encoding of n.
func (a *Arena) NewNumber(n *big.Int) (NodePtr, error) {
	if n.Sign() >= 0 && n.IsUint64() && n.Uint64() <= MaxSmallAtom {
		return newNodePtr(SmallAtom, uint32(n.Uint64())), nil
	}

	return a.NewAtom(NumberToBytes(n))
}

// NewPair allocates a (first, rest) cell. It never fails; the arena can address
// 2^30 pairs, far more than fit in memory.
func (a *Arena) NewPair(first, rest NodePtr) NodePtr {
	if len(a.pairs) >= maxIndex {
		panic("arena: pair table exhausted")
	}
	a.pairs = append(a.pairs, pairCell{first: first, rest: rest})

	return newNodePtr(Pair, uint32(len(a.pairs)-1))
}

// SExp projects n into its Nil, Atom or Pair shape.
func (a *Arena) SExp(n NodePtr) SExp {
	switch n.ObjectType() {
	case Pair:
		p := a.pairs[n.index()]
		return SExp{Kind: KindPair, First: p.first, Rest: p.rest}
	case SmallAtom:
		if n == Nil {
			return SExp{Kind: KindNil}
		}

		return SExp{Kind: KindAtom, Atom: smallBytes(n.index())}
	default:
		return SExp{Kind: KindAtom, Atom: a.heapBytes(n)}
	}
}

func (a *Arena) heapBytes(n NodePtr) []byte {
	span := a.atoms[n.index()]
	return a.heap[span.start:span.end:span.end]
}

// Atom returns the bytes of atom n. The returned slice must not be modified.
func (a *Arena) Atom(n NodePtr) ([]byte, error) {
	switch n.ObjectType() {
	case Pair:
		return nil, errs.ErrNotAnAtom
	case SmallAtom:
		return smallBytes(n.index()), nil
	default:
		return a.heapBytes(n), nil
	}
}

// AtomLen returns the byte length of atom n.
func (a *Arena) AtomLen(n NodePtr) (int, error) {
	switch n.ObjectType() {
	case Pair:
		return 0, errs.ErrNotAnAtom
	case SmallAtom:
		return smallLen(n.index()), nil
	default:
		span := a.atoms[n.index()]
		return int(span.end - span.start), nil
	}
}

// Number decodes atom n as a signed integer. Non-canonical atoms are accepted.
func (a *Arena) Number(n NodePtr) (*big.Int, error) {
	switch n.ObjectType() {
	case Pair:
		return nil, errs.ErrNotAnAtom
	case SmallAtom:
		return new(big.Int).SetUint64(uint64(n.index())), nil
	default:
		return NumberFromBytes(a.heapBytes(n)), nil
	}
}

// SmallNumber returns the value of n when n is an interned small atom.
func (a *Arena) SmallNumber(n NodePtr) (uint32, bool) {
	if n.ObjectType() != SmallAtom {
		return 0, false
	}

	return n.index(), true
}

// Pair returns the children of n; ok is false when n is an atom.
func (a *Arena) Pair(n NodePtr) (first, rest NodePtr, ok bool) {
	if !n.IsPair() {
		return Nil, Nil, false
	}
	p := a.pairs[n.index()]

	return p.first, p.rest, true
}

// First returns the first child of pair n.
func (a *Arena) First(n NodePtr) (NodePtr, error) {
	first, _, ok := a.Pair(n)
	if !ok {
		return Nil, fmt.Errorf("first of atom: %w", errs.ErrNotAList)
	}

	return first, nil
}

// Rest returns the second child of pair n.
func (a *Arena) Rest(n NodePtr) (NodePtr, error) {
	_, rest, ok := a.Pair(n)
	if !ok {
		return Nil, fmt.Errorf("rest of atom: %w", errs.ErrNotAList)
	}

	return rest, nil
}

// AtomEq reports whether atoms x and y hold the same bytes.
// It returns false when either node is a pair.
func (a *Arena) AtomEq(x, y NodePtr) bool {
	if x == y {
		return x.IsAtom()
	}
	bx, err := a.Atom(x)
	if err != nil {
		return false
	}
	by, err := a.Atom(y)
	if err != nil {
		return false
	}

	return string(bx) == string(by)
}

// PairCount returns the number of pairs allocated so far.
func (a *Arena) PairCount() int {
	return len(a.pairs)
}

// AtomCount returns the number of heap atoms allocated so far; interned small
// atoms are not counted.
func (a *Arena) AtomCount() int {
	return len(a.atoms)
}

// HeapSize returns the number of atom bytes stored in the heap.
func (a *Arena) HeapSize() int {
	return len(a.heap)
}
