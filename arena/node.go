package arena

import "fmt"

// NodePtr is a handle to a node owned by an Arena.
//
// The two high bits hold the object kind and the low 30 bits hold either an
// index into the arena's tables or, for small atoms, the value itself.
// The zero NodePtr is Nil. A NodePtr is meaningful only for the arena that
// issued it.
type NodePtr uint32

// ObjectType is the storage kind of a node.
type ObjectType uint8

const (
	// SmallAtom is a canonical non-negative integer below 2^30 stored inline in the handle.
	SmallAtom ObjectType = iota
	// Bytes is an atom whose bytes live in the arena heap.
	Bytes
	// Pair is a (first, rest) cell.
	Pair
)

const (
	kindShift = 30
	valueMask = 1<<kindShift - 1

	// MaxSmallAtom is the largest value stored inline as a small atom.
	MaxSmallAtom = valueMask
)

// Nil is the empty atom. It is also the integer 0 and the list terminator.
const Nil NodePtr = 0

func newNodePtr(kind ObjectType, value uint32) NodePtr {
	return NodePtr(uint32(kind)<<kindShift | value&valueMask)
}

// ObjectType returns the storage kind encoded in the handle.
func (n NodePtr) ObjectType() ObjectType {
	return ObjectType(n >> kindShift)
}

// index returns the table index or inline value.
func (n NodePtr) index() uint32 {
	return uint32(n) & valueMask
}

// IsNil reports whether n is the Nil handle.
func (n NodePtr) IsNil() bool {
	return n == Nil
}

// IsPair reports whether n refers to a pair.
func (n NodePtr) IsPair() bool {
	return n.ObjectType() == Pair
}

// IsAtom reports whether n refers to an atom, including Nil.
func (n NodePtr) IsAtom() bool {
	return !n.IsPair()
}

func (n NodePtr) String() string {
	switch n.ObjectType() {
	case SmallAtom:
		return fmt.Sprintf("small(%d)", n.index())
	case Bytes:
		return fmt.Sprintf("atom#%d", n.index())
	case Pair:
		return fmt.Sprintf("pair#%d", n.index())
	default:
		return fmt.Sprintf("invalid(%#x)", uint32(n))
	}
}

// Kind is the shape of a node as seen through SExp.
type Kind uint8

const (
	KindNil Kind = iota
	KindAtom
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindAtom:
		return "Atom"
	case KindPair:
		return "Pair"
	default:
		return "Unknown"
	}
}

// SExp is a read-only projection of a node.
//
// For KindAtom, Atom holds the atom bytes; the slice must not be modified.
// For KindPair, First and Rest hold the children. For KindNil all fields are zero.
type SExp struct {
	Kind  Kind
	Atom  []byte
	First NodePtr
	Rest  NodePtr
}
