package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/backref"
	"github.com/arloliu/clvm/internal/pool"
)

// minBackrefTarget is the smallest literal encoding a back-reference can beat;
// a token is at least two bytes.
const minBackrefTarget = 3

type writeOp struct {
	node    arena.NodePtr
	start   int
	close   bool // record node at start once its children are written
	tainted bool // the pair's encoding contains the sentinel hole
}

type sizeFrame struct {
	node     arena.NodePtr
	expanded bool
}

// Serializer writes one back-referenced stream incrementally, sharing a single
// back-reference table across every Add call.
//
// Without a sentinel, the first Add writes its node and completes the stream.
// With WithSentinel, encoding pauses when it reaches the sentinel handle and
// Add returns done=false; the node passed to the next Add is written in the
// sentinel's place. The stream is complete (done=true) once no open position
// remains. This lets a long list be streamed piece by piece: build it with the
// sentinel as its last tail, Add it, then Add Nil to close it.
//
// Add after completion, or after IntoInner, fails with errs.ErrSerializerDone.
// Every Add must pass the same arena.
//
// A Serializer is not safe for concurrent use.
type Serializer struct {
	cfg   *EncoderConfig
	buf   *pool.ByteBuffer
	table *backref.Table
	sizes map[arena.NodePtr]uint64
	stack []writeOp
	arena *arena.Arena
	done  bool
	err   error
}

// NewSerializer creates an incremental back-reference serializer.
func NewSerializer(opts ...EncoderOption) (*Serializer, error) {
	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}

	return newSerializer(cfg), nil
}

func newSerializer(cfg *EncoderConfig) *Serializer {
	return &Serializer{
		cfg:   cfg,
		buf:   pool.NewByteBuffer(pool.StreamBufferDefaultSize),
		table: backref.NewTable(),
		sizes: make(map[arena.NodePtr]uint64),
	}
}

// Add appends node at the current open position.
//
// It returns whether the stream is complete and the total number of bytes
// written to the stream so far.
func (s *Serializer) Add(a *arena.Arena, node arena.NodePtr) (done bool, written int, err error) {
	if s.err != nil {
		return false, s.Len(), s.err
	}
	if s.done {
		return true, s.Len(), errs.ErrSerializerDone
	}
	if s.arena == nil {
		s.arena = a
	} else if s.arena != a {
		return false, s.Len(), errs.ErrArenaMismatch
	}

	s.stack = append(s.stack, writeOp{node: node})
	for len(s.stack) > 0 {
		op := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if op.close {
			if !op.tainted {
				s.table.Record(op.node, op.start)
			}

			continue
		}

		if s.cfg.hasSentinel && op.node == s.cfg.sentinel {
			// Every pending close belongs to an ancestor of the hole.
			for i := range s.stack {
				if s.stack[i].close {
					s.stack[i].tainted = true
				}
			}

			return false, s.buf.Len(), nil
		}

		s.writeNode(a, op.node)

		if err := s.cfg.checkLimit(s.buf.Len()); err != nil {
			s.err = err
			return false, s.buf.Len(), err
		}
	}

	s.done = true

	return true, s.buf.Len(), nil
}

func (s *Serializer) writeNode(a *arena.Arena, n arena.NodePtr) {
	start := s.buf.Len()

	if off, ok := s.table.Lookup(n); ok {
		dist := start - off
		if uint64(backrefLen(dist)) < s.plainSize(a, n) {
			_ = s.buf.WriteByte(format.BackrefTag)
			appendAtom(s.buf, distanceBytes(dist))

			return
		}
	}

	if first, rest, ok := a.Pair(n); ok {
		_ = s.buf.WriteByte(format.PairTag)
		s.stack = append(s.stack,
			writeOp{node: n, start: start, close: true},
			writeOp{node: rest},
			writeOp{node: first},
		)

		return
	}

	atom, _ := a.Atom(n)
	appendAtom(s.buf, atom)
	if s.buf.Len()-start >= minBackrefTarget {
		s.table.Record(n, start)
	}
}

// plainSize returns the size of the plain encoding of n, saturating at
// math.MaxUint64. Pair sizes are memoised per handle.
func (s *Serializer) plainSize(a *arena.Arena, n arena.NodePtr) uint64 {
	if !n.IsPair() {
		atom, _ := a.Atom(n)
		return uint64(atomEncodedLen(atom))
	}
	if size, ok := s.sizes[n]; ok {
		return size
	}

	stack := []sizeFrame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, ok := s.sizes[top.node]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		first, rest, _ := a.Pair(top.node)
		if !top.expanded {
			top.expanded = true
			for _, child := range []arena.NodePtr{first, rest} {
				if _, ok := s.sizes[child]; child.IsPair() && !ok {
					stack = append(stack, sizeFrame{node: child})
				}
			}

			continue
		}

		node := top.node
		stack = stack[:len(stack)-1]
		s.sizes[node] = satAdd(1, satAdd(s.childSize(a, first), s.childSize(a, rest)))
	}

	return s.sizes[n]
}

func (s *Serializer) childSize(a *arena.Arena, n arena.NodePtr) uint64 {
	if n.IsPair() {
		return s.sizes[n]
	}
	atom, _ := a.Atom(n)

	return uint64(atomEncodedLen(atom))
}

func satAdd(x, y uint64) uint64 {
	if x > math.MaxUint64-y {
		return math.MaxUint64
	}

	return x + y
}

// Len returns the number of bytes written so far.
func (s *Serializer) Len() int {
	if s.buf == nil {
		return 0
	}

	return s.buf.Len()
}

// Done reports whether the stream is complete.
func (s *Serializer) Done() bool {
	return s.done
}

// IntoInner returns the stream and closes the serializer. Calling it before
// the stream is complete returns the bytes written so far.
func (s *Serializer) IntoInner() []byte {
	if s.buf == nil {
		return nil
	}

	out := s.buf.Bytes()
	s.buf = nil
	s.stack = nil
	s.done = true
	if s.err == nil {
		s.err = fmt.Errorf("serializer closed: %w", errs.ErrSerializerDone)
	}

	return out
}
