// Package backref holds the side tables of the back-reference codec.
//
// Both tables are keyed by identity: the encoder maps a node handle to the
// offset where that node's encoding started, and the decoder maps a start
// offset to the node built from it. Structurally equal nodes with different
// handles are never merged.
package backref

import (
	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
)

// Table is the encoder-side mapping from node handle to stream offset.
type Table struct {
	offsets map[arena.NodePtr]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{offsets: make(map[arena.NodePtr]int)}
}

// Record remembers that the encoding of n starts at offset. A later record
// for the same handle replaces the earlier one. The encoder records only
// literal writes (an atom when written, a pair when closed) and never a
// back-reference, so a node re-emitted in full becomes the nearer target.
func (t *Table) Record(n arena.NodePtr, offset int) {
	t.offsets[n] = offset
}

// Lookup returns the start offset recorded for n.
func (t *Table) Lookup(n arena.NodePtr) (int, bool) {
	off, ok := t.offsets[n]
	return off, ok
}

// Len returns the number of recorded handles.
func (t *Table) Len() int {
	return len(t.offsets)
}

// Reset clears the table but keeps its memory.
func (t *Table) Reset() {
	clear(t.offsets)
}

// Index is the decoder-side mapping from stream offset to decoded node.
//
// A pair is open between the moment its tag is read and the moment both of
// its children are decoded. A reference to an open offset would make the
// pair contain itself.
type Index struct {
	nodes map[int]arena.NodePtr
	open  map[int]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		nodes: make(map[int]arena.NodePtr),
		open:  make(map[int]struct{}),
	}
}

// Open marks the pair starting at offset as under construction.
func (x *Index) Open(offset int) {
	x.open[offset] = struct{}{}
}

// Close records the finished node that started at offset.
func (x *Index) Close(offset int, n arena.NodePtr) {
	delete(x.open, offset)
	x.nodes[offset] = n
}

// Resolve returns the node that started at offset.
//
// It fails with errs.ErrBackrefCycle for an unfinished pair and with
// errs.ErrDanglingBackref when no node started there.
func (x *Index) Resolve(offset int) (arena.NodePtr, error) {
	if n, ok := x.nodes[offset]; ok {
		return n, nil
	}
	if _, ok := x.open[offset]; ok {
		return arena.Nil, errs.ErrBackrefCycle
	}

	return arena.Nil, errs.ErrDanglingBackref
}

// Len returns the number of finished nodes.
func (x *Index) Len() int {
	return len(x.nodes)
}
