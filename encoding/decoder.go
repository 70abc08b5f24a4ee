package encoding

import (
	"fmt"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/backref"
)

type decodeOp struct {
	cons  bool
	start int
}

// Decode parses a plain stream into a. Back-reference tokens are rejected
// with errs.ErrInvalidEncoding; use DecodeBackrefs for streams that may
// contain them.
//
// The whole of data must be consumed by one node.
func Decode(a *arena.Arena, data []byte) (arena.NodePtr, error) {
	return decode(a, data, nil)
}

// DecodeBackrefs parses a plain or back-referenced stream into a.
//
// A back-reference resolves to the very handle decoded at its target offset,
// so shared subtrees stay shared in the arena.
func DecodeBackrefs(a *arena.Arena, data []byte) (arena.NodePtr, error) {
	return decode(a, data, backref.NewIndex())
}

func decode(a *arena.Arena, data []byte, index *backref.Index) (arena.NodePtr, error) {
	pos := 0
	ops := []decodeOp{{}}
	values := make([]arena.NodePtr, 0, 16)

	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]

		if op.cons {
			rest := values[len(values)-1]
			first := values[len(values)-2]
			values = values[:len(values)-2]

			n := a.NewPair(first, rest)
			if index != nil {
				index.Close(op.start, n)
			}
			values = append(values, n)

			continue
		}

		if pos >= len(data) {
			return arena.Nil, fmt.Errorf("node at offset %d: %w", pos, errs.ErrUnexpectedEOF)
		}

		start := pos
		switch data[pos] {
		case format.PairTag:
			pos++
			if index != nil {
				index.Open(start)
			}
			ops = append(ops, decodeOp{cons: true, start: start}, decodeOp{}, decodeOp{})

		case format.BackrefTag:
			if index == nil {
				return arena.Nil, fmt.Errorf("back-reference at offset %d in a plain stream: %w", start, errs.ErrInvalidEncoding)
			}

			payload, next, err := readAtom(data, pos+1)
			if err != nil {
				return arena.Nil, err
			}
			pos = next

			n, err := resolveBackref(index, start, payload)
			if err != nil {
				return arena.Nil, err
			}
			values = append(values, n)

		default:
			atom, next, err := readAtom(data, pos)
			if err != nil {
				return arena.Nil, err
			}
			pos = next

			n, err := a.NewAtom(atom)
			if err != nil {
				return arena.Nil, fmt.Errorf("atom at offset %d: %w", start, err)
			}
			if index != nil {
				index.Close(start, n)
			}
			values = append(values, n)
		}
	}

	if pos != len(data) {
		return arena.Nil, fmt.Errorf("%d trailing bytes after offset %d: %w", len(data)-pos, pos, errs.ErrInvalidEncoding)
	}

	return values[0], nil
}

func resolveBackref(index *backref.Index, start int, payload []byte) (arena.NodePtr, error) {
	dist, ok := parseDistance(payload)
	if !ok || dist == 0 || dist > start {
		return arena.Nil, fmt.Errorf("back-reference at offset %d: %w", start, errs.ErrDanglingBackref)
	}

	n, err := index.Resolve(start - dist)
	if err != nil {
		return arena.Nil, fmt.Errorf("back-reference at offset %d to offset %d: %w", start, start-dist, err)
	}

	return n, nil
}
