// Package clvm stores S-expressions in a compact arena, moves them over the
// wire with optional back-reference compression, and evaluates the
// cost-metered arithmetic opcodes over them.
//
// # Basic Usage
//
// Decoding a stream into a fresh arena:
//
//	a, root, err := clvm.Decode(data)
//	if err != nil {
//	    return err
//	}
//
// Encoding with back-references and running an opcode:
//
//	out, err := clvm.Serialize(a, root)
//	r, err := clvm.Eval(a, "+", x, y)
//
// # Package Structure
//
// This package wraps the most common calls. For fine-grained control use the
// sub-packages directly:
//
//   - arena: nodes, numbers and list helpers
//   - encoding: plain and back-reference codecs, the incremental Serializer
//   - ops: the opcode library, its costs and the dispatch table
//   - blob: framed, checksummed and optionally compressed streams
//   - config: TOML-loaded limits
//   - errs: the error taxonomy
package clvm

import (
	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/blob"
	"github.com/arloliu/clvm/encoding"
	"github.com/arloliu/clvm/ops"
)

var defaultDispatcher = ops.MustNewDispatcher()

// Decode decodes a plain or back-reference stream into a new arena.
func Decode(data []byte, opts ...arena.Option) (*arena.Arena, arena.NodePtr, error) {
	a, err := arena.NewWithOptions(opts...)
	if err != nil {
		return nil, arena.Nil, err
	}

	root, err := encoding.DecodeBackrefs(a, data)
	if err != nil {
		return nil, arena.Nil, err
	}

	return a, root, nil
}

// Serialize encodes root with back-references.
func Serialize(a *arena.Arena, root arena.NodePtr, opts ...encoding.EncoderOption) ([]byte, error) {
	return encoding.EncodeBackrefs(a, root, opts...)
}

// SerializePlain encodes root without back-references.
func SerializePlain(a *arena.Arena, root arena.NodePtr, opts ...encoding.EncoderOption) ([]byte, error) {
	return encoding.Encode(a, root, opts...)
}

// Unpack verifies a blob and decodes it into a new arena.
func Unpack(data []byte, opts ...arena.Option) (*arena.Arena, arena.NodePtr, error) {
	a, err := arena.NewWithOptions(opts...)
	if err != nil {
		return nil, arena.Nil, err
	}

	root, err := blob.Unpack(a, data)
	if err != nil {
		return nil, arena.Nil, err
	}

	return a, root, nil
}

// Eval runs the opcode named op on args with the default cost budget.
func Eval(a *arena.Arena, op string, args ...arena.NodePtr) (ops.Reduction, error) {
	return defaultDispatcher.RunName(a, op, a.NewList(args...), ops.DefaultMaxCost)
}

// Fingerprint returns the structural hash of root. Equal trees hash equally
// regardless of sharing or arena.
func Fingerprint(a *arena.Arena, root arena.NodePtr) uint64 {
	return encoding.Fingerprint(a, root)
}
