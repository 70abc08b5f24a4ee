package encoding

import (
	"errors"
	"fmt"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/options"
	"github.com/arloliu/clvm/internal/pool"
)

// EncoderConfig holds the settings shared by Encode, EncodeBackrefs and Serializer.
type EncoderConfig struct {
	limit       int
	sentinel    arena.NodePtr
	hasSentinel bool
}

// EncoderOption configures an encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithLimit makes encoding fail with errs.ErrSerializeLimitExceeded once the
// output grows past limit bytes. Zero means no limit.
func WithLimit(limit int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if limit < 0 {
			return fmt.Errorf("serialize limit must not be negative: %d", limit)
		}
		c.limit = limit

		return nil
	})
}

// WithSentinel designates the node at which a Serializer pauses. See Serializer.
// Plain Encode ignores it.
func WithSentinel(node arena.NodePtr) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if node.IsNil() {
			return errors.New("nil cannot be a sentinel")
		}
		c.sentinel = node
		c.hasSentinel = true

		return nil
	})
}

func newEncoderConfig(opts []EncoderOption) (*EncoderConfig, error) {
	cfg := &EncoderConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EncoderConfig) checkLimit(size int) error {
	if c.limit > 0 && size > c.limit {
		return fmt.Errorf("%d bytes over limit %d: %w", size, c.limit, errs.ErrSerializeLimitExceeded)
	}

	return nil
}

// Encode writes the plain encoding of root: every occurrence of a shared
// subtree is written out in full.
//
// Graphs with heavy sharing can expand exponentially in plain form; use
// WithLimit to bound the output.
func Encode(a *arena.Arena, root arena.NodePtr, opts ...EncoderOption) ([]byte, error) {
	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	stack := []arena.NodePtr{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if first, rest, ok := a.Pair(n); ok {
			_ = buf.WriteByte(format.PairTag)
			stack = append(stack, rest, first)
		} else {
			atom, _ := a.Atom(n)
			appendAtom(buf, atom)
		}

		if err := cfg.checkLimit(buf.Len()); err != nil {
			return nil, err
		}
	}

	return buf.Detach(), nil
}

// EncodeBackrefs writes root with repeated handles replaced by back-references.
//
// The output is byte-identical to a Serializer without sentinel fed root once.
func EncodeBackrefs(a *arena.Arena, root arena.NodePtr, opts ...EncoderOption) ([]byte, error) {
	cfg, err := newEncoderConfig(opts)
	if err != nil {
		return nil, err
	}
	cfg.hasSentinel = false

	s := newSerializer(cfg)
	if _, _, err := s.Add(a, root); err != nil {
		return nil, err
	}

	return s.IntoInner(), nil
}
