package blob

import (
	"fmt"

	"github.com/arloliu/clvm/compress"
	"github.com/arloliu/clvm/encoding"
	"github.com/arloliu/clvm/endian"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/options"
)

// PackConfig holds the settings of Pack.
type PackConfig struct {
	compression format.CompressionType
	codec       compress.Codec
	backrefs    bool
	limit       int
	engine      endian.EndianEngine
}

// PackOption configures Pack.
type PackOption = options.Option[*PackConfig]

func newPackConfig(opts []PackOption) (*PackConfig, error) {
	cfg := &PackConfig{
		compression: format.CompressionNone,
		codec:       compress.NewNoOpCompressor(),
		backrefs:    true,
		engine:      endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression compresses the payload with the given algorithm.
// The default is format.CompressionNone.
func WithCompression(c format.CompressionType) PackOption {
	return options.New(func(cfg *PackConfig) error {
		codec, err := compress.GetCodec(c)
		if err != nil {
			return err
		}
		cfg.compression = c
		cfg.codec = codec

		return nil
	})
}

// WithBackrefs selects a back-reference stream (the default) or a plain one.
func WithBackrefs(enabled bool) PackOption {
	return options.NoError(func(cfg *PackConfig) {
		cfg.backrefs = enabled
	})
}

// WithSerializeLimit bounds the uncompressed wire stream. Zero means no limit.
func WithSerializeLimit(limit int) PackOption {
	return options.New(func(cfg *PackConfig) error {
		if limit < 0 {
			return fmt.Errorf("serialize limit must not be negative: %d", limit)
		}
		cfg.limit = limit

		return nil
	})
}

// WithByteOrder sets the byte order of the header's integer fields.
// The default is little-endian.
func WithByteOrder(engine endian.EndianEngine) PackOption {
	return options.New(func(cfg *PackConfig) error {
		if engine == nil {
			return fmt.Errorf("byte order engine must not be nil")
		}
		cfg.engine = engine

		return nil
	})
}

func (c *PackConfig) encoderOptions() []encoding.EncoderOption {
	if c.limit == 0 {
		return nil
	}

	return []encoding.EncoderOption{encoding.WithLimit(c.limit)}
}
