package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor provides Zstandard compression. It gives the best ratio of
// the built-in codecs on back-reference-free streams, where long repeated
// subtrees are common.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// The decoder is designed to run without allocations after a warmup, so
// both directions are pooled.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(MaxDecodedSize),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false), // the blob header carries its own checksum
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Compress compresses data with a pooled encoder.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses data with a pooled decoder. A frame whose recorded
// content size disagrees with a positive sizeHint is rejected before decoding.
func (c ZstdCompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if err := checkSizeHint(sizeHint); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		if err := checkDecodedSize(0, sizeHint); err != nil {
			return nil, fmt.Errorf("zstd decompression failed: %w", err)
		}

		return nil, nil
	}

	var frame zstd.Header
	if err := frame.Decode(data); err == nil && frame.HasFCS {
		if err := checkDecodedSize(frame.FrameContentSize, sizeHint); err != nil {
			return nil, fmt.Errorf("zstd frame: %w", err)
		}
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	var dst []byte
	if sizeHint > 0 {
		dst = make([]byte, 0, sizeHint)
	}

	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkDecodedSize(uint64(len(decompressed)), sizeHint); err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
