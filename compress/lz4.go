package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/clvm/errs"
	"github.com/pierrec/lz4/v4"
)

// lz4MaxRatio bounds how far one input byte can expand; a sizeHint beyond
// it cannot be honest and is rejected before allocating.
const lz4MaxRatio = 255

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor has the fastest decompression of the built-in codecs.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data as a single LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

// Decompress decompresses a single LZ4 block.
//
// LZ4 blocks do not record their decompressed length. With a sizeHint the
// output buffer is allocated once and the block must fill it exactly;
// otherwise it starts at four times the input and doubles on
// ErrInvalidSourceShortBuffer, up to lz4MaxRatio times the input or
// MaxDecodedSize, whichever is smaller.
func (c LZ4Compressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if err := checkSizeHint(sizeHint); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		if err := checkDecodedSize(0, sizeHint); err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}

		return nil, nil
	}

	limit := min(len(data)*lz4MaxRatio, MaxDecodedSize)
	if sizeHint > limit {
		return nil, fmt.Errorf("lz4 block of %d bytes cannot hold %d: %w", len(data), sizeHint, errs.ErrDecompressedSize)
	}

	bufSize := min(len(data)*4, limit)
	if sizeHint > 0 {
		bufSize = sizeHint
	}

	for {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			if err := checkDecodedSize(uint64(n), sizeHint); err != nil {
				return nil, fmt.Errorf("lz4 decompression failed: %w", err)
			}

			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if sizeHint > 0 || bufSize >= limit {
			return nil, fmt.Errorf("lz4 block does not fit in %d bytes: %w", bufSize, errs.ErrDecompressedSize)
		}
		bufSize = min(bufSize*2, limit)
	}
}
