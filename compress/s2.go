package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor trades some ratio for speed.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data using S2 block format.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block. The length recorded in the block is
// checked against sizeHint and MaxDecodedSize before the output is allocated.
func (c S2Compressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if err := checkSizeHint(sizeHint); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		if err := checkDecodedSize(0, sizeHint); err != nil {
			return nil, fmt.Errorf("s2 decompression failed: %w", err)
		}

		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if err := checkDecodedSize(uint64(n), sizeHint); err != nil {
		return nil, fmt.Errorf("s2 block: %w", err)
	}

	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
