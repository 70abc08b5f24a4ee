package compress

import "fmt"

// NoOpCompressor passes data through unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself; the result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself; the result shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte, sizeHint int) ([]byte, error) {
	if err := checkSizeHint(sizeHint); err != nil {
		return nil, err
	}
	if err := checkDecodedSize(uint64(len(data)), sizeHint); err != nil {
		return nil, fmt.Errorf("uncompressed payload: %w", err)
	}

	return data, nil
}
