package compress

import (
	"fmt"

	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
)

// Compressor compresses a complete wire stream.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// MaxDecodedSize bounds the output of every built-in Decompressor.
const MaxDecodedSize = 256 << 20

// Decompressor restores data produced by the matching Compressor.
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original bytes. A positive sizeHint is the exact
	// decompressed length and 0 means unknown. Output that differs from a
	// positive hint, or exceeds MaxDecodedSize, fails with
	// errs.ErrDecompressedSize. Codecs whose framing records the length check
	// it before allocating.
	Decompress(data []byte, sizeHint int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a payload.
type CompressionStats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Measure compresses data with the built-in codec for t and reports the sizes.
func Measure(t format.CompressionType, data []byte) (CompressionStats, error) {
	codec, err := GetCodec(t)
	if err != nil {
		return CompressionStats{}, err
	}

	compressed, err := codec.Compress(data)
	if err != nil {
		return CompressionStats{}, fmt.Errorf("%s compression: %w", t, err)
	}

	return CompressionStats{
		Algorithm:      t,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(compressed)),
	}, nil
}

// checkDecodedSize reports whether n bytes of output are acceptable for sizeHint.
func checkDecodedSize(n uint64, sizeHint int) error {
	if n > MaxDecodedSize {
		return fmt.Errorf("%d bytes, limit %d: %w", n, MaxDecodedSize, errs.ErrDecompressedSize)
	}
	if sizeHint > 0 && n != uint64(sizeHint) {
		return fmt.Errorf("%d bytes, expected %d: %w", n, sizeHint, errs.ErrDecompressedSize)
	}

	return nil
}

// checkSizeHint rejects hints that no payload may satisfy.
func checkSizeHint(sizeHint int) error {
	if sizeHint < 0 || sizeHint > MaxDecodedSize {
		return fmt.Errorf("size hint %d: %w", sizeHint, errs.ErrDecompressedSize)
	}

	return nil
}

// CreateCodec creates a new Codec for the compression type.
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%s: %w", compressionType, errs.ErrUnsupportedCompression)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%s: %w", compressionType, errs.ErrUnsupportedCompression)
}
