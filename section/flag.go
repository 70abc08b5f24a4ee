package section

import (
	"fmt"

	"github.com/arloliu/clvm/endian"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
)

// Flag holds the packed options, format version and compression of a blob.
type Flag struct {
	// Options is a packed field.
	// Bit 0 is set when the payload is a back-reference stream.
	// Bit 1 is the endianness of the remaining header fields, 0 little, 1 big.
	// Bits 2-3 are reserved and must be 0.
	// Bits 4-15 hold the magic number.
	Options uint16

	Version uint8

	// Compression is the format.CompressionType applied to the payload.
	Compression uint8
}

var validCompressions = map[format.CompressionType]struct{}{
	format.CompressionNone: {},
	format.CompressionZstd: {},
	format.CompressionS2:   {},
	format.CompressionLZ4:  {},
}

// NewFlag returns a little-endian, uncompressed, plain-stream flag.
func NewFlag() Flag {
	return Flag{
		Options:     MagicV1,
		Version:     Version,
		Compression: uint8(format.CompressionNone),
	}
}

// StreamType returns the kind of wire stream stored in the payload.
func (f Flag) StreamType() format.StreamType {
	if f.Options&BackrefMask != 0 {
		return format.StreamBackref
	}

	return format.StreamPlain
}

// SetStreamType records the kind of wire stream stored in the payload.
func (f *Flag) SetStreamType(t format.StreamType) {
	if t == format.StreamBackref {
		f.Options |= BackrefMask
	} else {
		f.Options &^= BackrefMask
	}
}

func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// SetEngine records the byte order of engine.
func (f *Flag) SetEngine(engine endian.EndianEngine) {
	if endian.IsBigEndian(engine) {
		f.Options |= EndiannessMask
	} else {
		f.Options &^= EndiannessMask
	}
}

// GetEndianEngine returns the engine for the header's integer fields.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

func (f Flag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

func (f *Flag) SetCompressionType(c format.CompressionType) {
	f.Compression = uint8(c)
}

// Validate checks the magic number, version, reserved bits and compression.
func (f Flag) Validate() error {
	if f.Options&MagicNumberMask != MagicV1 {
		return fmt.Errorf("bad magic %#04x: %w", f.Options&MagicNumberMask, errs.ErrInvalidHeader)
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("reserved option bits set: %w", errs.ErrInvalidHeader)
	}
	if f.Version != Version {
		return fmt.Errorf("unsupported version %d: %w", f.Version, errs.ErrInvalidHeader)
	}
	if _, ok := validCompressions[f.CompressionType()]; !ok {
		return fmt.Errorf("compression %#02x: %w", f.Compression, errs.ErrUnsupportedCompression)
	}

	return nil
}
