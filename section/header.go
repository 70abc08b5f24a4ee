package section

import (
	"fmt"

	"github.com/arloliu/clvm/errs"
)

// Header is the fixed-size section at the start of a blob.
type Header struct {
	Flag Flag // byte offset 0-3

	// PayloadLength is the length of the wire stream before compression.
	PayloadLength uint64 // byte offset 4-11
	// CompressedLength is the number of payload bytes following the header.
	CompressedLength uint64 // byte offset 12-19
	// Checksum is the xxHash64 of the uncompressed wire stream.
	Checksum uint64 // byte offset 20-27
}

// NewHeader returns a header with the default flag and zero lengths.
// The lengths and checksum are set once the payload is known.
func NewHeader() *Header {
	return &Header{Flag: NewFlag()}
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("header is %d bytes, want %d: %w", len(data), HeaderSize, errs.ErrInvalidHeader)
	}

	// Options is always little-endian; it carries the order of everything else.
	h.Flag.Options = uint16(data[OptionsOffset]) | uint16(data[OptionsOffset+1])<<8
	h.Flag.Version = data[VersionOffset]
	h.Flag.Compression = data[CompressionOffset]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.PayloadLength = engine.Uint64(data[PayloadLengthOffset:CompressedLengthOffset])
	h.CompressedLength = engine.Uint64(data[CompressedLengthOffset:ChecksumOffset])
	h.Checksum = engine.Uint64(data[ChecksumOffset:ReservedOffset])

	for _, b := range data[ReservedOffset:HeaderSize] {
		if b != 0 {
			return fmt.Errorf("reserved header bytes set: %w", errs.ErrInvalidHeader)
		}
	}

	return nil
}

// Bytes serializes the header into a new HeaderSize-byte slice.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8), h.Flag.Version, h.Flag.Compression)
	dst = engine.AppendUint64(dst, h.PayloadLength)
	dst = engine.AppendUint64(dst, h.CompressedLength)
	dst = engine.AppendUint64(dst, h.Checksum)

	return append(dst, 0, 0, 0, 0)
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("blob is %d bytes, shorter than its header: %w", len(data), errs.ErrInvalidHeader)
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
