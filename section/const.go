package section

const (
	// Bit masks of the Options field
	BackrefMask      = 0x0001 // Mask for back-reference stream bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicV1 identifies a version 1 blob (bits 4-15 of Options).
	MagicV1 = 0xC1E0

	// Version is the only header layout this package writes and accepts.
	Version uint8 = 1
)

// Header layout
const (
	HeaderSize             = 32 // fixed header size in bytes
	OptionsOffset          = 0  // Options, always little-endian
	VersionOffset          = 2
	CompressionOffset      = 3
	PayloadLengthOffset    = 4  // uncompressed stream length
	CompressedLengthOffset = 12 // stored payload length
	ChecksumOffset         = 20 // xxHash64 of the uncompressed stream
	ReservedOffset         = 28 // 4 zero bytes
)
