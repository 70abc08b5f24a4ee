package format

type (
	CompressionType uint8
	StreamType      uint8
)

// Wire tag bytes.
const (
	MaxSingleByte byte = 0x7F // MaxSingleByte is the largest byte that encodes itself as a one-byte atom.
	NilTag        byte = 0x80 // NilTag encodes the empty atom.
	BackrefTag    byte = 0xFE // BackrefTag precedes an atom holding a back-reference distance.
	PairTag       byte = 0xFF // PairTag precedes the encodings of first and rest.

	// MaxShortAtomLen is the longest atom written with a single length byte.
	MaxShortAtomLen = 0x3F
	// MaxAtomLen is the longest atom the 5-byte length prefix can describe.
	MaxAtomLen = 0x3_FFFF_FFFF
)

const (
	StreamPlain   StreamType = 0x1 // StreamPlain is a stream without back-references.
	StreamBackref StreamType = 0x2 // StreamBackref is a stream that may contain back-references.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (s StreamType) String() string {
	switch s {
	case StreamPlain:
		return "Plain"
	case StreamBackref:
		return "Backref"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a name as printed by String, or its lower-case form, back to its type.
// The empty string means no compression.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "None", "none", "":
		return CompressionNone, true
	case "Zstd", "zstd":
		return CompressionZstd, true
	case "S2", "s2":
		return CompressionS2, true
	case "LZ4", "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
