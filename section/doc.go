// Package section defines the fixed-size header that frames a wire stream
// inside a blob.
//
// # Blob Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (CompressedLength bytes)                        │
//	│  - plain or back-reference wire stream                  │
//	│  - optionally compressed                                │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field            | Type   | Description
//	-------|------------------|--------|----------------------------------
//	0-1    | Options          | uint16 | Stream kind, endianness, magic
//	2      | Version          | uint8  | Header layout version (1)
//	3      | Compression      | uint8  | 0x1=None, 0x2=Zstd, 0x3=S2, 0x4=LZ4
//	4-11   | PayloadLength    | uint64 | Wire stream length before compression
//	12-19  | CompressedLength | uint64 | Payload bytes after the header
//	20-27  | Checksum         | uint64 | xxHash64 of the uncompressed stream
//	28-31  | Reserved         |        | Must be zero
//
// Options is always little-endian:
//
//	Bit 0:     Stream kind (0=plain, 1=back-reference)
//	Bit 1:     Endianness of bytes 4-27 (0=little, 1=big)
//	Bits 2-3:  Reserved (must be 0)
//	Bits 4-15: Magic number 0xC1E0
//
// A header that fails validation reports errs.ErrInvalidHeader, or
// errs.ErrUnsupportedCompression for an unknown compression byte.
package section
