package encoding

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/pool"
)

// prefixLen returns the number of bytes of the length prefix for an atom of size n > 1
// or of size 1 above MaxSingleByte.
func prefixLen(n int) int {
	switch {
	case n <= format.MaxShortAtomLen:
		return 1
	case n <= 0x1FFF:
		return 2
	case n <= 0xF_FFFF:
		return 3
	case n <= 0x7FF_FFFF:
		return 4
	default:
		return 5
	}
}

// atomEncodedLen returns the number of bytes appendAtom writes for atom.
func atomEncodedLen(atom []byte) int {
	switch {
	case len(atom) == 0:
		return 1
	case len(atom) == 1 && atom[0] <= format.MaxSingleByte:
		return 1
	default:
		return prefixLen(len(atom)) + len(atom)
	}
}

// appendAtom writes the wire form of atom.
func appendAtom(buf *pool.ByteBuffer, atom []byte) {
	n := len(atom)
	if n == 0 {
		_ = buf.WriteByte(format.NilTag)
		return
	}
	if n == 1 && atom[0] <= format.MaxSingleByte {
		_ = buf.WriteByte(atom[0])
		return
	}

	buf.Grow(5 + n)
	switch prefixLen(n) {
	case 1:
		_ = buf.WriteByte(0x80 | byte(n))
	case 2:
		buf.MustWrite([]byte{0xC0 | byte(n>>8), byte(n)})
	case 3:
		buf.MustWrite([]byte{0xE0 | byte(n>>16), byte(n >> 8), byte(n)})
	case 4:
		buf.MustWrite([]byte{0xF0 | byte(n>>24), byte(n >> 16), byte(n >> 8), byte(n)})
	default:
		buf.MustWrite([]byte{0xF8 | byte(n>>32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
	buf.MustWrite(atom)
}

// decodeSize parses the length prefix starting at data[pos], whose first byte
// has its high bit set and is neither NilTag, BackrefTag nor PairTag.
// It returns the atom size and the prefix length.
func decodeSize(data []byte, pos int) (size int, headerLen int, err error) {
	b := data[pos]
	ones := bits.LeadingZeros8(^b)
	if ones > 5 {
		return 0, 0, fmt.Errorf("prefix byte %#x at offset %d: %w", b, pos, errs.ErrMalformedAtomLength)
	}

	size = int(b & (0xFF >> (ones + 1)))
	for i := 1; i < ones; i++ {
		if pos+i >= len(data) {
			return 0, 0, fmt.Errorf("length prefix at offset %d: %w", pos, errs.ErrUnexpectedEOF)
		}
		size = size<<8 | int(data[pos+i])
	}

	return size, ones, nil
}

// readAtom returns the atom whose encoding starts at data[pos] and the offset
// just past it. The returned slice aliases data.
func readAtom(data []byte, pos int) ([]byte, int, error) {
	if pos >= len(data) {
		return nil, pos, fmt.Errorf("atom at offset %d: %w", pos, errs.ErrUnexpectedEOF)
	}

	b := data[pos]
	switch {
	case b <= format.MaxSingleByte:
		return data[pos : pos+1], pos + 1, nil
	case b == format.NilTag:
		return nil, pos + 1, nil
	case b == format.PairTag || b == format.BackrefTag:
		return nil, pos, fmt.Errorf("expected atom at offset %d, found tag %#x: %w", pos, b, errs.ErrInvalidEncoding)
	}

	size, headerLen, err := decodeSize(data, pos)
	if err != nil {
		return nil, pos, err
	}

	start := pos + headerLen
	if size > len(data)-start {
		return nil, pos, fmt.Errorf("atom of %d bytes at offset %d: %w", size, pos, errs.ErrUnexpectedEOF)
	}

	return data[start : start+size], start + size, nil
}

// distanceBytes returns the minimal unsigned big-endian form of d (d > 0).
func distanceBytes(d int) []byte {
	var buf [8]byte
	i := len(buf)
	for v := uint64(d); v > 0; v >>= 8 {
		i--
		buf[i] = byte(v)
	}

	return buf[i:]
}

// backrefLen returns the size of a back-reference token for distance d.
func backrefLen(d int) int {
	if d <= int(format.MaxSingleByte) {
		return 2
	}

	return 2 + (bits.Len64(uint64(d))+7)/8
}

// parseDistance interprets a back-reference payload as an unsigned distance.
func parseDistance(b []byte) (int, bool) {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	if len(b) > 7 {
		return 0, false
	}

	d := 0
	for _, c := range b {
		d = d<<8 | int(c)
	}

	return d, true
}
