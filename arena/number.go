package arena

import (
	"math/big"
)

// NumberFromBytes decodes b as a big-endian two's-complement signed integer.
//
// Any length is accepted, including redundant sign-extension bytes; an empty
// slice is 0.
func NumberFromBytes(b []byte) *big.Int {
	n := new(big.Int)
	if len(b) == 0 {
		return n
	}

	n.SetBytes(b)
	if b[0]&0x80 != 0 {
		// negative: subtract 2^(8*len)
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8))
	}

	return n
}

// UnsignedFromBytes decodes b as a big-endian unsigned magnitude, ignoring the sign bit.
func UnsignedFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// NumberToBytes returns the canonical minimal two's-complement encoding of n.
// Zero encodes as the empty slice.
func NumberToBytes(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{}
	case 1:
		mag := n.Bytes()
		if mag[0]&0x80 != 0 {
			out := make([]byte, len(mag)+1)
			copy(out[1:], mag)

			return out
		}

		return mag
	}

	// n < 0: the shortest k with -2^(8k-1) <= n is bitlen(-n-1)/8 + 1.
	notN := new(big.Int).Not(n) // -n-1
	k := notN.BitLen()/8 + 1
	v := new(big.Int).Lsh(big.NewInt(1), uint(k)*8)
	v.Add(v, n)

	return v.FillBytes(make([]byte, k))
}

// NumberLen returns the length of the canonical encoding of n without allocating it.
func NumberLen(n *big.Int) int {
	switch n.Sign() {
	case 0:
		return 0
	case 1:
		return n.BitLen()/8 + 1
	default:
		return new(big.Int).Not(n).BitLen()/8 + 1
	}
}

// IsCanonical reports whether b is the minimal encoding of the integer it represents.
func IsCanonical(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	if len(b) == 1 {
		return b[0] != 0
	}
	if b[0] == 0x00 && b[1]&0x80 == 0 {
		return false
	}
	if b[0] == 0xFF && b[1]&0x80 != 0 {
		return false
	}

	return true
}

// smallValue returns the inline value of b when b is a canonical non-negative
// integer not above MaxSmallAtom.
func smallValue(b []byte) (uint32, bool) {
	if len(b) == 0 {
		return 0, true
	}
	if len(b) > 4 || b[0]&0x80 != 0 || !IsCanonical(b) {
		return 0, false
	}

	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	if v > MaxSmallAtom {
		return 0, false
	}

	return v, true
}

// smallBytes returns the canonical encoding of a small atom value.
func smallBytes(v uint32) []byte {
	if v == 0 {
		return []byte{}
	}

	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte(v)
		v >>= 8
	}
	if buf[i]&0x80 != 0 {
		i--
		buf[i] = 0
	}

	return append([]byte(nil), buf[i:]...)
}

// smallLen returns len(smallBytes(v)).
func smallLen(v uint32) int {
	switch {
	case v == 0:
		return 0
	case v < 0x80:
		return 1
	case v < 0x8000:
		return 2
	case v < 0x80_0000:
		return 3
	default:
		return 4
	}
}
