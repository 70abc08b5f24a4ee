package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest is a streaming xxHash64 state. The zero value is not usable; call NewDigest.
type Digest = xxhash.Digest

// NewDigest returns a fresh streaming hasher.
func NewDigest() *Digest {
	return xxhash.New()
}
