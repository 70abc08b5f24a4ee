package blob

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/compress"
	"github.com/arloliu/clvm/encoding"
	"github.com/arloliu/clvm/endian"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/section"
	"github.com/stretchr/testify/require"
)

// sharedTree builds a list whose items repeat one 32-byte atom and one
// sub-list, so back-reference streams are much shorter than plain ones.
func sharedTree(tb testing.TB, a *arena.Arena, items int) arena.NodePtr {
	tb.Helper()

	id, err := a.NewAtom(bytes.Repeat([]byte{0xab}, 32))
	require.NoError(tb, err)
	amount, err := a.NewAtom([]byte{0x01, 0x00, 0x00})
	require.NoError(tb, err)
	inner := a.NewList(id, amount, id)

	list := arena.Nil
	for i := range items {
		n, err := a.NewSmallNumber(uint32(i))
		require.NoError(tb, err)
		list = a.NewPair(a.NewList(n, inner, id), list)
	}

	return list
}

// =============================================================================
// Pack / Unpack
// =============================================================================

func TestPack_RoundTrip(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, c := range compressions {
		for _, backrefs := range []bool{true, false} {
			name := c.String() + "/plain"
			if backrefs {
				name = c.String() + "/backrefs"
			}

			t.Run(name, func(t *testing.T) {
				src := arena.New()
				root := sharedTree(t, src, 200)

				data, err := Pack(src, root, WithCompression(c), WithBackrefs(backrefs))
				require.NoError(t, err)

				b, err := Open(data)
				require.NoError(t, err)
				require.Equal(t, c, b.Compression())
				if backrefs {
					require.Equal(t, format.StreamBackref, b.StreamType())
				} else {
					require.Equal(t, format.StreamPlain, b.StreamType())
				}

				dst := arena.New()
				got, err := Unpack(dst, data)
				require.NoError(t, err)
				require.True(t, arena.Equal(src, root, dst, got))
			})
		}
	}
}

func TestPack_StreamMatchesEncoder(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 50)

	want, err := encoding.EncodeBackrefs(a, root)
	require.NoError(t, err)

	data, err := Pack(a, root)
	require.NoError(t, err)
	require.Equal(t, want, data[section.HeaderSize:])

	b, err := Open(data)
	require.NoError(t, err)
	stream, err := b.Stream()
	require.NoError(t, err)
	require.Equal(t, want, stream)

	h := b.Header()
	require.Equal(t, uint64(len(want)), h.PayloadLength)
	require.Equal(t, h.PayloadLength, h.CompressedLength)
	require.InDelta(t, 1.0, b.Stats().CompressionRatio(), 1e-9)
}

func TestPack_Compresses(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 2000)

	plain, err := Pack(a, root, WithBackrefs(false))
	require.NoError(t, err)
	packed, err := Pack(a, root, WithBackrefs(false), WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	require.Less(t, len(packed), len(plain)/4)

	b, err := Open(packed)
	require.NoError(t, err)
	require.Greater(t, b.Stats().SpaceSavings(), 75.0)
}

func TestPack_ByteOrder(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 5)

	little, err := Pack(a, root)
	require.NoError(t, err)
	big, err := Pack(a, root, WithByteOrder(endian.GetBigEndianEngine()))
	require.NoError(t, err)

	require.Equal(t, len(little), len(big))
	require.NotEqual(t, little[:section.HeaderSize], big[:section.HeaderSize])
	require.Equal(t, little[section.HeaderSize:], big[section.HeaderSize:])

	for _, data := range [][]byte{little, big} {
		got, err := Unpack(a, data)
		require.NoError(t, err)
		require.True(t, arena.Equal(a, root, a, got))
	}
}

func TestPack_Options(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 100)

	_, err := Pack(a, root, WithCompression(format.CompressionType(0x0f)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = Pack(a, root, WithSerializeLimit(-1))
	require.Error(t, err)

	_, err = Pack(a, root, WithByteOrder(nil))
	require.Error(t, err)

	_, err = Pack(a, root, WithBackrefs(false), WithSerializeLimit(64))
	require.ErrorIs(t, err, errs.ErrSerializeLimitExceeded)

	data, err := Pack(a, root, WithSerializeLimit(1<<20))
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

// =============================================================================
// Corruption
// =============================================================================

func TestUnpack_Corrupt(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 20)

	valid, err := Pack(a, root)
	require.NoError(t, err)
	zstd, err := Pack(a, root, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	s2, err := Pack(a, root, WithCompression(format.CompressionS2))
	require.NoError(t, err)

	mutate := func(src []byte, fn func(b []byte) []byte) []byte {
		return fn(append([]byte(nil), src...))
	}
	payloadLength := func(n uint64) func(b []byte) []byte {
		return func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[section.PayloadLengthOffset:], n)
			return b
		}
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrInvalidHeader},
		{"header only", valid[:section.HeaderSize], errs.ErrInvalidHeader},
		{"truncated payload", valid[:len(valid)-1], errs.ErrInvalidHeader},
		{"trailing bytes", append(append([]byte(nil), valid...), 0x80), errs.ErrInvalidHeader},
		{"bad magic", mutate(valid, func(b []byte) []byte { b[1] ^= 0xff; return b }), errs.ErrInvalidHeader},
		{"unknown compression", mutate(valid, func(b []byte) []byte { b[3] = 0x09; return b }), errs.ErrUnsupportedCompression},
		{"payload bit flip", mutate(valid, func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }), errs.ErrChecksumMismatch},
		{"checksum bit flip", mutate(valid, func(b []byte) []byte { b[section.ChecksumOffset] ^= 0x01; return b }), errs.ErrChecksumMismatch},
		{"compressed payload flip", mutate(zstd, func(b []byte) []byte { b[section.HeaderSize+4] ^= 0xff; return b }), errs.ErrEncoding},
		{"length mismatch", mutate(zstd, func(b []byte) []byte { b[section.PayloadLengthOffset]++; return b }), errs.ErrDecompressedSize},
		{"s2 length mismatch", mutate(s2, payloadLength(1<<20)), errs.ErrDecompressedSize},
		{"length above limit", mutate(s2, payloadLength(compress.MaxDecodedSize+1)), errs.ErrInvalidHeader},
		{"length wraps int", mutate(zstd, payloadLength(1<<63)), errs.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(arena.New(), tt.data)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrEncoding)
		})
	}
}

func TestUnpack_StreamTypeMismatch(t *testing.T) {
	a := arena.New()
	root := sharedTree(t, a, 20)

	data, err := Pack(a, root)
	require.NoError(t, err)

	// Clear the back-reference bit: the plain decoder must reject 0xFE.
	data[0] &^= byte(section.BackrefMask)

	_, err = Unpack(arena.New(), data)
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)
}
