package compress

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/stretchr/testify/require"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// streamLike returns bytes shaped like a plain wire stream: a list of
// repeated 32-byte atoms with small numbers between them.
func streamLike(items int) []byte {
	rng := rand.New(rand.NewSource(int64(items)))
	ids := make([][]byte, 8)
	for i := range ids {
		ids[i] = make([]byte, 32)
		rng.Read(ids[i])
	}

	var buf bytes.Buffer
	for i := range items {
		buf.WriteByte(0xff)
		buf.WriteByte(0xff)
		buf.WriteByte(0xa0)
		buf.Write(ids[rng.Intn(len(ids))])
		buf.WriteByte(byte(i & 0x7f))
	}
	buf.WriteByte(0x80)

	return buf.Bytes()
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":  {},
		"single": {0x80},
		"small":  streamLike(3),
		"large":  streamLike(5000),
	}

	for _, typ := range allTypes {
		codec, err := GetCodec(typ)
		require.NoError(t, err)

		for name, data := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				for _, hint := range []int{0, len(data)} {
					out, err := codec.Decompress(compressed, hint)
					require.NoError(t, err)
					require.True(t, bytes.Equal(data, out), "hint %d", hint)
				}
			})
		}
	}
}

func TestCodecs_Compress(t *testing.T) {
	data := streamLike(5000)

	for _, typ := range allTypes[1:] {
		stats, err := Measure(typ, data)
		require.NoError(t, err)
		require.Equal(t, typ, stats.Algorithm)
		require.Less(t, stats.CompressionRatio(), 0.5, "%s should shrink repetitive streams", typ)
		require.Greater(t, stats.SpaceSavings(), 50.0)
	}

	stats, err := Measure(format.CompressionNone, data)
	require.NoError(t, err)
	require.InDelta(t, 1.0, stats.CompressionRatio(), 1e-9)
}

func TestCodecs_CorruptInput(t *testing.T) {
	garbage := []byte{0x05, 0xff, 0xff, 0xff}

	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(typ)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage, 0)
		require.Error(t, err, typ.String())
	}
}

func TestCodecs_DecodedSize(t *testing.T) {
	data := streamLike(50)

	for _, typ := range allTypes {
		codec, err := GetCodec(typ)
		require.NoError(t, err)
		compressed, err := codec.Compress(data)
		require.NoError(t, err)

		tests := []struct {
			name string
			hint int
		}{
			{"one short", len(data) - 1},
			{"one over", len(data) + 1},
			{"far over", len(data) * 1000},
			{"negative", -1},
			{"above limit", MaxDecodedSize + 1},
		}

		for _, tt := range tests {
			t.Run(typ.String()+"/"+tt.name, func(t *testing.T) {
				out, err := codec.Decompress(compressed, tt.hint)
				require.ErrorIs(t, err, errs.ErrDecompressedSize)
				require.ErrorIs(t, err, errs.ErrEncoding)
				require.Nil(t, out)
			})
		}

		t.Run(typ.String()+"/empty with hint", func(t *testing.T) {
			_, err := codec.Decompress(nil, 8)
			require.ErrorIs(t, err, errs.ErrDecompressedSize)
		})
	}
}

func TestS2Compressor_Decompress(t *testing.T) {
	codec := NewS2Compressor()

	tests := []struct {
		name     string
		declared uint64
		hint     int
	}{
		{"above limit", 1<<32 - 1, 0},
		{"just above limit", MaxDecodedSize + 1, 0},
		{"disagrees with hint", 1 << 20, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A block header claiming a large output followed by a few bytes
			// of body; the claim alone must be rejected.
			block := binary.AppendUvarint(nil, tt.declared)
			block = append(block, 0x00, 0x61, 0x62)

			_, err := codec.Decompress(block, tt.hint)
			require.ErrorIs(t, err, errs.ErrDecompressedSize)
		})
	}
}

func TestZstdCompressor_Decompress(t *testing.T) {
	codec := NewZstdCompressor()

	data := streamLike(200)
	frame, err := codec.Compress(data)
	require.NoError(t, err)

	out, err := codec.Decompress(frame, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)

	// Two concatenated frames decode to twice the recorded first-frame size.
	double := append(append([]byte(nil), frame...), frame...)
	_, err = codec.Decompress(double, len(data))
	require.ErrorIs(t, err, errs.ErrDecompressedSize)

	out, err = codec.Decompress(double, 2*len(data))
	require.ErrorIs(t, err, errs.ErrDecompressedSize)
	require.Nil(t, out)
}

func TestLZ4Compressor_Decompress(t *testing.T) {
	codec := NewLZ4Compressor()

	data := streamLike(200)
	block, err := codec.Compress(data)
	require.NoError(t, err)

	out, err := codec.Decompress(block, 0)
	require.NoError(t, err)
	require.Equal(t, data, out)

	_, err = codec.Decompress(block[:4], lz4MaxRatio*4+1)
	require.ErrorIs(t, err, errs.ErrDecompressedSize)
}

func TestCreateCodec(t *testing.T) {
	for _, typ := range allTypes {
		codec, err := CreateCodec(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x7f))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestCompressionStats_Empty(t *testing.T) {
	var stats CompressionStats
	require.Zero(t, stats.CompressionRatio())
}

func BenchmarkCodecs(b *testing.B) {
	data := streamLike(20_000)

	for _, typ := range allTypes {
		codec, _ := GetCodec(typ)
		compressed, _ := codec.Compress(data)

		b.Run(typ.String()+"/Compress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
		b.Run(typ.String()+"/Decompress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed, len(data))
			}
		})
	}
}
