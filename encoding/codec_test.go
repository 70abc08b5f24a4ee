package encoding

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/stretchr/testify/require"
)

func mustAtom(t testing.TB, a *arena.Arena, b []byte) arena.NodePtr {
	t.Helper()
	n, err := a.NewAtom(b)
	require.NoError(t, err)

	return n
}

// =============================================================================
// Atom Framing Tests
// =============================================================================

func TestAppendAtom_Framing(t *testing.T) {
	tests := []struct {
		name   string
		atom   []byte
		prefix []byte
	}{
		{"nil", nil, []byte{0x80}},
		{"single byte zero", []byte{0x00}, []byte{0x00}},
		{"single byte 0x7f", []byte{0x7f}, []byte{0x7f}},
		{"single byte 0x80", []byte{0x80}, []byte{0x81}},
		{"two bytes", []byte{0x01, 0x02}, []byte{0x82}},
		{"63 bytes", make([]byte, 63), []byte{0xbf}},
		{"64 bytes", make([]byte, 64), []byte{0xc0, 0x40}},
		{"8191 bytes", make([]byte, 0x1fff), []byte{0xdf, 0xff}},
		{"8192 bytes", make([]byte, 0x2000), []byte{0xe0, 0x20, 0x00}},
		{"1 MiB", make([]byte, 0x100000), []byte{0xf0, 0x10, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := arena.New()
			n := mustAtom(t, a, tt.atom)

			data, err := Encode(a, n)
			require.NoError(t, err)
			require.Equal(t, tt.prefix, data[:len(tt.prefix)])
			require.Equal(t, atomEncodedLen(tt.atom), len(data))

			atom, next, err := readAtom(data, 0)
			require.NoError(t, err)
			require.Equal(t, len(data), next)
			require.True(t, bytes.Equal(tt.atom, atom))
		})
	}
}

func TestBackrefLen(t *testing.T) {
	require.Equal(t, 2, backrefLen(1))
	require.Equal(t, 2, backrefLen(0x7f))
	require.Equal(t, 3, backrefLen(0x80))
	require.Equal(t, 3, backrefLen(0xff))
	require.Equal(t, 4, backrefLen(0x100))

	for _, d := range []int{1, 0x7f, 0x80, 0x100, 0xffffff} {
		b := distanceBytes(d)
		got, ok := parseDistance(b)
		require.True(t, ok)
		require.Equal(t, d, got)
		require.Equal(t, backrefLen(d), 1+atomEncodedLen(b))
	}
}

func TestParseDistance_LeadingZeros(t *testing.T) {
	d, ok := parseDistance([]byte{0x00, 0x00, 0x05})
	require.True(t, ok)
	require.Equal(t, 5, d)

	_, ok = parseDistance([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.False(t, ok)
}

// =============================================================================
// Plain Codec Tests
// =============================================================================

func TestEncode_Pair(t *testing.T) {
	a := arena.New()
	big := mustAtom(t, a, []byte("hello"))
	root := a.NewPair(a.One(), a.NewPair(big, arena.Nil))

	data, err := Encode(a, root)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x01, 0xff, 0x85, 'h', 'e', 'l', 'l', 'o', 0x80}, data)

	b := arena.New()
	node, err := Decode(b, data)
	require.NoError(t, err)
	require.True(t, arena.Equal(a, root, b, node))
}

func TestEncode_SharingWrittenInFull(t *testing.T) {
	a := arena.New()
	x := mustAtom(t, a, []byte("0123456789"))
	root := a.NewPair(x, x)

	data, err := Encode(a, root)
	require.NoError(t, err)
	require.Len(t, data, 1+11+11)

	b := arena.New()
	node, err := Decode(b, data)
	require.NoError(t, err)
	first, rest, ok := b.Pair(node)
	require.True(t, ok)
	require.NotEqual(t, first, rest, "plain decoding does not restore sharing")
	require.True(t, b.AtomEq(first, rest))
}

func TestEncode_Limit(t *testing.T) {
	a := arena.New()
	x := mustAtom(t, a, make([]byte, 100))

	_, err := Encode(a, a.NewPair(x, x), WithLimit(150))
	require.ErrorIs(t, err, errs.ErrSerializeLimitExceeded)
	require.ErrorIs(t, err, errs.ErrResource)

	data, err := Encode(a, a.NewPair(x, x), WithLimit(205))
	require.NoError(t, err)
	require.Len(t, data, 205)
}

func TestEncoderOptions_Invalid(t *testing.T) {
	a := arena.New()

	_, err := Encode(a, arena.Nil, WithLimit(-1))
	require.Error(t, err)

	_, err = NewSerializer(WithSentinel(arena.Nil))
	require.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrUnexpectedEOF},
		{"pair missing rest", []byte{0xff, 0x01}, errs.ErrUnexpectedEOF},
		{"atom body truncated", []byte{0x82, 0x01}, errs.ErrUnexpectedEOF},
		{"length prefix truncated", []byte{0xc0}, errs.ErrUnexpectedEOF},
		{"prefix 0xfc", []byte{0xfc, 0, 0, 0, 0, 0}, errs.ErrMalformedAtomLength},
		{"prefix 0xfd", []byte{0xfd}, errs.ErrMalformedAtomLength},
		{"trailing bytes", []byte{0x01, 0x02}, errs.ErrInvalidEncoding},
		{"backref in plain stream", []byte{0xff, 0x82, 1, 2, 0xfe, 0x03}, errs.ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(arena.New(), tt.data)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrEncoding)
		})
	}
}

// =============================================================================
// Back-reference Codec Tests
// =============================================================================

func TestEncodeBackrefs_SharedAtom(t *testing.T) {
	a := arena.New()
	x := mustAtom(t, a, []byte("0123456789"))

	data, err := EncodeBackrefs(a, a.NewPair(x, x))
	require.NoError(t, err)

	want := append([]byte{0xff, 0x8a}, "0123456789"...)
	want = append(want, 0xfe, 0x0b)
	require.Equal(t, want, data)

	b := arena.New()
	node, err := DecodeBackrefs(b, data)
	require.NoError(t, err)
	first, rest, _ := b.Pair(node)
	require.Equal(t, first, rest, "back-references restore sharing")
}

func TestEncodeBackrefs_SharedPair(t *testing.T) {
	a := arena.New()
	x := mustAtom(t, a, []byte("0123456789"))
	q := a.NewPair(x, x)

	data, err := EncodeBackrefs(a, a.NewPair(q, q))
	require.NoError(t, err)
	// ff | q: ff <x> fe 0b | fe 0e
	require.Len(t, data, 1+(1+11+2)+2)
	require.Equal(t, []byte{0xfe, 0x0e}, data[len(data)-2:])
}

func TestEncodeBackrefs_RecordsLiteralWrites(t *testing.T) {
	a := arena.New()
	short := mustAtom(t, a, []byte("ab"))
	long := mustAtom(t, a, []byte("0123456789"))
	filler := mustAtom(t, a, bytes.Repeat([]byte{0x5a}, 200))

	tests := []struct {
		name string
		root arena.NodePtr
		at   int
		want []byte
	}{
		{
			// The second "ab" is 207 bytes after the first, where a reference
			// is as long as the atom; it is written again and the third one
			// refers to that nearer copy.
			name: "re-emitted atom becomes the target",
			root: a.NewList(short, filler, short, short),
			at:   208,
			want: []byte{0x82, 'a', 'b', 0xff, 0xfe, 0x04, 0x80},
		},
		{
			// ff <long> ff fe 0c ff fe 0f 80: the third reference skips the
			// second one and points at the literal.
			name: "reference does not become the target",
			root: a.NewList(long, long, long),
			at:   13,
			want: []byte{0xfe, 0x0c, 0xff, 0xfe, 0x0f, 0x80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeBackrefs(a, tt.root)
			require.NoError(t, err)
			require.Equal(t, tt.want, data[tt.at:])

			b := arena.New()
			node, err := DecodeBackrefs(b, data)
			require.NoError(t, err)
			require.True(t, arena.Equal(a, tt.root, b, node))
		})
	}
}

func TestEncodeBackrefs_ShortNodesNotReferenced(t *testing.T) {
	a := arena.New()
	small := mustAtom(t, a, []byte{0x80})
	root := a.NewList(a.One(), a.One(), small, small)

	data, err := EncodeBackrefs(a, root)
	require.NoError(t, err)

	plain, err := Encode(a, root)
	require.NoError(t, err)
	require.Equal(t, plain, data)
}

func TestEncodeBackrefs_DoublingDAG(t *testing.T) {
	const depth = 30

	a := arena.New()
	n := mustAtom(t, a, bytes.Repeat([]byte{0xab}, 32))
	for range depth {
		n = a.NewPair(n, n)
	}

	data, err := EncodeBackrefs(a, n)
	require.NoError(t, err)
	require.Less(t, len(data), 34+depth*4)

	_, err = Encode(a, n, WithLimit(1<<20))
	require.ErrorIs(t, err, errs.ErrSerializeLimitExceeded)

	b := arena.New()
	node, err := DecodeBackrefs(b, data)
	require.NoError(t, err)
	require.Equal(t, depth, b.PairCount())
	require.True(t, arena.Equal(a, n, b, node))
	require.Equal(t, Fingerprint(a, n), Fingerprint(b, node))
}

func TestEncodeBackrefs_LinearInRepetitions(t *testing.T) {
	a := arena.New()
	item := a.NewList(mustAtom(t, a, bytes.Repeat([]byte{7}, 100)), a.One())

	sizes := make(map[int]int)
	for _, count := range []int{10, 100} {
		items := make([]arena.NodePtr, count)
		for i := range items {
			items[i] = item
		}

		data, err := EncodeBackrefs(a, a.NewList(items...))
		require.NoError(t, err)
		sizes[count] = len(data)
	}

	// Every repetition after the first costs a pair tag plus a short token.
	perItem := float64(sizes[100]-sizes[10]) / 90
	require.LessOrEqual(t, perItem, 5.0)
}

func TestDecodeBackrefs_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"reference before start", []byte{0xfe, 0x01}, errs.ErrDanglingBackref},
		{"zero distance", []byte{0xff, 0x01, 0xfe, 0x80}, errs.ErrDanglingBackref},
		{"reference to enclosing pair", []byte{0xff, 0xfe, 0x01}, errs.ErrBackrefCycle},
		{"reference into atom body", []byte{0xff, 0x82, 1, 2, 0xfe, 0x02}, errs.ErrDanglingBackref},
		{"reference to reference", []byte{0xff, 0x82, 1, 2, 0xff, 0xfe, 0x04, 0xfe, 0x02}, errs.ErrDanglingBackref},
		{"oversized distance", []byte{0xff, 0x01, 0xfe, 0x88, 1, 2, 3, 4, 5, 6, 7, 8}, errs.ErrDanglingBackref},
		{"truncated distance", []byte{0xff, 0x01, 0xfe}, errs.ErrUnexpectedEOF},
		{"pair as distance", []byte{0xff, 0x01, 0xfe, 0xff}, errs.ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBackrefs(arena.New(), tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeBackrefs_AcceptsPlain(t *testing.T) {
	data := []byte{0xff, 0x01, 0xff, 0x85, 'h', 'e', 'l', 'l', 'o', 0x80}

	a := arena.New()
	n, err := DecodeBackrefs(a, data)
	require.NoError(t, err)
	require.Equal(t, 2, a.ListLen(n))
}

func TestDecode_HeapLimit(t *testing.T) {
	data := append([]byte{0xc0, 0x80}, make([]byte, 128)...)

	_, err := Decode(arena.New(arena.WithHeapLimit(64)), data)
	require.ErrorIs(t, err, errs.ErrOutOfMemory)
}

// =============================================================================
// SerializedLength and Fingerprint Tests
// =============================================================================

func TestSerializedLength(t *testing.T) {
	a := arena.New()
	x := mustAtom(t, a, []byte("0123456789"))
	root := a.NewList(x, x, a.NewPair(x, a.One()))

	for _, encode := range []func(*arena.Arena, arena.NodePtr, ...EncoderOption) ([]byte, error){Encode, EncodeBackrefs} {
		data, err := encode(a, root)
		require.NoError(t, err)

		n, err := SerializedLength(data)
		require.NoError(t, err)
		require.Equal(t, len(data), n)

		n, err = SerializedLength(append(data, 0x01, 0x02))
		require.NoError(t, err)
		require.Equal(t, len(data), n, "trailing bytes are not counted")

		_, err = SerializedLength(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	}

	_, err := SerializedLength([]byte{0xfd})
	require.ErrorIs(t, err, errs.ErrMalformedAtomLength)
}

func TestFingerprint(t *testing.T) {
	a := arena.New()
	b := arena.New()

	x := a.NewList(mustAtom(t, a, []byte("abc")), a.One())
	y := b.NewList(mustAtom(t, b, []byte("abc")), b.One())
	require.Equal(t, Fingerprint(a, x), Fingerprint(b, y))

	z := b.NewList(mustAtom(t, b, []byte("abd")), b.One())
	require.NotEqual(t, Fingerprint(a, x), Fingerprint(b, z))

	// An atom never collides with a pair holding the same bytes.
	require.NotEqual(t, Fingerprint(a, arena.Nil), Fingerprint(a, a.NewPair(arena.Nil, arena.Nil)))

	f := NewFingerprinter(a)
	require.Equal(t, f.Sum(x), f.Sum(x))
	require.Equal(t, Fingerprint(a, x), f.Sum(x))
}

// =============================================================================
// Property Tests
// =============================================================================

// randomGraph builds a DAG with random sharing and returns its root.
func randomGraph(t testing.TB, rng *rand.Rand, a *arena.Arena, nodes int) arena.NodePtr {
	t.Helper()

	pool := []arena.NodePtr{arena.Nil}
	for range nodes {
		if rng.Intn(3) == 0 {
			buf := make([]byte, rng.Intn(70))
			rng.Read(buf)
			pool = append(pool, mustAtom(t, a, buf))

			continue
		}
		first := pool[rng.Intn(len(pool))]
		rest := pool[rng.Intn(len(pool))]
		pool = append(pool, a.NewPair(first, rest))
	}

	return pool[len(pool)-1]
}

func TestCodec_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := range 300 {
		a := arena.New()
		root := randomGraph(t, rng, a, 1+rng.Intn(60))

		compact, err := EncodeBackrefs(a, root)
		require.NoError(t, err, "iteration %d", i)

		b := arena.New()
		shared, err := DecodeBackrefs(b, compact)
		require.NoError(t, err, "iteration %d", i)
		require.True(t, arena.Equal(a, root, b, shared), "iteration %d", i)
		require.Equal(t, Fingerprint(a, root), Fingerprint(b, shared))

		// Re-encoding a decoded back-referenced stream is stable.
		again, err := EncodeBackrefs(b, shared)
		require.NoError(t, err)
		require.Equal(t, compact, again)

		n, err := SerializedLength(compact)
		require.NoError(t, err)
		require.Equal(t, len(compact), n)

		plain, err := Encode(a, root, WithLimit(1<<20))
		if err != nil {
			require.ErrorIs(t, err, errs.ErrSerializeLimitExceeded)
			continue
		}
		require.LessOrEqual(t, len(compact), len(plain))

		c := arena.New()
		node, err := Decode(c, plain)
		require.NoError(t, err)
		require.True(t, arena.Equal(a, root, c, node))
	}
}

func TestDecodeBackrefs_RandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 2000 {
		data := make([]byte, rng.Intn(24))
		rng.Read(data)

		a := arena.New()
		node, err := DecodeBackrefs(a, data)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrEncoding)
			continue
		}

		// Whatever decodes re-encodes to a stream that decodes to an equal tree.
		out, err := EncodeBackrefs(a, node)
		require.NoError(t, err)
		b := arena.New()
		again, err := DecodeBackrefs(b, out)
		require.NoError(t, err)
		require.True(t, arena.Equal(a, node, b, again))
	}
}
