package blob

import (
	"fmt"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/compress"
	"github.com/arloliu/clvm/encoding"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
	"github.com/arloliu/clvm/internal/hash"
	"github.com/arloliu/clvm/section"
)

// Blob is a parsed, not yet verified, framed wire stream.
//
// The payload aliases the slice passed to Open; the caller must not modify it
// while the Blob is in use.
type Blob struct {
	header  section.Header
	payload []byte
}

// Pack encodes root and frames it with a header.
func Pack(a *arena.Arena, root arena.NodePtr, opts ...PackOption) ([]byte, error) {
	cfg, err := newPackConfig(opts)
	if err != nil {
		return nil, err
	}

	var stream []byte
	if cfg.backrefs {
		stream, err = encoding.EncodeBackrefs(a, root, cfg.encoderOptions()...)
	} else {
		stream, err = encoding.Encode(a, root, cfg.encoderOptions()...)
	}
	if err != nil {
		return nil, err
	}

	payload, err := cfg.codec.Compress(stream)
	if err != nil {
		return nil, fmt.Errorf("%s compression: %w", cfg.compression, err)
	}

	header := section.NewHeader()
	header.Flag.SetEngine(cfg.engine)
	header.Flag.SetCompressionType(cfg.compression)
	if cfg.backrefs {
		header.Flag.SetStreamType(format.StreamBackref)
	}
	header.PayloadLength = uint64(len(stream))
	header.CompressedLength = uint64(len(payload))
	header.Checksum = hash.Sum64(stream)

	out := make([]byte, 0, section.HeaderSize+len(payload))
	out = header.AppendTo(out)

	return append(out, payload...), nil
}

// Unpack verifies a blob produced by Pack and decodes its stream into a.
func Unpack(a *arena.Arena, data []byte) (arena.NodePtr, error) {
	b, err := Open(data)
	if err != nil {
		return arena.Nil, err
	}

	return b.Decode(a)
}

// Open parses the header of a single blob occupying all of data.
func Open(data []byte) (Blob, error) {
	b, n, err := open(data)
	if err != nil {
		return Blob{}, err
	}
	if n != len(data) {
		return Blob{}, fmt.Errorf("%d trailing bytes after payload: %w", len(data)-n, errs.ErrInvalidHeader)
	}

	return b, nil
}

// open parses one blob at the start of data and returns its total length.
func open(data []byte) (Blob, int, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return Blob{}, 0, err
	}

	if header.PayloadLength > compress.MaxDecodedSize {
		return Blob{}, 0, fmt.Errorf("payload length %d exceeds %d: %w",
			header.PayloadLength, compress.MaxDecodedSize, errs.ErrInvalidHeader)
	}

	remaining := uint64(len(data) - section.HeaderSize)
	if header.CompressedLength > remaining {
		return Blob{}, 0, fmt.Errorf("payload needs %d bytes, have %d: %w",
			header.CompressedLength, remaining, errs.ErrInvalidHeader)
	}
	if header.Flag.CompressionType() == format.CompressionNone && header.CompressedLength != header.PayloadLength {
		return Blob{}, 0, fmt.Errorf("uncompressed payload length %d != %d: %w",
			header.CompressedLength, header.PayloadLength, errs.ErrInvalidHeader)
	}

	end := section.HeaderSize + int(header.CompressedLength)

	return Blob{header: header, payload: data[section.HeaderSize:end]}, end, nil
}

// Header returns the parsed header.
func (b Blob) Header() section.Header {
	return b.header
}

func (b Blob) StreamType() format.StreamType {
	return b.header.Flag.StreamType()
}

func (b Blob) Compression() format.CompressionType {
	return b.header.Flag.CompressionType()
}

// Stats reports the compression achieved on the payload.
func (b Blob) Stats() compress.CompressionStats {
	return compress.CompressionStats{
		Algorithm:      b.Compression(),
		OriginalSize:   int64(b.header.PayloadLength),
		CompressedSize: int64(b.header.CompressedLength),
	}
}

// Stream decompresses the payload and verifies its length and checksum. The
// header's PayloadLength is passed to the codec as the exact output size, so a
// payload claiming more is rejected before it is inflated.
func (b Blob) Stream() ([]byte, error) {
	codec, err := compress.GetCodec(b.Compression())
	if err != nil {
		return nil, err
	}

	stream, err := codec.Decompress(b.payload, int(b.header.PayloadLength))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidEncoding, err)
	}
	if uint64(len(stream)) != b.header.PayloadLength {
		return nil, fmt.Errorf("stream is %d bytes, header says %d: %w",
			len(stream), b.header.PayloadLength, errs.ErrDecompressedSize)
	}
	if sum := hash.Sum64(stream); sum != b.header.Checksum {
		return nil, fmt.Errorf("checksum %#016x, header says %#016x: %w", sum, b.header.Checksum, errs.ErrChecksumMismatch)
	}

	return stream, nil
}

// Decode verifies the payload and decodes it into a with the decoder matching
// the recorded stream type.
func (b Blob) Decode(a *arena.Arena) (arena.NodePtr, error) {
	stream, err := b.Stream()
	if err != nil {
		return arena.Nil, err
	}

	if b.StreamType() == format.StreamBackref {
		return encoding.DecodeBackrefs(a, stream)
	}

	return encoding.Decode(a, stream)
}
