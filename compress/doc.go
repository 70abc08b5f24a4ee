// Package compress provides the compression codecs applied to wire streams
// inside a framed blob.
//
// Supported algorithms:
//   - None: pass-through
//   - Zstd: best ratio, moderate speed (klauspost/compress/zstd)
//   - S2: balanced (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4)
//
// Back-referenced streams are already deduplicated at the subtree level, so
// general-purpose compression mostly pays off on plain streams and on streams
// whose atoms repeat without sharing handles.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(stream)
//	stream, err = codec.Decompress(packed, len(stream))
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use. Decompression errors from the underlying libraries are
// wrapped with the algorithm name.
package compress
