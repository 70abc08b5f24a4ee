// Package blob frames a wire stream with a fixed header so it can be stored or
// transmitted on its own.
//
// A blob is a section.Header followed by the payload: a plain or
// back-reference stream, optionally compressed. The header records the stream
// kind, the compression, both lengths and the xxHash64 of the uncompressed
// stream, so corruption is detected before any node is allocated.
//
// # Packing
//
//	data, err := blob.Pack(a, root,
//	    blob.WithCompression(format.CompressionZstd),
//	    blob.WithSerializeLimit(1<<20),
//	)
//
// Back-references are on by default; WithBackrefs(false) writes a plain
// stream, which general-purpose compressors handle better when subtrees repeat
// without sharing handles.
//
// # Unpacking
//
//	root, err := blob.Unpack(a, data)
//
// or, to inspect a blob before decoding:
//
//	b, err := blob.Open(data)
//	fmt.Println(b.StreamType(), b.Stats().CompressionRatio())
//	root, err := b.Decode(a)
//
// # Errors
//
//   - errs.ErrInvalidHeader: bad magic, version, reserved bits, or lengths that
//     do not match the data
//   - errs.ErrUnsupportedCompression: unknown compression byte
//   - errs.ErrChecksumMismatch: the decompressed stream has the wrong length or hash
//   - any decoder error from the encoding package
package blob
