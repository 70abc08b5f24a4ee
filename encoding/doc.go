// Package encoding implements the wire format of S-expression graphs.
//
// A stream is a pre-order walk of the graph. Every node starts with one byte:
//
//	0x00-0x7F  one-byte atom holding that byte
//	0x80       nil, the empty atom
//	0x81-0xBF  atom of 1-63 bytes, the bytes follow
//	0xC0-0xFB  longer atom, 2 to 5 byte length prefix
//	0xFE       back-reference, followed by an atom holding the distance
//	0xFF       pair, followed by its first and then its rest
//
// A back-reference distance is the unsigned big-endian number of bytes from the
// 0xFE byte back to where the referenced node's encoding started. Distances
// are strictly positive, so a reference can only name a node that is already
// decoded, and never an enclosing pair that is still open.
//
// # Plain and back-referenced streams
//
// Encode writes every occurrence of a shared subtree in full. EncodeBackrefs
// replaces a repeated handle by a reference when the token is shorter than
// the literal subtree; repeated subtrees cost one token each instead of their
// full size. DecodeBackrefs reads both kinds of stream, Decode only plain ones.
//
//	a := arena.New()
//	root := a.NewList(a.One(), a.One())
//	data, err := encoding.EncodeBackrefs(a, root)
//	if err != nil {
//	    return err
//	}
//	b := arena.New()
//	node, err := encoding.DecodeBackrefs(b, data)
//
// Sharing is tracked by handle identity. Two equal subtrees built separately
// are different handles and are both written in full.
//
// # Incremental serialization
//
// Serializer builds one back-referenced stream from several Add calls, which
// keeps a single reference table across all of them. See Serializer for the
// sentinel protocol.
package encoding
