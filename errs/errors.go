// Package errs defines the error values returned by the clvm packages.
//
// Every error belongs to exactly one category. Callers branch on the category
// or on the specific error with errors.Is:
//
//	if errors.Is(err, errs.ErrCostExceeded) {
//	    // retry with a larger budget
//	}
//	if errors.Is(err, errs.ErrEncoding) {
//	    // corrupt or truncated input
//	}
package errs

import "errors"

// Categories.
var (
	// ErrStructural reports a node of the wrong shape, such as a pair where an atom is required.
	ErrStructural = errors.New("structural error")
	// ErrEncoding reports a malformed or truncated wire stream.
	ErrEncoding = errors.New("encoding error")
	// ErrResource reports an exhausted budget or limit.
	ErrResource = errors.New("resource error")
	// ErrArithmetic reports an operand outside an operation's domain.
	ErrArithmetic = errors.New("arithmetic error")
)

// Structural errors.
var (
	ErrNotAnAtom     = newError(ErrStructural, "expected an atom, got a pair")
	ErrArity         = newError(ErrStructural, "wrong number of arguments")
	ErrNotAList      = newError(ErrStructural, "argument list is not a proper list")
	ErrArenaMismatch = newError(ErrStructural, "node belongs to a different arena")
	ErrUnknownOpcode = newError(ErrStructural, "unknown opcode")
)

// Encoding errors.
var (
	ErrMalformedAtomLength    = newError(ErrEncoding, "malformed atom length prefix")
	ErrUnexpectedEOF          = newError(ErrEncoding, "unexpected end of stream")
	ErrInvalidEncoding        = newError(ErrEncoding, "invalid encoding")
	ErrDanglingBackref        = newError(ErrEncoding, "back-reference does not point to a decoded node")
	ErrBackrefCycle           = newError(ErrEncoding, "back-reference points to an unfinished node")
	ErrInvalidHeader          = newError(ErrEncoding, "invalid blob header")
	ErrChecksumMismatch       = newError(ErrEncoding, "payload checksum mismatch")
	ErrUnsupportedCompression = newError(ErrEncoding, "unsupported compression type")
	ErrDecompressedSize       = newError(ErrEncoding, "decompressed size out of bounds")
)

// Resource errors.
var (
	ErrSerializeLimitExceeded = newError(ErrResource, "serialized size limit exceeded")
	ErrCostExceeded           = newError(ErrResource, "cost exceeded")
	ErrOutOfMemory            = newError(ErrResource, "arena heap limit exceeded")
	ErrSerializerDone         = newError(ErrResource, "serializer already finished")
)

// Arithmetic errors.
var (
	ErrDivisionByZero            = newError(ErrArithmetic, "division by zero")
	ErrInvalidShiftAmount        = newError(ErrArithmetic, "shift amount out of range")
	ErrInvalidModpowPrecondition = newError(ErrArithmetic, "modpow requires a non-zero modulus and a non-negative exponent")
)

type categorized struct {
	category error
	msg      string
}

func newError(category error, msg string) error {
	return &categorized{category: category, msg: msg}
}

func (e *categorized) Error() string {
	return e.msg
}

// Unwrap exposes the category so errors.Is(err, ErrEncoding) holds for every encoding error.
func (e *categorized) Unwrap() error {
	return e.category
}

// Category returns the category sentinel of err, or nil when err is not a clvm error.
func Category(err error) error {
	for _, c := range []error{ErrStructural, ErrEncoding, ErrResource, ErrArithmetic} {
		if errors.Is(err, c) {
			return c
		}
	}

	return nil
}
