package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		err      error
		category error
	}{
		{ErrNotAnAtom, ErrStructural},
		{ErrArity, ErrStructural},
		{ErrNotAList, ErrStructural},
		{ErrArenaMismatch, ErrStructural},
		{ErrUnknownOpcode, ErrStructural},
		{ErrMalformedAtomLength, ErrEncoding},
		{ErrUnexpectedEOF, ErrEncoding},
		{ErrInvalidEncoding, ErrEncoding},
		{ErrDanglingBackref, ErrEncoding},
		{ErrBackrefCycle, ErrEncoding},
		{ErrChecksumMismatch, ErrEncoding},
		{ErrDecompressedSize, ErrEncoding},
		{ErrSerializeLimitExceeded, ErrResource},
		{ErrCostExceeded, ErrResource},
		{ErrOutOfMemory, ErrResource},
		{ErrSerializerDone, ErrResource},
		{ErrDivisionByZero, ErrArithmetic},
		{ErrInvalidShiftAmount, ErrArithmetic},
		{ErrInvalidModpowPrecondition, ErrArithmetic},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("op failed: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.err)
			assert.ErrorIs(t, wrapped, tt.category)
			assert.Equal(t, tt.category, Category(wrapped))
		})
	}
}

func TestCategory_Foreign(t *testing.T) {
	require.Nil(t, Category(errors.New("something else")))
	require.Nil(t, Category(nil))
}

func TestCostExceededIsDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrCostExceeded, ErrArithmetic)
	assert.NotErrorIs(t, ErrCostExceeded, ErrInvalidEncoding)
	assert.NotErrorIs(t, ErrDivisionByZero, ErrCostExceeded)
}
