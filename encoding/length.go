package encoding

import (
	"fmt"

	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/format"
)

// SerializedLength returns the number of bytes taken by the first node in
// data, without building any node. Back-reference tokens are skipped over
// but not resolved. Bytes after the node are ignored.
func SerializedLength(data []byte) (int, error) {
	pos := 0
	pending := 1
	for pending > 0 {
		if pos >= len(data) {
			return 0, fmt.Errorf("node at offset %d: %w", pos, errs.ErrUnexpectedEOF)
		}
		pending--

		switch data[pos] {
		case format.PairTag:
			pos++
			pending += 2
		case format.BackrefTag:
			_, next, err := readAtom(data, pos+1)
			if err != nil {
				return 0, err
			}
			pos = next
		default:
			_, next, err := readAtom(data, pos)
			if err != nil {
				return 0, err
			}
			pos = next
		}
	}

	return pos, nil
}
