package arena

import (
	"fmt"

	"github.com/arloliu/clvm/errs"
)

// NewList builds the proper list (items[0] items[1] ...) terminated by Nil.
func (a *Arena) NewList(items ...NodePtr) NodePtr {
	list := Nil
	for i := len(items) - 1; i >= 0; i-- {
		list = a.NewPair(items[i], list)
	}

	return list
}

// NewNumberList builds a proper list of number atoms, the shape opcodes take as arguments.
func (a *Arena) NewNumberList(values ...[]byte) (NodePtr, error) {
	items := make([]NodePtr, len(values))
	for i, v := range values {
		atom, err := a.NewAtom(v)
		if err != nil {
			return Nil, err
		}
		items[i] = atom
	}

	return a.NewList(items...), nil
}

// ListItems returns the elements of the proper list n.
// It fails with errs.ErrNotAList when the list does not end in Nil.
func (a *Arena) ListItems(n NodePtr) ([]NodePtr, error) {
	var items []NodePtr
	for {
		first, rest, ok := a.Pair(n)
		if !ok {
			break
		}
		items = append(items, first)
		n = rest
	}
	if n != Nil {
		return nil, fmt.Errorf("list of %d items ends in %s: %w", len(items), n, errs.ErrNotAList)
	}

	return items, nil
}

// ListLen counts the pairs along the rest spine of n, stopping at the first atom.
func (a *Arena) ListLen(n NodePtr) int {
	count := 0
	for {
		_, rest, ok := a.Pair(n)
		if !ok {
			return count
		}
		count++
		n = rest
	}
}
