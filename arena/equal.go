package arena

type nodePair struct {
	x NodePtr
	y NodePtr
}

// Equal reports whether node x of arena a and node y of arena b have the same
// structure and atom contents. Handles are compared by content, never by identity,
// so the two nodes may come from different arenas.
//
// Pairs already proven equal are remembered, which keeps the comparison linear
// in the number of distinct handle pairs even for heavily shared graphs.
func Equal(a *Arena, x NodePtr, b *Arena, y NodePtr) bool {
	same := a == b
	seen := make(map[nodePair]struct{})
	stack := []nodePair{{x, y}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if same && top.x == top.y {
			continue
		}
		if _, ok := seen[top]; ok {
			continue
		}

		sx, sy := a.SExp(top.x), b.SExp(top.y)
		if sx.Kind != sy.Kind {
			return false
		}

		switch sx.Kind {
		case KindAtom:
			if string(sx.Atom) != string(sy.Atom) {
				return false
			}
		case KindPair:
			// A pair is marked before its children are checked; any mismatch
			// below returns false immediately, so the mark is never trusted wrongly.
			seen[top] = struct{}{}
			stack = append(stack, nodePair{sx.Rest, sy.Rest}, nodePair{sx.First, sy.First})
		}
	}

	return true
}
