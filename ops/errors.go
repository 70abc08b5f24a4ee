package ops

import (
	"fmt"

	"github.com/arloliu/clvm/arena"
)

// EvalError is the failure of one opcode call. Node is the argument (or the
// argument list) that caused it. Err is, or wraps, one of the errs sentinels.
type EvalError struct {
	Op   string
	Node arena.NodePtr
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func fail(op string, node arena.NodePtr, err error) (Reduction, error) {
	return Reduction{}, &EvalError{Op: op, Node: node, Err: err}
}
