package ops

import (
	"errors"
	"fmt"

	"github.com/arloliu/clvm/arena"
	"github.com/arloliu/clvm/errs"
	"github.com/arloliu/clvm/internal/options"
	"github.com/ledgerwatch/log/v3"
)

// Op is the signature shared by every opcode. args is a proper list of
// atoms; maxCost is the budget the call may consume.
type Op func(a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error)

// Opcode is the one-byte wire identifier of an opcode.
type Opcode byte

const (
	OpAdd      Opcode = 16
	OpSubtract Opcode = 17
	OpMultiply Opcode = 18
	OpDiv      Opcode = 19
	OpDivMod   Opcode = 20
	OpGr       Opcode = 21
	OpAsh      Opcode = 22
	OpLsh      Opcode = 23
	OpLogAnd   Opcode = 24
	OpLogIor   Opcode = 25
	OpLogXor   Opcode = 26
	OpLogNot   Opcode = 27
	OpModPow   Opcode = 60
	OpMod      Opcode = 61
)

// Entry binds an opcode to its name and implementation.
type Entry struct {
	Code Opcode
	Name string
	Fn   Op
}

var entries = []Entry{
	{OpAdd, "+", Add},
	{OpSubtract, "-", Subtract},
	{OpMultiply, "*", Multiply},
	{OpDiv, "/", Div},
	{OpDivMod, "divmod", DivMod},
	{OpGr, ">", Gr},
	{OpAsh, "ash", Ash},
	{OpLsh, "lsh", Lsh},
	{OpLogAnd, "logand", LogAnd},
	{OpLogIor, "logior", LogIor},
	{OpLogXor, "logxor", LogXor},
	{OpLogNot, "lognot", LogNot},
	{OpModPow, "modpow", ModPow},
	{OpMod, "%", Mod},
}

var (
	byCode [256]*Entry
	byName = make(map[string]*Entry, len(entries))
)

func init() {
	for i := range entries {
		e := &entries[i]
		byCode[e.Code] = e
		byName[e.Name] = e
	}
}

func (c Opcode) String() string {
	if e := byCode[c]; e != nil {
		return e.Name
	}

	return fmt.Sprintf("Opcode(%d)", byte(c))
}

// Lookup returns the entry registered for code.
func Lookup(code Opcode) (Entry, bool) {
	if e := byCode[code]; e != nil {
		return *e, true
	}

	return Entry{}, false
}

// LookupName returns the entry registered under name.
func LookupName(name string) (Entry, bool) {
	if e, ok := byName[name]; ok {
		return *e, true
	}

	return Entry{}, false
}

// Entries returns every registered opcode in table order.
func Entries() []Entry {
	return append([]Entry(nil), entries...)
}

// Dispatcher runs opcodes identified by their wire atom or name.
// It is safe for concurrent use as long as each call has its own arena.
type Dispatcher struct {
	logger log.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption = options.Option[*Dispatcher]

// WithLogger sets the logger failures are reported to.
func WithLogger(l log.Logger) DispatcherOption {
	return options.New(func(d *Dispatcher) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		d.logger = l

		return nil
	})
}

// NewDispatcher creates a dispatcher. Without WithLogger it logs through the
// root logger with pkg=ops.
func NewDispatcher(opts ...DispatcherOption) (*Dispatcher, error) {
	d := &Dispatcher{logger: log.New("pkg", "ops")}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// MustNewDispatcher is like NewDispatcher but panics if an option fails.
func MustNewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d, err := NewDispatcher(opts...)
	if err != nil {
		panic(fmt.Sprintf("ops: cannot create dispatcher: %v", err))
	}

	return d
}

// Run executes the opcode named by the one-byte atom op.
func (d *Dispatcher) Run(a *arena.Arena, op arena.NodePtr, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	b, err := a.Atom(op)
	if err != nil || len(b) != 1 {
		return d.reject(op, op.String())
	}

	e := byCode[b[0]]
	if e == nil {
		return d.reject(op, Opcode(b[0]).String())
	}

	return d.run(e, a, args, maxCost)
}

// RunName executes the opcode registered under name.
func (d *Dispatcher) RunName(a *arena.Arena, name string, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	e, ok := byName[name]
	if !ok {
		return d.reject(arena.Nil, name)
	}

	return d.run(e, a, args, maxCost)
}

func (d *Dispatcher) run(e *Entry, a *arena.Arena, args arena.NodePtr, maxCost Cost) (Reduction, error) {
	r, err := e.Fn(a, args, maxCost)
	if err != nil {
		d.logger.Debug("opcode failed", "op", e.Name, "max_cost", maxCost, "err", err)
		return r, err
	}

	return r, nil
}

func (d *Dispatcher) reject(node arena.NodePtr, what string) (Reduction, error) {
	d.logger.Debug("unknown opcode", "op", what)
	return fail(what, node, errs.ErrUnknownOpcode)
}
