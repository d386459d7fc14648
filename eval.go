package calcexpr

import (
	"errors"
	"math"
	"strconv"
	"unicode/utf8"
)

// Evaluator compiles and evaluates expressions over numbers of type T. It
// holds the functions expressions may call; no other state persists between
// evaluations. It is not safe to use an Evaluator concurrently; use Clone to
// give each goroutine its own.
type Evaluator[T any] struct {
	arith    Arith[T]
	funcs    registry[T]
	maxDepth int
}

// DefaultMaxDepth is the default limit on nested parentheses.
const DefaultMaxDepth = 256

// maxFactorial is the largest operand of the factorial operator.
const maxFactorial = 16384

// Option is an option used when creating an evaluator.
type Option interface {
	evalOption()
}

type depthopt int

func (depthopt) evalOption() {}

// MaxDepth limits how deeply parentheses, including function calls, may nest.
// A limit less than 1 selects DefaultMaxDepth.
func MaxDepth(n int) Option {
	return depthopt(n)
}

// New creates an evaluator using the given arithmetic. It has no functions
// connected.
func New[T any](arith Arith[T], opts ...Option) *Evaluator[T] {
	ev := Evaluator[T]{arith: arith, maxDepth: DefaultMaxDepth}
	ev.apply(opts)
	return &ev
}

func (ev *Evaluator[T]) apply(opts []Option) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case depthopt:
			ev.maxDepth = int(opt)
			if ev.maxDepth < 1 {
				ev.maxDepth = DefaultMaxDepth
			}
		default:
			panic("calcexpr: unknown option type")
		}
	}
}

// Clone creates a copy of an evaluator with its own copy of the connected
// functions and applies options to it.
func (ev *Evaluator[T]) Clone(opts ...Option) *Evaluator[T] {
	n := Evaluator[T]{
		arith:    ev.arith,
		funcs:    ev.funcs.clone(),
		maxDepth: ev.maxDepth,
	}
	n.apply(opts)
	return &n
}

// Arith returns the evaluator's arithmetic.
func (ev *Evaluator[T]) Arith() Arith[T] {
	return ev.arith
}

// Connect makes a function available to expressions under the given name,
// replacing any function already connected with that name. Calls must pass
// exactly arity arguments. Panics if name is not an identifier, arity is
// negative, or fn is nil.
func (ev *Evaluator[T]) Connect(name string, arity int, fn Func[T]) {
	ev.funcs.connect(name, arity, fn)
}

// ConnectFuncs connects each function in fns.
func (ev *Evaluator[T]) ConnectFuncs(fns map[string]FuncDef[T]) {
	for name, f := range fns {
		ev.funcs.connect(name, f.Arity, f.Fn)
	}
}

// Disconnect removes a function. It is not an error to disconnect a name that
// is not connected.
func (ev *Evaluator[T]) Disconnect(name string) {
	ev.funcs.disconnect(name)
}

// Arity returns the number of arguments a connected function takes.
func (ev *Evaluator[T]) Arity(name string) (int, bool) {
	return ev.funcs.arity(name)
}

// Funcs returns the names of the connected functions in sorted order.
func (ev *Evaluator[T]) Funcs() []string {
	return ev.funcs.names()
}

// Call calls a connected function directly. The error is a *FuncError if
// there is no such function or a *CallError if args has the wrong length.
func (ev *Evaluator[T]) Call(name string, args []T) (T, error) {
	return ev.funcs.call(name, args, 0)
}

// Evaluate compiles and runs an expression.
func (ev *Evaluator[T]) Evaluate(src string) (T, error) {
	p, err := ev.Compile(src)
	if err != nil {
		var z T
		return z, err
	}
	return ev.Run(p)
}

// Run evaluates a compiled program. Functions the program calls are looked up
// in ev when they are called.
func (ev *Evaluator[T]) Run(p *Program[T]) (T, error) {
	var z T
	stack := make([]T, 0, p.depth)
	for _, n := range p.code {
		if k := n.pops(); len(stack) < k {
			return z, &OperandError{Col: n.col(), Op: opname(n), Need: k, Have: len(stack)}
		}
		switch n := n.(type) {
		case numInstr[T]:
			stack = append(stack, n.v)
		case binInstr:
			k := len(stack) - 2
			r, err := ev.binary(n, stack[k], stack[k+1])
			if err != nil {
				return z, err
			}
			stack = append(stack[:k], r)
		case unInstr:
			k := len(stack) - 1
			r, err := ev.unary(n, stack[k])
			if err != nil {
				return z, err
			}
			stack[k] = r
		case callInstr:
			k := len(stack) - n.argc
			args := stack[k:len(stack):len(stack)]
			r, err := ev.funcs.call(n.fn, args, n.pos)
			if err != nil {
				return z, err
			}
			stack = append(stack[:k], r)
		default:
			panic("calcexpr: invalid instruction " + n.name())
		}
	}
	if len(stack) != 1 {
		return z, &MalformedError{Col: utf8.RuneCountInString(p.src) + 1, Values: len(stack)}
	}
	return stack[0], nil
}

// truth converts a boolean to 1 or 0.
func (ev *Evaluator[T]) truth(b bool) T {
	if b {
		return ev.arith.FromInt(1)
	}
	return ev.arith.FromInt(0)
}

func (ev *Evaluator[T]) binary(n binInstr, a, b T) (T, error) {
	ar := ev.arith
	if n.op.integral() {
		x, y := ar.Int(a), ar.Int(b)
		var r int64
		switch n.op {
		case binShl:
			r = shl(x, y)
		case binShr:
			r = shr(x, y)
		case binMod, binIntDiv:
			if y == 0 {
				var z T
				return z, &DivideByZeroError{Col: n.pos, Op: n.op.String()}
			}
			switch {
			case n.op == binMod:
				r = x % y
			case x == math.MinInt64 && y == -1:
				var z T
				return z, &DomainError{Col: n.pos, X: ar.String(a) + " // " + ar.String(b), Func: "//"}
			default:
				r = x / y
			}
		case binBitAnd:
			r = x & y
		case binBitOr:
			r = x | y
		case binBitXor:
			r = x ^ y
		}
		return ar.FromInt(r), nil
	}
	switch n.op {
	case binAdd:
		return at[T](n.pos)(ar.Add(a, b))
	case binSub:
		return at[T](n.pos)(ar.Sub(a, b))
	case binMul:
		return at[T](n.pos)(ar.Mul(a, b))
	case binDiv:
		if ar.IsZero(b) {
			var z T
			return z, &DivideByZeroError{Col: n.pos, Op: n.op.String()}
		}
		return at[T](n.pos)(ar.Quo(a, b))
	case binPow:
		if ar.IsZero(a) && ar.Cmp(b, ar.FromInt(0)) < 0 {
			var z T
			return z, &DivideByZeroError{Col: n.pos, Op: n.op.String()}
		}
		return at[T](n.pos)(ar.Pow(a, b))
	case binEq:
		return ev.truth(ar.Cmp(a, b) == 0), nil
	case binNe:
		return ev.truth(ar.Cmp(a, b) != 0), nil
	case binLt:
		return ev.truth(ar.Cmp(a, b) < 0), nil
	case binLe:
		return ev.truth(ar.Cmp(a, b) <= 0), nil
	case binGt:
		return ev.truth(ar.Cmp(a, b) > 0), nil
	case binGe:
		return ev.truth(ar.Cmp(a, b) >= 0), nil
	case binCmp:
		return ar.FromInt(int64(ar.Cmp(a, b))), nil
	case binAnd:
		return ev.truth(!ar.IsZero(a) && !ar.IsZero(b)), nil
	case binOr:
		return ev.truth(!ar.IsZero(a) || !ar.IsZero(b)), nil
	case binXor:
		return ev.truth(ar.IsZero(a) != ar.IsZero(b)), nil
	default:
		panic("calcexpr: invalid binary operator " + strconv.Itoa(int(n.op)))
	}
}

func (ev *Evaluator[T]) unary(n unInstr, x T) (T, error) {
	ar := ev.arith
	switch n.op {
	case unNeg:
		return at[T](n.pos)(ar.Neg(x))
	case unNot:
		return ev.truth(ar.IsZero(x)), nil
	case unBitNot:
		return ar.FromInt(^ar.Int(x)), nil
	case unFact:
		if ar.Cmp(x, ar.FromInt(0)) < 0 {
			var z T
			return z, &FactorialError{Col: n.pos, X: ar.String(x), Negative: true}
		}
		k := ar.Int(x)
		if k > maxFactorial {
			var z T
			return z, &FactorialError{Col: n.pos, X: ar.String(x)}
		}
		r := ar.FromInt(1)
		for i := int64(2); i <= k; i++ {
			var err error
			r, err = ar.Mul(r, ar.FromInt(i))
			if err != nil {
				// The product overflowed the number type.
				var z T
				return z, &FactorialError{Col: n.pos, X: ar.String(x)}
			}
		}
		return r, nil
	default:
		panic("calcexpr: invalid unary operator " + strconv.Itoa(int(n.op)))
	}
}

// at returns a function which sets the position of a *DomainError from an
// arithmetic operation to pos.
func at[T any](pos int) func(T, error) (T, error) {
	return func(r T, err error) (T, error) {
		var d *DomainError
		if errors.As(err, &d) && d.Col == 0 {
			d.Col = pos
		}
		return r, err
	}
}

// shl shifts x left by n, or right by -n if n is negative.
func shl(x, n int64) int64 {
	switch {
	case n >= 64:
		return 0
	case n >= 0:
		return x << uint(n)
	case n > -64:
		return x >> uint(-n)
	case x < 0:
		return -1
	}
	return 0
}

// shr shifts x right by n, or left by -n if n is negative.
func shr(x, n int64) int64 {
	switch {
	case n >= 64:
		if x < 0 {
			return -1
		}
		return 0
	case n >= 0:
		return x >> uint(n)
	case n > -64:
		return x << uint(-n)
	}
	return 0
}

// Eval is a shortcut to evaluate an expression with float64 arithmetic and
// the functions from Float64Funcs.
func Eval(src string) (float64, error) {
	ev := New(Float64())
	ev.ConnectFuncs(Float64Funcs())
	return ev.Evaluate(src)
}
