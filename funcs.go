package calcexpr

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"unicode"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function that expressions can call. args has exactly the arity
// the function was connected with. args is only valid during the call, and
// the function must not modify its elements.
type Func[T any] func(args []T) (T, error)

// FuncDef is a function together with its arity.
type FuncDef[T any] struct {
	Arity int
	Fn    Func[T]
}

// Niladic wraps a function of no arguments, usually a constant.
func Niladic[T any](f func() (T, error)) FuncDef[T] {
	return FuncDef[T]{Arity: 0, Fn: func([]T) (T, error) { return f() }}
}

// Monadic wraps a function of one argument.
func Monadic[T any](f func(x T) (T, error)) FuncDef[T] {
	return FuncDef[T]{Arity: 1, Fn: func(args []T) (T, error) { return f(args[0]) }}
}

// Dyadic wraps a function of two arguments.
func Dyadic[T any](f func(x, y T) (T, error)) FuncDef[T] {
	return FuncDef[T]{Arity: 2, Fn: func(args []T) (T, error) { return f(args[0], args[1]) }}
}

// registry maps function names to functions. It is not safe for concurrent
// use.
type registry[T any] struct {
	funcs map[string]FuncDef[T]
}

func (r *registry[T]) connect(name string, arity int, fn Func[T]) {
	if !isIdent(name) {
		panic("calcexpr: invalid function name " + strconv.Quote(name))
	}
	if arity < 0 {
		panic("calcexpr: negative arity for " + name)
	}
	if fn == nil {
		panic("calcexpr: nil function for " + name)
	}
	if r.funcs == nil {
		r.funcs = make(map[string]FuncDef[T])
	}
	r.funcs[name] = FuncDef[T]{Arity: arity, Fn: fn}
}

func (r *registry[T]) disconnect(name string) {
	delete(r.funcs, name)
}

func (r *registry[T]) arity(name string) (int, bool) {
	f, ok := r.funcs[name]
	return f.Arity, ok
}

func (r *registry[T]) names() []string {
	v := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		v = append(v, k)
	}
	sort.Strings(v)
	return v
}

// call calls a function by name. col is the position used in errors.
func (r *registry[T]) call(name string, args []T, col int) (T, error) {
	f, ok := r.funcs[name]
	if !ok {
		var z T
		return z, &FuncError{Col: col, Func: name}
	}
	if len(args) != f.Arity {
		var z T
		return z, &CallError{Col: col, Func: name, Want: f.Arity, Len: len(args)}
	}
	return f.Fn(args)
}

func (r *registry[T]) clone() registry[T] {
	n := registry[T]{funcs: make(map[string]FuncDef[T], len(r.funcs))}
	for k, v := range r.funcs {
		n.funcs[k] = v
	}
	return n
}

// isIdent reports whether name would lex as a single identifier.
func isIdent(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return name != ""
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain, including operations whose results overflow
// the number type. It implements InputError; functions return it without a
// position, and the evaluator fills in the position of operators.
type DomainError struct {
	// Col is the position of the operator, or 0 if unknown.
	Col int
	// X is the out-of-domain argument, formatted. If Arg is 0, X is the
	// whole operation.
	X string
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Col > 0 {
		return errpos(err.Col, r)
	}
	return r
}

func (err *DomainError) Pos() int {
	return err.Col
}

// Float64Funcs returns functions for float64 suitable for ConnectFuncs.
func Float64Funcs() map[string]FuncDef[float64] {
	return map[string]FuncDef[float64]{
		"abs":   Monadic(math64(math.Abs)),
		"exp":   Monadic(math64(math.Exp)),
		"floor": Monadic(math64(math.Floor)),
		"ceil":  Monadic(math64(math.Ceil)),
		"sqrt": Monadic(func(x float64) (float64, error) {
			if x < 0 {
				return 0, &DomainError{X: strconv.FormatFloat(x, 'g', -1, 64), Arg: 1, Func: "sqrt"}
			}
			return math.Sqrt(x), nil
		}),
		"ln": Monadic(func(x float64) (float64, error) {
			if x <= 0 {
				return 0, &DomainError{X: strconv.FormatFloat(x, 'g', -1, 64), Arg: 1, Func: "ln"}
			}
			return math.Log(x), nil
		}),
		"log": Monadic(func(x float64) (float64, error) {
			if x <= 0 {
				return 0, &DomainError{X: strconv.FormatFloat(x, 'g', -1, 64), Arg: 1, Func: "log"}
			}
			return math.Log10(x), nil
		}),
		"min":   Dyadic(func(x, y float64) (float64, error) { return math.Min(x, y), nil }),
		"max":   Dyadic(func(x, y float64) (float64, error) { return math.Max(x, y), nil }),
		"pow":   Dyadic(func(x, y float64) (float64, error) { return math.Pow(x, y), nil }),
		"hypot": Dyadic(func(x, y float64) (float64, error) { return math.Hypot(x, y), nil }),
		"pi":    Niladic(func() (float64, error) { return math.Pi, nil }),
		"e":     Niladic(func() (float64, error) { return math.E, nil }),
	}
}

func math64(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return f(x), nil }
}

// BigFloatFuncs returns functions for *big.Float suitable for ConnectFuncs.
// Results have precision prec, or 64 if prec is 0.
func BigFloatFuncs(prec uint) map[string]FuncDef[*big.Float] {
	if prec == 0 {
		prec = 64
	}
	out := func() *big.Float { return new(big.Float).SetPrec(prec) }
	return map[string]FuncDef[*big.Float]{
		"abs": Monadic(func(x *big.Float) (*big.Float, error) { return out().Abs(x), nil }),
		"sqrt": Monadic(func(x *big.Float) (*big.Float, error) {
			if x.Sign() < 0 {
				return nil, &DomainError{X: x.Text('g', -1), Arg: 1, Func: "sqrt"}
			}
			return out().Sqrt(x), nil
		}),
		"exp": Monadic(func(x *big.Float) (*big.Float, error) {
			if x.IsInf() {
				if x.Sign() < 0 {
					return out(), nil
				}
				return out().SetInf(false), nil
			}
			return bigfloat.Exp(out(), x), nil
		}),
		"ln": Monadic(func(x *big.Float) (*big.Float, error) {
			if x.Sign() <= 0 {
				return nil, &DomainError{X: x.Text('g', -1), Arg: 1, Func: "ln"}
			}
			return bigfloat.Log(out(), x), nil
		}),
		"min": Dyadic(func(x, y *big.Float) (*big.Float, error) {
			if x.Cmp(y) <= 0 {
				return out().Set(x), nil
			}
			return out().Set(y), nil
		}),
		"max": Dyadic(func(x, y *big.Float) (*big.Float, error) {
			if x.Cmp(y) >= 0 {
				return out().Set(x), nil
			}
			return out().Set(y), nil
		}),
		"pi": Niladic(func() (*big.Float, error) { return bigfloat.Pi(out()), nil }),
		"e": Niladic(func() (*big.Float, error) {
			one := new(big.Float).SetPrec(prec).SetInt64(1)
			return bigfloat.Exp(out(), one), nil
		}),
	}
}
