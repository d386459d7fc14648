package calcexpr

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

type bigArith struct {
	prec uint
}

// BigFloat is the arithmetic of *big.Float with the given precision in bits.
// If prec is 0, the precision is 64. Every result is a new *big.Float.
func BigFloat(prec uint) Arith[*big.Float] {
	if prec == 0 {
		prec = 64
	}
	return bigArith{prec: prec}
}

func (a bigArith) new() *big.Float {
	return new(big.Float).SetPrec(a.prec)
}

func (a bigArith) Parse(lit string) (*big.Float, error) {
	r, _, err := a.new().Parse(lit, 10)
	return r, err
}

func (a bigArith) FromInt(x int64) *big.Float {
	return a.new().SetInt64(x)
}

func (bigArith) Int(x *big.Float) int64 {
	// Int64 truncates and saturates, including for infinities.
	r, _ := x.Int64()
	return r
}

func (bigArith) IsZero(x *big.Float) bool {
	return x.Sign() == 0
}

func (bigArith) Cmp(x, y *big.Float) int {
	return x.Cmp(y)
}

func (a bigArith) Add(x, y *big.Float) (*big.Float, error) {
	return a.guard("+", y, func(z *big.Float) { z.Add(x, y) })
}

func (a bigArith) Sub(x, y *big.Float) (*big.Float, error) {
	return a.guard("-", y, func(z *big.Float) { z.Sub(x, y) })
}

func (a bigArith) Mul(x, y *big.Float) (*big.Float, error) {
	return a.guard("*", y, func(z *big.Float) { z.Mul(x, y) })
}

func (a bigArith) Quo(x, y *big.Float) (*big.Float, error) {
	return a.guard("/", y, func(z *big.Float) { z.Quo(x, y) })
}

func (a bigArith) Pow(x, y *big.Float) (*big.Float, error) {
	if y.IsInt() {
		if n, acc := y.Int64(); acc == big.Exact && n != math.MinInt64 {
			return a.powi(x, n)
		}
	}
	switch x.Sign() {
	case -1:
		if !y.IsInt() {
			return nil, &DomainError{X: a.String(x), Arg: 1, Func: "**"}
		}
		// Integers too large for int64 are even at any precision that can
		// represent them exactly unless their lowest bit says otherwise.
		z, err := a.guard("**", y, func(z *big.Float) { bigfloat.Pow(z, a.new().Neg(x), y) })
		if err != nil {
			return nil, err
		}
		if i, _ := y.Int(nil); i.Bit(0) == 1 {
			z.Neg(z)
		}
		return z, nil
	case 0:
		return a.new(), nil
	}
	return a.guard("**", y, func(z *big.Float) { bigfloat.Pow(z, x, y) })
}

// powi raises x to an integer power by repeated squaring, which unlike
// bigfloat.Pow allows a negative base.
func (a bigArith) powi(x *big.Float, n int64) (*big.Float, error) {
	neg := n < 0
	if neg {
		n = -n
	}
	r := a.FromInt(1)
	b := a.new().Set(x)
	for n > 0 {
		if n&1 != 0 {
			r.Mul(r, b)
		}
		b.Mul(b, b)
		n >>= 1
	}
	if neg {
		return a.Quo(a.FromInt(1), r)
	}
	return r, nil
}

func (a bigArith) Neg(x *big.Float) (*big.Float, error) {
	return a.new().Neg(x), nil
}

func (bigArith) String(x *big.Float) string {
	return x.Text('g', -1)
}

// guard calls f with a new result and converts the big.ErrNaN panic which
// big.Float uses for undefined results into a DomainError.
func (a bigArith) guard(op string, y *big.Float, f func(z *big.Float)) (z *big.Float, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(big.ErrNaN); !ok {
			panic(r)
		}
		z, err = nil, &DomainError{X: y.Text('g', -1), Arg: 2, Func: op}
	}()
	z = a.new()
	f(z)
	return z, nil
}
