package calcexpr

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

type decimalArith struct{}

// Decimal is the arithmetic of decimal.Decimal. Quotients are rounded to
// decimal.DivisionPrecision digits. Exact results can grow without bound, so
// powers of numbers other than 0 and ±1 are limited to exponents of magnitude
// at most 65536.
func Decimal() Arith[decimal.Decimal] {
	return decimalArith{}
}

var (
	decMaxInt64 = decimal.NewFromInt(math.MaxInt64)
	decMinInt64 = decimal.NewFromInt(math.MinInt64)
	decMaxExp   = decimal.NewFromInt(1 << 16)
	decOne      = decimal.NewFromInt(1)
)

func (decimalArith) Parse(lit string) (decimal.Decimal, error) {
	return decimal.NewFromString(lit)
}

func (decimalArith) FromInt(x int64) decimal.Decimal {
	return decimal.NewFromInt(x)
}

func (decimalArith) Int(x decimal.Decimal) int64 {
	switch {
	case x.GreaterThanOrEqual(decMaxInt64):
		return math.MaxInt64
	case x.LessThanOrEqual(decMinInt64):
		return math.MinInt64
	}
	return x.IntPart()
}

func (decimalArith) IsZero(x decimal.Decimal) bool {
	return x.IsZero()
}

func (decimalArith) Cmp(x, y decimal.Decimal) int {
	return x.Cmp(y)
}

func (decimalArith) Add(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Add(y), nil
}

func (decimalArith) Sub(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Sub(y), nil
}

func (decimalArith) Mul(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Mul(y), nil
}

func (decimalArith) Quo(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Div(y), nil
}

func (decimalArith) Pow(x, y decimal.Decimal) (r decimal.Decimal, err error) {
	integral := y.Equal(y.Truncate(0))
	switch {
	case y.IsZero():
		return decimal.NewFromInt(1), nil
	case x.IsNegative() && !integral:
		return decimal.Zero, &DomainError{X: x.String(), Arg: 1, Func: "**"}
	case x.IsZero():
		return decimal.Zero, nil
	case x.Abs().Equal(decOne):
		if x.IsPositive() || y.BigInt().Bit(0) == 0 {
			return decOne, nil
		}
		return decOne.Neg(), nil
	case y.Abs().GreaterThan(decMaxExp):
		return decimal.Zero, &DomainError{X: y.String(), Arg: 2, Func: "**"}
	}
	// Pow panics on exponents it cannot handle rather than returning an error.
	defer func() {
		if p := recover(); p != nil {
			r, err = decimal.Zero, &DomainError{X: y.String(), Arg: 2, Func: "**"}
		}
	}()
	return x.Pow(y), nil
}

func (decimalArith) Neg(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Neg(), nil
}

func (decimalArith) String(x decimal.Decimal) string {
	return x.String()
}

// DecimalFuncs returns functions for decimal.Decimal suitable for
// ConnectFuncs.
func DecimalFuncs() map[string]FuncDef[decimal.Decimal] {
	return map[string]FuncDef[decimal.Decimal]{
		"abs":   Monadic(func(x decimal.Decimal) (decimal.Decimal, error) { return x.Abs(), nil }),
		"floor": Monadic(func(x decimal.Decimal) (decimal.Decimal, error) { return x.Floor(), nil }),
		"ceil":  Monadic(func(x decimal.Decimal) (decimal.Decimal, error) { return x.Ceil(), nil }),
		"round": Monadic(func(x decimal.Decimal) (decimal.Decimal, error) { return x.Round(0), nil }),
		"min": Dyadic(func(x, y decimal.Decimal) (decimal.Decimal, error) {
			return decimal.Min(x, y), nil
		}),
		"max": Dyadic(func(x, y decimal.Decimal) (decimal.Decimal, error) {
			return decimal.Max(x, y), nil
		}),
		"rescale": Dyadic(func(x, places decimal.Decimal) (decimal.Decimal, error) {
			p := places.IntPart()
			if p < -1000 || p > 1000 {
				return decimal.Zero, &DomainError{X: strconv.FormatInt(p, 10), Arg: 2, Func: "rescale"}
			}
			return x.Round(int32(p)), nil
		}),
	}
}
