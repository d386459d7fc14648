package calcexpr

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Arith is the arithmetic of a number type. Implementations must treat
// values as immutable: no method may modify its arguments.
type Arith[T any] interface {
	// Parse converts a decimal literal, digits with at most one interior dot,
	// to a number.
	Parse(lit string) (T, error)
	// FromInt converts an integer to a number.
	FromInt(x int64) T
	// Int truncates a number toward zero, saturating at the bounds of int64.
	Int(x T) int64
	// IsZero reports whether x is zero.
	IsZero(x T) bool
	// Cmp returns -1, 0, or 1 as x is less than, equal to, or greater than y.
	Cmp(x, y T) int

	// Add, Sub, Mul, Quo, Pow, and Neg return a *DomainError when the result
	// is not a number of type T, e.g. Inf - Inf for a type without NaN or a
	// sum that overflows a fixed-size integer.
	Add(x, y T) (T, error)
	Sub(x, y T) (T, error)
	Mul(x, y T) (T, error)
	// Quo divides x by y. The evaluator never calls Quo with a zero y.
	Quo(x, y T) (T, error)
	// Pow raises x to the y. The evaluator never calls Pow with a zero x and
	// negative y.
	Pow(x, y T) (T, error)
	Neg(x T) (T, error)

	// String formats a number.
	String(x T) string
}

type int64Arith struct{}

// Int64 is the arithmetic of int64. Division truncates, and literals with a
// fractional part are truncated. Operations that overflow return a
// *DomainError rather than wrapping.
func Int64() Arith[int64] {
	return int64Arith{}
}

func (int64Arith) Parse(lit string) (int64, error) {
	if k := strings.IndexByte(lit, '.'); k >= 0 {
		lit = lit[:k]
	}
	return strconv.ParseInt(lit, 10, 64)
}

func (int64Arith) FromInt(x int64) int64 { return x }
func (int64Arith) Int(x int64) int64 { return x }
func (int64Arith) IsZero(x int64) bool { return x == 0 }
func (int64Arith) String(x int64) string { return strconv.FormatInt(x, 10) }

// overflow creates the error for an int64 operation whose result does not fit.
func overflow(x int64, op string, y int64) error {
	return &DomainError{X: strconv.FormatInt(x, 10) + " " + op + " " + strconv.FormatInt(y, 10), Func: op}
}

func (int64Arith) Add(x, y int64) (int64, error) {
	r := x + y
	if (r > x) != (y > 0) {
		return 0, overflow(x, "+", y)
	}
	return r, nil
}

func (int64Arith) Sub(x, y int64) (int64, error) {
	r := x - y
	if (r < x) != (y > 0) {
		return 0, overflow(x, "-", y)
	}
	return r, nil
}

func (int64Arith) Mul(x, y int64) (int64, error) {
	r, ok := mul64(x, y)
	if !ok {
		return 0, overflow(x, "*", y)
	}
	return r, nil
}

// mul64 multiplies and reports whether the product fits in an int64.
func mul64(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	r := x * y
	return r, r/y == x
}

func (int64Arith) Neg(x int64) (int64, error) {
	if x == math.MinInt64 {
		return 0, &DomainError{X: strconv.FormatInt(x, 10), Arg: 1, Func: "-"}
	}
	return -x, nil
}

func (int64Arith) Quo(x, y int64) (int64, error) {
	if x == math.MinInt64 && y == -1 {
		return 0, overflow(x, "/", y)
	}
	return x / y, nil
}

func (int64Arith) Cmp(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (int64Arith) Pow(x, y int64) (int64, error) {
	x0, y0 := x, y
	if y < 0 {
		// Only ±1 have integral reciprocals.
		switch x {
		case 1:
			return 1, nil
		case -1:
			if y%2 == 0 {
				return 1, nil
			}
			return -1, nil
		}
		return 0, nil
	}
	r := int64(1)
	for y > 0 {
		var ok bool
		if y&1 != 0 {
			if r, ok = mul64(r, x); !ok {
				return 0, overflow(x0, "**", y0)
			}
		}
		y >>= 1
		if y == 0 {
			break
		}
		// A square that overflows is always used by a later bit.
		if x, ok = mul64(x, x); !ok {
			return 0, overflow(x0, "**", y0)
		}
	}
	return r, nil
}

type float64Arith struct{}

// Float64 is the arithmetic of float64.
func Float64() Arith[float64] {
	return float64Arith{}
}

func (float64Arith) Parse(lit string) (float64, error) {
	x, err := strconv.ParseFloat(lit, 64)
	if errors.Is(err, strconv.ErrRange) {
		// ParseFloat still gives ±Inf, which is the right answer.
		return x, nil
	}
	return x, err
}

func (float64Arith) FromInt(x int64) float64 { return float64(x) }
func (float64Arith) IsZero(x float64) bool { return x == 0 }
func (float64Arith) Add(x, y float64) (float64, error) { return x + y, nil }
func (float64Arith) Sub(x, y float64) (float64, error) { return x - y, nil }
func (float64Arith) Mul(x, y float64) (float64, error) { return x * y, nil }
func (float64Arith) Neg(x float64) (float64, error) { return -x, nil }
func (float64Arith) String(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }

func (float64Arith) Quo(x, y float64) (float64, error) {
	return x / y, nil
}

func (float64Arith) Int(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

func (float64Arith) Cmp(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (float64Arith) Pow(x, y float64) (float64, error) {
	return math.Pow(x, y), nil
}
