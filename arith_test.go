package calcexpr_test

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/calcexpr"
)

func TestArithInt(t *testing.T) {
	f := calcexpr.Float64()
	floats := []struct {
		x float64
		r int64
	}{
		{2.7, 2},
		{-2.7, -2},
		{1e300, math.MaxInt64},
		{-1e300, math.MinInt64},
		{math.Inf(1), math.MaxInt64},
		{math.NaN(), 0},
	}
	for _, c := range floats {
		if got := f.Int(c.x); got != c.r {
			t.Errorf("Float64 Int(%g): want %d, got %d", c.x, c.r, got)
		}
	}

	b := calcexpr.BigFloat(64)
	bigs := []struct {
		x *big.Float
		r int64
	}{
		{big.NewFloat(-2.7), -2},
		{new(big.Float).SetInf(false), math.MaxInt64},
		{new(big.Float).SetInf(true), math.MinInt64},
		{new(big.Float).SetMantExp(big.NewFloat(1), 100), math.MaxInt64},
	}
	for _, c := range bigs {
		if got := b.Int(c.x); got != c.r {
			t.Errorf("BigFloat Int(%g): want %d, got %d", c.x, c.r, got)
		}
	}

	d := calcexpr.Decimal()
	decs := []struct {
		x string
		r int64
	}{
		{"-2.7", -2},
		{"123456789012345678901234567890", math.MaxInt64},
		{"-123456789012345678901234567890", math.MinInt64},
	}
	for _, c := range decs {
		if got := d.Int(decimal.RequireFromString(c.x)); got != c.r {
			t.Errorf("Decimal Int(%s): want %d, got %d", c.x, c.r, got)
		}
	}
}

func TestArithParse(t *testing.T) {
	i := calcexpr.Int64()
	if x, err := i.Parse("3.99"); err != nil || x != 3 {
		t.Errorf("Int64 Parse(3.99): want 3, got %d, %v", x, err)
	}
	if _, err := i.Parse("9223372036854775808"); !errors.Is(err, strconv.ErrRange) {
		t.Errorf("Int64 Parse(MaxInt64+1): want range error, got %v", err)
	}
	f := calcexpr.Float64()
	huge := "1"
	for len(huge) < 400 {
		huge += "0"
	}
	if x, err := f.Parse(huge); err != nil || !math.IsInf(x, 1) {
		t.Errorf("Float64 Parse(1e399): want +Inf, got %g, %v", x, err)
	}
	b := calcexpr.BigFloat(0)
	x, err := b.Parse("0.1")
	if err != nil {
		t.Fatal(err)
	}
	if x.Prec() != 64 {
		t.Errorf("BigFloat(0) gave precision %d, want 64", x.Prec())
	}
}

func TestArithPow(t *testing.T) {
	i := calcexpr.Int64()
	ints := []struct {
		x, y, r int64
	}{
		{3, 4, 81},
		{-3, 3, -27},
		{5, 0, 1},
		{0, 0, 1},
		{2, -3, 0},
		{-1, -4, 1},
		{-1, -5, -1},
		{2, 62, 1 << 62},
		{-2, 63, math.MinInt64},
		{3, 39, 4052555153018976267},
		{-1, math.MaxInt64, -1},
	}
	for _, c := range ints {
		if r, err := i.Pow(c.x, c.y); err != nil || r != c.r {
			t.Errorf("Int64 %d ** %d: want %d, got %d, %v", c.x, c.y, c.r, r, err)
		}
	}

	b := calcexpr.BigFloat(64)
	bigs := []struct {
		x, y, r float64
	}{
		{-2, 3, -8},
		{-2, -2, 0.25},
		{0, 0.5, 0},
		{0, 0, 1},
		{4, 0.5, 2},
	}
	for _, c := range bigs {
		x, y := big.NewFloat(c.x), big.NewFloat(c.y)
		r, err := b.Pow(x, y)
		if err != nil {
			t.Errorf("BigFloat %g ** %g: %v", c.x, c.y, err)
			continue
		}
		if f, _ := r.Float64(); math.Abs(f-c.r) > 1e-15 {
			t.Errorf("BigFloat %g ** %g: want %g, got %g", c.x, c.y, c.r, f)
		}
		if x.Cmp(big.NewFloat(c.x)) != 0 || y.Cmp(big.NewFloat(c.y)) != 0 {
			t.Errorf("BigFloat %g ** %g modified its operands to %g, %g", c.x, c.y, x, y)
		}
	}
}

func TestInt64Overflow(t *testing.T) {
	i := calcexpr.Int64()
	ok := []struct {
		name string
		f    func(x, y int64) (int64, error)
		x, y int64
		r    int64
	}{
		{"+", i.Add, math.MaxInt64, math.MinInt64, -1},
		{"+", i.Add, math.MaxInt64 - 1, 1, math.MaxInt64},
		{"-", i.Sub, -1, math.MaxInt64, math.MinInt64},
		{"*", i.Mul, -1 << 32, 1 << 31, math.MinInt64},
		{"*", i.Mul, math.MinInt64, 1, math.MinInt64},
		{"*", i.Mul, 0, math.MinInt64, 0},
		{"/", i.Quo, math.MinInt64, 1, math.MinInt64},
	}
	for _, c := range ok {
		if r, err := c.f(c.x, c.y); err != nil || r != c.r {
			t.Errorf("%d %s %d: want %d, got %d, %v", c.x, c.name, c.y, c.r, r, err)
		}
	}
	bad := []struct {
		name string
		f    func(x, y int64) (int64, error)
		x, y int64
	}{
		{"+", i.Add, math.MaxInt64, 1},
		{"+", i.Add, math.MinInt64, -1},
		{"-", i.Sub, math.MinInt64, 1},
		{"-", i.Sub, 0, math.MinInt64},
		{"*", i.Mul, math.MaxInt64, 2},
		{"*", i.Mul, math.MinInt64, -1},
		{"*", i.Mul, -1, math.MinInt64},
		{"*", i.Mul, 1 << 32, 1 << 31},
		{"/", i.Quo, math.MinInt64, -1},
		{"**", i.Pow, 2, 63},
		{"**", i.Pow, 3, 40},
		{"**", i.Pow, -2, 64},
		{"**", i.Pow, 1 << 32, 2},
	}
	for _, c := range bad {
		r, err := c.f(c.x, c.y)
		var derr *calcexpr.DomainError
		if !errors.As(err, &derr) {
			t.Errorf("%d %s %d: want *DomainError, got %d, %v", c.x, c.name, c.y, r, err)
			continue
		}
		if derr.Func != c.name {
			t.Errorf("wrong operator in %v: want %q", derr, c.name)
		}
	}
	if r, err := i.Neg(math.MaxInt64); err != nil || r != -math.MaxInt64 {
		t.Errorf("-MaxInt64: want %d, got %d, %v", int64(-math.MaxInt64), r, err)
	}
	if r, err := i.Neg(math.MinInt64); err == nil {
		t.Errorf("-MinInt64: want error, got %d", r)
	}
}

func TestBigFloatNaN(t *testing.T) {
	b := calcexpr.BigFloat(64)
	inf := new(big.Float).SetInf(false)
	ops := []struct {
		name string
		f    func(x, y *big.Float) (*big.Float, error)
		x, y *big.Float
	}{
		{"+", b.Add, inf, new(big.Float).SetInf(true)},
		{"-", b.Sub, inf, inf},
		{"*", b.Mul, inf, new(big.Float)},
		{"/", b.Quo, inf, inf},
	}
	for _, c := range ops {
		_, err := c.f(c.x, c.y)
		var derr *calcexpr.DomainError
		if !errors.As(err, &derr) {
			t.Errorf("%g %s %g: want *DomainError, got %v", c.x, c.name, c.y, err)
			continue
		}
		if derr.Func != c.name {
			t.Errorf("wrong operator in %v: want %q", derr, c.name)
		}
	}
}
