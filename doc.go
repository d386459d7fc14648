// Package calcexpr evaluates arithmetic, logical, and bitwise expressions.
//
// An expression like "2 + 3 * 4" or "max(-5, 1 << 4) != 0" is lexed,
// converted to postfix with the shunting-yard algorithm, and run on a small
// stack machine. The only names an expression may use are functions connected
// to the Evaluator; there are no variables.
//
// Evaluators are generic over the number type. Int64, Float64, BigFloat, and
// Decimal provide the arithmetic for int64, float64, *big.Float, and
// decimal.Decimal respectively.
//
// Compile an expression once to run it many times, or use Evaluate to do both
// in one step.
//
package calcexpr
