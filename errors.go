package calcexpr

import (
	"strconv"
)

// CharacterError indicates a rune that cannot begin any token. It implements
// InputError.
type CharacterError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that was not understood.
	Char rune
}

func (err *CharacterError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *CharacterError) Pos() int {
	return err.Col
}

// NumberError indicates an invalid numeric literal, either because it is not
// shaped like digits with at most one interior dot or because the number type
// cannot represent it. It implements InputError.
type NumberError struct {
	// Col is the position of the start of the literal.
	Col int
	// Text is the literal as far as the lexer scanned it.
	Text string
	// Err is the error from the number type, if the literal was well-formed.
	Err error
}

func (err *NumberError) Error() string {
	if err.Err != nil {
		return errpos(err.Col, "invalid number "+strconv.Quote(err.Text)+": "+err.Err.Error())
	}
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is the opening parenthesis, or empty if a close had no open.
	Left string
	// Right is the closing parenthesis, or empty if an open was never closed.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside a function argument
// list or around an empty argument. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the close parenthesis ending the call, or of the
	// function name if the mismatch was found while running a program.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the arity the function is connected with.
	Want int
	// Len is the number of arguments the call passed.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments (wants "+strconv.Itoa(err.Want)+")")
}

func (err *CallError) Pos() int {
	return err.Col
}

// NameError is an error indicating an identifier that is not a call to a
// connected function. It implements InputError.
type NameError struct {
	// Col is the position of the identifier.
	Col int
	// Name is the identifier.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "unknown identifier "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// MalformedError is an error indicating an expression or parenthesized group
// that does not produce exactly one value, or an operand that directly follows
// another. It implements InputError.
type MalformedError struct {
	// Col is the position where the expression or group ended, or the position
	// of the second operand if Near is set.
	Col int
	// Values is the number of values the expression produced.
	Values int
	// Near is the token that began an operand where an operator was expected.
	Near string
}

func (err *MalformedError) Error() string {
	if err.Near != "" {
		return errpos(err.Col, "missing operator before "+strconv.Quote(err.Near))
	}
	if err.Values == 0 {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "empty expression")
	}
	return errpos(err.Col, "malformed expression leaves "+strconv.Itoa(err.Values)+" values")
}

func (err *MalformedError) Pos() int {
	return err.Col
}

// DepthError is an error indicating parentheses nested more deeply than the
// evaluator allows. It implements InputError.
type DepthError struct {
	// Col is the position of the parenthesis that exceeded the limit.
	Col int
	// Max is the evaluator's nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "parentheses nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// OperandError is an error indicating an operator or function call with fewer
// operands available than it needs. It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator lexeme or function name.
	Op string
	// Need is the number of operands the operator takes.
	Need int
	// Have is the number of operands that were available.
	Have int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "insufficient operands for "+strconv.Quote(err.Op)+": need "+strconv.Itoa(err.Need)+", have "+strconv.Itoa(err.Have))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// DivideByZeroError is an error from dividing by zero, including raising zero
// to a negative power. It implements InputError.
type DivideByZeroError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator lexeme.
	Op string
}

func (err *DivideByZeroError) Error() string {
	return errpos(err.Col, "division by zero in "+strconv.Quote(err.Op))
}

func (err *DivideByZeroError) Pos() int {
	return err.Col
}

// FactorialError is an error from taking the factorial of a negative number
// or of a number too large to compute. It implements InputError.
type FactorialError struct {
	// Col is the position of the ! operator.
	Col int
	// X is the operand, formatted.
	X string
	// Negative is whether the operand was negative rather than too large.
	Negative bool
}

func (err *FactorialError) Error() string {
	if err.Negative {
		return errpos(err.Col, "factorial of negative number "+err.X)
	}
	return errpos(err.Col, "factorial of "+err.X+" is too large")
}

func (err *FactorialError) Pos() int {
	return err.Col
}

// FuncError is an error indicating that a compiled program calls a function
// which is no longer connected to the evaluator running it. It implements
// InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name.
	Func string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Func))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input or from evaluating an operator implements InputError. Errors
// returned by connected functions are passed through unchanged, so a
// *DomainError from a function reports position 0.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharacterError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*MalformedError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*DivideByZeroError)(nil)
	_ InputError = (*FactorialError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*DomainError)(nil)
)
