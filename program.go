package calcexpr

import (
	"strconv"
	"strings"
)

// Program is a compiled expression in postfix order. A Program is immutable
// and can be run any number of times, by any evaluator with the same number
// type.
type Program[T any] struct {
	src  string
	code []instr
	// depth is the greatest number of operands on the stack at once.
	depth int
}

// instr is one step of a program. The implementations are numInstr[T],
// binInstr, unInstr, and callInstr.
type instr interface {
	// col is the position of the token the instruction came from.
	col() int
	// pops is the number of operands the instruction consumes. Every
	// instruction pushes exactly one result.
	pops() int
	// name is how the instruction appears in a postfix listing.
	name() string
}

// numInstr pushes a literal.
type numInstr[T any] struct {
	v    T
	text string
	pos  int
}

// binInstr applies an infix operator.
type binInstr struct {
	op  binaryOp
	pos int
}

// unInstr applies a prefix or postfix operator.
type unInstr struct {
	op  unaryOp
	pos int
}

// callInstr calls a connected function with argc arguments.
type callInstr struct {
	fn   string
	argc int
	pos  int
}

func (n numInstr[T]) col() int     { return n.pos }
func (n numInstr[T]) pops() int    { return 0 }
func (n numInstr[T]) name() string { return n.text }

func (n binInstr) col() int     { return n.pos }
func (n binInstr) pops() int    { return 2 }
func (n binInstr) name() string { return n.op.String() }

func (n unInstr) col() int  { return n.pos }
func (n unInstr) pops() int { return 1 }
func (n unInstr) name() string {
	switch n.op {
	case unNeg:
		return "neg"
	case unNot:
		return "not"
	case unBitNot:
		return "compl"
	case unFact:
		return "fact"
	default:
		panic("calcexpr: invalid unary operator " + strconv.Itoa(int(n.op)))
	}
}

func (n callInstr) col() int     { return n.pos }
func (n callInstr) pops() int    { return n.argc }
func (n callInstr) name() string { return n.fn + "/" + strconv.Itoa(n.argc) }

// opname is the name of an instruction in errors.
func opname(n instr) string {
	switch n := n.(type) {
	case unInstr:
		return n.op.String()
	case callInstr:
		return n.fn
	default:
		return n.name()
	}
}

// check simulates the operand stack of a program without evaluating it.
// end is the position to report if the program does not produce exactly one
// value. The result is the greatest stack depth.
func check(code []instr, end int) (int, error) {
	d, m := 0, 0
	for _, n := range code {
		k := n.pops()
		if d < k {
			return 0, &OperandError{Col: n.col(), Op: opname(n), Need: k, Have: d}
		}
		d += 1 - k
		if d > m {
			m = d
		}
	}
	if d != 1 {
		return 0, &MalformedError{Col: end, Values: d}
	}
	return m, nil
}

// String formats the program in postfix order, with unary operators named
// neg, not, compl, and fact, and calls written as name/argc.
func (p *Program[T]) String() string {
	var b strings.Builder
	for i, n := range p.code {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.name())
	}
	return b.String()
}

// Source returns the expression the program was compiled from.
func (p *Program[T]) Source() string {
	return p.src
}
