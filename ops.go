package calcexpr

// binaryOp is an infix operator.
type binaryOp int8

const (
	binNone binaryOp = iota

	binEq     // ==
	binNe     // !=
	binGe     // >=
	binLe     // <=
	binAnd    // &&
	binOr     // ||
	binXor    // ^^
	binPow    // **
	binCmp    // <=>
	binShl    // <<
	binShr    // >>
	binAdd    // +
	binSub    // -
	binMul    // *
	binDiv    // /
	binMod    // %
	binBitAnd // &
	binBitOr  // |
	binBitXor // ^
	binGt     // >
	binLt     // <
	binIntDiv // //

	binCount
)

// unaryOp is a prefix or postfix operator.
type unaryOp int8

const (
	unNone unaryOp = iota

	unNeg    // prefix -
	unNot    // prefix !
	unBitNot // prefix ~
	unFact   // postfix !
)

// binops holds the lexeme and precedence of each binary operator. Higher
// precedence is more binding. Every binary operator is left-associative.
var binops = [binCount]struct {
	text string
	prec int8
}{
	binEq:     {"==", 6},
	binNe:     {"!=", 6},
	binGe:     {">=", 7},
	binLe:     {"<=", 7},
	binAnd:    {"&&", 2},
	binOr:     {"||", 1},
	binXor:    {"^^", 1},
	binPow:    {"**", 12},
	binCmp:    {"<=>", 8},
	binShl:    {"<<", 9},
	binShr:    {">>", 9},
	binAdd:    {"+", 10},
	binSub:    {"-", 10},
	binMul:    {"*", 11},
	binDiv:    {"/", 11},
	binMod:    {"%", 11},
	binBitAnd: {"&", 5},
	binBitOr:  {"|", 3},
	binBitXor: {"^", 4},
	binGt:     {">", 7},
	binLt:     {"<", 7},
	binIntDiv: {"//", 11},
}

// unaryPrec is the precedence of every prefix and postfix operator. It must
// exceed that of every binary operator.
const unaryPrec = 13

func (op binaryOp) String() string {
	if op <= binNone || op >= binCount {
		return "binaryOp(?)"
	}
	return binops[op].text
}

func (op binaryOp) prec() int8 {
	return binops[op].prec
}

// integral reports whether op truncates its operands to integers.
func (op binaryOp) integral() bool {
	switch op {
	case binShl, binShr, binMod, binBitAnd, binBitOr, binBitXor, binIntDiv:
		return true
	}
	return false
}

func (op unaryOp) String() string {
	switch op {
	case unNeg:
		return "-"
	case unNot, unFact:
		return "!"
	case unBitNot:
		return "~"
	default:
		return "unaryOp(?)"
	}
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result is binNone.
func binop(text string) binaryOp {
	for op := binNone + 1; op < binCount; op++ {
		if binops[op].text == text {
			return op
		}
	}
	return binNone
}
