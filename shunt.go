package calcexpr

// pendKind is the kind of an entry on the pending operator stack.
type pendKind int8

const (
	pendBinary pendKind = iota
	pendPrefix
	// pendParen is a grouping parenthesis.
	pendParen
	// pendCall is a function call's argument list.
	pendCall
)

type pending struct {
	kind pendKind
	bin  binaryOp
	un   unaryOp
	// fn and seps are the function name and number of separators seen for
	// pendCall.
	fn   string
	seps int
	pos  int
}

// shunter converts the infix tokens of one expression into postfix
// instructions using the shunting-yard algorithm.
type shunter[T any] struct {
	ev   *Evaluator[T]
	scan *lexer
	out  []instr
	ops  []pending
	// nest is the number of open parentheses.
	nest int
	// prev is the previous token, which decides whether each token may appear
	// where it does.
	prev lexToken
}

// Compile parses an expression into a program. Compile reports every error
// that can be found without evaluating the expression, including operands
// without an operator between them, operators missing operands, and calls to
// functions that are not connected.
func (ev *Evaluator[T]) Compile(src string) (*Program[T], error) {
	s := shunter[T]{ev: ev, scan: lex(src)}
	end, err := s.run()
	if err != nil {
		return nil, err
	}
	depth, err := check(s.out, end)
	if err != nil {
		return nil, err
	}
	return &Program[T]{src: src, code: s.out, depth: depth}, nil
}

// run consumes tokens until EOF. The result is the position of the EOF.
func (s *shunter[T]) run() (int, error) {
	for {
		tok, err := s.scan.next()
		if err != nil {
			return 0, err
		}
		if err := s.order(tok); err != nil {
			return 0, err
		}
		switch tok.kind {
		case tokenEOF:
			return tok.pos, s.flush()
		case tokenNum:
			v, err := s.ev.arith.Parse(tok.text)
			if err != nil {
				return 0, &NumberError{Col: tok.pos, Text: tok.text, Err: err}
			}
			s.out = append(s.out, numInstr[T]{v: v, text: tok.text, pos: tok.pos})
			s.prefixes()
		case tokenPostfix:
			// The operand is already complete.
			s.out = append(s.out, unInstr{op: tok.un, pos: tok.pos})
		case tokenBinary:
			prec := tok.bin.prec()
			for len(s.ops) > 0 {
				top := s.ops[len(s.ops)-1]
				if top.kind != pendBinary || top.bin.prec() < prec {
					break
				}
				s.emit(s.pop())
			}
			s.ops = append(s.ops, pending{kind: pendBinary, bin: tok.bin, pos: tok.pos})
		case tokenPrefix:
			s.ops = append(s.ops, pending{kind: pendPrefix, un: tok.un, pos: tok.pos})
		case tokenOpen:
			if err := s.open(tok.pos); err != nil {
				return 0, err
			}
			s.ops = append(s.ops, pending{kind: pendParen, pos: tok.pos})
		case tokenIdent:
			open, err := s.scan.next()
			if err != nil {
				return 0, err
			}
			if open.kind != tokenOpen {
				return 0, &NameError{Col: tok.pos, Name: tok.text}
			}
			if _, ok := s.ev.funcs.arity(tok.text); !ok {
				return 0, &NameError{Col: tok.pos, Name: tok.text}
			}
			if err := s.open(open.pos); err != nil {
				return 0, err
			}
			s.ops = append(s.ops, pending{kind: pendCall, fn: tok.text, pos: tok.pos})
			tok = open
		case tokenSep:
			if err := s.sep(tok); err != nil {
				return 0, err
			}
		case tokenClose:
			if err := s.close(tok); err != nil {
				return 0, err
			}
		default:
			panic("calcexpr: unknown token: " + tok.String())
		}
		s.prev = tok
	}
}

// operand reports whether the previous token completed an operand.
func (s *shunter[T]) operand() bool {
	switch s.prev.kind {
	case tokenNum, tokenClose, tokenPostfix:
		return true
	}
	return false
}

// order checks that tok may follow the previous token. Empty groups, empty
// arguments, and empty input are left to the handlers for each token.
func (s *shunter[T]) order(tok lexToken) error {
	switch tok.kind {
	case tokenNum, tokenIdent, tokenOpen, tokenPrefix:
		if s.operand() {
			return &MalformedError{Col: tok.pos, Near: tok.text}
		}
	case tokenBinary:
		if !s.operand() {
			return &OperandError{Col: tok.pos, Op: tok.text, Need: 2, Have: 0}
		}
	case tokenSep, tokenClose, tokenEOF:
		// An operator with nothing after it.
		switch s.prev.kind {
		case tokenBinary:
			return &OperandError{Col: s.prev.pos, Op: s.prev.text, Need: 2, Have: 1}
		case tokenPrefix:
			return &OperandError{Col: s.prev.pos, Op: s.prev.text, Need: 1, Have: 0}
		}
	}
	return nil
}

func (s *shunter[T]) open(pos int) error {
	s.nest++
	if s.nest > s.ev.maxDepth {
		return &DepthError{Col: pos, Max: s.ev.maxDepth}
	}
	return nil
}

// sep ends one function argument and begins the next.
func (s *shunter[T]) sep(tok lexToken) error {
	if s.prev.kind == tokenOpen || s.prev.kind == tokenSep {
		// Empty argument.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	}
	for len(s.ops) > 0 {
		top := &s.ops[len(s.ops)-1]
		switch top.kind {
		case pendCall:
			top.seps++
			return nil
		case pendParen:
			return &SeparatorError{Col: tok.pos, Sep: tok.text}
		}
		s.emit(s.pop())
	}
	return &SeparatorError{Col: tok.pos, Sep: tok.text}
}

// close ends a group or a call.
func (s *shunter[T]) close(tok lexToken) error {
	for {
		if len(s.ops) == 0 {
			return &BracketError{Col: tok.pos, Right: tok.text}
		}
		p := s.pop()
		switch p.kind {
		case pendParen:
			if s.prev.kind == tokenOpen {
				return &MalformedError{Col: tok.pos, Values: 0}
			}
		case pendCall:
			if s.prev.kind == tokenSep {
				return &SeparatorError{Col: s.prev.pos, Sep: s.prev.text}
			}
			argc := p.seps + 1
			if s.prev.kind == tokenOpen {
				argc = 0
			}
			// The name was checked when the call opened, and nothing can
			// disconnect it during compilation.
			want, _ := s.ev.funcs.arity(p.fn)
			if argc != want {
				return &CallError{Col: tok.pos, Func: p.fn, Want: want, Len: argc}
			}
			s.out = append(s.out, callInstr{fn: p.fn, argc: argc, pos: p.pos})
		default:
			s.emit(p)
			continue
		}
		s.nest--
		s.prefixes()
		return nil
	}
}

// flush moves all pending operators to the output at the end of input.
func (s *shunter[T]) flush() error {
	for len(s.ops) > 0 {
		p := s.pop()
		switch p.kind {
		case pendParen, pendCall:
			return &BracketError{Col: p.pos, Left: "("}
		}
		s.emit(p)
	}
	return nil
}

// prefixes moves prefix operators waiting on the operand that was just
// completed to the output.
func (s *shunter[T]) prefixes() {
	for len(s.ops) > 0 && s.ops[len(s.ops)-1].kind == pendPrefix {
		s.emit(s.pop())
	}
}

func (s *shunter[T]) pop() pending {
	p := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]
	return p
}

// emit appends a pending operator to the output.
func (s *shunter[T]) emit(p pending) {
	switch p.kind {
	case pendBinary:
		s.out = append(s.out, binInstr{op: p.bin, pos: p.pos})
	case pendPrefix:
		s.out = append(s.out, unInstr{op: p.un, pos: p.pos})
	default:
		panic("calcexpr: emit parenthesis")
	}
}
