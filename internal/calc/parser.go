package calc

import "fmt"

// maxDepth bounds nesting of parentheses and unary operators.
const maxDepth = 200

// Binding powers, lowest to highest. Unary operators sit between the
// multiplicative operators and exponentiation, so -2**2 parses as -(2**2).
const (
	bpNone = iota
	bpAdditive
	bpMultiplicative
	bpUnary
	bpPower
)

type parser struct {
	tokens []token
	pos    int
	depth  int
}

// Parse builds the restricted expression tree for src. The tree only ever
// contains number literals and the whitelisted unary and binary operators.
func Parse(src string) (*Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	p := &parser{tokens: tokens}
	root, err := p.expression(bpNone)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
	return &Expr{src: src, root: root}, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// expression is a precedence-climbing loop over the binary operators.
// Operators bind while their power exceeds minBP; ** recurses with a lower
// minimum so that it associates to the right.
func (p *parser) expression(minBP int) (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, bp, ok := binaryOperator(p.peek().kind)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.next()
		rightMin := bp
		if op == opPow {
			rightMin = bp - 1
		}
		right, err := p.expression(rightMin)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokPlus, tokMinus:
		p.next()
		operand, err := p.expression(bpUnary)
		if err != nil {
			return nil, err
		}
		op := opNeg
		if tok.kind == tokPlus {
			op = opPos
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numberNode(tok.value), nil
	case tokLParen:
		inner, err := p.expression(bpNone)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected ')' but found %s", closing.kind)}
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: p.peek().pos, Msg: "expression is nested too deeply"}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func binaryOperator(kind tokenKind) (operator, int, bool) {
	switch kind {
	case tokPlus:
		return opAdd, bpAdditive, true
	case tokMinus:
		return opSub, bpAdditive, true
	case tokStar:
		return opMul, bpMultiplicative, true
	case tokSlash:
		return opDiv, bpMultiplicative, true
	case tokDoubleSlash:
		return opFloorDiv, bpMultiplicative, true
	case tokPercent:
		return opMod, bpMultiplicative, true
	case tokDoubleStar:
		return opPow, bpPower, true
	default:
		return 0, bpNone, false
	}
}
