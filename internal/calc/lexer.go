package calc

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokDoubleSlash
	tokPercent
	tokDoubleStar
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokDoubleSlash:
		return "'//'"
	case tokPercent:
		return "'%'"
	case tokDoubleStar:
		return "'**'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind  tokenKind
	pos   int
	text  string
	value float64
}

// lex splits an expression into tokens. Identifiers, quotes, commas and any
// operator outside the arithmetic set are reported as syntax errors here, so
// nothing but numbers and whitelisted operators ever reaches the parser.
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			tok, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += len(tok.text)
		case src[i] == '+':
			tokens = append(tokens, token{kind: tokPlus, pos: i, text: "+"})
			i++
		case src[i] == '-':
			tokens = append(tokens, token{kind: tokMinus, pos: i, text: "-"})
			i++
		case src[i] == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				tokens = append(tokens, token{kind: tokDoubleStar, pos: i, text: "**"})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokStar, pos: i, text: "*"})
			i++
		case src[i] == '/':
			if i+1 < len(src) && src[i+1] == '/' {
				tokens = append(tokens, token{kind: tokDoubleSlash, pos: i, text: "//"})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokSlash, pos: i, text: "/"})
			i++
		case src[i] == '%':
			tokens = append(tokens, token{kind: tokPercent, pos: i, text: "%"})
			i++
		case src[i] == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i, text: "("})
			i++
		case src[i] == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unsupported name %q", src[start:i])}
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unsupported character %q", r)}
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

// lexNumber scans a decimal literal: digits, an optional fraction and an
// optional exponent ("12", "3.5", ".5", "5.", "1e-3").
func lexNumber(src string, start int) (token, error) {
	i := start
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	text := src[start:i]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(value, 0) {
		return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
	}
	return token{kind: tokNumber, pos: start, text: text, value: value}, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
