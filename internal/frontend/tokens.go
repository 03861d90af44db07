package frontend

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokDot
	tokComma
	tokLParen
	tokRParen
	tokQuestion
	tokColon
)

type token struct {
	kind  tokenKind
	text  string // for strings: the unquoted value
	start int
	end   int
}

// twoCharOps проверяются раньше односимвольных.
var twoCharOps = []string{"<=", ">=", "==", "!=", "&&", "||"}

// tokenize splits a binding expression into tokens. Offsets are byte offsets
// into src.
func tokenize(src string) ([]token, *exprError) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case unicode.IsDigit(r):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			// единица измерения: 10px
			for i < len(src) && isASCIILetter(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], start: start, end: i})
		case r == '"':
			tok, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = tok.end
		case r == '_' || unicode.IsLetter(r):
			start := i
			i += size
			for i < len(src) {
				next, n := utf8.DecodeRuneInString(src[i:])
				if next == '-' {
					// "preferred-width" is one identifier, "x-1" is a subtraction
					after, _ := utf8.DecodeRuneInString(src[i+1:])
					if !unicode.IsLetter(after) && after != '_' {
						break
					}
				} else if next != '_' && !unicode.IsLetter(next) && !unicode.IsDigit(next) {
					break
				}
				i += n
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], start: start, end: i})
		default:
			tok, ok := scanPunct(src, i)
			if !ok {
				return nil, &exprError{start: i, end: i + size, msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, tok)
			i = tok.end
		}
	}
	return append(toks, token{kind: tokEOF, start: len(src), end: len(src)}), nil
}

func scanString(src string, start int) (token, *exprError) {
	var sb strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch c {
		case '"':
			return token{kind: tokString, text: sb.String(), start: start, end: i + 1}, nil
		case '\\':
			if i+1 >= len(src) {
				break
			}
			switch src[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(src[i+1])
			default:
				return token{}, &exprError{start: i, end: i + 2, msg: fmt.Sprintf("unknown escape \\%c", src[i+1])}
			}
			i += 2
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return token{}, &exprError{start: start, end: len(src), msg: "unterminated string literal"}
}

func scanPunct(src string, i int) (token, bool) {
	for _, op := range twoCharOps {
		if strings.HasPrefix(src[i:], op) {
			return token{kind: tokOp, text: op, start: i, end: i + 2}, true
		}
	}
	kind := tokOp
	switch src[i] {
	case '+', '-', '*', '/', '<', '>', '!':
	case '.':
		kind = tokDot
	case ',':
		kind = tokComma
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case '?':
		kind = tokQuestion
	case ':':
		kind = tokColon
	default:
		return token{}, false
	}
	return token{kind: kind, text: src[i : i+1], start: i, end: i + 1}, true
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isASCIILetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
