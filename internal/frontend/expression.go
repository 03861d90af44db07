package frontend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"lumen/internal/ir"
	"lumen/internal/source"
)

type exprError struct {
	start, end int
	msg        string
	cause      error // set when a reference could not be resolved
}

func (e *exprError) Error() string { return e.msg }
func (e *exprError) Unwrap() error { return e.cause }

var errNoReferences = errors.New("references not allowed")

// ReferenceResolver turns a dotted path ("self.width", "win.height",
// "height") into a property reference.
type ReferenceResolver func(path []string) (ir.NamedReference, error)

// exprParser is a Pratt parser over the tokens of one binding.
type exprParser struct {
	src     string
	toks    []token
	pos     int
	resolve ReferenceResolver
	spanAt  func(start, end int) source.Span
}

// ParseExpr parses src. Spans are computed by spanAt from byte offsets
// into src. Errors carry the offending range.
func ParseExpr(src string, resolve ReferenceResolver, spanAt func(start, end int) source.Span) (*ir.Expr, error) {
	toks, lexErr := tokenize(src)
	if lexErr != nil {
		return nil, lexErr
	}
	if spanAt == nil {
		spanAt = func(int, int) source.Span { return source.Span{} }
	}
	p := &exprParser{src: src, toks: toks, resolve: resolve, spanAt: spanAt}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errAt(tok, fmt.Sprintf("unexpected %q after expression", tok.text))
	}
	return expr, nil
}

// spanRange converts an exprError range into a span shifted by base.
func spanRange(file source.FileID, base uint32, start, end int) source.Span {
	s, errS := safecast.Conv[uint32](start)
	e, errE := safecast.Conv[uint32](end)
	if errS != nil || errE != nil {
		return source.Span{File: file, Start: base, End: base}
	}
	return source.Span{File: file, Start: base + s, End: base + e}
}

func (p *exprParser) peek() token { return p.toks[p.pos] }

func (p *exprParser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) errAt(tok token, msg string) *exprError {
	return &exprError{start: tok.start, end: tok.end, msg: msg}
}

func (p *exprParser) cover(a, b *ir.Expr) source.Span {
	return a.Span.Cover(b.Span)
}

// parseExpr - точка входа: тернарный оператор имеет самый низкий приоритет
// и правоассоциативен.
func (p *exprParser) parseExpr() (*ir.Expr, error) {
	cond, err := p.parseBinaryExpr(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokColon {
		return nil, p.errAt(tok, "expected ':' in conditional expression")
	}
	p.advance()
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ir.Expr{
		Kind: ir.ExprCondition,
		Span: p.cover(cond, els),
		Data: ir.ConditionData{Cond: cond, Then: then, Else: els},
	}, nil
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов.
func (p *exprParser) parseBinaryExpr(minPrec int) (*ir.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		prec := binaryPrec(p.peek())
		if prec < 0 || prec < minPrec {
			return left, nil
		}
		opTok := p.advance()
		if p.peek().kind == tokEOF {
			return nil, p.errAt(opTok, "expected expression after binary operator")
		}
		right, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ir.NewBinary(opTok.text, left, right, p.cover(left, right))
	}
}

func (p *exprParser) parseUnaryExpr() (*ir.Expr, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "!") {
		p.advance()
		operand, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &ir.Expr{
			Kind: ir.ExprUnary,
			Span: p.spanAt(tok.start, tok.end).Cover(operand.Span),
			Data: ir.UnaryData{Op: tok.text, Operand: operand},
		}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *exprParser) parsePrimaryExpr() (*ir.Expr, error) {
	tok := p.advance()
	span := p.spanAt(tok.start, tok.end)
	switch tok.kind {
	case tokNumber:
		return p.parseNumber(tok, span)
	case tokString:
		return &ir.Expr{Kind: ir.ExprString, Span: span, Data: ir.StringData{Value: tok.text}}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.kind != tokRParen {
			return nil, p.errAt(closing, "expected ')'")
		}
		p.advance()
		return inner, nil
	case tokIdent:
		switch tok.text {
		case "true", "false":
			return &ir.Expr{Kind: ir.ExprBool, Span: span, Data: ir.BoolData{Value: tok.text == "true"}}, nil
		}
		if p.peek().kind == tokLParen {
			return p.parseCall(tok, span)
		}
		return p.parseReference(tok)
	case tokEOF:
		return nil, p.errAt(tok, "expected expression")
	}
	return nil, p.errAt(tok, fmt.Sprintf("unexpected %q", tok.text))
}

func (p *exprParser) parseNumber(tok token, span source.Span) (*ir.Expr, error) {
	digits := strings.TrimRightFunc(tok.text, func(r rune) bool {
		return r < '0' || r > '9'
	})
	unit := tok.text[len(digits):]
	switch unit {
	case "", "px":
	default:
		return nil, p.errAt(tok, fmt.Sprintf("unknown unit %q", unit))
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil, p.errAt(tok, fmt.Sprintf("malformed number %q", tok.text))
	}
	return ir.NewNumber(v, unit, span), nil
}

func (p *exprParser) parseCall(name token, span source.Span) (*ir.Expr, error) {
	arity, ok := builtinFunctions[name.text]
	if !ok {
		return nil, p.errAt(name, fmt.Sprintf("unknown function %q", name.text))
	}
	p.advance() // (
	var args []*ir.Expr
	for p.peek().kind != tokRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	closing := p.peek()
	if closing.kind != tokRParen {
		return nil, p.errAt(closing, "expected ')' after arguments")
	}
	p.advance()
	if (arity >= 0 && len(args) != arity) || (arity < 0 && len(args) == 0) {
		return nil, p.errAt(name, fmt.Sprintf("wrong number of arguments to %s: %d", name.text, len(args)))
	}
	return &ir.Expr{
		Kind: ir.ExprCall,
		Span: span.Cover(p.spanAt(closing.start, closing.end)),
		Data: ir.CallData{Name: name.text, Args: args},
	}, nil
}

// parseReference читает путь вида a или a.b.
func (p *exprParser) parseReference(first token) (*ir.Expr, error) {
	path := []string{normalizeIdent(first.text)}
	last := first
	for p.peek().kind == tokDot {
		p.advance()
		part := p.advance()
		if part.kind != tokIdent {
			return nil, p.errAt(part, "expected property name after '.'")
		}
		path = append(path, normalizeIdent(part.text))
		last = part
	}
	if p.resolve == nil {
		return nil, &exprError{start: first.start, end: last.end, msg: "property references are not allowed here", cause: errNoReferences}
	}
	ref, err := p.resolve(path)
	if err != nil {
		return nil, &exprError{start: first.start, end: last.end, msg: err.Error(), cause: err}
	}
	return ir.NewPropertyRef(ref, p.spanAt(first.start, last.end)), nil
}
