package filter

import (
	"fmt"
	"slices"
	"strings"
)

// ParseError is the type of error returned by Parse.
type ParseError struct {
	// Source column position where the error occurred.
	Position int
	// Error message.
	Message string
}

// Error returns a formatted version of the error, including the position.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

type parser struct {
	lexer   *lexer
	columns Columns
	pos     int    // position of last token (tok)
	tok     Token  // last lexed token
	val     string // string value of last token (or "")
}

// Parse compiles src into an Expression whose identifiers are resolved against columns.
// Errors are returned as ParseError.
//
// The recursive-descent methods panic with ParseError; Parse recovers it and
// re-raises any other panic.
func Parse(src []byte, columns Columns) (expr Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(ParseError); ok {
				expr = nil
				err = pe
			} else {
				panic(r)
			}
		}
	}()

	p := parser{lexer: newLexer(src), columns: columns}
	p.next()

	expr = p.expression()
	p.expect(eol)

	return expr, err
}

// expression parses a logic expression.
//
// term ( "or" term )*
func (p *parser) expression() Expression {
	expr := p.term()

	for p.matches(or) {
		op := p.tok
		p.next()
		right := p.term()
		expr = &binaryExpression{Left: expr, Op: op, Right: right}
	}

	return expr
}

// term parses an AND expression.
//
// factor ( "and" factor )*
func (p *parser) term() Expression {
	expr := p.factor()

	for p.matches(and) {
		op := p.tok
		p.next()
		right := p.factor()
		expr = &binaryExpression{Left: expr, Op: op, Right: right}
	}

	return expr
}

// factor parses a single comparison or grouped expression.
//
// equality | "(" expression ")"
func (p *parser) factor() Expression {
	if p.matches(lbracket) {
		p.next()
		expr := p.expression()
		p.expect(rbracket)
		p.next()
		return expr
	}

	return p.equality()
}

// equality parses a comparison expression.
//
// IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) STRING
// IDENTIFIER ( "~" | "!~" ) REGEX_LITERAL
func (p *parser) equality() Expression {
	p.expect(identifier)
	col, ok := p.columns[strings.ToLower(p.val)]
	if !ok {
		panic(p.errorf("unknown field %q", p.val))
	}
	left := &columnExpression{Field: p.val, Column: col}
	p.next()

	op := p.tok
	switch op {
	case equal, notEqual, greater, gte, less, lte:
		p.next()
		p.expect(stringLit)
		right := &stringExpression{Value: p.val}
		p.next()
		return &binaryExpression{Left: left, Op: op, Right: right}
	case like, notLike:
		if col.Kind != Text {
			panic(p.errorf("operator %s is not supported on %s", op, left.Field))
		}
		p.next()
		p.expect(regexLit)
		right := newRegexExpression(p.pos, p.val)
		p.next()
		return &binaryExpression{Left: left, Op: op, Right: right}
	default:
		panic(p.errorf("expected operator instead of %s", p.tok))
	}
}

// next parses the next token into p.tok.
func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == illegal {
		panic(p.errorf("%s", p.val))
	}
}

// matches returns true if current token matches one of the given tokens.
func (p *parser) matches(tokens ...Token) bool {
	return slices.Contains(tokens, p.tok)
}

// expect panics if current token is not the expected token.
func (p *parser) expect(tok Token) {
	if p.tok != tok {
		panic(p.errorf("expected %s instead of %s", tok, p.tok))
	}
}

// errorf formats an error with the current position.
func (p *parser) errorf(format string, args ...any) error {
	return ParseError{p.pos, fmt.Sprintf(format, args...)}
}
