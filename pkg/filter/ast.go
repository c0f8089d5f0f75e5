package filter

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind is the type of a filterable column.
type Kind int

const (
	Text Kind = iota
	Timestamp
)

// Column maps a filter identifier to a SQL column.
type Column struct {
	Name string
	Kind Kind
}

// Columns is the set of identifiers an expression may reference, keyed by lower case identifier.
type Columns map[string]Column

// Expression is a parsed filter. It implements squirrel.Sqlizer.
type Expression interface {
	String() string
	ToSql() (string, []any, error)
}

// binaryExpression is an expression like "a = b" or "a and b".
type binaryExpression struct {
	Left  Expression
	Op    Token
	Right Expression
}

func (e *binaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *binaryExpression) ToSql() (string, []any, error) {
	left, largs, err := e.Left.ToSql()
	if err != nil {
		return "", nil, err
	}
	right, rargs, err := e.Right.ToSql()
	if err != nil {
		return "", nil, err
	}
	args := append(largs, rargs...)

	if col, ok := e.Left.(*columnExpression); ok && col.Column.Kind == Timestamp {
		right = fmt.Sprintf("CAST(%s AS TIMESTAMP)", right)
	}

	switch e.Op {
	case like:
		return fmt.Sprintf("regexp_matches(%s, %s)", left, right), args, nil
	case notLike:
		return fmt.Sprintf("NOT regexp_matches(%s, %s)", left, right), args, nil
	default:
		op := e.Op.Sql()
		if op == "" {
			return "", nil, fmt.Errorf("unsupported operator %s", e.Op)
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), args, nil
	}
}

// columnExpression is an identifier resolved to its column.
type columnExpression struct {
	Field  string
	Column Column
}

func (c *columnExpression) String() string {
	return c.Field
}

func (c *columnExpression) ToSql() (string, []any, error) {
	return c.Column.Name, nil, nil
}

// stringExpression is a literal string like "foo". It is always bound as a parameter.
type stringExpression struct {
	Value string
}

func (e *stringExpression) String() string {
	return strconv.Quote(e.Value)
}

func (e *stringExpression) ToSql() (string, []any, error) {
	return "?", []any{e.Value}, nil
}

// regexExpression is a regex literal like /pattern/.
type regexExpression struct {
	Pattern string
}

func newRegexExpression(pos int, pattern string) *regexExpression {
	if _, err := regexp.Compile(pattern); err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid regex: %s", err)})
	}
	return &regexExpression{Pattern: pattern}
}

func (r *regexExpression) String() string {
	return fmt.Sprintf("/%s/", r.Pattern)
}

func (r *regexExpression) ToSql() (string, []any, error) {
	return "?", []any{r.Pattern}, nil
}
