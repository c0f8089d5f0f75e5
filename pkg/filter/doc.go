// Package filter parses the expression language accepted by list endpoints
// and compiles it into a parameterized SQL condition.
//
// Grammar
//
//	expression  : term ( "or" term )* ;
//	term        : factor ( "and" factor )* ;
//	factor      : equality | "(" expression ")" ;
//	equality    : IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) STRING
//	            | IDENTIFIER ( "~" | "!~" ) REGEX_LITERAL ;
//
//	IDENTIFIER    : [a-zA-Z_][a-zA-Z0-9_]* ;
//	REGEX_LITERAL : '/' ( '\\/' | . )*? '/' ;
//	STRING        : "'" (.*?) "'" | "\"" (.*?) "\"" ;
//
// Identifiers are resolved against the Columns given to Parse; an unknown
// identifier is a parse error. Regex operators only apply to text columns.
//
// Expressions implement squirrel.Sqlizer so they can be passed to Where:
//
//	expr, err := filter.Parse([]byte(`provision_state = 'inspect failed' and name ~ /^rack1-/`), columns)
//	builder = builder.Where(expr)
//
// which produces
//
//	(provision_state = ? AND regexp_matches(name, ?))  ["inspect failed", "^rack1-"]
package filter
