package filter

type Token int

const (
	illegal Token = iota
	eol
	and
	or
	equal
	gte
	greater
	lte
	less
	notEqual
	like
	notLike
	lbracket
	rbracket
	stringLit
	regexLit
	identifier
)

var tokenNames = map[Token]string{
	illegal:    "illegal",
	eol:        "eol",
	and:        "and",
	equal:      "equal",
	gte:        "gte",
	greater:    "greater",
	lte:        "lte",
	less:       "less",
	or:         "or",
	notEqual:   "notEqual",
	like:       "like",
	notLike:    "notLike",
	stringLit:  "stringLit",
	regexLit:   "regexLit",
	lbracket:   "lbracket",
	rbracket:   "rbracket",
	identifier: "identifier",
}

func (t Token) String() string {
	return tokenNames[t]
}

var tokenSql = map[Token]string{
	and:      "AND",
	or:       "OR",
	equal:    "=",
	gte:      ">=",
	greater:  ">",
	lte:      "<=",
	less:     "<",
	notEqual: "!=",
}

func (t Token) Sql() string {
	return tokenSql[t]
}
