package filter

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Lexer", func() {
	Context("Scan", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// ===== OPERATORS =====
			{input: "=", output: "equal eol"},
			{input: "!=", output: "notEqual eol"},
			{input: "<", output: "less eol"},
			{input: "<=", output: "lte eol"},
			{input: ">", output: "greater eol"},
			{input: ">=", output: "gte eol"},
			{input: "~", output: "like eol"},
			{input: "!~", output: "notLike eol"},
			{input: "= != < <= > >= ~ !~", output: "equal notEqual less lte greater gte like notLike eol"},

			// ===== LOGICAL OPERATORS =====
			{input: "and", output: "and eol"},
			{input: "OR", output: "or eol"},
			{input: "And", output: "and eol"},
			{input: "and or and", output: "and or and eol"},

			// ===== BRACKETS =====
			{input: "()", output: "lbracket rbracket eol"},
			{input: "( )", output: "lbracket rbracket eol"},

			// ===== STRINGS =====
			{input: "'inspect failed'", output: "stringLit eol"},
			{input: `"manageable"`, output: "stringLit eol"},
			{input: "''", output: "stringLit eol"},
			{input: `'ipmi' "fake-hardware"`, output: "stringLit stringLit eol"},
			{input: "'2026-01-01 10:00:00'", output: "stringLit eol"},

			// ===== REGEX LITERALS =====
			{input: "/^rack1-/", output: "regexLit eol"},
			{input: "//", output: "regexLit eol"},
			{input: "/a\\/b/", output: "regexLit eol"},

			// ===== IDENTIFIERS =====
			{input: "name", output: "identifier eol"},
			{input: "provision_state", output: "identifier eol"},
			{input: "node2", output: "identifier eol"},
			{input: "android", output: "identifier eol"},
			{input: "origin", output: "identifier eol"},

			// ===== WHITESPACE =====
			{input: "", output: "eol"},
			{input: "\t\t", output: "eol"},
			{input: "  name  ", output: "identifier eol"},

			// ===== EXPRESSIONS =====
			{input: "driver='ipmi'", output: "identifier equal stringLit eol"},
			{input: "created_at>='2026-01-01'", output: "identifier gte stringLit eol"},
			{
				input:  "provision_state = 'inspecting' and (driver = 'ipmi' or name ~ /^bm-/)",
				output: "identifier equal stringLit and lbracket identifier equal stringLit or identifier like regexLit rbracket eol",
			},

			// ===== ILLEGAL TOKENS =====
			{input: "!", output: "illegal eol"},
			{input: "@", output: "illegal eol"},
			{input: ";", output: "illegal eol"},
			{input: "7", output: "illegal eol"},
			{input: "'unclosed", output: "illegal eol"},
			{input: "/unclosed", output: "illegal eol"},
		}

		for _, test := range tests {
			It("should tokenize: "+test.input, func() {
				l := newLexer([]byte(test.input))

				tokens := []string{}
				for {
					_, tok, _ := l.Scan()
					tokens = append(tokens, tok.String())
					if tok == eol {
						break
					}
				}

				Expect(strings.Join(tokens, " ")).To(Equal(test.output))
			})
		}
	})

	It("should keep the identifier text", func() {
		l := newLexer([]byte("Provision_State"))

		_, tok, val := l.Scan()

		Expect(tok).To(Equal(identifier))
		Expect(val).To(Equal("Provision_State"))
	})

	It("should unescape slashes in regex literals", func() {
		l := newLexer([]byte(`/a\/b/`))

		_, tok, val := l.Scan()

		Expect(tok).To(Equal(regexLit))
		Expect(val).To(Equal("a/b"))
	})
})
