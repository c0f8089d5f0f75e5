package filter

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	Context("Valid expressions", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// ===== SIMPLE COMPARISONS =====
			{input: "name = 'node-0'", output: `(name equal "node-0")`},
			{input: "driver != 'ipmi'", output: `(driver notEqual "ipmi")`},
			{input: `provision_state = "inspect failed"`, output: `(provision_state equal "inspect failed")`},
			{input: "created_at > '2026-01-01'", output: `(created_at greater "2026-01-01")`},
			{input: "created_at <= '2026-01-01'", output: `(created_at lte "2026-01-01")`},

			// ===== REGEX OPERATORS =====
			{input: "name ~ /^rack1-/", output: "(name like /^rack1-/)"},
			{input: "name !~ /test/", output: "(name notLike /test/)"},

			// ===== CASE INSENSITIVE KEYWORDS AND FIELDS =====
			{input: "NAME = 'a' AND Driver = 'ipmi'", output: `((NAME equal "a") and (Driver equal "ipmi"))`},

			// ===== PRECEDENCE (and binds tighter) =====
			{
				input:  "driver = 'a' or driver = 'b' and name = 'c'",
				output: `((driver equal "a") or ((driver equal "b") and (name equal "c")))`,
			},
			{
				input:  "(driver = 'a' or driver = 'b') and name = 'c'",
				output: `(((driver equal "a") or (driver equal "b")) and (name equal "c"))`,
			},
			{input: "((name = 'a'))", output: `(name equal "a")`},

			// ===== WHITESPACE =====
			{input: "  name='a'  ", output: `(name equal "a")`},
			{input: "name~/x/", output: "(name like /x/)"},
		}

		for _, test := range tests {
			It("should parse: "+test.input, func() {
				expr, err := Parse([]byte(test.input), testColumns)
				Expect(err).ToNot(HaveOccurred())
				Expect(expr.String()).To(Equal(test.output))
			})
		}
	})

	Context("Invalid expressions", func() {
		type testCase struct {
			input   string
			message string
		}

		tests := []testCase{
			{input: "name 'test'", message: "expected operator"},
			{input: "name =", message: "expected stringLit"},
			{input: "(name = 'test'", message: "expected rbracket"},
			{input: "", message: "expected identifier"},
			{input: "   ", message: "expected identifier"},
			{input: "= 'test'", message: "expected identifier"},
			{input: "name = /regex/", message: "expected stringLit"},
			{input: "name ~ 'text'", message: "expected regexLit"},
			{input: "name ~ /[/", message: "invalid regex"},
			{input: "bmc_password = 'x'", message: `unknown field "bmc_password"`},
			{input: "created_at ~ /2026/", message: "not supported on created_at"},
			{input: "name = 'a' name = 'b'", message: "expected eol"},
			{input: "name = 'a' and", message: "expected identifier"},
			{input: "name = 7", message: "unexpected char"},
		}

		for _, test := range tests {
			It("should return ParseError for: "+test.input, func() {
				_, err := Parse([]byte(test.input), testColumns)
				Expect(err).To(HaveOccurred())
				var pe ParseError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Message).To(ContainSubstring(test.message))
			})
		}
	})

	It("should report the position of the error", func() {
		_, err := Parse([]byte("name = 'a' and secret = 'b'"), testColumns)

		var pe ParseError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Position).To(Equal(15))
		Expect(pe.Error()).To(HavePrefix("parse error at 15:"))
	})
})
