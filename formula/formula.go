package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Formula is a function which accepts an int and returns
// the index of the plural form to use.
type Formula func(n int) (plural int)

// Default is the Plural-Forms used by catalogs which don't declare one.
const Default = "nplurals=2; plural=(n != 1);"

// Extract takes a Plural Form expression e.g. "nplurals=2; plural=n == 1 ? 0 : 1;"
// and returns its formula (e.g. "n == 1 ? 0 : 1") as well as the number of plural
// forms (in the given example, 2). If the plural form can't be parsed, an error
// is returned.
func Extract(text string) (formula string, nplurals int, err error) {
	form := strings.TrimSpace(strings.ReplaceAll(text, "\\\n", ""))
	seenN := false
	for _, part := range strings.Split(form, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq <= 0 {
			return "", 0, fmt.Errorf("invalid Plural-Forms %q, unexpected %q", text, part)
		}
		key := strings.ToLower(strings.TrimSpace(part[:eq]))
		value := strings.TrimSpace(part[eq+1:])
		switch key {
		case "nplurals":
			nplurals, err = strconv.Atoi(value)
			if err != nil {
				return "", 0, fmt.Errorf("invalid Plural-Forms %q, error parsing nplurals: %s", text, err)
			}
			if nplurals < 1 {
				return "", 0, fmt.Errorf("invalid Plural-Forms %q, nplurals must be at least 1", text)
			}
			seenN = true
		case "plural":
			formula = trimParens(value)
		default:
			return "", 0, fmt.Errorf("invalid Plural-Forms %q, unknown key %q", text, key)
		}
	}
	if !seenN {
		return "", 0, fmt.Errorf("invalid Plural-Forms %q, can't find number of plurals", text)
	}
	if formula == "" {
		return "", 0, fmt.Errorf("invalid Plural-Forms %q, can't find plural formula", text)
	}
	return formula, nplurals, nil
}

// trimParens removes parentheses wrapping the whole expression, but
// leaves "(a) ? b : (c)" alone.
func trimParens(s string) string {
	for len(s) > 1 && s[0] == '(' && s[len(s)-1] == ')' {
		depth := 0
		wraps := true
		for ii := 0; ii < len(s)-1; ii++ {
			switch s[ii] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				wraps = false
				break
			}
		}
		if !wraps {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// Rule is a compiled Plural-Forms header. A Rule is immutable and safe
// for concurrent use.
type Rule struct {
	nplurals int
	program  *Program
	fn       Formula
}

// Make takes a Plural Form expression, like e.g. "nplurals=2; plural=n == 1 ? 0 : 1;"
// and returns its compiled Rule.
func Make(text string) (*Rule, error) {
	form, nplurals, err := Extract(text)
	if err != nil {
		return nil, err
	}
	p, err := Compile(form)
	if err != nil {
		return nil, err
	}
	return &Rule{nplurals: nplurals, program: p, fn: p.Formula()}, nil
}

// MustMake is like Make, but panics if the expression can't be compiled.
func MustMake(text string) *Rule {
	r, err := Make(text)
	if err != nil {
		panic(err)
	}
	return r
}

// NPlurals returns the number of plural forms declared by the rule.
func (r *Rule) NPlurals() int {
	return r.nplurals
}

// Expr returns the plural expression, without the nplurals part.
func (r *Rule) Expr() string {
	return r.program.String()
}

// Index returns the plural form to use for n. Negative counts are
// evaluated by their absolute value, and results outside of
// [0, NPlurals()) select the first form.
func (r *Rule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	idx := r.fn(n)
	if idx < 0 || idx >= r.nplurals {
		return 0
	}
	return idx
}

// String returns the rule in Plural-Forms syntax.
func (r *Rule) String() string {
	return fmt.Sprintf("nplurals=%d; plural=(%s);", r.nplurals, r.program.String())
}
