package query

import (
	"strings"
	"unicode"

	"github.com/arthur-debert/typeset/pkg/errors"
)

const selectorHint = "selectors look like `<label>`, `heading` or `heading.where(level: 1)`"

// ValidateSelector performs the syntax checks that do not need a compiled
// document: a label in angle brackets, or an expression starting with an
// identifier and with balanced brackets.
func ValidateSelector(selector string) error {
	s := strings.TrimSpace(selector)
	if s == "" {
		return invalidSelector()
	}

	if strings.HasPrefix(s, "<") {
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return invalidSelector()
		}
		for _, r := range s[1 : len(s)-1] {
			if !isLabelRune(r) {
				return invalidSelector()
			}
		}
		return nil
	}

	first := []rune(s)[0]
	if !unicode.IsLetter(first) && first != '_' {
		return invalidSelector()
	}
	if !balanced(s) {
		return invalidSelector()
	}
	return nil
}

func invalidSelector() error {
	return errors.New(errors.ErrQuery, "invalid selector").WithHint(selectorHint)
}

func isLabelRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-.:", r)
}

// balanced checks (), [] and {} nesting outside string literals
func balanced(s string) bool {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && !inString
}
