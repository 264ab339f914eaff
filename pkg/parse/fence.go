package parse

import (
	"strings"
	"unicode"
)

const fence = "```"

// StripFence removes a markdown code fence wrapped around a payload, e.g.
// "```json\n[...]\n```". The language tag is optional and matched in any case.
// Text without a leading fence is returned trimmed and otherwise untouched.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = s[len(fence):]
	// Drop the language tag: letters, digits and a few separators up to the first other rune.
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '+'
	})
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, fence) {
		s = s[:len(s)-len(fence)]
	}
	return strings.TrimSpace(s)
}
