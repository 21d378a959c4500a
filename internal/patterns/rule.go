// Package patterns is the deterministic field extractor: per field, an
// ordered chain of text rules where the first match wins.
package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule tries to recover one field value from document text.
type Rule func(text string) (string, bool)

// Chain is an ordered list of rules. Later rules are fallbacks for document
// variants; results are never combined.
type Chain []Rule

// First returns the value of the first rule that matches.
func (c Chain) First(text string) (string, bool) {
	for _, rule := range c {
		if v, ok := rule(text); ok {
			return v, true
		}
	}
	return "", false
}

// Or returns the first match or fallback.
func (c Chain) Or(text, fallback string) string {
	if v, ok := c.First(text); ok {
		return v
	}
	return fallback
}

// Capture returns a rule yielding the trimmed first group of re.
func Capture(re *regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil || len(m) < 2 {
			return "", false
		}
		v := strings.TrimSpace(m[1])
		return v, v != ""
	}
}

// Then post-processes a rule's value; an empty result counts as no match.
func (r Rule) Then(clean func(string) string) Rule {
	return func(text string) (string, bool) {
		v, ok := r(text)
		if !ok {
			return "", false
		}
		v = clean(v)
		return v, v != ""
	}
}

// captures builds one Capture rule per expression, in order.
func captures(res ...*regexp.Regexp) Chain {
	out := make(Chain, len(res))
	for i, re := range res {
		out[i] = Capture(re)
	}
	return out
}

// findNotFollowedByDigit returns the submatch indexes of the leftmost match of
// re in s[from:] that is not immediately followed by an ASCII digit in s.
// Indexes are relative to s.
func findNotFollowedByDigit(re *regexp.Regexp, s string, from int) []int {
	off := from
	for off <= len(s) {
		loc := re.FindStringSubmatchIndex(s[off:])
		if loc == nil {
			return nil
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += off
			}
		}
		if end := loc[1]; end >= len(s) || !isDigit(s[end]) {
			return loc
		}
		_, size := utf8.DecodeRuneInString(s[loc[0]:])
		if size == 0 {
			size = 1
		}
		off = loc[0] + size
	}
	return nil
}

// runeWindow returns the byte offset n runes after start, clamped to len(s).
func runeWindow(s string, start, n int) int {
	i := start
	for count := 0; i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
