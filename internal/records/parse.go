package records

import "strings"

// parseInt reads a leading base-10 integer the way form inputs are read:
// surrounding whitespace is ignored, an optional sign is accepted and any
// trailing non-digits are dropped ("42kg" is 42). ok is false when no digit
// leads the input.
func parseInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		// clamp so absurd inputs stay out of range instead of overflowing
		if n < 1_000_000 {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
