package brdoc

import "regexp"

// Deliberately loose: one local part, one domain, at least one dot in the
// domain. Full RFC 5322 validation is not the goal here.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

// ValidEmail reports whether input has the shape local@domain.tld.
func ValidEmail(input string) bool {
	return emailPattern.MatchString(input)
}
