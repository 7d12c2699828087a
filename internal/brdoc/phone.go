package brdoc

import "strings"

// ValidPhone reports whether input looks like a Brazilian phone number. The
// field is optional, so empty input is valid. After stripping non-digits the
// number must have 10 or 11 digits, the two-digit area code must fall in the
// lexical range "11".."99", and sequences of a single repeated digit are
// rejected.
//
// The area-code check is deliberately a string comparison, matching the
// long-standing behavior callers depend on.
func ValidPhone(input string) bool {
	if strings.TrimSpace(input) == "" {
		return true
	}
	digits := Digits(input)
	if len(digits) != 10 && len(digits) != 11 {
		return false
	}
	ddd := digits[:2]
	if ddd < "11" || ddd > "99" {
		return false
	}
	return !allSameDigit(digits)
}

// FormatPhone masks a phone number as (00) 0000-0000 for 10 digits or
// (00) 00000-0000 for 11, truncating anything longer. Partial inputs are
// masked progressively.
func FormatPhone(input string) string {
	digits := Digits(input)
	if digits == "" {
		return ""
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	if len(digits) <= 10 {
		return applyMask(digits, "(##) ####-####")
	}
	return applyMask(digits, "(##) #####-####")
}
