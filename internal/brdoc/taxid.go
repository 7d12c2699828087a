// Package brdoc validates and formats Brazilian business fields: CPF/CNPJ
// documents, phone numbers, e-mail addresses and person names. Every function
// is total; malformed input degrades to an empty string or false.
package brdoc

import "strings"

const (
	cpfLength  = 11
	cnpjLength = 14
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatTaxID masks a CPF (000.000.000-00) or CNPJ (00.000.000/0000-00)
// depending on how many digits the input carries. Partial inputs receive the
// mask progressively, supporting live field entry. Anything beyond 14 digits
// is truncated.
func FormatTaxID(input string) string {
	digits := Digits(input)
	if digits == "" {
		return ""
	}
	if len(digits) <= cpfLength {
		return applyMask(digits, "###.###.###-##")
	}
	if len(digits) > cnpjLength {
		digits = digits[:cnpjLength]
	}
	return applyMask(digits, "##.###.###/####-##")
}

// ValidTaxID reports whether input is an acceptable tax document. The field is
// optional, so empty input is valid. Eleven digits are checked as CPF,
// fourteen as CNPJ; any other length fails. Repeated-digit sequences
// ("11111111111") are rejected even when their check digits happen to match.
func ValidTaxID(input string) bool {
	digits := Digits(input)
	if digits == "" {
		return strings.TrimSpace(input) == ""
	}
	switch len(digits) {
	case cpfLength:
		return validCPF(digits)
	case cnpjLength:
		return validCNPJ(digits)
	default:
		return false
	}
}

func validCPF(digits string) bool {
	if allSameDigit(digits) {
		return false
	}
	// First verifier: weights 10..2 over the nine base digits.
	if cpfCheckDigit(digits[:9], 10) != int(digits[9]-'0') {
		return false
	}
	// Second verifier: weights 11..2 over the ten leading digits.
	return cpfCheckDigit(digits[:10], 11) == int(digits[10]-'0')
}

func cpfCheckDigit(base string, startWeight int) int {
	sum := 0
	for i, r := range base {
		sum += int(r-'0') * (startWeight - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

func validCNPJ(digits string) bool {
	if allSameDigit(digits) {
		return false
	}
	if cnpjCheckDigit(digits[:12]) != int(digits[12]-'0') {
		return false
	}
	return cnpjCheckDigit(digits[:13]) == int(digits[13]-'0')
}

// cnpjCheckDigit computes a CNPJ verifier using weights cycling 2..9 from the
// rightmost base digit.
func cnpjCheckDigit(base string) int {
	weight := 2
	sum := 0
	for i := len(base) - 1; i >= 0; i-- {
		sum += int(base[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	d := sum % 11
	if d < 2 {
		return 0
	}
	return 11 - d
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return len(digits) > 0
}

// applyMask fills '#' slots with digits, emitting literal separators only
// while digits remain.
func applyMask(digits, mask string) string {
	var b strings.Builder
	b.Grow(len(mask))
	pos := 0
	for _, r := range mask {
		if pos >= len(digits) {
			break
		}
		if r == '#' {
			b.WriteByte(digits[pos])
			pos++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
