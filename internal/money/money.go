// Package money renders monetary values using Brazilian conventions
// (pt-BR grouping and comma decimals).
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Display formats v with two decimals and pt-BR grouping: 1234.5 -> "1.234,50".
func Display(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v,
		number.Scale(2),
		number.MinFractionDigits(2),
	))
}

// DisplayString parses s (comma decimals and dot grouping accepted) and
// renders it like Display. Empty or non-numeric input yields "0,00".
func DisplayString(s string) string {
	return Display(Parse(s))
}

// Parse converts a pt-BR styled amount into a float64. Grouping dots are
// dropped and the decimal comma honored; non-numeric input yields 0.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// MaskDigits interprets a raw digit string as centavos and renders a masked
// currency value for live input: "12345" -> "R$ 123,45".
func MaskDigits(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		cents = 0
	}
	return "R$ " + Display(float64(cents)/100)
}
