package brdoc

import (
	"regexp"
	"strings"
	"unicode"
)

// Connector words stay lowercase unless they open the name.
var nameConnectors = map[string]bool{
	"de":  true,
	"da":  true,
	"do":  true,
	"das": true,
	"dos": true,
	"e":   true,
}

// Tokens with a fixed capitalization. These win over the connector rule and
// over the first-word rule.
var nameSpecials = map[string]string{
	"ii":  "II",
	"iii": "III",
	"iv":  "IV",
	"v":   "V",
	"x":   "X",
	"mc":  "Mc",
	"mac": "Mac",
	"o'":  "O'",
}

// Letters (including the accented Latin-1 supplement range), spaces,
// apostrophe and hyphen.
var namePattern = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ' -]+$`)

// FormatPersonName normalizes a free-text person name: trims, lowercases, then
// title-cases each word. Connector words ("da", "dos", ...) keep lowercase
// when they are not the first word; special-case tokens (roman numerals,
// "Mc", "Mac", "O'") always take their fixed form.
func FormatPersonName(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(trimmed))
	for i, word := range words {
		if fixed, ok := nameSpecials[word]; ok {
			words[i] = fixed
			continue
		}
		if i > 0 && nameConnectors[word] {
			continue
		}
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

// ValidPersonName reports whether input is an acceptable person name: 3 to 100
// characters after trimming, only letters/spaces/apostrophes/hyphens, and no
// run of consecutive spaces.
func ValidPersonName(input string) bool {
	trimmed := strings.TrimSpace(input)
	length := len([]rune(trimmed))
	if length < 3 || length > 100 {
		return false
	}
	if strings.Contains(trimmed, "  ") {
		return false
	}
	return namePattern.MatchString(trimmed)
}

func titleWord(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
