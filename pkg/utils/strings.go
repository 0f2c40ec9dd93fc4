package utils

import (
	"strings"
	"unicode"
)

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// TitleWords splits s on underscores and capitalizes each word.
// "pending_quantity" becomes "Pending Quantity".
func TitleWords(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		words[i] = Capitalize(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "Not Set"
	}
	return "***" + s[len(s)-4:]
}
