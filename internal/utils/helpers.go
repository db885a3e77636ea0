package utils

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SameEmail reports whether two email addresses identify the same account.
// Emails compare case-insensitively and ignore surrounding whitespace.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NormalizeEmail trims an email address for storage.
// The original casing is kept so it can be displayed back to the user.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
//
// For example: "user@example.com" becomes "u**r@example.com"
//
// Parameters:
//   - email: the email address to mask
//
// Returns:
//   - the masked email address, or the original string if it's not a valid email format
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// SanitizeFilePart reduces s to lowercase ASCII letters, digits, dashes and underscores
// so it can be embedded in a file name. An empty result becomes "usuario".
func SanitizeFilePart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == '.' || unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "usuario"
	}
	return b.String()
}

// LocalPart returns the part of an email address before the @
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// RoundTo rounds v to the given number of decimals, halves away from zero
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// RuneLen returns the number of characters in s
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ContainsEmail checks if a slice of emails contains the given address.
//
// Parameters:
//   - slice: the stored emails
//   - email: the email to look for
//
// Returns:
//   - true if an equal email is found, false otherwise
func ContainsEmail(slice []string, email string) bool {
	for _, item := range slice {
		if SameEmail(item, email) {
			return true
		}
	}
	return false
}

// RemoveEmail removes all occurrences of an email from a slice.
// This function creates a new slice rather than modifying the original.
//
// Parameters:
//   - slice: the original slice of emails
//   - email: the email to remove
//
// Returns:
//   - a new slice with every matching email removed
func RemoveEmail(slice []string, email string) []string {
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if !SameEmail(item, email) {
			result = append(result, item)
		}
	}
	return result
}
