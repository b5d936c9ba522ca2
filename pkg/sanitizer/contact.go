package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// PersonName cleans a display name to a single line of text.
func PersonName(s string) string {
	return Apply(s, RemoveControlChars, StripHTML, SingleLine)
}

// Email lowercases the address and collapses repeated dots in the local part.
// Input without exactly one @ is only trimmed and lowercased.
func Email(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return s
	}
	local = strings.Trim(dotRegex.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}

// Phone keeps the digits of a phone number and a leading plus sign.
// Text without any digit is returned trimmed so validation can reject it.
func Phone(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if strings.TrimPrefix(b.String(), "+") == "" {
		return s
	}
	return b.String()
}
