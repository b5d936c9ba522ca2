package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// SingleLine joins lines and collapses runs of whitespace into one space.
func SingleLine(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripHTML removes tags and unescapes entities.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTagRegex.ReplaceAllString(s, ""))
}

// RemoveControlChars drops ANSI escapes and control characters, keeping
// newlines and tabs.
func RemoveControlChars(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// LimitLength truncates s to at most n runes.
func LimitLength(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Multiline cleans a free text note: control characters and markup are
// removed, line breaks are kept and trailing blank lines dropped.
func Multiline(s string) string {
	s = StripHTML(RemoveControlChars(s))
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
