package validator

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

var (
	// Optional leading plus followed by 1 to 16 digits.
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{1,16}$`)

	// Separators people type inside phone numbers.
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// isEmail accepts addresses of the local@domain.tld shape.
func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}

	// Domain must contain at least one dot and cannot start/end with dot
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func isPhone(value string) bool {
	return phoneRegex.MatchString(phoneSeparators.Replace(strings.TrimSpace(value)))
}

// isURL accepts absolute http and https URLs with a host.
func isURL(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ValidEmail validates that a string is a valid email address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			Type:           string(KindEmail),
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidURL validates that a string is an http(s) URL.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isURL(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid URL",
			Type:           string(KindURL),
			TranslationKey: "validation.url",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidPhone validates an international phone number; spaces, dashes, dots
// and parentheses are ignored.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isPhone(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid phone number",
			Type:           string(KindPhone),
			TranslationKey: "validation.phone",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
