package validator

import "unicode/utf8"

// Bind applies a declarative rule to a single value, producing the same
// message and translation key a form field would report. Matches rules only
// see value itself and a custom predicate's message is not carried over.
func Bind(field string, value any, rule FieldRule) Rule {
	values := map[string]any{field: value}
	return Rule{
		Check: func() bool {
			return Evaluate(field, value, rule, values) == nil
		},
		Error: ruleError(field, rule, ""),
	}
}

// Required fails for an empty or whitespace-only string.
func Required(field, value string) Rule {
	return Bind(field, value, IsRequired())
}

// MinLen counts runes. Unlike HasMinLength it also fails an empty value.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= n },
		Error: ruleError(field, HasMinLength(n), ""),
	}
}

func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: ruleError(field, HasMaxLength(n), ""),
	}
}
