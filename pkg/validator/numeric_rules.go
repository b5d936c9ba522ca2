package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IsNumericString reports whether s parses as a finite decimal number.
func IsNumericString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// MinNum validates that a numeric value is greater than or equal to the minimum.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %v", min),
			Type:           "min",
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %v", max),
			Type:           "max",
			TranslationKey: "validation.max",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// Min is an alias for MinNum for common numeric validation.
func Min[T Numeric](field string, value T, min T) Rule {
	return MinNum(field, value, min)
}

// Max is an alias for MaxNum for common numeric validation.
func Max[T Numeric](field string, value T, max T) Rule {
	return MaxNum(field, value, max)
}
