package validator

import (
	"fmt"
	"slices"
	"strings"
)

// InList requires value to be one of allowed. The allowed values are listed
// in the message and passed as the "allowed" translation value.
func InList[T comparable](field string, value T, allowed []T) Rule {
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = fmt.Sprint(v)
	}
	list := strings.Join(names, ", ")

	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be one of: " + list,
			Type:           "in_list",
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":   field,
				"allowed": list,
			},
		},
	}
}
