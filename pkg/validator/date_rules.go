package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayouts lists the textual layouts ParseDate accepts, tried in order.
var DateLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDate interprets value as a calendar date or timestamp. time.Time values
// are returned as is; strings are tried against DateLayouts.
func ParseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, errors.New("zero time")
		}
		return v, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, errors.New("zero time")
		}
		return *v, nil
	}

	s := strings.TrimSpace(textOf(value))
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func FutureDate(field string, value time.Time) Rule {
	return FutureDateAt(field, value, time.Now())
}

// FutureDateAt is FutureDate with an explicit reference instant.
func FutureDateAt(field string, value, now time.Time) Rule {
	return Rule{
		Check: func() bool {
			return value.After(now)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "date must be in the future",
			Type:           "date_future",
			TranslationKey: "validation.date_future",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

func DateBefore(field string, value time.Time, before time.Time) Rule {
	return Rule{
		Check: func() bool {
			return value.Before(before)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("date must be before %s", before.Format(time.DateOnly)),
			Type:           "date_before",
			TranslationKey: "validation.date_before",
			TranslationValues: map[string]any{
				"field":  field,
				"before": before.Format(time.DateOnly),
			},
		},
	}
}

// DateNotAfter passes when value is before or equal to limit.
func DateNotAfter(field string, value time.Time, limit time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.After(limit)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("date must not be after %s", limit.Format(time.DateOnly)),
			Type:           "date_not_after",
			TranslationKey: "validation.date_not_after",
			TranslationValues: map[string]any{
				"field": field,
				"limit": limit.Format(time.DateOnly),
			},
		},
	}
}
