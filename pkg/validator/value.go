package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// IsEmpty reports whether value counts as "not provided": nil, a blank string,
// a zero time, or an empty slice, map or array.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case time.Time:
		return v.IsZero()
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return strings.TrimSpace(v.String()) == ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	}
	return false
}

// lengthOf returns the length used by min/max length rules: runes for text,
// element count for collections.
func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case fmt.Stringer:
		return utf8.RuneCountInString(v.String()), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		if rv.Kind() == reflect.String {
			return utf8.RuneCountInString(rv.String()), true
		}
		return rv.Len(), true
	case reflect.Pointer:
		if rv.IsNil() {
			return 0, true
		}
		return lengthOf(rv.Elem().Interface())
	}
	return 0, false
}

// textOf renders a value as the text a user would have typed.
func textOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}

// isNumericValue accepts Go numeric kinds and strings that parse as a finite number.
func isNumericValue(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return IsNumericString(textOf(value))
}

// equalValues compares two field values the way a user perceives them.
func equalValues(a, b any) bool {
	if IsEmpty(a) && IsEmpty(b) {
		return true
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() {
		return a == b
	}
	return textOf(a) == textOf(b)
}
