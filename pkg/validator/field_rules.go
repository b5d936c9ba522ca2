package validator

import (
	"fmt"
	"regexp"
)

// Kind identifies the constraint a FieldRule enforces.
type Kind string

const (
	KindRequired  Kind = "required"
	KindEmail     Kind = "email"
	KindMinLength Kind = "min_length"
	KindMaxLength Kind = "max_length"
	KindPattern   Kind = "pattern"
	KindNumber    Kind = "number"
	KindPhone     Kind = "phone"
	KindURL       Kind = "url"
	KindDate      Kind = "date"
	KindMatches   Kind = "matches"
	KindCustom    Kind = "custom"
)

// Predicate is the check behind a custom rule. It receives the field value and
// the whole value map. ok=false fails the rule; a non-empty message replaces
// the rule's default message.
type Predicate func(value any, values map[string]any) (ok bool, message string)

// FieldRule is a declarative, value-independent rule attached to a form field.
// Only the parameters relevant to Kind are read.
type FieldRule struct {
	Kind      Kind
	Message   string
	Length    int
	Pattern   *regexp.Regexp
	Field     string
	Predicate Predicate
}

// WithMessage returns a copy of the rule whose failures report msg. A message
// returned by a custom predicate still takes precedence.
func (r FieldRule) WithMessage(msg string) FieldRule {
	r.Message = msg
	return r
}

// Validate reports configuration mistakes such as a pattern rule without a pattern.
func (r FieldRule) Validate() error {
	switch r.Kind {
	case KindRequired, KindEmail, KindNumber, KindPhone, KindURL, KindDate:
		return nil
	case KindMinLength, KindMaxLength:
		if r.Length < 0 {
			return fmt.Errorf("%w: %s length must not be negative", ErrInvalidRule, r.Kind)
		}
	case KindPattern:
		if r.Pattern == nil {
			return fmt.Errorf("%w: pattern rule without a pattern", ErrInvalidRule)
		}
	case KindMatches:
		if r.Field == "" {
			return fmt.Errorf("%w: matches rule without a target field", ErrInvalidRule)
		}
	case KindCustom:
		if r.Predicate == nil {
			return fmt.Errorf("%w: custom rule without a predicate", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRuleKind, r.Kind)
	}
	return nil
}

func IsRequired() FieldRule { return FieldRule{Kind: KindRequired} }

func IsEmail() FieldRule { return FieldRule{Kind: KindEmail} }

func HasMinLength(n int) FieldRule { return FieldRule{Kind: KindMinLength, Length: n} }

func HasMaxLength(n int) FieldRule { return FieldRule{Kind: KindMaxLength, Length: n} }

func MatchesPattern(re *regexp.Regexp) FieldRule { return FieldRule{Kind: KindPattern, Pattern: re} }

func IsNumber() FieldRule { return FieldRule{Kind: KindNumber} }

func IsPhone() FieldRule { return FieldRule{Kind: KindPhone} }

func IsURL() FieldRule { return FieldRule{Kind: KindURL} }

func IsDate() FieldRule { return FieldRule{Kind: KindDate} }

// MatchesField requires the value to equal the value of another field,
// e.g. a password confirmation.
func MatchesField(field string) FieldRule { return FieldRule{Kind: KindMatches, Field: field} }

func Custom(p Predicate) FieldRule { return FieldRule{Kind: KindCustom, Predicate: p} }

// DefaultMessage returns the message reported when the rule has no override.
func (r FieldRule) DefaultMessage() string {
	switch r.Kind {
	case KindRequired:
		return "field is required"
	case KindEmail:
		return "must be a valid email address"
	case KindMinLength:
		return fmt.Sprintf("must be at least %d characters long", r.Length)
	case KindMaxLength:
		return fmt.Sprintf("must be at most %d characters long", r.Length)
	case KindPattern:
		return "has an invalid format"
	case KindNumber:
		return "must be a valid number"
	case KindPhone:
		return "must be a valid phone number"
	case KindURL:
		return "must be a valid URL"
	case KindDate:
		return "must be a valid date"
	case KindMatches:
		return fmt.Sprintf("must match %s", r.Field)
	default:
		return "invalid value"
	}
}

// TranslationKey returns the i18n key for the rule's default message.
func (r FieldRule) TranslationKey() string {
	return "validation." + string(r.Kind)
}

// Evaluate checks value against a single rule. values is the full field map,
// consulted by matches and custom rules. It returns nil when the rule passes.
func Evaluate(field string, value any, rule FieldRule, values map[string]any) *ValidationError {
	ok, msg := check(value, rule, values)
	if ok {
		return nil
	}

	verr := ruleError(field, rule, msg)
	return &verr
}

// ruleError builds the error reported when rule fails for field. A non-empty
// msg from a custom predicate wins, then the rule's override, then the
// default message.
func ruleError(field string, rule FieldRule, msg string) ValidationError {
	params := map[string]any{"field": field}
	switch rule.Kind {
	case KindMinLength:
		params["min"] = rule.Length
	case KindMaxLength:
		params["max"] = rule.Length
	case KindMatches:
		params["other"] = rule.Field
	}

	switch {
	case msg != "":
	case rule.Message != "":
		msg = rule.Message
	default:
		msg = rule.DefaultMessage()
	}

	return ValidationError{
		Field:             field,
		Message:           msg,
		Type:              string(rule.Kind),
		TranslationKey:    rule.TranslationKey(),
		TranslationValues: params,
	}
}

// EvaluateAll runs rules in declaration order and returns the first failure.
func EvaluateAll(field string, value any, rules []FieldRule, values map[string]any) *ValidationError {
	for _, rule := range rules {
		if err := Evaluate(field, value, rule, values); err != nil {
			return err
		}
	}
	return nil
}

// check returns whether value satisfies rule, plus an optional message
// supplied by a custom predicate.
func check(value any, rule FieldRule, values map[string]any) (bool, string) {
	switch rule.Kind {
	case KindRequired:
		return !IsEmpty(value), ""
	case KindMatches:
		return equalValues(value, values[rule.Field]), ""
	case KindCustom:
		if rule.Predicate == nil {
			return true, ""
		}
		return rule.Predicate(value, values)
	}

	// Format rules only judge values that were actually provided.
	if IsEmpty(value) {
		return true, ""
	}

	switch rule.Kind {
	case KindEmail:
		return isEmail(textOf(value)), ""
	case KindPhone:
		return isPhone(textOf(value)), ""
	case KindURL:
		return isURL(textOf(value)), ""
	case KindNumber:
		return isNumericValue(value), ""
	case KindDate:
		_, err := ParseDate(value)
		return err == nil, ""
	case KindPattern:
		if rule.Pattern == nil {
			return true, ""
		}
		return rule.Pattern.MatchString(textOf(value)), ""
	case KindMinLength:
		n, ok := lengthOf(value)
		return !ok || n >= rule.Length, ""
	case KindMaxLength:
		n, ok := lengthOf(value)
		return !ok || n <= rule.Length, ""
	}
	return false, ""
}
