package validator_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reservekit/pkg/validator"
)

func TestEvaluate_Required(t *testing.T) {
	t.Parallel()

	failing := []any{nil, "", "   ", []string{}, map[string]any{}, time.Time{}, (*string)(nil)}
	for _, v := range failing {
		err := validator.Evaluate("name", v, validator.IsRequired(), nil)
		require.NotNil(t, err, "%#v should fail required", v)
		assert.Equal(t, "field is required", err.Message)
		assert.Equal(t, "required", err.Type)
		assert.Equal(t, "validation.required", err.TranslationKey)
	}

	passing := []any{"x", 0, false, []string{"a"}, time.Now()}
	for _, v := range passing {
		assert.Nil(t, validator.Evaluate("name", v, validator.IsRequired(), nil), "%#v should pass required", v)
	}
}

func TestEvaluate_FormatRulesSkipEmptyValues(t *testing.T) {
	t.Parallel()

	rules := []validator.FieldRule{
		validator.IsEmail(),
		validator.IsPhone(),
		validator.IsURL(),
		validator.IsNumber(),
		validator.IsDate(),
		validator.HasMinLength(5),
		validator.HasMaxLength(1),
		validator.MatchesPattern(regexp.MustCompile(`^\d+$`)),
	}

	for _, rule := range rules {
		assert.Nil(t, validator.Evaluate("f", "", rule, nil), "rule %s must pass empty value", rule.Kind)
		assert.Nil(t, validator.Evaluate("f", nil, rule, nil), "rule %s must pass nil value", rule.Kind)
	}
}

func TestEvaluate_Email(t *testing.T) {
	t.Parallel()

	err := validator.Evaluate("email", "a@b", validator.IsEmail(), nil)
	require.NotNil(t, err)
	assert.Equal(t, validator.IsEmail().DefaultMessage(), err.Message)
	assert.Equal(t, "email", err.Type)

	assert.Nil(t, validator.Evaluate("email", "guest@example.mx", validator.IsEmail(), nil))
}

func TestEvaluate_Lengths(t *testing.T) {
	t.Parallel()

	err := validator.Evaluate("name", "Al", validator.HasMinLength(3), nil)
	require.NotNil(t, err)
	assert.Equal(t, "must be at least 3 characters long", err.Message)
	assert.Equal(t, 3, err.TranslationValues["min"])

	err = validator.Evaluate("notes", "abcdef", validator.HasMaxLength(5), nil)
	require.NotNil(t, err)
	assert.Equal(t, "must be at most 5 characters long", err.Message)
	assert.Equal(t, 5, err.TranslationValues["max"])

	assert.Nil(t, validator.Evaluate("tags", []string{"a", "b"}, validator.HasMaxLength(2), nil))
	assert.NotNil(t, validator.Evaluate("tags", []string{"a"}, validator.HasMinLength(2), nil))
}

func TestEvaluate_NumberAndDate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.Evaluate("guests", 3, validator.IsNumber(), nil))
	assert.Nil(t, validator.Evaluate("guests", "3.5", validator.IsNumber(), nil))
	assert.NotNil(t, validator.Evaluate("guests", "three", validator.IsNumber(), nil))

	assert.Nil(t, validator.Evaluate("date", "2025-06-01", validator.IsDate(), nil))
	assert.NotNil(t, validator.Evaluate("date", "someday", validator.IsDate(), nil))
}

func TestEvaluate_Pattern(t *testing.T) {
	t.Parallel()

	zip := validator.MatchesPattern(regexp.MustCompile(`^\d{5}$`)).WithMessage("enter a 5 digit postal code")

	assert.Nil(t, validator.Evaluate("zip", "06700", zip, nil))

	err := validator.Evaluate("zip", "0670", zip, nil)
	require.NotNil(t, err)
	assert.Equal(t, "enter a 5 digit postal code", err.Message)
	assert.Equal(t, "pattern", err.Type)
}

func TestEvaluate_Matches(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"newPassword":     "abc123",
		"confirmPassword": "abc124",
	}

	err := validator.Evaluate("confirmPassword", values["confirmPassword"], validator.MatchesField("newPassword"), values)
	require.NotNil(t, err)
	assert.Equal(t, "confirmPassword", err.Field)
	assert.Equal(t, "must match newPassword", err.Message)
	assert.Equal(t, "newPassword", err.TranslationValues["other"])

	values["confirmPassword"] = "abc123"
	assert.Nil(t, validator.Evaluate("confirmPassword", values["confirmPassword"], validator.MatchesField("newPassword"), values))

	t.Run("empty confirmation against set password fails", func(t *testing.T) {
		vals := map[string]any{"newPassword": "abc123", "confirmPassword": ""}
		assert.NotNil(t, validator.Evaluate("confirmPassword", "", validator.MatchesField("newPassword"), vals))
	})
}

func TestEvaluate_Custom(t *testing.T) {
	t.Parallel()

	even := validator.Custom(func(value any, _ map[string]any) (bool, string) {
		n, _ := value.(int)
		return n%2 == 0, ""
	})

	assert.Nil(t, validator.Evaluate("n", 4, even, nil))

	err := validator.Evaluate("n", 3, even, nil)
	require.NotNil(t, err)
	assert.Equal(t, "invalid value", err.Message)

	t.Run("predicate message wins over default", func(t *testing.T) {
		rule := validator.Custom(func(any, map[string]any) (bool, string) {
			return false, "venue is closed that day"
		})
		err := validator.Evaluate("date", "2025-01-01", rule, nil)
		require.NotNil(t, err)
		assert.Equal(t, "venue is closed that day", err.Message)
	})

	t.Run("predicate message wins over override", func(t *testing.T) {
		rule := validator.Custom(func(any, map[string]any) (bool, string) {
			return false, "from predicate"
		}).WithMessage("from override")
		err := validator.Evaluate("date", "2025-01-01", rule, nil)
		require.NotNil(t, err)
		assert.Equal(t, "from predicate", err.Message)
	})

	t.Run("override applies when predicate gives no message", func(t *testing.T) {
		rule := validator.Custom(func(any, map[string]any) (bool, string) {
			return false, ""
		}).WithMessage("from override")
		err := validator.Evaluate("date", "2025-01-01", rule, nil)
		require.NotNil(t, err)
		assert.Equal(t, "from override", err.Message)
	})

	t.Run("predicate sees all values", func(t *testing.T) {
		rule := validator.Custom(func(value any, values map[string]any) (bool, string) {
			return value != values["other"], "must differ"
		})
		assert.NotNil(t, validator.Evaluate("a", "x", rule, map[string]any{"other": "x"}))
		assert.Nil(t, validator.Evaluate("a", "x", rule, map[string]any{"other": "y"}))
	})
}

func TestEvaluateAll_FirstFailureWins(t *testing.T) {
	t.Parallel()

	rules := []validator.FieldRule{validator.IsRequired(), validator.IsEmail()}

	err := validator.EvaluateAll("email", "", rules, nil)
	require.NotNil(t, err)
	assert.Equal(t, "required", err.Type)

	err = validator.EvaluateAll("email", "a@b", rules, nil)
	require.NotNil(t, err)
	assert.Equal(t, "email", err.Type)

	assert.Nil(t, validator.EvaluateAll("email", "a@b.co", rules, nil))
}

func TestFieldRule_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.IsRequired().Validate())
	assert.NoError(t, validator.HasMinLength(0).Validate())
	assert.True(t, errors.Is(validator.HasMinLength(-1).Validate(), validator.ErrInvalidRule))
	assert.True(t, errors.Is(validator.MatchesPattern(nil).Validate(), validator.ErrInvalidRule))
	assert.True(t, errors.Is(validator.MatchesField("").Validate(), validator.ErrInvalidRule))
	assert.True(t, errors.Is(validator.Custom(nil).Validate(), validator.ErrInvalidRule))
	assert.True(t, errors.Is(validator.FieldRule{Kind: "credit_card"}.Validate(), validator.ErrUnknownRuleKind))
}
