// Package validator provides the rule evaluation layer used by forms and the
// booking wizard.
//
// Two rule styles live side by side:
//
//   - FieldRule is a declarative, value-independent description of a
//     constraint (required, email, min/max length, pattern, number, phone,
//     URL, date, matches another field, custom predicate). Forms declare
//     them once per field and evaluate them against the current value map
//     with Evaluate or EvaluateAll. EvaluateAll stops at the first failing
//     rule, so a field never reports more than one error at a time.
//   - Rule binds a Check func to a concrete value and is combined with
//     Apply, which aggregates every failure into ValidationErrors. It suits
//     imperative checks such as wizard step gates. Bind turns a FieldRule into
//     a Rule with the same message and translation key.
//
// Format rules (email, phone, URL, number, date, pattern, lengths) pass when
// the value is empty; pair them with IsRequired to make a field mandatory.
//
// # Usage
//
//	rules := []validator.FieldRule{
//	    validator.IsRequired(),
//	    validator.IsEmail().WithMessage("enter the email used for the booking"),
//	}
//	if verr := validator.EvaluateAll("email", values["email"], rules, values); verr != nil {
//	    // verr.Message, verr.Type, verr.TranslationKey
//	}
//
//	err := validator.Apply(
//	    validator.FutureDate("date", slot),
//	    validator.MinNum("guests", guests, 1),
//	)
//
// # Error Handling
//
// ValidationErrors implements error; use ExtractValidationErrors or
// IsValidationError to detect it behind wrapped errors. Every
// ValidationError carries a TranslationKey and TranslationValues so callers
// can render localized messages.
package validator
