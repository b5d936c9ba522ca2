// Package form implements the validation engine behind every input screen of
// the booking client.
//
// An Engine is created from a list of FieldConfig values, each carrying an
// ordered list of validator.FieldRule. The engine owns a State (values,
// errors, touched fields, dirty and submitting flags) and changes it only
// through the pure Reduce function, so every transition can be tested on its
// own.
//
// Field validation never runs inside the update that changed a value. SetValue
// and MarkFieldAsTouched first commit the change, then hand validation tasks
// to a Scheduler. The default Queue drains on the caller's goroutine right
// after the commit; WithScheduler plugs in an external loop. Tasks always read
// the values current at the time they run.
//
// Changing a field also revalidates the fields that depend on it, either
// through FieldConfig.Dependencies or through a validator.MatchesField rule:
//
//	eng, err := form.New([]form.FieldConfig{
//		{Name: "newPassword", Rules: []validator.FieldRule{validator.IsRequired(), validator.HasMinLength(6)}},
//		{Name: "confirmPassword", Rules: []validator.FieldRule{validator.MatchesField("newPassword")}},
//	}, form.WithSubmitHandler(save))
//
// HandleSubmit is guarded against re-entrancy and returns ErrSubmitInProgress
// while a submission is running.
package form
