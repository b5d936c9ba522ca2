package form

import "errors"

var (
	ErrNoFields          = errors.New("form has no fields")
	ErrEmptyFieldName    = errors.New("form field name is empty")
	ErrDuplicateField    = errors.New("duplicate form field")
	ErrUnknownField      = errors.New("unknown form field")
	ErrUnknownDependency = errors.New("field depends on an unknown field")
	ErrSubmitInProgress  = errors.New("form submission already in progress")
)
