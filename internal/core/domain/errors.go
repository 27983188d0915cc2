package domain

import "errors"

// ErrForbidden is returned when the acting principal lacks the privilege
// required for the requested mutation.
var ErrForbidden = errors.New("access forbidden")

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// DuplicatedError reports a violated uniqueness constraint.
type DuplicatedError struct {
	Entity string
}

func NewDuplicatedError(entity string) error {
	return &DuplicatedError{Entity: entity}
}

func (e *DuplicatedError) Error() string {
	return e.Entity + " already exists"
}

// FormError reports a field value that failed validation or comparison.
type FormError struct {
	Field string
}

func NewFormError(field string) error {
	return &FormError{Field: field}
}

func (e *FormError) Error() string {
	return "invalid " + e.Field
}
