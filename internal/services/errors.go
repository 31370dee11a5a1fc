package services

import (
	"errors"
	"fmt"
)

// Entities whose deletion can be blocked by references
const (
	EntityMenuItem = "menu item"
	EntityRole     = "role"
)

var (
	ErrStaffNotFound         = errors.New("User not found.")
	ErrInvalidPassword       = errors.New("Invalid password.")
	ErrStudentNotFound       = errors.New("Student not found. Please check your registration number.")
	ErrEmptyCart             = errors.New("No items selected. Please select at least one item.")
	ErrPaymentMethodRequired = errors.New("Please select a payment method.")
	ErrInvalidPaymentMethod  = errors.New("Invalid payment method selected.")
)

// ReferencedError is returned when a delete is blocked because other rows still point at the record
type ReferencedError struct {
	Entity string
	Count  int
}

func (e *ReferencedError) Error() string {
	switch e.Entity {
	case EntityMenuItem:
		return fmt.Sprintf("Cannot delete menu item. It is referenced in %d order(s).", e.Count)
	case EntityRole:
		return fmt.Sprintf("Cannot delete role. It is currently assigned to %d staff member(s).", e.Count)
	}
	return fmt.Sprintf("Cannot delete %s. It is referenced by %d record(s).", e.Entity, e.Count)
}

// ValidationError carries a message the user can act on
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the text to flash for err. Errors that are not meant
// for users get the fallback.
func UserMessage(err error, fallback string) string {
	var referenced *ReferencedError
	var validation *ValidationError
	switch {
	case errors.As(err, &referenced):
		return referenced.Error()
	case errors.As(err, &validation):
		return validation.Message
	case errors.Is(err, ErrStaffNotFound),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrPaymentMethodRequired),
		errors.Is(err, ErrInvalidPaymentMethod):
		return err.Error()
	}
	return fallback
}
