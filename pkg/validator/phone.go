package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number length is not 10 digits
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidPrefix indicates phone number doesn't start with a Kenyan mobile prefix
	ErrInvalidPrefix = errors.New("phone number must start with 07 or 01")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles Kenyan mobile number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a Kenyan mobile number.
// Accepts 0712345678, 0712 345 678, +254712345678 or 254712345678 and
// returns the national form (0712345678).
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) != 10 {
		return "", ErrInvalidLength
	}

	if !v.IsValidPrefix(sanitized) {
		return "", ErrInvalidPrefix
	}

	return sanitized, nil
}

// Sanitize removes separators and folds the 254 country code into a leading 0
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "").Replace(phone)

	if strings.HasPrefix(phone, "254") && len(phone) == 12 {
		phone = "0" + phone[3:]
	}

	return phone
}

// IsValidPrefix checks for the 07XX and 01XX mobile ranges
func (v *PhoneValidator) IsValidPrefix(phone string) bool {
	return strings.HasPrefix(phone, "07") || strings.HasPrefix(phone, "01")
}

// Normalize returns the E.164 form, e.g. +254712345678
func (v *PhoneValidator) Normalize(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}
	return "+254" + sanitized[1:], nil
}

// Format formats a phone number for display: 07XX XXX XXX
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s %s",
		sanitized[0:4],
		sanitized[4:7],
		sanitized[7:10],
	), nil
}

// Display formats a stored number, falling back to the raw value when it is not valid
func (v *PhoneValidator) Display(phone string) string {
	formatted, err := v.Format(phone)
	if err != nil {
		return phone
	}
	return formatted
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
