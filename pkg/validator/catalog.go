package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength  = 100
	maxRegNoLength = 20
)

var (
	// ErrEmptyRegNo indicates a missing registration number
	ErrEmptyRegNo = errors.New("registration number is required")

	// ErrInvalidRegNo indicates a registration number with unexpected characters or length
	ErrInvalidRegNo = errors.New("registration number may only contain letters, digits, '/' and '-' (max 20)")

	// ErrEmptyName indicates a missing display name
	ErrEmptyName = errors.New("name is required")

	// ErrNameTooLong indicates a name over the column width
	ErrNameTooLong = fmt.Errorf("name must be at most %d characters", maxNameLength)

	// ErrInvalidPrice indicates a non-positive or over-precise price
	ErrInvalidPrice = errors.New("price must be a positive amount with at most 2 decimals")

	// ErrInvalidRoleID indicates a role ID outside the R### convention
	ErrInvalidRoleID = errors.New("role ID must look like R001")
)

var (
	regNoRegex  = regexp.MustCompile(`^[A-Za-z0-9/-]+$`)
	roleIDRegex = regexp.MustCompile(`^R\d{3,}$`)
)

// ValidateRegNo trims and checks a student registration number
func ValidateRegNo(regNo string) (string, error) {
	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return "", ErrEmptyRegNo
	}
	if len(regNo) > maxRegNoLength || !regNoRegex.MatchString(regNo) {
		return "", ErrInvalidRegNo
	}
	return regNo, nil
}

// ValidateName trims and checks a catalog display name
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// ValidatePrice checks that a price is positive with at most two decimals
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return ErrInvalidPrice
	}
	cents := price * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateRoleID checks the R### role ID convention
func ValidateRoleID(roleID string) error {
	if !roleIDRegex.MatchString(roleID) {
		return ErrInvalidRoleID
	}
	return nil
}
