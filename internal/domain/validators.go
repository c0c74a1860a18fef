package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	nameRegex  = regexp.MustCompile(`^[\p{L}][\p{L}\-' ]*$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ]{6,20}$`)
)

// ValidateMemberName checks a name or surname. Dots are rejected because they
// separate the two halves of the login identity.
func ValidateMemberName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !nameRegex.MatchString(v) {
		return fmt.Errorf("invalid %s: %q", field, v)
	}
	return nil
}

// ValidatePhone checks a phone number.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone is required")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone format")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// ValidateGuestName checks a free-text guest name.
func ValidateGuestName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("guest name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("guest name is too long")
	}
	return nil
}

// ParseMatchDay parses a YYYY-MM-DD match day.
func ParseMatchDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid match day %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidateMovement checks the user-supplied parts of a ledger entry.
func ValidateMovement(t MovementType, amount float64) error {
	if !t.Valid() {
		return fmt.Errorf("invalid movement type: %s", t)
	}
	if amount == 0 {
		return fmt.Errorf("amount must not be zero")
	}
	return nil
}
