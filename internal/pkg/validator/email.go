package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

// ValidateEmail checks the address shape only. The hiring service owns the
// decision about which domains it accepts.
func ValidateEmail(email string) error {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("invalid email format")
	}

	if !strings.Contains(parts[1], ".") {
		return errors.New("email domain must contain a dot")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidateRegNo requires at least one digit, since the question assignment is
// derived from the trailing digits.
func ValidateRegNo(regNo string) error {
	if strings.TrimSpace(regNo) == "" {
		return errors.New("registration number is required")
	}
	for _, r := range regNo {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return errors.New("registration number contains no digits")
}
