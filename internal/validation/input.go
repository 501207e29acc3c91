package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input length limits to prevent resource exhaustion
const (
	MaxNameLength  = 255
	MaxEmailLength = 320    // RFC 5321: 64 (local) + 1 (@) + 255 (domain)
	MaxPhoneLength = 20     // International E.164 format
	MaxBodyLength  = 100000 // 100KB for topic and article bodies
)

// ValidateName validates a contact or category name length.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	length := utf8.RuneCountInString(name)
	if length > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, length)
	}
	return nil
}

// ValidateEmail validates an email address length.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	length := utf8.RuneCountInString(email)
	if length > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, length)
	}
	return nil
}

// ValidateEmailFormat validates the format of an email address.
// Returns nil for empty emails (optional field).
func ValidateEmailFormat(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// ValidatePhoneFormat validates phone number format. Allows digits, spaces,
// dashes, parentheses, and a leading +. Returns nil for empty phones.
func ValidatePhoneFormat(phone string) error {
	if phone == "" {
		return nil
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return fmt.Errorf("phone number exceeds maximum length of %d characters", MaxPhoneLength)
	}
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			continue
		}
		return fmt.Errorf("invalid phone format: contains invalid character '%c'", r)
	}
	return nil
}

// ValidateBody validates topic or article body length.
func ValidateBody(body string) error {
	if len(body) > MaxBodyLength {
		return fmt.Errorf("body exceeds maximum size of %d bytes (got %d)", MaxBodyLength, len(body))
	}
	return nil
}

// ParsePositiveInt parses a string as a positive integer ID. A leading "#"
// is tolerated so ticket references like "#1042" work as arguments.
func ParsePositiveInt(s string, fieldName string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	id64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	if id64 <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", fieldName)
	}
	return int(id64), nil
}
