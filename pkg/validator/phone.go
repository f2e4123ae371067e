package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates the national number is not 8 digits
	ErrInvalidLength = errors.New("phone number must be exactly 8 digits")

	// ErrInvalidPrefix indicates the number does not start with a Tunisian operator digit
	ErrInvalidPrefix = errors.New("phone number must start with 2, 3, 4, 5, 7 or 9")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// mobilePrefixes are the leading digits allocated to Tunisian networks
var mobilePrefixes = map[byte]struct{}{
	'2': {}, '3': {}, '4': {}, '5': {}, '7': {}, '9': {},
}

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a Tunisian phone number.
// Accepts 22123456, 22 123 456, +216 22 123 456 or 0021622123456
// and returns the 8 digit national number.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) != 8 {
		return "", ErrInvalidLength
	}

	if !v.IsValidPrefix(sanitized) {
		return "", ErrInvalidPrefix
	}

	return sanitized, nil
}

// Sanitize removes separators and the +216 / 00216 country code
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, ".", "")

	switch {
	case strings.HasPrefix(phone, "+216"):
		phone = phone[4:]
	case strings.HasPrefix(phone, "00216"):
		phone = phone[5:]
	case strings.HasPrefix(phone, "216") && len(phone) == 11:
		phone = phone[3:]
	}

	return phone
}

// IsValidPrefix checks the leading digit against known networks
func (v *PhoneValidator) IsValidPrefix(phone string) bool {
	if phone == "" {
		return false
	}
	_, ok := mobilePrefixes[phone[0]]
	return ok
}
