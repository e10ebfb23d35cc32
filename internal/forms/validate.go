package forms

import (
	"regexp"
	"strings"
)

// Form field names as submitted by the hosted pages
const (
	FieldWaitlistEmail = "Waitlist-Member-Email"
	FieldName          = "Name"
	FieldEmail         = "Email"
	FieldMessage       = "Message"
)

// emailPattern is deliberately permissive: one or more non-space, non-@
// characters, an @, more of the same, a dot, more of the same. Not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s matches the email pattern
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// RequireField validates a required field, treating absent, empty, and
// whitespace-only values as missing. Leading and trailing whitespace is
// stripped from the accepted value.
func RequireField(name, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: name, Kind: ValidationMissing}
	}
	return v, nil
}

// RequireEmail validates a required field and checks the email pattern
func RequireEmail(name, value string) (string, error) {
	v, err := RequireField(name, value)
	if err != nil {
		return "", err
	}
	if !ValidEmail(v) {
		return "", &ValidationError{Field: name, Kind: ValidationInvalidEmail}
	}
	return v, nil
}
