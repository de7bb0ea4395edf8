package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"technuob.com/atomlift/utils"
)

const (
	msgMobileEmpty      = "Please enter mobile number"
	msgMobileLength     = "Mobile number must be 10 digits"
	msgMobilePrefix     = "Mobile number must start with 6, 7, 8, or 9"
	msgEmailEmpty       = "Please enter email address"
	msgEmailInvalid     = "Please enter a valid email address"
	mobileNumberDigits  = 10
	mobileLeadingDigits = "6789"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GetMobileNumberError returns "" for a valid Indian mobile number. Formatting characters such as
// spaces, dashes and a leading + are ignored, but the remaining digits must be exactly ten.
func GetMobileNumberError(s string) string {
	if strings.TrimSpace(s) == "" {
		return msgMobileEmpty
	}
	digits := utils.DigitsOnly(s)
	if len(digits) != mobileNumberDigits {
		return msgMobileLength
	}
	if !strings.ContainsRune(mobileLeadingDigits, rune(digits[0])) {
		return msgMobilePrefix
	}
	return ""
}

func ValidateMobileNumber(s string) bool {
	return GetMobileNumberError(s) == ""
}

func GetEmailError(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return msgEmailEmpty
	}
	if !emailPattern.MatchString(s) {
		return msgEmailInvalid
	}
	return ""
}

func ValidateEmail(s string) bool {
	return GetEmailError(s) == ""
}

// FormatMobileNumber keeps the first ten digits of what was typed.
func FormatMobileNumber(s string) string {
	digits := utils.DigitsOnly(s)
	if len(digits) > mobileNumberDigits {
		digits = digits[:mobileNumberDigits]
	}
	return digits
}

// ParseDate accepts YYYY-MM-DD or an ISO date-time and keeps only the calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := utils.ParseISOTime(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return utils.DateOf(*t), nil
}

// CompareDates returns -1, 0 or 1 as a is before, on or after b, ignoring time of day.
func CompareDates(a, b string) (int, error) {
	da, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	db, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return da.Compare(db), nil
}

// Identifier is a login identifier split into the field the backend expects. Exactly one of
// Email and Phone is set.
type Identifier struct {
	Email string
	Phone string
}

func (i Identifier) IsPhone() bool {
	return i.Phone != ""
}

// ClassifyIdentifier sends an email-shaped input as email, an input holding exactly ten digits as
// phone number and anything else (usernames) as email.
func ClassifyIdentifier(s string) Identifier {
	trimmed := strings.TrimSpace(s)
	if emailPattern.MatchString(trimmed) {
		return Identifier{Email: trimmed}
	}
	if digits := utils.DigitsOnly(trimmed); len(digits) == mobileNumberDigits {
		return Identifier{Phone: digits}
	}
	return Identifier{Email: trimmed}
}
