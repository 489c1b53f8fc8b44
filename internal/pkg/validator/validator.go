package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToMap keeps the first message reported for each field.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		if _, exists := result[err.Field]; exists {
			continue
		}
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no errors were collected, so callers can
// `return errs.Err()` without the typed-nil trap.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ExceedsLength reports whether s has more than limit runes.
func ExceedsLength(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(time.DateOnly, dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Username validation: 1-150 chars, letters, digits and @ . + - _
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)

func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}
