// Package validation checks records before they are written. Messages are
// user-facing and kept in Portuguese.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "condo/internal/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00D6}\x{00D8}-\x{00F6}\x{00F8}-\x{00FF}\s]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9()\-\s+]+$`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// Validator collects the first failing message per field.
type Validator struct {
	errors map[string]string
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make(map[string]string),
	}
}

// Validate checks if there are any validation errors
func (v *Validator) Validate() bool {
	return len(v.errors) == 0
}

// Errors returns the validation errors
func (v *Validator) Errors() map[string]string {
	return v.errors
}

// AddError records message for key unless key already failed.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.errors[key]; !exists {
		v.errors[key] = message
	}
}

// Check records message when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Err returns nil when valid, otherwise a validation AppError carrying the
// collected field messages.
func (v *Validator) Err() error {
	if v.Validate() {
		return nil
	}
	fields := make(map[string]string, len(v.errors))
	for k, m := range v.errors {
		fields[k] = m
	}
	return apperrors.Validation(fields)
}

// Required fails on blank strings.
func (v *Validator) Required(value, key, message string) {
	v.Check(strings.TrimSpace(value) != "", key, message)
}

// MinLength counts characters, not bytes, after trimming.
func (v *Validator) MinLength(value string, min int, key, message string) {
	v.Check(utf8.RuneCountInString(strings.TrimSpace(value)) >= min, key, message)
}

// MaxLength counts characters, not bytes.
func (v *Validator) MaxLength(value string, max int, key, message string) {
	v.Check(utf8.RuneCountInString(value) <= max, key, message)
}

// Email validates an email address format
func (v *Validator) Email(value, key, message string) {
	v.Check(emailRegex.MatchString(value), key, message)
}

// Float validates that value parses as a number. A decimal comma is accepted.
func (v *Validator) Float(value, key, message string) (float64, bool) {
	f, err := ParseNumber(value)
	v.Check(err == nil, key, message)
	return f, err == nil
}

// Date validates a YYYY-MM-DD or RFC3339 date.
func (v *Validator) Date(value, key, message string) (time.Time, bool) {
	t, err := ParseDate(value)
	v.Check(err == nil, key, message)
	return t, err == nil
}

// OneOf validates if a value is one of the allowed values
func (v *Validator) OneOf(value string, allowed []string, key, message string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(key, message)
}

// Regex validates value against a compiled pattern.
func (v *Validator) Regex(value string, pattern *regexp.Regexp, key, message string) {
	v.Check(pattern.MatchString(value), key, message)
}

// ParseNumber parses a monetary amount. Currency symbols and thousands
// separators are dropped and a decimal comma becomes a point.
func ParseNumber(value string) (float64, error) {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// ParseDate accepts YYYY-MM-DD, YYYY-MM-DDTHH:MM (HTML datetime-local) and RFC3339.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var err error
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
