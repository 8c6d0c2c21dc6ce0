// Package login implements credential validation and submission.
package login

import (
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted before submission.
const MinPasswordLength = 8

// Form is the raw login form input for one submission attempt.
type Form struct {
	Email    string
	Password string
	Remember bool
	// FormID identifies the rendered form instance.
	FormID string
}

// Rule is one declarative constraint: a predicate over the form and the
// message shown when it fails.
type Rule struct {
	Field   string
	Check   func(Form) bool
	Message string
}

var validate = validator.New()

// Rules is evaluated in order; the first failing rule per field wins.
var Rules = []Rule{
	{
		Field:   "email",
		Check:   func(f Form) bool { return validate.Var(f.Email, "required,email") == nil },
		Message: "Invalid email",
	},
	{
		Field:   "password",
		Check:   func(f Form) bool { return passwordLength(f.Password) >= MinPasswordLength },
		Message: "Password must be at least 8 characters",
	},
}

// passwordLength counts UTF-16 code units, so characters outside the BMP
// count twice, the same way browsers measure input length.
func passwordLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// FieldErrors maps a field name to its inline message.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Validate runs Rules against f.
func Validate(f Form) FieldErrors {
	fe := FieldErrors{}
	for _, r := range Rules {
		if _, failed := fe[r.Field]; failed {
			continue
		}
		if !r.Check(f) {
			fe[r.Field] = r.Message
		}
	}
	return fe
}
