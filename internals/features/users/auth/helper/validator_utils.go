package helpers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"library_backend/internals/helpers/errs"
)

const (
	UsernameMaxLength = 150
	PasswordMinLength = 8
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
var allDigits = regexp.MustCompile(`^[0-9]+$`)

// ValidateRegisterInput applies the account-creation rules: a short username
// of letters, digits and @.+-_, and a confirmed password that is long enough
// and not purely numeric.
func ValidateRegisterInput(username, password1, password2 string) *errs.ValidationError {
	verr := &errs.ValidationError{}

	switch {
	case strings.TrimSpace(username) == "":
		verr.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) > UsernameMaxLength:
		verr.Add("username", "Ensure this value has at most 150 characters.")
	case !usernamePattern.MatchString(username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if password1 == "" {
		verr.Add("password1", "This field is required.")
	}
	if password2 == "" {
		verr.Add("password2", "This field is required.")
	}
	if password1 == "" || password2 == "" {
		return verr
	}

	if password1 != password2 {
		verr.Add("password2", "The two password fields didn't match.")
		return verr
	}
	if utf8.RuneCountInString(password1) < PasswordMinLength {
		verr.Add("password2", "This password is too short. It must contain at least 8 characters.")
	}
	if allDigits.MatchString(password1) {
		verr.Add("password2", "This password is entirely numeric.")
	}
	return verr
}
