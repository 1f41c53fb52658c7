// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

var (
	// tokenValueRegex matches the alphanumeric alphabet token values are generated from
	tokenValueRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	// usernameRegex keeps usernames to a conservative character set
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// TokenValue validates that a string looks like a generated token value
var TokenValue = validation.NewStringRuleWithError(
	func(s string) bool {
		return tokenValueRegex.MatchString(s)
	},
	validation.NewError("validation_token_value", "must contain only letters and digits"),
)

// Username validates that a string is a well-formed username
var Username = validation.NewStringRuleWithError(
	func(s string) bool {
		return usernameRegex.MatchString(s)
	},
	validation.NewError("validation_username", "must contain only letters, digits, dots, underscores or hyphens"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
