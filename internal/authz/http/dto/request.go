// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// CheckTokenRequest contains the parameters for a token-based authorization check.
// Groups may be empty: an empty required set is trivially satisfied.
type CheckTokenRequest struct {
	Token  string   `json:"token"`
	Groups []string `json:"groups"`
}

// Validate checks if the check token request is valid.
func (r *CheckTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.TokenValue,
		),
		validation.Field(&r.Groups,
			validation.Each(customValidation.NotBlank),
		),
	)
}

// CheckUserRequest contains the parameters for a user-based authorization check.
type CheckUserRequest struct {
	User   string   `json:"user"`
	Groups []string `json:"groups"`
}

// Validate checks if the check user request is valid.
func (r *CheckUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.User,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Groups,
			validation.Each(customValidation.NotBlank),
		),
	)
}
