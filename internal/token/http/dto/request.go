// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// RevokeTokenRequest contains the parameters for revoking a token.
type RevokeTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the revoke token request is valid.
func (r *RevokeTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.TokenValue,
			validation.Length(tokenDomain.ValueLength, tokenDomain.ValueLength),
		),
	)
}
