// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// TokenResponse represents a token in API responses.
// The value is the credential itself; records are only ever shown to their
// owner or to an admin who passed the access-control gate.
type TokenResponse struct {
	ID                string     `json:"id"`
	Token             string     `json:"token"`
	Owner             string     `json:"owner"`
	Status            string     `json:"status"`
	CreationMessage   string     `json:"creation_message"`
	RevocationMessage *string    `json:"revocation_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	RevokedAt         *time.Time `json:"revoked_at,omitempty"`
}

// MapTokenToResponse converts a domain token to an API response.
func MapTokenToResponse(token *tokenDomain.Token) TokenResponse {
	return TokenResponse{
		ID:                token.ID.String(),
		Token:             token.Value,
		Owner:             token.Owner,
		Status:            string(token.Status),
		CreationMessage:   token.CreationMessage,
		RevocationMessage: token.RevocationMessage,
		CreatedAt:         token.CreatedAt,
		RevokedAt:         token.RevokedAt,
	}
}

// ListTokensResponse represents a list of tokens in API responses.
type ListTokensResponse struct {
	Data []TokenResponse `json:"data"`
}

// MapTokensToListResponse converts a slice of domain tokens to a list API response.
func MapTokensToListResponse(tokens []*tokenDomain.Token) ListTokensResponse {
	tokenResponses := make([]TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		tokenResponses = append(tokenResponses, MapTokenToResponse(token))
	}
	return ListTokensResponse{
		Data: tokenResponses,
	}
}
