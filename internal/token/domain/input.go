package domain

// CreateTokenInput carries the parameters for issuing a new token.
type CreateTokenInput struct {
	// Owner is the user identifier the token will be bound to.
	Owner string

	// Message is a free-text provenance note recorded at creation
	// (e.g. "Created by owner via web interface").
	Message string
}

// RevokeTokenInput carries the parameters for revoking a token.
type RevokeTokenInput struct {
	// Value identifies the token to revoke.
	Value string

	// Owner is the user the caller is entitled to act as. Revocation fails
	// with ErrTokenNotOwned when it doesn't match the token's owner, unless
	// ActAsAdmin is set.
	Owner string

	// Message is a free-text provenance note recorded at revocation.
	Message string

	// ActAsAdmin bypasses the owner match. Callers must only set this after
	// the access-control evaluator has allowed the administrative action.
	ActAsAdmin bool
}
