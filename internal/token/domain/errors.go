package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Token lifecycle errors.
var (
	// ErrTokenNotFound indicates no token with the specified value exists.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrTokenValueExists indicates a freshly generated value collided with an
	// existing token. The lifecycle manager regenerates and retries on this.
	ErrTokenValueExists = errors.Wrap(errors.ErrConflict, "token value already exists")

	// ErrTokenAlreadyRevoked indicates a revoke was attempted on a token that
	// is already revoked. Double revocation is reported as a conflict rather
	// than succeeding silently.
	ErrTokenAlreadyRevoked = errors.Wrap(errors.ErrConflict, "token already revoked")

	// ErrTokenNotOwned indicates the caller is not entitled to act on the token.
	ErrTokenNotOwned = errors.Wrap(errors.ErrForbidden, "token belongs to another user")

	// ErrValueGenerationExhausted indicates the bounded regenerate-and-retry
	// budget ran out. This signals a broken randomness source.
	ErrValueGenerationExhausted = errors.Wrap(
		errors.ErrResourceExhausted,
		"token value generation retries exhausted",
	)
)
